//go:build cgo

package aom

/*
#cgo CFLAGS: -I/usr/include -I/usr/local/include
#cgo LDFLAGS: -laom

#include <aom/aom_encoder.h>
#include <aom/aomcx.h>

static const aom_codec_iface_t *cfg_iface_av1_cx(void) { return aom_codec_av1_cx(); }
*/
import "C"

// Usage selects the encoding preset the configuration defaults target.
type Usage int

const (
	UsageGoodQuality Usage = iota // offline quality-oriented encoding
	UsageRealtime                 // low-latency realtime encoding
	UsageAllIntra                 // every frame coded as intra
)

func (u Usage) native() C.uint {
	switch u {
	case UsageRealtime:
		return C.AOM_USAGE_REALTIME
	case UsageAllIntra:
		return C.AOM_USAGE_ALL_INTRA
	default:
		return C.AOM_USAGE_GOOD_QUALITY
	}
}

// RateControl selects the rate control algorithm.
type RateControl int

const (
	RateControlVBR RateControl = iota // variable bitrate
	RateControlCBR                    // constant bitrate
	RateControlCQ                     // constrained quality
	RateControlQ                      // constant quality
)

func (r RateControl) String() string {
	switch r {
	case RateControlVBR:
		return "VBR"
	case RateControlCBR:
		return "CBR"
	case RateControlCQ:
		return "CQ"
	case RateControlQ:
		return "Q"
	default:
		return "Unknown"
	}
}

func (r RateControl) native() C.enum_aom_rc_mode {
	switch r {
	case RateControlCBR:
		return C.AOM_CBR
	case RateControlCQ:
		return C.AOM_CQ
	case RateControlQ:
		return C.AOM_Q
	default:
		return C.AOM_VBR
	}
}

// Pass selects the multi-pass encoding phase.
type Pass int

const (
	PassSingle Pass = iota // one-pass encoding
	PassFirst              // first pass of a two-pass encode
	PassSecond             // second pass of a two-pass encode
)

func (p Pass) native() C.enum_aom_enc_pass {
	switch p {
	case PassFirst:
		return C.AOM_RC_FIRST_PASS
	case PassSecond:
		return C.AOM_RC_SECOND_PASS
	default:
		return C.AOM_RC_ONE_PASS
	}
}

// KeyframeMode selects automatic keyframe placement behavior.
type KeyframeMode int

const (
	KeyframeModeAuto     KeyframeMode = iota // encoder decides placement
	KeyframeModeDisabled                     // keyframes only where forced
)

func (k KeyframeMode) native() C.enum_aom_kf_mode {
	if k == KeyframeModeDisabled {
		return C.AOM_KF_DISABLED
	}
	return C.AOM_KF_AUTO
}

// SuperresMode selects frame super-resolution scaling behavior.
type SuperresMode int

const (
	SuperresNone    SuperresMode = iota // no frame superres
	SuperresFixed                       // scale per the given denominators
	SuperresRandom                      // random scaling, testing only
	SuperresQThresh                     // scale when quantizer crosses the thresholds
	SuperresAuto                        // encoder decides
)

func (s SuperresMode) native() C.aom_superres_mode {
	switch s {
	case SuperresFixed:
		return C.AOM_SUPERRES_FIXED
	case SuperresRandom:
		return C.AOM_SUPERRES_RANDOM
	case SuperresQThresh:
		return C.AOM_SUPERRES_QTHRESH
	case SuperresAuto:
		return C.AOM_SUPERRES_AUTO
	default:
		return C.AOM_SUPERRES_NONE
	}
}

// ErrorResilientDefault enables the feature set needed for streaming
// over lossy links, for use with EncoderConfig.ErrorResilient.
const ErrorResilientDefault = uint32(C.AOM_ERROR_RESILIENT_DEFAULT)

// EncoderConfig mirrors the engine's encoder configuration. Construct
// one with NewEncoderConfig and adjust it through the chainable
// setters; setters perform no numeric-range validation, the engine
// validates the whole configuration when a session is created from it.
//
// A live Encoder snapshots the configuration at creation. Later setter
// calls never affect existing sessions; create a new session to apply
// new settings.
type EncoderConfig struct {
	cfg       C.aom_codec_enc_cfg_t
	initFlags C.aom_codec_flags_t

	twopassStats []byte
	fpMBStats    []byte
}

// NewEncoderConfig creates a configuration populated with the engine's
// defaults for the given usage.
func NewEncoderConfig(usage Usage) (*EncoderConfig, error) {
	c := &EncoderConfig{}
	ret := C.aom_codec_enc_config_default(C.cfg_iface_av1_cx(), &c.cfg, usage.native())
	if ret != C.AOM_CODEC_OK {
		return nil, &ConfigError{Code: Code(ret)}
	}
	return c, nil
}

// Generic settings.

// Threads sets the maximum number of worker threads the engine may use.
// 0 is equivalent to 1.
func (c *EncoderConfig) Threads(n int) *EncoderConfig {
	c.cfg.g_threads = C.uint(n)
	return c
}

// Profile sets the bitstream profile.
func (c *EncoderConfig) Profile(p int) *EncoderConfig {
	c.cfg.g_profile = C.uint(p)
	return c
}

// Width sets the presentation width of input frames, in pixels.
func (c *EncoderConfig) Width(w int) *EncoderConfig {
	c.cfg.g_w = C.uint(w)
	return c
}

// Height sets the presentation height of input frames, in pixels.
func (c *EncoderConfig) Height(h int) *EncoderConfig {
	c.cfg.g_h = C.uint(h)
	return c
}

// Limit sets the maximum number of frames to encode. A limit of 1
// makes the encoder emit a still picture.
func (c *EncoderConfig) Limit(n int) *EncoderConfig {
	c.cfg.g_limit = C.uint(n)
	return c
}

// ForcedMaxFrameWidth forces the maximum frame width written in the
// sequence header. 0 leaves it to the encoder.
func (c *EncoderConfig) ForcedMaxFrameWidth(w int) *EncoderConfig {
	c.cfg.g_forced_max_frame_width = C.uint(w)
	return c
}

// ForcedMaxFrameHeight forces the maximum frame height written in the
// sequence header. 0 leaves it to the encoder.
func (c *EncoderConfig) ForcedMaxFrameHeight(h int) *EncoderConfig {
	c.cfg.g_forced_max_frame_height = C.uint(h)
	return c
}

// BitDepth sets the codec bit depth (8, 10 or 12).
func (c *EncoderConfig) BitDepth(bits int) *EncoderConfig {
	c.cfg.g_bit_depth = C.aom_bit_depth_t(bits)
	return c
}

// InputBitDepth sets the bit depth of input frames.
func (c *EncoderConfig) InputBitDepth(bits int) *EncoderConfig {
	c.cfg.g_input_bit_depth = C.uint(bits)
	return c
}

// Timebase sets the smallest interval of time, in seconds, used by the
// stream. For fixed frame rate material set it to the reciprocal of
// the frame rate so the pts corresponds to the frame number.
func (c *EncoderConfig) Timebase(num, den int) *EncoderConfig {
	c.cfg.g_timebase.num = C.int(num)
	c.cfg.g_timebase.den = C.int(den)
	return c
}

// ErrorResilient enables error resilient features in the bitstream.
func (c *EncoderConfig) ErrorResilient(flags uint32) *EncoderConfig {
	c.cfg.g_error_resilient = C.aom_codec_er_flags_t(flags)
	return c
}

// Pass sets the multi-pass encoding phase.
func (c *EncoderConfig) Pass(p Pass) *EncoderConfig {
	c.cfg.g_pass = p.native()
	return c
}

// LagInFrames sets how many frames the encoder may consume before
// producing output, enabling lookahead processing.
func (c *EncoderConfig) LagInFrames(n int) *EncoderConfig {
	c.cfg.g_lag_in_frames = C.uint(n)
	return c
}

// Rate control settings.

// DropframeThresh sets the temporal resampling threshold as a
// percentage of the buffer level below which frames are dropped.
func (c *EncoderConfig) DropframeThresh(pct int) *EncoderConfig {
	c.cfg.rc_dropframe_thresh = C.uint(pct)
	return c
}

// ResizeMode sets spatial resampling: 0 none, 1 fixed, 2 random,
// 3 dynamic.
func (c *EncoderConfig) ResizeMode(mode int) *EncoderConfig {
	c.cfg.rc_resize_mode = C.uint(mode)
	return c
}

// ResizeDenominator sets the frame downscale denominator (8..16, where
// 8 means no scaling) for non-keyframes.
func (c *EncoderConfig) ResizeDenominator(den int) *EncoderConfig {
	c.cfg.rc_resize_denominator = C.uint(den)
	return c
}

// ResizeKFDenominator sets the keyframe downscale denominator.
func (c *EncoderConfig) ResizeKFDenominator(den int) *EncoderConfig {
	c.cfg.rc_resize_kf_denominator = C.uint(den)
	return c
}

// Superres sets the frame super-resolution mode.
func (c *EncoderConfig) Superres(mode SuperresMode) *EncoderConfig {
	c.cfg.rc_superres_mode = mode.native()
	return c
}

// SuperresDenominator sets the superres scale denominator (8..16) for
// non-keyframes, used with SuperresFixed.
func (c *EncoderConfig) SuperresDenominator(den int) *EncoderConfig {
	c.cfg.rc_superres_denominator = C.uint(den)
	return c
}

// SuperresKFDenominator sets the superres scale denominator for
// keyframes, used with SuperresFixed.
func (c *EncoderConfig) SuperresKFDenominator(den int) *EncoderConfig {
	c.cfg.rc_superres_kf_denominator = C.uint(den)
	return c
}

// SuperresQThresh sets the quantizer threshold above which frames are
// scaled, used with SuperresQThresh mode.
func (c *EncoderConfig) SuperresQThresh(q int) *EncoderConfig {
	c.cfg.rc_superres_qthresh = C.uint(q)
	return c
}

// SuperresKFQThresh sets the keyframe quantizer threshold for
// SuperresQThresh mode.
func (c *EncoderConfig) SuperresKFQThresh(q int) *EncoderConfig {
	c.cfg.rc_superres_kf_qthresh = C.uint(q)
	return c
}

// RateControl sets the rate control algorithm.
func (c *EncoderConfig) RateControl(mode RateControl) *EncoderConfig {
	c.cfg.rc_end_usage = mode.native()
	return c
}

// TwoPassStatsIn supplies the statistics buffer produced by the first
// pass. The bytes are copied into engine-owned memory when a session
// is created.
func (c *EncoderConfig) TwoPassStatsIn(stats []byte) *EncoderConfig {
	c.twopassStats = stats
	return c
}

// FirstPassMBStatsIn supplies the first-pass macroblock statistics
// buffer. Copied like TwoPassStatsIn.
func (c *EncoderConfig) FirstPassMBStatsIn(stats []byte) *EncoderConfig {
	c.fpMBStats = stats
	return c
}

// TargetBitrate sets the target data rate in kilobits per second.
func (c *EncoderConfig) TargetBitrate(kbps int) *EncoderConfig {
	c.cfg.rc_target_bitrate = C.uint(kbps)
	return c
}

// MinQuantizer sets the best-quality (smallest) quantizer, 0..63.
func (c *EncoderConfig) MinQuantizer(q int) *EncoderConfig {
	c.cfg.rc_min_quantizer = C.uint(q)
	return c
}

// MaxQuantizer sets the worst-quality (largest) quantizer, 0..63.
func (c *EncoderConfig) MaxQuantizer(q int) *EncoderConfig {
	c.cfg.rc_max_quantizer = C.uint(q)
	return c
}

// UndershootPct sets the datarate undershoot tolerance as a
// percentage of the target.
func (c *EncoderConfig) UndershootPct(pct int) *EncoderConfig {
	c.cfg.rc_undershoot_pct = C.uint(pct)
	return c
}

// OvershootPct sets the datarate overshoot tolerance as a percentage
// of the target.
func (c *EncoderConfig) OvershootPct(pct int) *EncoderConfig {
	c.cfg.rc_overshoot_pct = C.uint(pct)
	return c
}

// Decoder buffer model.

// BufferSize sets the decoder buffer size in milliseconds of data.
func (c *EncoderConfig) BufferSize(ms int) *EncoderConfig {
	c.cfg.rc_buf_sz = C.uint(ms)
	return c
}

// BufferInitialSize sets the decoder buffer level at stream start.
func (c *EncoderConfig) BufferInitialSize(ms int) *EncoderConfig {
	c.cfg.rc_buf_initial_sz = C.uint(ms)
	return c
}

// BufferOptimalSize sets the buffer level rate control tries to
// maintain.
func (c *EncoderConfig) BufferOptimalSize(ms int) *EncoderConfig {
	c.cfg.rc_buf_optimal_sz = C.uint(ms)
	return c
}

// Two-pass VBR tuning.

// TwoPassVBRBias biases the second pass between the VBR (0) and CBR
// (100) allocation targets.
func (c *EncoderConfig) TwoPassVBRBias(pct int) *EncoderConfig {
	c.cfg.rc_2pass_vbr_bias_pct = C.uint(pct)
	return c
}

// TwoPassVBRMinSection sets the minimum per-GOP bitrate as a
// percentage of the target.
func (c *EncoderConfig) TwoPassVBRMinSection(pct int) *EncoderConfig {
	c.cfg.rc_2pass_vbr_minsection_pct = C.uint(pct)
	return c
}

// TwoPassVBRMaxSection sets the maximum per-GOP bitrate as a
// percentage of the target.
func (c *EncoderConfig) TwoPassVBRMaxSection(pct int) *EncoderConfig {
	c.cfg.rc_2pass_vbr_maxsection_pct = C.uint(pct)
	return c
}

// Keyframe settings.

// ForwardKeyframes enables forward reference keyframes.
func (c *EncoderConfig) ForwardKeyframes(enable bool) *EncoderConfig {
	c.cfg.fwd_kf_enabled = cbool(enable)
	return c
}

// Keyframes sets the keyframe placement mode.
func (c *EncoderConfig) Keyframes(mode KeyframeMode) *EncoderConfig {
	c.cfg.kf_mode = mode.native()
	return c
}

// KeyframeMinDist sets the minimum keyframe interval in frames.
func (c *EncoderConfig) KeyframeMinDist(frames int) *EncoderConfig {
	c.cfg.kf_min_dist = C.uint(frames)
	return c
}

// KeyframeMaxDist sets the maximum keyframe interval in frames.
func (c *EncoderConfig) KeyframeMaxDist(frames int) *EncoderConfig {
	c.cfg.kf_max_dist = C.uint(frames)
	return c
}

// SFrameDist sets the S-frame interval in frames; 0 disables S-frames.
func (c *EncoderConfig) SFrameDist(frames int) *EncoderConfig {
	c.cfg.sframe_dist = C.uint(frames)
	return c
}

// SFrameMode sets S-frame insertion: 1 places S-frames strictly on the
// interval, 2 waits for an alt-ref-adjacent frame.
func (c *EncoderConfig) SFrameMode(mode int) *EncoderConfig {
	c.cfg.sframe_mode = C.uint(mode)
	return c
}

// Tiling and still-picture settings.

// LargeScaleTile enables large-scale tile coding.
func (c *EncoderConfig) LargeScaleTile(enable bool) *EncoderConfig {
	c.cfg.large_scale_tile = C.uint(cbool(enable))
	return c
}

// Monochrome restricts encoding to the luma plane.
func (c *EncoderConfig) Monochrome(enable bool) *EncoderConfig {
	c.cfg.monochrome = C.uint(cbool(enable))
	return c
}

// FullStillPictureHeader forces a full sequence header on still
// pictures instead of the reduced form.
func (c *EncoderConfig) FullStillPictureHeader(enable bool) *EncoderConfig {
	c.cfg.full_still_picture_hdr = C.uint(cbool(enable))
	return c
}

// SaveAsAnnexB emits length-delimited Annex-B bitstream framing.
func (c *EncoderConfig) SaveAsAnnexB(enable bool) *EncoderConfig {
	c.cfg.save_as_annexb = C.uint(cbool(enable))
	return c
}

// TileWidths sets explicit tile widths, in superblocks, for
// large-scale tile coding. At most 64 entries are used.
func (c *EncoderConfig) TileWidths(widths []int) *EncoderConfig {
	n := len(widths)
	if n > len(c.cfg.tile_widths) {
		n = len(c.cfg.tile_widths)
	}
	c.cfg.tile_width_count = C.int(n)
	for i := 0; i < n; i++ {
		c.cfg.tile_widths[i] = C.int(widths[i])
	}
	return c
}

// TileHeights sets explicit tile heights, in superblocks, for
// large-scale tile coding. At most 64 entries are used.
func (c *EncoderConfig) TileHeights(heights []int) *EncoderConfig {
	n := len(heights)
	if n > len(c.cfg.tile_heights) {
		n = len(c.cfg.tile_heights)
	}
	c.cfg.tile_height_count = C.int(n)
	for i := 0; i < n; i++ {
		c.cfg.tile_heights[i] = C.int(heights[i])
	}
	return c
}

// PSNR makes sessions created from this configuration compute
// per-frame PSNR metrics, delivered as PSNRPacket values interleaved
// with the compressed output.
func (c *EncoderConfig) PSNR(enable bool) *EncoderConfig {
	if enable {
		c.initFlags |= C.AOM_CODEC_USE_PSNR
	} else {
		c.initFlags &^= C.AOM_CODEC_USE_PSNR
	}
	return c
}

// Dimensions returns the configured frame width and height.
func (c *EncoderConfig) Dimensions() (width, height int) {
	return int(c.cfg.g_w), int(c.cfg.g_h)
}

// NewEncoder creates an encoder session from the current
// configuration. Shorthand for NewEncoder(c).
func (c *EncoderConfig) NewEncoder() (*Encoder, error) {
	return NewEncoder(c)
}

func cbool(b bool) C.int {
	if b {
		return 1
	}
	return 0
}
