//go:build cgo

package aom

/*
#cgo CFLAGS: -I/usr/include -I/usr/local/include
#cgo LDFLAGS: -laom

#include <stdint.h>
#include <stdlib.h>
#include <aom/aom_encoder.h>
#include <aom/aomcx.h>

static const aom_codec_iface_t *enc_iface_av1_cx(void) { return aom_codec_av1_cx(); }

static aom_codec_err_t enc_control_int(aom_codec_ctx_t *ctx, int id, int val) {
	return aom_codec_control(ctx, id, val);
}

// Accessors for the packet union; cgo cannot reach union members
// directly.
static const void *pkt_frame_buf(const aom_codec_cx_pkt_t *pkt) { return pkt->data.frame.buf; }
static size_t pkt_frame_sz(const aom_codec_cx_pkt_t *pkt) { return pkt->data.frame.sz; }
static aom_codec_pts_t pkt_frame_pts(const aom_codec_cx_pkt_t *pkt) { return pkt->data.frame.pts; }
static unsigned long pkt_frame_duration(const aom_codec_cx_pkt_t *pkt) { return pkt->data.frame.duration; }
static aom_codec_frame_flags_t pkt_frame_flags(const aom_codec_cx_pkt_t *pkt) { return pkt->data.frame.flags; }
static const void *pkt_stats_buf(const aom_codec_cx_pkt_t *pkt) { return pkt->data.twopass_stats.buf; }
static size_t pkt_stats_sz(const aom_codec_cx_pkt_t *pkt) { return pkt->data.twopass_stats.sz; }
static const void *pkt_mb_stats_buf(const aom_codec_cx_pkt_t *pkt) { return pkt->data.firstpass_mb_stats.buf; }
static size_t pkt_mb_stats_sz(const aom_codec_cx_pkt_t *pkt) { return pkt->data.firstpass_mb_stats.sz; }
static const void *pkt_raw_buf(const aom_codec_cx_pkt_t *pkt) { return pkt->data.raw.buf; }
static size_t pkt_raw_sz(const aom_codec_cx_pkt_t *pkt) { return pkt->data.raw.sz; }

static void pkt_psnr(const aom_codec_cx_pkt_t *pkt, unsigned int *samples, uint64_t *sse, double *psnr) {
	int i;
	for (i = 0; i < 4; i++) {
		samples[i] = pkt->data.psnr.samples[i];
		sse[i] = pkt->data.psnr.sse[i];
		psnr[i] = pkt->data.psnr.psnr[i];
	}
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

// Control ids recognized by the AV1 encoder. The set is fixed by the
// ABI revision this package is compiled against.
const (
	ControlCPUUsed           ControlID = C.AOME_SET_CPUUSED
	ControlEnableAutoAltRef  ControlID = C.AOME_SET_ENABLEAUTOALTREF
	ControlSharpness         ControlID = C.AOME_SET_SHARPNESS
	ControlStaticThreshold   ControlID = C.AOME_SET_STATIC_THRESHOLD
	ControlARNRMaxFrames     ControlID = C.AOME_SET_ARNR_MAXFRAMES
	ControlARNRStrength      ControlID = C.AOME_SET_ARNR_STRENGTH
	ControlTuning            ControlID = C.AOME_SET_TUNING
	ControlCQLevel           ControlID = C.AOME_SET_CQ_LEVEL
	ControlMaxIntraBitrate   ControlID = C.AOME_SET_MAX_INTRA_BITRATE_PCT
	ControlRowMultithreading ControlID = C.AV1E_SET_ROW_MT
	ControlTileColumns       ControlID = C.AV1E_SET_TILE_COLUMNS
	ControlTileRows          ControlID = C.AV1E_SET_TILE_ROWS
	ControlLossless          ControlID = C.AV1E_SET_LOSSLESS
)

// Encoder is one live AV1 encode session. It exclusively owns its
// native codec context; Close releases the context exactly once.
//
// An Encoder is not safe for concurrent use: the drain cursor and the
// context are mutated in place on every call. It may be moved between
// goroutines as long as calls are externally serialized.
type Encoder struct {
	ctx  C.aom_codec_ctx_t
	ccfg C.aom_codec_enc_cfg_t
	iter C.aom_codec_iter_t

	forceKF bool
	open    bool

	// engine-owned copies of the pass-statistics inputs, freed on Close
	statsBuf   unsafe.Pointer
	mbStatsBuf unsafe.Pointer
}

// NewEncoder creates an encoder session from cfg. The configuration is
// copied; the engine validates it here and rejects invalid
// combinations with an InitError carrying the native code.
func NewEncoder(cfg *EncoderConfig) (*Encoder, error) {
	e := &Encoder{}

	// The native context retains a pointer to the configuration for
	// its whole lifetime, so the snapshot lives in the session, not on
	// the stack. The builder stays reusable for further sessions.
	e.ccfg = cfg.cfg
	if len(cfg.twopassStats) > 0 {
		e.statsBuf = C.CBytes(cfg.twopassStats)
		e.ccfg.rc_twopass_stats_in.buf = e.statsBuf
		e.ccfg.rc_twopass_stats_in.sz = C.size_t(len(cfg.twopassStats))
	}
	if len(cfg.fpMBStats) > 0 {
		e.mbStatsBuf = C.CBytes(cfg.fpMBStats)
		e.ccfg.rc_firstpass_mb_stats_in.buf = e.mbStatsBuf
		e.ccfg.rc_firstpass_mb_stats_in.sz = C.size_t(len(cfg.fpMBStats))
	}

	ret := C.aom_codec_enc_init_ver(&e.ctx, C.enc_iface_av1_cx(), &e.ccfg, cfg.initFlags, C.AOM_ENCODER_ABI_VERSION)
	if ret != C.AOM_CODEC_OK {
		e.freeStats()
		return nil, &InitError{Code: Code(ret)}
	}
	e.open = true
	return e, nil
}

// Encode submits one uncompressed frame with the frame's presentation
// timestamp and a duration of one timebase tick. The engine may buffer
// the frame internally and emit nothing yet; drain with NextPacket
// until it returns nil after every call.
//
// The frame's plane storage is only borrowed for the duration of the
// call.
func (e *Encoder) Encode(frame *Frame) error {
	if !e.open {
		return ErrClosed
	}

	var pin runtime.Pinner
	defer pin.Unpin()
	img := imageFromFrame(frame, &pin)

	var flags C.aom_enc_frame_flags_t
	if e.forceKF {
		flags |= C.AOM_EFLAG_FORCE_KF
		e.forceKF = false
	}

	ret := C.aom_codec_encode(&e.ctx, &img, C.aom_codec_pts_t(frame.PTS), 1, flags)
	e.iter = nil
	if ret != C.AOM_CODEC_OK {
		return &EncodeError{Code: Code(ret), Detail: lastError(&e.ctx)}
	}
	return nil
}

// ForceKeyframe makes the next Encode call emit a keyframe.
func (e *Encoder) ForceKeyframe() {
	e.forceKF = true
}

// Flush signals end of stream. Drain with NextPacket to collect any
// frames still buffered by lookahead; call before Close if all output
// is required.
func (e *Encoder) Flush() error {
	if !e.open {
		return ErrClosed
	}
	ret := C.aom_codec_encode(&e.ctx, nil, 0, 1, 0)
	e.iter = nil
	if ret != C.AOM_CODEC_OK {
		return &EncodeError{Code: Code(ret), Detail: lastError(&e.ctx)}
	}
	return nil
}

// NextPacket returns the next pending output packet, or nil when the
// output of the most recent Encode or Flush call is exhausted. Payload
// bytes are copied out of the engine's buffers; the returned packet
// stays valid indefinitely.
func (e *Encoder) NextPacket() Packet {
	if !e.open {
		return nil
	}
	pkt := C.aom_codec_get_cx_data(&e.ctx, &e.iter)
	if pkt == nil {
		return nil
	}
	return classifyPacket(pkt)
}

// Control applies a post-creation control value to the live context.
func (e *Encoder) Control(id ControlID, val int) error {
	if !e.open {
		return ErrClosed
	}
	ret := C.enc_control_int(&e.ctx, C.int(id), C.int(val))
	if ret != C.AOM_CODEC_OK {
		return &ControlError{ID: id, Value: val, Code: Code(ret)}
	}
	return nil
}

// LastError returns the engine's description of the most recent
// failure on this session. Diagnostic only; never use it for control
// flow.
func (e *Encoder) LastError() string {
	if !e.open {
		return ""
	}
	if d := lastErrorDetail(&e.ctx); d != "" {
		return d
	}
	return lastError(&e.ctx)
}

// Close destroys the native context. Safe to call more than once and
// safe to call with packets left undrained; undrained output is
// discarded.
func (e *Encoder) Close() error {
	if e.open {
		C.aom_codec_destroy(&e.ctx)
		e.open = false
	}
	e.freeStats()
	return nil
}

func (e *Encoder) freeStats() {
	if e.statsBuf != nil {
		C.free(e.statsBuf)
		e.statsBuf = nil
	}
	if e.mbStatsBuf != nil {
		C.free(e.mbStatsBuf)
		e.mbStatsBuf = nil
	}
}

// classifyPacket converts the raw tagged union into the closed Packet
// set, copying every payload. The tag set is fixed by the ABI revision
// this package targets; an unknown tag means the binding and the
// loaded library disagree, which is unrecoverable.
func classifyPacket(pkt *C.aom_codec_cx_pkt_t) Packet {
	switch pkt.kind {
	case C.AOM_CODEC_CX_FRAME_PKT:
		return &FramePacket{
			Data:     C.GoBytes(C.pkt_frame_buf(pkt), C.int(C.pkt_frame_sz(pkt))),
			PTS:      int64(C.pkt_frame_pts(pkt)),
			Duration: uint64(C.pkt_frame_duration(pkt)),
			Keyframe: C.pkt_frame_flags(pkt)&C.AOM_FRAME_IS_KEY != 0,
		}
	case C.AOM_CODEC_STATS_PKT:
		return &StatsPacket{Data: C.GoBytes(C.pkt_stats_buf(pkt), C.int(C.pkt_stats_sz(pkt)))}
	case C.AOM_CODEC_FPMB_STATS_PKT:
		return &MBStatsPacket{Data: C.GoBytes(C.pkt_mb_stats_buf(pkt), C.int(C.pkt_mb_stats_sz(pkt)))}
	case C.AOM_CODEC_PSNR_PKT:
		var (
			samples [4]C.uint
			sse     [4]C.uint64_t
			psnr    [4]C.double
		)
		C.pkt_psnr(pkt, &samples[0], &sse[0], &psnr[0])
		p := &PSNRPacket{}
		for i := 0; i < 4; i++ {
			p.Samples[i] = uint32(samples[i])
			p.SSE[i] = uint64(sse[i])
			p.PSNR[i] = float64(psnr[i])
		}
		return p
	case C.AOM_CODEC_CUSTOM_PKT:
		return &CustomPacket{Data: C.GoBytes(C.pkt_raw_buf(pkt), C.int(C.pkt_raw_sz(pkt)))}
	default:
		panic(fmt.Sprintf("aom: unknown packet kind %d", int(pkt.kind)))
	}
}
