//go:build cgo

package aom

/*
#cgo CFLAGS: -I/usr/include -I/usr/local/include
#cgo LDFLAGS: -laom

#include <stdint.h>
#include <aom/aom_decoder.h>
#include <aom/aomdx.h>

static const aom_codec_iface_t *dec_iface_av1_dx(void) { return aom_codec_av1_dx(); }

// The user-private pointer crosses the boundary as an integer handle,
// never as a Go pointer.
static aom_codec_err_t dec_decode(aom_codec_ctx_t *ctx, const uint8_t *data, size_t sz, uintptr_t priv) {
	return aom_codec_decode(ctx, data, sz, (void *)priv);
}

static uintptr_t img_user_priv(const aom_image_t *img) {
	return (uintptr_t)img->user_priv;
}
*/
import "C"

import (
	"runtime/cgo"
	"unsafe"
)

// DecoderConfig carries the decoder's creation-time hints. The zero
// value is valid: the engine sizes everything from the bitstream.
type DecoderConfig struct {
	Threads int // worker threads, 0 = single-threaded
	Width   int // expected width hint, 0 = from bitstream
	Height  int // expected height hint, 0 = from bitstream
}

// Decoder is one live AV1 decode session. It exclusively owns its
// native codec context; Close releases the context exactly once.
//
// Like Encoder, a Decoder is single-owner: calls must be externally
// serialized, though the value may move between goroutines between
// calls.
type Decoder struct {
	ctx  C.aom_codec_ctx_t
	ccfg C.aom_codec_dec_cfg_t
	iter C.aom_codec_iter_t
	open bool
}

// NewDecoder creates a decode session. Fails with an InitError on ABI
// mismatch or resource exhaustion.
func NewDecoder(cfg DecoderConfig) (*Decoder, error) {
	d := &Decoder{}

	// The native context retains the configuration pointer, so it
	// lives in the session.
	d.ccfg.threads = C.uint(cfg.Threads)
	d.ccfg.w = C.uint(cfg.Width)
	d.ccfg.h = C.uint(cfg.Height)
	d.ccfg.allow_lowbitdepth = 1

	ret := C.aom_codec_dec_init_ver(&d.ctx, C.dec_iface_av1_dx(), &d.ccfg, 0, C.AOM_DECODER_ABI_VERSION)
	if ret != C.AOM_CODEC_OK {
		return nil, &InitError{Code: Code(ret)}
	}
	d.open = true
	return d, nil
}

// Decode submits one compressed unit. userData, if non-nil, travels
// through the engine and comes back attached to the decoded frame's
// UserData on the matching NextFrame.
//
// On failure the engine never returns the unit through normal
// channels, so the attached user data is reclaimed and dropped here
// rather than leaked. The data slice is only borrowed for the duration
// of the call. Empty data is equivalent to Flush; no user data is
// attached, since an empty unit can never come back out as a frame.
func (d *Decoder) Decode(data []byte, userData any) error {
	if !d.open {
		return ErrClosed
	}
	if len(data) == 0 {
		return d.Flush()
	}

	var h cgo.Handle
	if userData != nil {
		h = cgo.NewHandle(userData)
	}

	ptr := (*C.uint8_t)(unsafe.Pointer(&data[0]))

	ret := C.dec_decode(&d.ctx, ptr, C.size_t(len(data)), C.uintptr_t(h))
	d.iter = nil
	if ret != C.AOM_CODEC_OK {
		if h != 0 {
			h.Delete()
		}
		return &DecodeError{Code: Code(ret), Detail: lastError(&d.ctx)}
	}
	return nil
}

// Flush asks the engine to return any buffered frames. Drain with
// NextFrame.
func (d *Decoder) Flush() error {
	if !d.open {
		return ErrClosed
	}
	ret := C.dec_decode(&d.ctx, nil, 0, 0)
	d.iter = nil
	if ret != C.AOM_CODEC_OK {
		return &DecodeError{Code: Code(ret), Detail: lastError(&d.ctx)}
	}
	return nil
}

// NextFrame returns the next pending decoded frame, or (nil, false)
// when the output of the most recent Decode or Flush call is
// exhausted. Pixel data is copied out of the engine's buffers. User
// data attached on the matching Decode call is reattached to
// Frame.UserData and reclaimed exactly once.
func (d *Decoder) NextFrame() (*Frame, bool) {
	if !d.open {
		return nil, false
	}
	img := C.aom_codec_get_frame(&d.ctx, &d.iter)
	if img == nil {
		return nil, false
	}

	f := frameFromImage(img)
	if p := C.img_user_priv(img); p != 0 {
		h := cgo.Handle(p)
		f.UserData = h.Value()
		h.Delete()
	}
	return f, true
}

// LastError returns the engine's description of the most recent
// failure on this session. Diagnostic only.
func (d *Decoder) LastError() string {
	if !d.open {
		return ""
	}
	if detail := lastErrorDetail(&d.ctx); detail != "" {
		return detail
	}
	return lastError(&d.ctx)
}

// Close destroys the native context. Safe to call more than once;
// undrained frames are discarded by the engine.
func (d *Decoder) Close() error {
	if d.open {
		C.aom_codec_destroy(&d.ctx)
		d.open = false
	}
	return nil
}
