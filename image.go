//go:build cgo

// Conversion between Frame and the engine's native image descriptor.

package aom

/*
#cgo CFLAGS: -I/usr/include -I/usr/local/include
#cgo LDFLAGS: -laom

#include <aom/aom_image.h>
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"
)

// nativeImageFormat maps a PixelFormat onto the engine's format enum.
// The supported set is closed; an unmapped format is a programming
// error, not a runtime condition.
func nativeImageFormat(p PixelFormat) C.aom_img_fmt_t {
	switch p {
	case PixelFormatI420:
		return C.AOM_IMG_FMT_I420
	case PixelFormatI422:
		return C.AOM_IMG_FMT_I422
	case PixelFormatI444:
		return C.AOM_IMG_FMT_I444
	case PixelFormatNV12:
		return C.AOM_IMG_FMT_NV12
	case PixelFormatI42016:
		return C.AOM_IMG_FMT_I42016
	case PixelFormatI42216:
		return C.AOM_IMG_FMT_I42216
	case PixelFormatI44416:
		return C.AOM_IMG_FMT_I44416
	default:
		panic(fmt.Sprintf("aom: pixel format %v has no native mapping", p))
	}
}

func pixelFormatFromNative(fmt_ C.aom_img_fmt_t) PixelFormat {
	switch fmt_ {
	case C.AOM_IMG_FMT_I420:
		return PixelFormatI420
	case C.AOM_IMG_FMT_I422:
		return PixelFormatI422
	case C.AOM_IMG_FMT_I444:
		return PixelFormatI444
	case C.AOM_IMG_FMT_NV12:
		return PixelFormatNV12
	case C.AOM_IMG_FMT_I42016:
		return PixelFormatI42016
	case C.AOM_IMG_FMT_I42216:
		return PixelFormatI42216
	case C.AOM_IMG_FMT_I44416:
		return PixelFormatI44416
	default:
		panic(fmt.Sprintf("aom: engine produced unknown image format %d", int(fmt_)))
	}
}

// bitsPerPixel for the descriptor's bps field.
func bitsPerPixel(p PixelFormat) int {
	var bpp int
	switch p {
	case PixelFormatI420, PixelFormatNV12, PixelFormatI42016:
		bpp = 12
	case PixelFormatI422, PixelFormatI42216:
		bpp = 16
	case PixelFormatI444, PixelFormatI44416:
		bpp = 24
	}
	if p.HighBitDepth() {
		bpp *= 2
	}
	return bpp
}

// imageFromFrame builds a transient native image descriptor viewing
// the frame's plane storage. The plane pointers are pinned through pin
// and borrowed only until the caller unpins; nothing is retained
// afterwards. Built fresh before every encode call because the frame's
// backing storage may move between calls.
func imageFromFrame(f *Frame, pin *runtime.Pinner) C.aom_image_t {
	var img C.aom_image_t

	img.fmt = nativeImageFormat(f.Format)
	sx, sy := f.Format.ChromaShift()
	img.x_chroma_shift = C.uint(sx)
	img.y_chroma_shift = C.uint(sy)
	if f.Format.HighBitDepth() {
		img.bit_depth = 16
	} else {
		img.bit_depth = 8
	}
	img.bps = C.int(bitsPerPixel(f.Format))

	img.w = C.uint(f.Width)
	img.h = C.uint(f.Height)
	img.d_w = C.uint(f.Width)
	img.d_h = C.uint(f.Height)

	img.cp = C.aom_color_primaries_t(f.Primaries)
	img.tc = C.aom_transfer_characteristics_t(f.Transfer)
	img.mc = C.aom_matrix_coefficients_t(f.Matrix)

	for i := 0; i < f.Format.PlaneCount() && i < len(f.Data); i++ {
		if len(f.Data[i]) == 0 {
			continue
		}
		p := &f.Data[i][0]
		pin.Pin(p)
		img.planes[i] = (*C.uchar)(unsafe.Pointer(p))
		img.stride[i] = C.int(f.Stride[i])
	}
	return img
}

// frameFromImage copies a decoded native image into a freshly
// allocated Frame. The native buffer is only valid until the next call
// into the session, so every plane row is copied out, bounds-checked
// against the declared dimensions.
func frameFromImage(img *C.aom_image_t) *Frame {
	format := pixelFormatFromNative(img.fmt)
	f := NewFrame(int(img.d_w), int(img.d_h), format)

	f.Primaries = ColorPrimaries(img.cp)
	f.Transfer = TransferCharacteristics(img.tc)
	f.Matrix = MatrixCoefficients(img.mc)

	for plane := 0; plane < format.PlaneCount(); plane++ {
		src := unsafe.Pointer(img.planes[plane])
		if src == nil {
			continue
		}
		srcStride := int(img.stride[plane])
		rows := f.PlaneHeight(plane)
		rowBytes := f.PlaneRowBytes(plane)
		for r := 0; r < rows; r++ {
			srcRow := unsafe.Slice((*byte)(unsafe.Add(src, r*srcStride)), rowBytes)
			copy(f.Data[plane][r*f.Stride[plane]:], srcRow)
		}
	}
	return f
}
