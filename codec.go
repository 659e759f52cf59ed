//go:build cgo

// Shared native-library plumbing for encoder and decoder sessions.

package aom

/*
#cgo CFLAGS: -I/usr/include -I/usr/local/include
#cgo LDFLAGS: -laom

#include <aom/aom_codec.h>
*/
import "C"

// Version returns the native library version as major, minor, patch.
func Version() (major, minor, patch int) {
	v := int(C.aom_codec_version())
	return (v >> 16) & 0xff, (v >> 8) & 0xff, v & 0xff
}

// VersionString returns the native library version string, including
// any suffix (e.g. "3.8.1").
func VersionString() string {
	return C.GoString(C.aom_codec_version_str())
}

// BuildConfig returns the native library's build configuration string.
func BuildConfig() string {
	return C.GoString(C.aom_codec_build_config())
}

// lastError queries the engine for a descriptive string tied to the
// most recent failure on the context. Advisory only; the empty string
// means no description is available.
func lastError(ctx *C.aom_codec_ctx_t) string {
	s := C.aom_codec_error(ctx)
	if s == nil {
		return ""
	}
	return C.GoString(s)
}

// lastErrorDetail returns the engine's extended error description, or
// the empty string when the engine recorded none.
func lastErrorDetail(ctx *C.aom_codec_ctx_t) string {
	s := C.aom_codec_error_detail(ctx)
	if s == nil {
		return ""
	}
	return C.GoString(s)
}
