//go:build darwin || linux

// Runtime probing of the native library via purego, independent of the
// cgo-built sessions.

package aom

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/ebitengine/purego"
)

var (
	libOnce sync.Once
	libErr  error

	runtimeVersionStr func() string
)

func libraryNames() []string {
	if runtime.GOOS == "darwin" {
		return []string{"libaom.3.dylib", "libaom.dylib"}
	}
	return []string{"libaom.so.3", "libaom.so"}
}

func loadLibrary() {
	var handle uintptr
	var err error
	for _, name := range libraryNames() {
		handle, err = purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err == nil && handle != 0 {
			break
		}
	}
	if handle == 0 {
		libErr = fmt.Errorf("aom: native library not found: %w", err)
		return
	}
	purego.RegisterLibFunc(&runtimeVersionStr, handle, "aom_codec_version_str")
}

// Available reports whether the native library can be located and
// loaded at runtime.
func Available() bool {
	libOnce.Do(loadLibrary)
	return libErr == nil
}

// RuntimeVersion returns the version string of the shared library
// found at runtime (e.g. "3.8.1"), which may differ from the one the
// package was compiled against.
func RuntimeVersion() (string, error) {
	libOnce.Do(loadLibrary)
	if libErr != nil {
		return "", libErr
	}
	return runtimeVersionStr(), nil
}
