package aom

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by calls on a session whose native context has
// already been destroyed.
var ErrClosed = errors.New("aom: session closed")

// Code is a native codec status code. Every fallible operation that the
// engine rejects surfaces the raw code through one of the typed errors
// below.
type Code int

const (
	CodeOK             Code = iota // operation completed
	CodeError                      // unspecified internal error
	CodeMemError                   // memory allocation failed
	CodeABIMismatch                // library version does not match the compiled ABI
	CodeIncapable                  // algorithm lacks a required capability
	CodeUnsupBitstream             // bitstream not supported by this version
	CodeUnsupFeature               // bitstream uses an unimplemented feature
	CodeCorruptFrame               // bitstream is corrupt or incomplete
	CodeInvalidParam               // a parameter failed validation
	CodeListEnd
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeError:
		return "unspecified internal error"
	case CodeMemError:
		return "memory allocation error"
	case CodeABIMismatch:
		return "ABI version mismatch"
	case CodeIncapable:
		return "codec does not implement requested capability"
	case CodeUnsupBitstream:
		return "unsupported bitstream"
	case CodeUnsupFeature:
		return "unsupported bitstream feature"
	case CodeCorruptFrame:
		return "corrupt frame"
	case CodeInvalidParam:
		return "invalid parameter"
	default:
		return fmt.Sprintf("unknown status (%d)", int(c))
	}
}

// Error lets a Code act as an errors.Is target for the typed errors.
func (c Code) Error() string { return c.String() }

// InitError reports a failed context creation. The session was never
// created; no resources are held.
type InitError struct {
	Code   Code
	Detail string
}

func (e *InitError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("aom: init failed: %s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("aom: init failed: %s", e.Code)
}

func (e *InitError) Unwrap() error { return e.Code }

// ConfigError reports that the engine rejected a configuration request,
// e.g. default population with a malformed usage value.
type ConfigError struct {
	Code Code
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("aom: configuration rejected: %s", e.Code)
}

func (e *ConfigError) Unwrap() error { return e.Code }

// EncodeError reports a rejected encode or flush call. The session
// remains usable unless the code itself is fatal.
type EncodeError struct {
	Code   Code
	Detail string
}

func (e *EncodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("aom: encode failed: %s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("aom: encode failed: %s", e.Code)
}

func (e *EncodeError) Unwrap() error { return e.Code }

// DecodeError reports a rejected decode or flush call, typically a
// malformed bitstream. The session remains usable.
type DecodeError struct {
	Code   Code
	Detail string
}

func (e *DecodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("aom: decode failed: %s: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("aom: decode failed: %s", e.Code)
}

func (e *DecodeError) Unwrap() error { return e.Code }

// ControlID identifies a post-creation encoder control. The known ids
// are defined alongside the encoder session.
type ControlID int

// ControlError reports a rejected post-creation control value. The
// session remains usable.
type ControlError struct {
	ID    ControlID
	Value int
	Code  Code
}

func (e *ControlError) Error() string {
	return fmt.Sprintf("aom: control %d=%d rejected: %s", int(e.ID), e.Value, e.Code)
}

func (e *ControlError) Unwrap() error { return e.Code }
