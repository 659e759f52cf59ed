package aom

import (
	"errors"
	"testing"
)

func TestTypedErrorsCarryCode(t *testing.T) {
	var err error = &InitError{Code: CodeABIMismatch}

	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatal("errors.As failed for *InitError")
	}
	if initErr.Code != CodeABIMismatch {
		t.Errorf("Code = %v, want ABI mismatch", initErr.Code)
	}
	if !errors.Is(err, CodeABIMismatch) {
		t.Error("errors.Is should match the wrapped Code")
	}
	if errors.Is(err, CodeInvalidParam) {
		t.Error("errors.Is matched the wrong Code")
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&InitError{Code: CodeInvalidParam}, "aom: init failed: invalid parameter"},
		{&ConfigError{Code: CodeInvalidParam}, "aom: configuration rejected: invalid parameter"},
		{&EncodeError{Code: CodeError, Detail: "boom"}, "aom: encode failed: unspecified internal error: boom"},
		{&DecodeError{Code: CodeCorruptFrame}, "aom: decode failed: corrupt frame"},
		{&ControlError{ID: 13, Value: 99, Code: CodeInvalidParam}, "aom: control 13=99 rejected: invalid parameter"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestCodeString(t *testing.T) {
	if CodeOK.String() != "ok" {
		t.Errorf("CodeOK = %q", CodeOK.String())
	}
	if Code(1000).String() != "unknown status (1000)" {
		t.Errorf("unknown code = %q", Code(1000).String())
	}
}
