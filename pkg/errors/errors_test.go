package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidKind, "unknown node kind %q", "package"), `INVALID_KIND: unknown node kind "package"`},
		{Wrap(ErrCodeFetchFailed, errors.New("connection refused"), "fetch %s", "http://x"), "FETCH_FAILED: fetch http://x: connection refused"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapChain(t *testing.T) {
	cause := errors.New("eof")
	err := Wrap(ErrCodeFetchFailed, cause, "decode")

	if errors.Unwrap(err) != cause || !errors.Is(err, cause) {
		t.Error("cause not reachable through Unwrap")
	}

	// A coded error wrapped by fmt keeps its code.
	outer := fmt.Errorf("load: %w", err)
	if GetCode(outer) != ErrCodeFetchFailed || UserMessage(outer) != "decode" {
		t.Errorf("GetCode=%s UserMessage=%q", GetCode(outer), UserMessage(outer))
	}
}

func TestIs(t *testing.T) {
	nested := Wrap(ErrCodeFetchFailed, New(ErrCodeFileNotFound, "inner"), "outer")
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"match", New(ErrCodeNotFound, "x"), ErrCodeNotFound, true},
		{"other code", New(ErrCodeNotFound, "x"), ErrCodeInvalidSort, false},
		{"outermost wins", nested, ErrCodeFetchFailed, true},
		{"inner ignored", nested, ErrCodeFileNotFound, false},
		{"plain", errors.New("plain"), ErrCodeInternal, false},
		{"nil", nil, ErrCodeInternal, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v", tt.err, tt.code, got)
			}
		})
	}
}

func TestGetCodeAndMessageOfPlainErrors(t *testing.T) {
	plain := errors.New("plain")
	if GetCode(plain) != "" || GetCode(nil) != "" {
		t.Error("plain errors carry no code")
	}
	if UserMessage(plain) != "plain" {
		t.Errorf("UserMessage = %q", UserMessage(plain))
	}
}

func TestIsClientError(t *testing.T) {
	client := []Code{
		ErrCodeInvalidInput, ErrCodeInvalidKind, ErrCodeInvalidFormat, ErrCodeInvalidSort,
		ErrCodeInvalidDirection, ErrCodeInvalidSource, ErrCodeNotFound, ErrCodeFileNotFound,
	}
	for _, code := range client {
		if !IsClientError(New(code, "x")) {
			t.Errorf("%s should be a client error", code)
		}
	}
	for _, code := range []Code{ErrCodeFetchFailed, ErrCodeTimeout, ErrCodeInternal, ErrCodeUnsupported, ErrCodeInvalidConfig} {
		if IsClientError(New(code, "x")) {
			t.Errorf("%s should not be a client error", code)
		}
	}
	if IsClientError(errors.New("plain")) {
		t.Error("plain error classified as client error")
	}
}
