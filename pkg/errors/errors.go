// Package errors provides structured error types for codescope.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can
// pick an exit status or response code without string matching, while the
// message stays readable for users.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (bad kind, sort field, source)
//   - NOT_FOUND: a class or method id that is not in the dataset
//   - FETCH_FAILED: the dataset could not be loaded
//   - INTERNAL_ERROR: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidKind, "unknown node kind %q", kind)
//	if errors.Is(err, errors.ErrCodeInvalidKind) {
//	    // 400
//	}
//
//	err := errors.Wrap(errors.ErrCodeFetchFailed, origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code classifies an error for exit statuses and HTTP responses.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidKind      Code = "INVALID_KIND"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidSort      Code = "INVALID_SORT"
	ErrCodeInvalidDirection Code = "INVALID_DIRECTION"
	ErrCodeInvalidSource    Code = "INVALID_SOURCE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Loading the dataset failed; callers see a generic retry message.
	ErrCodeFetchFailed Code = "FETCH_FAILED"
	ErrCodeTimeout     Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// clientCodes are the codes blamed on the caller's input.
var clientCodes = map[Code]bool{
	ErrCodeInvalidInput:     true,
	ErrCodeInvalidKind:      true,
	ErrCodeInvalidFormat:    true,
	ErrCodeInvalidSort:      true,
	ErrCodeInvalidDirection: true,
	ErrCodeInvalidSource:    true,
	ErrCodeNotFound:         true,
	ErrCodeFileNotFound:     true,
}

// Error pairs a Code with a readable message and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	s := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// New formats a message under code.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap is New with a cause attached.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// outermost finds the first *Error in err's chain.
func outermost(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost coded error in err's chain has code.
func Is(err error, code Code) bool {
	e, ok := outermost(err)
	return ok && e.Code == code
}

// GetCode returns the outermost code in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := outermost(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage strips the code prefix and cause. Uncoded errors are
// returned as their Error string.
func UserMessage(err error) string {
	if e, ok := outermost(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by bad input rather than by
// the dataset or the process.
func IsClientError(err error) bool {
	return clientCodes[GetCode(err)]
}
