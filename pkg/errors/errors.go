// Package errors provides structured error types for graphspec.
//
// Error codes give the CLI and the HTTP server a consistent, machine
// readable way to classify failures. Parse-level problems are not Go
// errors at all; they accumulate in the model's report and never abort a
// build. This package covers the failures that do stop an operation.
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// ErrCodeInvalidInput is returned for unusable caller input.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeInvalidFormat is returned for an unknown output format.
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	// ErrCodeInvalidEngine is returned for an unknown layout engine.
	ErrCodeInvalidEngine Code = "INVALID_ENGINE"
	// ErrCodeProfileNotFound is returned when a named profile does not exist.
	ErrCodeProfileNotFound Code = "PROFILE_NOT_FOUND"
	// ErrCodeSource is returned when a profile's input source fails.
	ErrCodeSource Code = "SOURCE_ERROR"
	// ErrCodeRender is returned when the layout renderer fails.
	ErrCodeRender Code = "RENDER_FAILED"
	// ErrCodeInternal is returned for internal-consistency failures that
	// should never occur, such as a broken reduction invariant.
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err carries the given error code anywhere in its chain.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
		if err == nil {
			return false
		}
	}
	return false
}

// CodeOf returns the code of the outermost structured error, or
// ErrCodeInternal when the error carries no code.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}
