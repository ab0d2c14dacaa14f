package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad input: %s", "value")

	if err.Code != ErrCodeInvalidInput {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidInput)
	}
	if err.Message != "bad input: value" {
		t.Errorf("Message = %q", err.Message)
	}
	if got, want := err.Error(), "INVALID_INPUT: bad input: value"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeSource, cause, "fetch input")

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want cause", errors.Unwrap(err))
	}
	if got, want := err.Error(), "SOURCE_ERROR: fetch input: connection refused"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIs_FindsCodeThroughChain(t *testing.T) {
	inner := New(ErrCodeRender, "layout failed")
	outer := Wrap(ErrCodeInternal, inner, "pipeline")

	if !Is(outer, ErrCodeInternal) {
		t.Error("Is() should match the outer code")
	}
	if !Is(outer, ErrCodeRender) {
		t.Error("Is() should match a code deeper in the chain")
	}
	if Is(outer, ErrCodeProfileNotFound) {
		t.Error("Is() matched an absent code")
	}
}

func TestIs_WrappedInPlainError(t *testing.T) {
	err := fmt.Errorf("context: %w", New(ErrCodeInvalidEngine, "bad engine"))

	if !Is(err, ErrCodeInvalidEngine) {
		t.Error("Is() should see through fmt.Errorf wrapping")
	}
}

func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrCodeProfileNotFound, "missing")); got != ErrCodeProfileNotFound {
		t.Errorf("CodeOf() = %v", got)
	}
	if got := CodeOf(errors.New("plain")); got != ErrCodeInternal {
		t.Errorf("CodeOf(plain) = %v, want internal fallback", got)
	}
}
