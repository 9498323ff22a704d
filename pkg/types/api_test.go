package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorWrapping(t *testing.T) {
	wrapped := fmt.Errorf("element %q: %w", "a", ErrNotFound)

	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("errors.Is must match the sentinel through wrapping")
	}

	var e *Error
	if !errors.As(wrapped, &e) {
		t.Fatal("errors.As must recover *Error")
	}
	if e.Kind != ErrKindNotFound {
		t.Fatalf("Kind = %d, want ErrKindNotFound", e.Kind)
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("boom")
	e := &Error{Kind: ErrKindState, Msg: "inconsistent index", Err: cause}

	if got := e.Error(); got != "inconsistent index: boom" {
		t.Fatalf("Error() = %q", got)
	}
	if !errors.Is(e, cause) {
		t.Fatal("Unwrap must expose the cause")
	}

	var nilErr *Error
	if got := nilErr.Error(); got != "<nil>" {
		t.Fatalf("nil Error() = %q", got)
	}
}
