package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_SingleField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("file", "required")

	if got := err.Error(); got != "validation: file: required" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
}

func TestValidationError_MultipleFields(t *testing.T) {
	t.Parallel()

	err := NewValidationErrors([]FieldError{
		{Field: "file", Message: "invalid type"},
		{Field: "size", Message: "too large"},
	})

	if got := err.Error(); got != "validation: 2 errors" {
		t.Fatalf("unexpected Error(): %q", got)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("errors.Is(err, ErrValidation) = false")
	}
	if len(err.Errors) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(err.Errors))
	}
}

func TestSentinelErrors_AreDistinct(t *testing.T) {
	t.Parallel()

	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation,
		ErrUnauthorized, ErrForbidden, ErrConflict,
		ErrNetwork, ErrNotConfirmed, ErrDiscarded, ErrPaymentRequired,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("sentinel errors %d and %d should not match", i, j)
			}
		}
	}
}

func TestErrTimeout_IsNetwork(t *testing.T) {
	t.Parallel()

	if !errors.Is(ErrTimeout, ErrNetwork) {
		t.Fatal("ErrTimeout should wrap ErrNetwork")
	}
	if !IsRetryable(ErrTimeout) {
		t.Fatal("ErrTimeout should be retryable")
	}
}

func TestNewNetworkError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewNetworkError("insert like", cause)

	if !errors.Is(err, ErrNetwork) {
		t.Error("expected ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be preserved")
	}
	if got := err.Error(); got != "insert like: connection reset" {
		t.Errorf("Error() = %q", got)
	}

	notFound := fmt.Errorf("post x: %w", ErrNotFound)
	if got := NewNetworkError("vote", notFound); got != notFound {
		t.Errorf("classified error should pass through unchanged, got %v", got)
	}
	if NewNetworkError("noop", nil) != nil {
		t.Error("nil error should stay nil")
	}
}

func TestIsRetryable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", NewNetworkError("op", errors.New("boom")), true},
		{"deadline", context.DeadlineExceeded, true},
		{"not found", ErrNotFound, false},
		{"validation", NewValidationError("file", "too large"), false},
		{"unauthorized", ErrUnauthorized, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"validation", NewValidationError("file", "File size exceeds 5MB limit."), "File size exceeds 5MB limit."},
		{"unauthorized", ErrUnauthorized, "Authentication required"},
		{"not found", fmt.Errorf("poll: %w", ErrNotFound), "This content is no longer available"},
		{"timeout", ErrTimeout, "The request timed out, please try again"},
		{"network", NewNetworkError("op", errors.New("boom")), "Something went wrong, please try again"},
		{"not confirmed", ErrNotConfirmed, "Action cancelled"},
		{"payment required", ErrPaymentRequired, "Add a payment method to unlock this content"},
		{"conflict", fmt.Errorf("unlock: %w", ErrConflict), "This changed in the meantime, please review and retry"},
		{"other", errors.New("weird"), "Something went wrong"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}
