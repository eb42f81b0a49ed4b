package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrNetwork marks a failed remote call. Always retryable.
	ErrNetwork = errors.New("network or backend error")
	// ErrTimeout is returned when a pending edit was force-rolled-back after the bounded wait.
	ErrTimeout = fmt.Errorf("remote call timed out: %w", ErrNetwork)
	// ErrNotConfirmed is returned when a destructive action was not explicitly confirmed.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrDiscarded is returned for resolutions that arrive after the owning view was torn down.
	ErrDiscarded = errors.New("view discarded")
	// ErrPaymentRequired is returned when unlocking content without a stored payment method.
	ErrPaymentRequired = errors.New("payment method required")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// NetworkError wraps a failed remote call with the operation that issued it.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Err} }

// NewNetworkError wraps err as a retryable backend failure of op.
// Errors already classified as a domain kind are returned unchanged.
func NewNetworkError(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classified(err) {
		return err
	}
	return &NetworkError{Op: op, Err: err}
}

// Classified reports whether err already carries one of the domain kinds.
func Classified(err error) bool {
	for _, kind := range []error{
		ErrNotFound, ErrAlreadyExists, ErrValidation, ErrUnauthorized,
		ErrForbidden, ErrConflict, ErrNetwork, ErrNotConfirmed, ErrDiscarded,
		ErrPaymentRequired,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// IsRetryable reports whether the UI may offer a retry for err.
// Only transient backend failures are retryable.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNetwork) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return false
}

// UserMessage converts err into the short human-readable text shown inline or in a toast.
// Returns "" for nil.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		msgs := make([]string, 0, len(ve.Errors))
		for _, fe := range ve.Errors {
			msgs = append(msgs, fe.Message)
		}
		return strings.Join(msgs, "; ")
	case errors.Is(err, ErrUnauthorized):
		return "Authentication required"
	case errors.Is(err, ErrNotFound):
		return "This content is no longer available"
	case errors.Is(err, ErrForbidden):
		return "You are not allowed to do that"
	case errors.Is(err, ErrNotConfirmed):
		return "Action cancelled"
	case errors.Is(err, ErrPaymentRequired):
		return "Add a payment method to unlock this content"
	case errors.Is(err, ErrConflict):
		return "This changed in the meantime, please review and retry"
	case errors.Is(err, ErrTimeout):
		return "The request timed out, please try again"
	case errors.Is(err, ErrNetwork), errors.Is(err, context.DeadlineExceeded):
		return "Something went wrong, please try again"
	default:
		return "Something went wrong"
	}
}
