package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// MapError converts pgx/pgconn errors to domain errors for repositories in
// sub-packages. entity and id only label the message.
func MapError(err error, entity string, id fmt.Stringer) error {
	label := ""
	if id != nil {
		label = id.String()
	}
	return mapError(err, entity, label)
}

// mapError converts pgx/pgconn errors to domain errors.
// context.DeadlineExceeded and context.Canceled pass through unclassified.
// Any other driver error is a retryable backend failure.
func mapError(err error, entity, id string) error {
	if err == nil {
		return nil
	}

	prefix := entity
	if id != "" {
		prefix = entity + " " + id
	}

	// context errors pass through as-is
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", prefix, err)
	}

	// pgx.ErrNoRows → domain.ErrNotFound
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
	}

	// PgError codes
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %w", prefix, domain.ErrAlreadyExists)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: %w", prefix, domain.ErrNotFound)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", prefix, domain.ErrValidation)
		case "42501": // insufficient_privilege
			return fmt.Errorf("%s: %w", prefix, domain.ErrForbidden)
		}
	}

	if domain.Classified(err) {
		return fmt.Errorf("%s: %w", prefix, err)
	}

	return domain.NewNetworkError(prefix, err)
}
