// Package ctxutil carries the viewer identity and a per-action correlation ID
// through context.Context.
package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey string

const (
	viewerIDKey ctxKey = "viewer_id"
	actionIDKey ctxKey = "action_id"
)

// WithUserID stores the signed-in viewer's user ID in the context.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, viewerIDKey, id)
}

// UserIDFromCtx extracts the viewer's user ID from the context.
// Returns uuid.Nil and false if the value is missing, nil UUID, or wrong type.
func UserIDFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(viewerIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

// WithActionID stores the correlation ID of one UI intent in the context.
func WithActionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, actionIDKey, id)
}

// ActionIDFromCtx extracts the action correlation ID.
// Returns an empty string if absent.
func ActionIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(actionIDKey).(string)
	return id
}

// EnsureActionID returns ctx with an action ID, generating one when absent.
func EnsureActionID(ctx context.Context) (context.Context, string) {
	if id := ActionIDFromCtx(ctx); id != "" {
		return ctx, id
	}
	id := uuid.NewString()
	return WithActionID(ctx, id), id
}
