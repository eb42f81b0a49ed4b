// Package notification keeps the signed-in viewer's notification inbox and
// unread counter in sync with local edits and realtime row changes.
package notification

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
)

type notificationRepo interface {
	List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]domain.Notification, error)
	GetByID(ctx context.Context, recipientID, id uuid.UUID) (*domain.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, recipientID, id uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
	Delete(ctx context.Context, recipientID, id uuid.UUID) error
}

type hub interface {
	Open(ctx context.Context, scope realtime.Scope) (*realtime.Handle, error)
}

// Alerter plays the sound or visual cue of an inbound unread notification.
// Alert must not block.
type Alerter interface {
	Alert(ctx context.Context, n domain.Notification)
}

// Service opens inboxes.
type Service struct {
	log    *slog.Logger
	repo   notificationRepo
	counts *aggregate.Store
	edits  *mutation.Coordinator
	hub    hub
	alerts Alerter
	cfg    config.NotificationConfig
}

// NewService creates a notification service over the session's shared
// counters and edit lanes. hub and alerts may be nil.
func NewService(
	logger *slog.Logger,
	repo notificationRepo,
	counts *aggregate.Store,
	edits *mutation.Coordinator,
	hub hub,
	alerts Alerter,
	cfg config.NotificationConfig,
) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 20
	}
	return &Service{
		log:    logger.With("service", "notification"),
		repo:   repo,
		counts: counts,
		edits:  edits,
		hub:    hub,
		alerts: alerts,
		cfg:    cfg,
	}
}
