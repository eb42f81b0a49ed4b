// Package notification implements the notifications table and its RPCs
// using PostgreSQL.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const table = "notifications"

var columns = []string{
	"n.id", "n.recipient_id", "n.sender_id", "n.type", "n.content_id",
	"n.message", "n.metadata", "n.is_read", "n.created_at",
	"s.username AS sender_username", "s.display_name AS sender_display_name",
	"s.avatar_url AS sender_avatar_url", "s.is_verified AS sender_is_verified",
}

// Repo provides notification persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new notification repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

func (r *Repo) selectNotifications() sq.SelectBuilder {
	return postgres.Builder().
		Select(columns...).
		From(table + " n").
		LeftJoin("profiles s ON s.id = n.sender_id")
}

// List returns one page of recipientID's notifications with their sender, newest first.
func (r *Repo) List(ctx context.Context, recipientID uuid.UUID, limit, offset int) ([]domain.Notification, error) {
	q := r.selectNotifications().
		Where(sq.Eq{"n.recipient_id": recipientID}).
		OrderBy("n.created_at DESC", "n.id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))

	var rows []notificationRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "notifications of", recipientID)
	}

	result := make([]domain.Notification, 0, len(rows))
	for _, row := range rows {
		n, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, nil
}

// GetByID returns one notification of recipientID with its sender.
func (r *Repo) GetByID(ctx context.Context, recipientID, id uuid.UUID) (*domain.Notification, error) {
	q := r.selectNotifications().
		Where(sq.Eq{"n.id": id, "n.recipient_id": recipientID})

	var row notificationRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "notification", id)
	}

	n, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// CountUnread returns the number of unread notifications of recipientID.
func (r *Repo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	q := postgres.Builder().
		Select("count(*)").
		From(table).
		Where(sq.Eq{"recipient_id": recipientID, "is_read": false})

	var count int
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &count, q); err != nil {
		return 0, postgres.MapError(err, "unread notifications of", recipientID)
	}
	return count, nil
}

// MarkRead flags one notification as read.
func (r *Repo) MarkRead(ctx context.Context, recipientID, id uuid.UUID) error {
	q := postgres.Builder().
		Update(table).
		Set("is_read", true).
		Where(sq.Eq{"id": id, "recipient_id": recipientID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// MarkAllRead calls the mark_all_notifications_read RPC.
func (r *Repo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx,
		`SELECT mark_all_notifications_read($1)`, recipientID,
	); err != nil {
		return postgres.MapError(err, "mark_all_notifications_read", recipientID)
	}
	return nil
}

// Delete removes one notification of recipientID.
func (r *Repo) Delete(ctx context.Context, recipientID, id uuid.UUID) error {
	q := postgres.Builder().
		Delete(table).
		Where(sq.Eq{"id": id, "recipient_id": recipientID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "notification", id)
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Create inserts a notification and returns its ID.
func (r *Repo) Create(ctx context.Context, n *domain.Notification) (uuid.UUID, error) {
	metadata := []byte("{}")
	if len(n.Metadata) > 0 {
		b, err := json.Marshal(n.Metadata)
		if err != nil {
			return uuid.Nil, fmt.Errorf("encode metadata: %w", err)
		}
		metadata = b
	}

	id := n.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := postgres.Builder().
		Insert(table).
		Columns("id", "recipient_id", "sender_id", "type", "content_id", "message", "metadata").
		Values(id, n.RecipientID, n.SenderID, string(n.Type), n.ContentID, n.Message, metadata)

	if _, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q); err != nil {
		return uuid.Nil, postgres.MapError(err, "notification", id)
	}
	return id, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type notificationRow struct {
	ID          uuid.UUID  `db:"id"`
	RecipientID uuid.UUID  `db:"recipient_id"`
	SenderID    *uuid.UUID `db:"sender_id"`
	Type        string     `db:"type"`
	ContentID   *uuid.UUID `db:"content_id"`
	Message     string     `db:"message"`
	Metadata    []byte     `db:"metadata"`
	IsRead      bool       `db:"is_read"`
	CreatedAt   time.Time  `db:"created_at"`

	SenderUsername    *string `db:"sender_username"`
	SenderDisplayName *string `db:"sender_display_name"`
	SenderAvatarURL   *string `db:"sender_avatar_url"`
	SenderIsVerified  *bool   `db:"sender_is_verified"`
}

func (r notificationRow) toDomain() (domain.Notification, error) {
	n := domain.Notification{
		ID:          r.ID,
		RecipientID: r.RecipientID,
		SenderID:    r.SenderID,
		Type:        domain.NotificationType(r.Type),
		ContentID:   r.ContentID,
		Message:     r.Message,
		IsRead:      r.IsRead,
		CreatedAt:   r.CreatedAt,
	}

	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &n.Metadata); err != nil {
			return domain.Notification{}, fmt.Errorf("notification %s: decode metadata: %w", r.ID, err)
		}
	}

	if r.SenderID != nil && r.SenderUsername != nil {
		n.Sender = &domain.ProfileSummary{
			ID:         *r.SenderID,
			Username:   *r.SenderUsername,
			AvatarURL:  r.SenderAvatarURL,
			IsVerified: r.SenderIsVerified != nil && *r.SenderIsVerified,
		}
		if r.SenderDisplayName != nil {
			n.Sender.DisplayName = *r.SenderDisplayName
		}
	}

	return n, nil
}
