package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType is the kind of event a notification reports.
type NotificationType string

const (
	NotificationTypeLike     NotificationType = "like"
	NotificationTypeComment  NotificationType = "comment"
	NotificationTypeFollow   NotificationType = "follow"
	NotificationTypeMention  NotificationType = "mention"
	NotificationTypePurchase NotificationType = "purchase"
)

// Notification is an item in a viewer's notification inbox.
type Notification struct {
	ID          uuid.UUID        `json:"id"`
	RecipientID uuid.UUID        `json:"recipient_id"`
	SenderID    *uuid.UUID       `json:"sender_id"`
	Type        NotificationType `json:"type"`
	ContentID   *uuid.UUID       `json:"content_id"`
	Message     string           `json:"message"`
	Metadata    map[string]any   `json:"metadata"`
	IsRead      bool             `json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`

	Sender *ProfileSummary `json:"-"`
}
