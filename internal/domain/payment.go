package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a stored (demo) card of a user.
type PaymentMethod struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Type         string
	CardLastFour string
	CardBrand    string
	IsDefault    bool
	IsDemo       bool
	CreatedAt    time.Time
}

// PurchaseStatus is the state of a content purchase.
type PurchaseStatus string

const (
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusRefunded  PurchaseStatus = "refunded"
)

// ContentPurchase records that a user unlocked a premium post.
type ContentPurchase struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	PostID          uuid.UUID
	Amount          float64
	Status          PurchaseStatus
	PaymentMethodID *uuid.UUID
	CreatedAt       time.Time
}
