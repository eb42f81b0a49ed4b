// Package payment implements the payment_methods and content_purchases
// tables using PostgreSQL.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const (
	methodsTable   = "payment_methods"
	purchasesTable = "content_purchases"
)

// Repo provides payment method and purchase persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new payment repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Payment methods
// ---------------------------------------------------------------------------

// ListMethods returns userID's payment methods, newest first.
func (r *Repo) ListMethods(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error) {
	q := postgres.Builder().
		Select("id", "user_id", "type", "last_four", "brand", "is_default", "is_demo", "created_at").
		From(methodsTable).
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC")

	var rows []methodRow
	if err := postgres.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, q); err != nil {
		return nil, postgres.MapError(err, "payment methods of", userID)
	}

	methods := make([]domain.PaymentMethod, len(rows))
	for i, row := range rows {
		methods[i] = row.toDomain()
	}
	return methods, nil
}

// CreateMethod inserts a payment method and returns it as stored.
func (r *Repo) CreateMethod(ctx context.Context, m *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	q := postgres.Builder().
		Insert(methodsTable).
		Columns("id", "user_id", "type", "last_four", "brand", "is_default", "is_demo").
		Values(id, m.UserID, m.Type, m.CardLastFour, m.CardBrand, m.IsDefault, m.IsDemo).
		Suffix("RETURNING id, user_id, type, last_four, brand, is_default, is_demo, created_at")

	var row methodRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "payment method", id)
	}

	created := row.toDomain()
	return &created, nil
}

// DeleteMethod removes one of userID's payment methods.
func (r *Repo) DeleteMethod(ctx context.Context, userID, id uuid.UUID) error {
	q := postgres.Builder().
		Delete(methodsTable).
		Where(sq.Eq{"id": id, "user_id": userID})

	n, err := postgres.Exec(ctx, postgres.QuerierFromCtx(ctx, r.db), q)
	if err != nil {
		return postgres.MapError(err, "payment method", id)
	}
	if n == 0 {
		return fmt.Errorf("payment method %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Purchases
// ---------------------------------------------------------------------------

// FindPurchase returns userID's completed purchase of postID, or nil when
// there is none.
func (r *Repo) FindPurchase(ctx context.Context, userID, postID uuid.UUID) (*domain.ContentPurchase, error) {
	q := postgres.Builder().
		Select("id", "user_id", "post_id", "amount", "payment_method_id", "status", "created_at").
		From(purchasesTable).
		Where(sq.Eq{"user_id": userID, "post_id": postID, "status": string(domain.PurchaseStatusCompleted)})

	var row purchaseRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		mapped := postgres.MapError(err, "purchase of post", postID)
		if errors.Is(mapped, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, mapped
	}

	p := row.toDomain()
	return &p, nil
}

// CreatePurchase records a purchase. A second purchase of the same post by
// the same user fails with ErrAlreadyExists.
func (r *Repo) CreatePurchase(ctx context.Context, p *domain.ContentPurchase) (*domain.ContentPurchase, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	status := p.Status
	if status == "" {
		status = domain.PurchaseStatusCompleted
	}

	q := postgres.Builder().
		Insert(purchasesTable).
		Columns("id", "user_id", "post_id", "amount", "payment_method_id", "status").
		Values(id, p.UserID, p.PostID, p.Amount, p.PaymentMethodID, string(status)).
		Suffix("RETURNING id, user_id, post_id, amount, payment_method_id, status, created_at")

	var row purchaseRow
	if err := postgres.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, q); err != nil {
		return nil, postgres.MapError(err, "purchase of post", p.PostID)
	}

	created := row.toDomain()
	return &created, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

type methodRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Type      string    `db:"type"`
	LastFour  string    `db:"last_four"`
	Brand     string    `db:"brand"`
	IsDefault bool      `db:"is_default"`
	IsDemo    bool      `db:"is_demo"`
	CreatedAt time.Time `db:"created_at"`
}

func (r methodRow) toDomain() domain.PaymentMethod {
	return domain.PaymentMethod{
		ID:           r.ID,
		UserID:       r.UserID,
		Type:         r.Type,
		CardLastFour: r.LastFour,
		CardBrand:    r.Brand,
		IsDefault:    r.IsDefault,
		IsDemo:       r.IsDemo,
		CreatedAt:    r.CreatedAt,
	}
}

type purchaseRow struct {
	ID              uuid.UUID  `db:"id"`
	UserID          uuid.UUID  `db:"user_id"`
	PostID          uuid.UUID  `db:"post_id"`
	Amount          float64    `db:"amount"`
	PaymentMethodID *uuid.UUID `db:"payment_method_id"`
	Status          string     `db:"status"`
	CreatedAt       time.Time  `db:"created_at"`
}

func (r purchaseRow) toDomain() domain.ContentPurchase {
	return domain.ContentPurchase{
		ID:              r.ID,
		UserID:          r.UserID,
		PostID:          r.PostID,
		Amount:          r.Amount,
		Status:          domain.PurchaseStatus(r.Status),
		PaymentMethodID: r.PaymentMethodID,
		CreatedAt:       r.CreatedAt,
	}
}
