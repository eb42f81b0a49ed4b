// Package premium manages the viewer's demo payment methods and unlocks
// premium posts for them.
package premium

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

type paymentRepo interface {
	ListMethods(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error)
	CreateMethod(ctx context.Context, m *domain.PaymentMethod) (*domain.PaymentMethod, error)
	DeleteMethod(ctx context.Context, userID, id uuid.UUID) error
	FindPurchase(ctx context.Context, userID, postID uuid.UUID) (*domain.ContentPurchase, error)
	CreatePurchase(ctx context.Context, p *domain.ContentPurchase) (*domain.ContentPurchase, error)
}

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
}

type notificationRepo interface {
	Create(ctx context.Context, n *domain.Notification) (uuid.UUID, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements payment method and purchase operations.
type Service struct {
	log           *slog.Logger
	payments      paymentRepo
	posts         postRepo
	notifications notificationRepo
	tx            txManager
}

// NewService creates a premium service.
func NewService(
	logger *slog.Logger,
	payments paymentRepo,
	posts postRepo,
	notifications notificationRepo,
	tx txManager,
) *Service {
	return &Service{
		log:           logger.With("service", "premium"),
		payments:      payments,
		posts:         posts,
		notifications: notifications,
		tx:            tx,
	}
}
