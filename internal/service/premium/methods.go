package premium

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

const (
	demoCardType  = "demo_card"
	demoCardBrand = "Visa"
)

// ListPaymentMethods returns the viewer's payment methods, newest first.
func (s *Service) ListPaymentMethods(ctx context.Context) ([]domain.PaymentMethod, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	methods, err := s.payments.ListMethods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("premium.ListPaymentMethods: %w", err)
	}
	return methods, nil
}

// HasPaymentMethod reports whether the viewer has at least one stored method.
// It always asks the backend.
func (s *Service) HasPaymentMethod(ctx context.Context) (bool, error) {
	methods, err := s.ListPaymentMethods(ctx)
	if err != nil {
		return false, err
	}
	return len(methods) > 0, nil
}

// AddDemoCard stores a demo card as the viewer's default payment method.
// Only the last four digits are kept.
func (s *Service) AddDemoCard(ctx context.Context, input AddDemoCardInput) (*domain.PaymentMethod, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	digits := input.digits()
	created, err := s.payments.CreateMethod(ctx, &domain.PaymentMethod{
		UserID:       userID,
		Type:         demoCardType,
		CardLastFour: digits[len(digits)-4:],
		CardBrand:    demoCardBrand,
		IsDefault:    true,
		IsDemo:       true,
	})
	if err != nil {
		return nil, fmt.Errorf("premium.AddDemoCard: %w", err)
	}

	s.log.InfoContext(ctx, "payment method added",
		slog.String("user_id", userID.String()),
		slog.String("payment_method_id", created.ID.String()),
	)
	return created, nil
}

// RemovePaymentMethod deletes one of the viewer's payment methods after the
// removal was confirmed.
func (s *Service) RemovePaymentMethod(ctx context.Context, input RemovePaymentMethodInput) error {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return err
	}
	if !input.Confirmed {
		return domain.ErrNotConfirmed
	}

	if err := s.payments.DeleteMethod(ctx, userID, input.ID); err != nil {
		return fmt.Errorf("premium.RemovePaymentMethod: %w", err)
	}

	s.log.InfoContext(ctx, "payment method removed",
		slog.String("user_id", userID.String()),
		slog.String("payment_method_id", input.ID.String()),
	)
	return nil
}
