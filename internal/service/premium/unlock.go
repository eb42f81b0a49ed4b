package premium

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

const purchaseMessage = "purchased your premium content"

// Unlock records the viewer's purchase of a premium post and notifies its
// creator. Unlocking a post the viewer already owns succeeds without a new
// purchase.
func (s *Service) Unlock(ctx context.Context, input UnlockInput) (*UnlockResult, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	methods, err := s.payments.ListMethods(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("premium.Unlock: %w", err)
	}
	if len(methods) == 0 {
		return nil, domain.ErrPaymentRequired
	}

	existing, err := s.payments.FindPurchase(ctx, userID, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("premium.Unlock: %w", err)
	}
	if existing != nil {
		return &UnlockResult{Purchase: existing, AlreadyPurchased: true}, nil
	}

	post, err := s.posts.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, fmt.Errorf("premium.Unlock: %w", err)
	}
	if !post.IsPremium {
		return nil, domain.NewValidationError("post_id", "post is not premium content")
	}
	if post.Price != input.Price {
		return nil, fmt.Errorf("premium.Unlock: price is %.2f, not %.2f: %w", post.Price, input.Price, domain.ErrConflict)
	}

	method := defaultMethod(methods)
	var purchase *domain.ContentPurchase
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var txErr error
		purchase, txErr = s.payments.CreatePurchase(ctx, &domain.ContentPurchase{
			UserID:          userID,
			PostID:          post.ID,
			Amount:          post.Price,
			Status:          domain.PurchaseStatusCompleted,
			PaymentMethodID: &method.ID,
		})
		if txErr != nil {
			return txErr
		}

		if post.UserID == userID {
			return nil
		}
		contentID := post.ID
		_, txErr = s.notifications.Create(ctx, &domain.Notification{
			RecipientID: post.UserID,
			SenderID:    &userID,
			Type:        domain.NotificationTypePurchase,
			ContentID:   &contentID,
			Message:     purchaseMessage,
			Metadata: map[string]any{
				"post_id": post.ID.String(),
				"amount":  post.Price,
			},
		})
		return txErr
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// A concurrent unlock won the race.
		return s.alreadyPurchased(ctx, userID, post.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("premium.Unlock: %w", err)
	}

	s.log.InfoContext(ctx, "premium content unlocked",
		slog.String("user_id", userID.String()),
		slog.String("post_id", post.ID.String()),
		slog.Float64("amount", post.Price),
	)
	return &UnlockResult{Purchase: purchase}, nil
}

func (s *Service) alreadyPurchased(ctx context.Context, userID, postID uuid.UUID) (*UnlockResult, error) {
	existing, err := s.payments.FindPurchase(ctx, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("premium.Unlock: %w", err)
	}
	if existing == nil {
		return nil, fmt.Errorf("premium.Unlock: purchase of %s vanished: %w", postID, domain.ErrConflict)
	}
	return &UnlockResult{Purchase: existing, AlreadyPurchased: true}, nil
}

// defaultMethod returns the default method, or the newest one. methods is non-empty.
func defaultMethod(methods []domain.PaymentMethod) domain.PaymentMethod {
	for _, m := range methods {
		if m.IsDefault {
			return m
		}
	}
	return methods[0]
}
