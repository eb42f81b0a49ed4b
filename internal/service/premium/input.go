package premium

import (
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// AddDemoCardInput holds the card entered in the payment method dialog.
type AddDemoCardInput struct {
	CardNumber string
}

// digits returns the card number without spaces and dashes.
func (i AddDemoCardInput) digits() string {
	return strings.NewReplacer(" ", "", "-", "").Replace(i.CardNumber)
}

// Validate validates the card input.
func (i AddDemoCardInput) Validate() error {
	n := i.digits()
	if n == "" {
		return domain.NewValidationError("card_number", "required")
	}
	for _, r := range n {
		if r < '0' || r > '9' {
			return domain.NewValidationError("card_number", "must contain digits only")
		}
	}
	if len(n) < 12 || len(n) > 19 {
		return domain.NewValidationError("card_number", "must be 12 to 19 digits")
	}
	return nil
}

// RemovePaymentMethodInput holds parameters for removing a payment method.
type RemovePaymentMethodInput struct {
	ID uuid.UUID
	// Confirmed must be set after the user explicitly confirmed the removal.
	Confirmed bool
}

// Validate validates the remove input.
func (i RemovePaymentMethodInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}

// UnlockInput holds parameters for unlocking a premium post.
type UnlockInput struct {
	PostID uuid.UUID
	// Price is the price the viewer was shown.
	Price float64
}

// Validate validates the unlock input.
func (i UnlockInput) Validate() error {
	var errs []domain.FieldError

	if i.PostID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "post_id", Message: "required"})
	}
	if i.Price < 0 || math.IsNaN(i.Price) || math.IsInf(i.Price, 0) {
		errs = append(errs, domain.FieldError{Field: "price", Message: "must be a non-negative amount"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
