package notification

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// DeleteInput holds parameters for deleting a notification.
type DeleteInput struct {
	ID uuid.UUID
	// Confirmed must be set after the user explicitly confirmed the deletion.
	Confirmed bool
}

// Validate validates the delete input.
func (i DeleteInput) Validate() error {
	if i.ID == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	return nil
}
