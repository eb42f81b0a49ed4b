package feed

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// DeletePostInput holds parameters for deleting one of the viewer's posts.
type DeletePostInput struct {
	PostID uuid.UUID
	// Confirmed must be set after the user explicitly confirmed the deletion.
	Confirmed bool
}

// Validate validates the delete input.
func (i DeletePostInput) Validate() error {
	if i.PostID == uuid.Nil {
		return domain.NewValidationError("post_id", "required")
	}
	return nil
}
