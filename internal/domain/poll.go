package domain

import (
	"time"

	"github.com/google/uuid"
)

// PollDefinition is the poll attached to a post.
type PollDefinition struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// ValidOption reports whether idx addresses one of the poll's options.
func (p *PollDefinition) ValidOption(idx int) bool {
	return p != nil && idx >= 0 && idx < len(p.Options)
}

// PollVote is one user's vote on a post's poll. Keyed by (PostID, UserID).
type PollVote struct {
	PostID      uuid.UUID
	UserID      uuid.UUID
	OptionIndex int
	CreatedAt   time.Time
}
