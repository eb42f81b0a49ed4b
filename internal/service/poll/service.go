// Package poll runs the voting state machine of a post's poll and keeps its
// tally reconciled with the backend.
package poll

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
)

type voteRepo interface {
	Upsert(ctx context.Context, postID, userID uuid.UUID, optionIndex int) error
	ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.PollVote, error)
}

type hub interface {
	Open(ctx context.Context, scope realtime.Scope) (*realtime.Handle, error)
}

// Service opens polls.
type Service struct {
	log    *slog.Logger
	votes  voteRepo
	counts *aggregate.Store
	edits  *mutation.Coordinator
	hub    hub
}

// NewService creates a poll service over the session's shared tallies and
// edit lanes. hub may be nil.
func NewService(
	logger *slog.Logger,
	votes voteRepo,
	counts *aggregate.Store,
	edits *mutation.Coordinator,
	hub hub,
) *Service {
	return &Service{
		log:    logger.With("service", "poll"),
		votes:  votes,
		counts: counts,
		edits:  edits,
		hub:    hub,
	}
}
