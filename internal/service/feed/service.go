// Package feed loads the paginated post feed into an append-only window and
// drives like/save toggles, post deletion and autoplay visibility on it.
package feed

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
)

type postRepo interface {
	ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error)
}

// engagementRepo is one of the like or save tables.
type engagementRepo interface {
	Insert(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	Among(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type hub interface {
	Open(ctx context.Context, scope realtime.Scope) (*realtime.Handle, error)
}

// PageObserver is told about every page fetch of a window.
type PageObserver interface {
	PageLoaded(items int, elapsed time.Duration, err error)
}

// Service builds feed windows over the post gateway.
type Service struct {
	log    *slog.Logger
	posts  postRepo
	likes  engagementRepo
	saves  engagementRepo
	tx     txManager
	counts *aggregate.Store
	edits  *mutation.Coordinator
	hub    hub
	pages  PageObserver
	cfg    config.FeedConfig
}

// NewService creates a feed service. counts and edits are the session's
// shared store and edit lanes. hub and pages may be nil.
func NewService(
	logger *slog.Logger,
	posts postRepo,
	likes engagementRepo,
	saves engagementRepo,
	tx txManager,
	counts *aggregate.Store,
	edits *mutation.Coordinator,
	hub hub,
	pages PageObserver,
	cfg config.FeedConfig,
) *Service {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	return &Service{
		log:    logger.With("service", "feed"),
		posts:  posts,
		likes:  likes,
		saves:  saves,
		tx:     tx,
		counts: counts,
		edits:  edits,
		hub:    hub,
		pages:  pages,
		cfg:    cfg,
	}
}

// PageSize returns the fixed number of posts per page.
func (s *Service) PageSize() int { return s.cfg.PageSize }
