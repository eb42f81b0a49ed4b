package profile

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// GetProfile returns a profile by ID.
func (s *Service) GetProfile(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	p, err := s.profiles.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("profile.GetProfile: %w", err)
	}
	return p, nil
}

// Stats loads the follower and post counts of a profile and publishes them
// to the shared counters.
func (s *Service) Stats(ctx context.Context, profileID uuid.UUID) (domain.ProfileStats, error) {
	stats := domain.ProfileStats{ProfileID: profileID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats.FollowerCount, err = s.profiles.FollowerCount(gctx, profileID)
		return err
	})
	g.Go(func() error {
		var err error
		stats.PostCount, err = s.posts.CountByUser(gctx, profileID)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.ProfileStats{}, fmt.Errorf("profile.Stats: %w", err)
	}

	s.counts.Counter(aggregate.Key{EntityID: profileID, Name: aggregate.FollowerCount}).Set(stats.FollowerCount)
	s.counts.Counter(aggregate.Key{EntityID: profileID, Name: aggregate.PostCount}).Set(stats.PostCount)
	return stats, nil
}

// IsCreator reports whether the viewer authored postID. Anonymous viewers
// are never the creator.
func (s *Service) IsCreator(ctx context.Context, postID uuid.UUID) (bool, error) {
	viewer, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok || postID == uuid.Nil {
		return false, nil
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("profile.IsCreator: %w", err)
	}
	return post.UserID == viewer, nil
}
