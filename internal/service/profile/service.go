// Package profile serves profile headers: follower and post counts, creator
// checks and avatar uploads.
package profile

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
)

type profileRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	FollowerCount(ctx context.Context, profileID uuid.UUID) (int, error)
	SetAvatarURL(ctx context.Context, id uuid.UUID, url string) (*string, error)
}

type postRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

type blobStore interface {
	Upload(ctx context.Context, key, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	PublicURL(key string) string
	KeyFromURL(url string) (key string, ok bool)
}

// Service implements profile operations.
type Service struct {
	log      *slog.Logger
	profiles profileRepo
	posts    postRepo
	blobs    blobStore
	counts   *aggregate.Store
	maxBytes int64
	now      func() time.Time
}

// NewService creates a profile service.
func NewService(
	logger *slog.Logger,
	profiles profileRepo,
	posts postRepo,
	blobs blobStore,
	counts *aggregate.Store,
	cfg config.StorageConfig,
) *Service {
	maxBytes := cfg.MaxAvatarBytes
	if maxBytes <= 0 {
		maxBytes = 5 << 20
	}
	return &Service{
		log:      logger.With("service", "profile"),
		profiles: profiles,
		posts:    posts,
		blobs:    blobs,
		counts:   counts,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}
