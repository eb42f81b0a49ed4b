package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// UploadAvatar stores a new avatar for the viewer, points the profile at it
// and removes the previous one. Failing to remove the previous file does not
// fail the upload.
func (s *Service) UploadAvatar(ctx context.Context, input UploadAvatarInput) (string, error) {
	viewer, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return "", domain.ErrUnauthorized
	}
	if err := input.Validate(s.maxBytes); err != nil {
		return "", err
	}

	ext := input.ext()
	key := fmt.Sprintf("%s/%d.%s", viewer, s.now().UnixMilli(), ext)
	if err := s.blobs.Upload(ctx, key, avatarTypes[ext], input.Data); err != nil {
		return "", fmt.Errorf("profile.UploadAvatar: %w", err)
	}

	url := s.blobs.PublicURL(key)
	previous, err := s.profiles.SetAvatarURL(ctx, viewer, url)
	if err != nil {
		s.removeBestEffort(ctx, key)
		return "", fmt.Errorf("profile.UploadAvatar: %w", err)
	}

	if previous != nil {
		if old, ok := s.blobs.KeyFromURL(*previous); ok && old != key {
			s.removeBestEffort(ctx, old)
		}
	}

	s.log.InfoContext(ctx, "avatar uploaded",
		slog.String("user_id", viewer.String()),
		slog.String("key", key),
		slog.Int("bytes", len(input.Data)),
	)
	return url, nil
}

func (s *Service) removeBestEffort(ctx context.Context, key string) {
	if err := s.blobs.Remove(ctx, key); err != nil {
		s.log.WarnContext(ctx, "failed to delete avatar object",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
