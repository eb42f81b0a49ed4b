package feed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// DeletePost removes one of the viewer's own posts from the backend and the
// window. Nothing is issued until the deletion was confirmed.
func (v *View) DeletePost(ctx context.Context, input DeletePostInput) error {
	if err := input.Validate(); err != nil {
		return err
	}
	if !input.Confirmed {
		return domain.ErrNotConfirmed
	}
	if !v.signedIn {
		return domain.ErrUnauthorized
	}

	e, ok := v.lookup(input.PostID)
	if ok && !e.mine {
		return fmt.Errorf("feed.DeletePost %s: %w", input.PostID, domain.ErrForbidden)
	}

	if err := v.svc.posts.Delete(ctx, v.viewer, input.PostID); err != nil {
		return fmt.Errorf("feed.DeletePost: %w", err)
	}

	v.remove(input.PostID)
	v.svc.counts.Forget(input.PostID)

	v.log.InfoContext(ctx, "post deleted",
		slog.String("user_id", v.viewer.String()),
		slog.String("post_id", input.PostID.String()),
	)
	return nil
}
