package feed

import (
	"context"
	"fmt"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// LoadPage fetches one page of published posts, newest first.
// HasMore is true exactly when the page came back full.
func (s *Service) LoadPage(ctx context.Context, cursor domain.Cursor) (domain.Page[domain.Post], error) {
	size := s.cfg.PageSize

	posts, err := s.posts.ListPublished(ctx, size, cursor.Offset(size))
	if err != nil {
		return domain.Page[domain.Post]{}, fmt.Errorf("feed.LoadPage: %w", err)
	}

	return domain.Page[domain.Post]{
		Items:      posts,
		NextCursor: cursor.Next(),
		HasMore:    len(posts) == size,
	}, nil
}
