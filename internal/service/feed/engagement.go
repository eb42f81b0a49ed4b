package feed

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
)

// ToggleLike flips the viewer's like on a post and moves its like count by
// one. The change is visible immediately; the ticket reports whether the
// backend accepted it or the change was rolled back.
func (v *View) ToggleLike(ctx context.Context, postID uuid.UUID) (*mutation.Ticket, error) {
	if !v.signedIn {
		return nil, domain.ErrUnauthorized
	}
	e, ok := v.lookup(postID)
	if !ok {
		return nil, fmt.Errorf("feed.ToggleLike %s: %w", postID, domain.ErrNotFound)
	}

	var liked bool
	return v.edits.Submit(ctx, mutation.Mutation{
		Key:  domain.EditKey{EntityID: postID, Field: domain.FieldLike},
		Kind: "like",
		Apply: func() (mutation.Change, error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.index[postID] != e {
				return mutation.Change{}, fmt.Errorf("feed.ToggleLike %s: %w", postID, domain.ErrNotFound)
			}

			prev := e.liked.Value()
			liked = !prev
			e.liked.Set(liked)
			applied := e.likes.Add(step(liked))

			return mutation.Change{
				Previous: prev,
				Pending:  liked,
				Undo: func() {
					e.liked.Set(prev)
					e.likes.Add(-applied)
				},
			}, nil
		},
		Remote: func(ctx context.Context) error {
			return v.svc.persistLike(ctx, v.viewer, postID, liked)
		},
	})
}

// ToggleSave flips the viewer's bookmark on a post.
func (v *View) ToggleSave(ctx context.Context, postID uuid.UUID) (*mutation.Ticket, error) {
	if !v.signedIn {
		return nil, domain.ErrUnauthorized
	}
	e, ok := v.lookup(postID)
	if !ok {
		return nil, fmt.Errorf("feed.ToggleSave %s: %w", postID, domain.ErrNotFound)
	}

	var saved bool
	return v.edits.Submit(ctx, mutation.Mutation{
		Key:  domain.EditKey{EntityID: postID, Field: domain.FieldSave},
		Kind: "save",
		Apply: func() (mutation.Change, error) {
			v.mu.Lock()
			defer v.mu.Unlock()
			if v.index[postID] != e {
				return mutation.Change{}, fmt.Errorf("feed.ToggleSave %s: %w", postID, domain.ErrNotFound)
			}

			prev := e.saved.Value()
			saved = !prev
			e.saved.Set(saved)

			return mutation.Change{
				Previous: prev,
				Pending:  saved,
				Undo:     func() { e.saved.Set(prev) },
			}, nil
		},
		Remote: func(ctx context.Context) error {
			var err error
			if saved {
				_, err = v.svc.saves.Insert(ctx, v.viewer, postID)
			} else {
				_, err = v.svc.saves.Delete(ctx, v.viewer, postID)
			}
			return err
		},
	})
}

// persistLike writes the like row and the denormalized counter in one
// transaction. A row that already matched the wanted state leaves the
// counter alone.
func (s *Service) persistLike(ctx context.Context, userID, postID uuid.UUID, liked bool) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		var (
			changed bool
			err     error
		)
		if liked {
			changed, err = s.likes.Insert(ctx, userID, postID)
		} else {
			changed, err = s.likes.Delete(ctx, userID, postID)
		}
		if err != nil || !changed {
			return err
		}
		_, err = s.posts.AdjustLikeCount(ctx, postID, step(liked))
		return err
	})
}

func step(on bool) int {
	if on {
		return 1
	}
	return -1
}
