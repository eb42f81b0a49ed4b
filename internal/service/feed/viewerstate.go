package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
)

const (
	maxBatch = 100
	wait     = 2 * time.Millisecond
)

// engagement is the viewer's like and save flags of one post.
type engagement struct {
	liked bool
	saved bool
}

// newEngagementLoader batches like and save lookups of a viewer into one
// query per table. Results are not cached: toggles change them.
func newEngagementLoader(likes, saves engagementRepo, viewer uuid.UUID) *dataloader.Loader[uuid.UUID, engagement] {
	return dataloader.NewBatchedLoader(
		newEngagementBatchFn(likes, saves, viewer),
		dataloader.WithWait[uuid.UUID, engagement](wait),
		dataloader.WithBatchCapacity[uuid.UUID, engagement](maxBatch),
		dataloader.WithCache[uuid.UUID, engagement](&dataloader.NoCache[uuid.UUID, engagement]{}),
	)
}

func newEngagementBatchFn(likes, saves engagementRepo, viewer uuid.UUID) dataloader.BatchFunc[uuid.UUID, engagement] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[engagement] {
		liked, err := likes.Among(ctx, viewer, keys)
		if err != nil {
			return errorResults(len(keys), fmt.Errorf("liked among: %w", err))
		}
		saved, err := saves.Among(ctx, viewer, keys)
		if err != nil {
			return errorResults(len(keys), fmt.Errorf("saved among: %w", err))
		}

		results := make([]*dataloader.Result[engagement], len(keys))
		for i, id := range keys {
			results[i] = &dataloader.Result[engagement]{Data: engagement{liked: liked[id], saved: saved[id]}}
		}
		return results
	}
}

func errorResults(n int, err error) []*dataloader.Result[engagement] {
	results := make([]*dataloader.Result[engagement], n)
	for i := range results {
		results[i] = &dataloader.Result[engagement]{Error: err}
	}
	return results
}
