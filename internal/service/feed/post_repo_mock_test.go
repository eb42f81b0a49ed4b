package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ postRepo = &postRepoMock{}

type postRepoMock struct {
	ListPublishedFunc   func(ctx context.Context, limit, offset int) ([]domain.Post, error)
	DeleteFunc          func(ctx context.Context, ownerID, id uuid.UUID) error
	AdjustLikeCountFunc func(ctx context.Context, id uuid.UUID, delta int) (int, error)

	calls struct {
		ListPublished []struct {
			Limit  int
			Offset int
		}
		Delete []struct {
			OwnerID uuid.UUID
			ID      uuid.UUID
		}
		AdjustLikeCount []struct {
			ID    uuid.UUID
			Delta int
		}
	}
	lockListPublished   sync.RWMutex
	lockDelete          sync.RWMutex
	lockAdjustLikeCount sync.RWMutex
}

func (mock *postRepoMock) ListPublished(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	if mock.ListPublishedFunc == nil {
		panic("postRepoMock.ListPublishedFunc: method is nil but postRepo.ListPublished was just called")
	}
	callInfo := struct {
		Limit  int
		Offset int
	}{Limit: limit, Offset: offset}
	mock.lockListPublished.Lock()
	mock.calls.ListPublished = append(mock.calls.ListPublished, callInfo)
	mock.lockListPublished.Unlock()
	return mock.ListPublishedFunc(ctx, limit, offset)
}

func (mock *postRepoMock) ListPublishedCalls() []struct {
	Limit  int
	Offset int
} {
	mock.lockListPublished.RLock()
	calls := mock.calls.ListPublished
	mock.lockListPublished.RUnlock()
	return calls
}

func (mock *postRepoMock) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("postRepoMock.DeleteFunc: method is nil but postRepo.Delete was just called")
	}
	callInfo := struct {
		OwnerID uuid.UUID
		ID      uuid.UUID
	}{OwnerID: ownerID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, ownerID, id)
}

func (mock *postRepoMock) DeleteCalls() []struct {
	OwnerID uuid.UUID
	ID      uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *postRepoMock) AdjustLikeCount(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	if mock.AdjustLikeCountFunc == nil {
		panic("postRepoMock.AdjustLikeCountFunc: method is nil but postRepo.AdjustLikeCount was just called")
	}
	callInfo := struct {
		ID    uuid.UUID
		Delta int
	}{ID: id, Delta: delta}
	mock.lockAdjustLikeCount.Lock()
	mock.calls.AdjustLikeCount = append(mock.calls.AdjustLikeCount, callInfo)
	mock.lockAdjustLikeCount.Unlock()
	return mock.AdjustLikeCountFunc(ctx, id, delta)
}

func (mock *postRepoMock) AdjustLikeCountCalls() []struct {
	ID    uuid.UUID
	Delta int
} {
	mock.lockAdjustLikeCount.RLock()
	calls := mock.calls.AdjustLikeCount
	mock.lockAdjustLikeCount.RUnlock()
	return calls
}
