package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ postRepo = &postRepoMock{}

type postRepoMock struct {
	CountByUserFunc func(ctx context.Context, userID uuid.UUID) (int, error)
	GetByIDFunc     func(ctx context.Context, id uuid.UUID) (*domain.Post, error)

	calls struct {
		CountByUser []struct {
			UserID uuid.UUID
		}
		GetByID []struct {
			ID uuid.UUID
		}
	}
	lockCountByUser sync.RWMutex
	lockGetByID     sync.RWMutex
}

func (mock *postRepoMock) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if mock.CountByUserFunc == nil {
		panic("postRepoMock.CountByUserFunc: method is nil but postRepo.CountByUser was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
	}{UserID: userID}
	mock.lockCountByUser.Lock()
	mock.calls.CountByUser = append(mock.calls.CountByUser, callInfo)
	mock.lockCountByUser.Unlock()
	return mock.CountByUserFunc(ctx, userID)
}

func (mock *postRepoMock) CountByUserCalls() []struct {
	UserID uuid.UUID
} {
	mock.lockCountByUser.RLock()
	calls := mock.calls.CountByUser
	mock.lockCountByUser.RUnlock()
	return calls
}

func (mock *postRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	if mock.GetByIDFunc == nil {
		panic("postRepoMock.GetByIDFunc: method is nil but postRepo.GetByID was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *postRepoMock) GetByIDCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}
