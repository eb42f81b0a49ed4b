package premium

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	CreateFunc func(ctx context.Context, n *domain.Notification) (uuid.UUID, error)

	calls struct {
		Create []struct {
			N *domain.Notification
		}
	}
	lockCreate sync.RWMutex
}

func (mock *notificationRepoMock) Create(ctx context.Context, n *domain.Notification) (uuid.UUID, error) {
	if mock.CreateFunc == nil {
		panic("notificationRepoMock.CreateFunc: method is nil but notificationRepo.Create was just called")
	}
	callInfo := struct {
		N *domain.Notification
	}{N: n}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, n)
}

func (mock *notificationRepoMock) CreateCalls() []struct {
	N *domain.Notification
} {
	mock.lockCreate.RLock()
	calls := mock.calls.Create
	mock.lockCreate.RUnlock()
	return calls
}
