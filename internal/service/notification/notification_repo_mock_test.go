package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	CountUnreadFunc func(ctx context.Context, recipientID uuid.UUID) (int, error)
	DeleteFunc      func(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) error
	GetByIDFunc     func(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) (*domain.Notification, error)
	ListFunc        func(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]domain.Notification, error)
	MarkAllReadFunc func(ctx context.Context, recipientID uuid.UUID) error
	MarkReadFunc    func(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) error

	calls struct {
		CountUnread []struct {
			RecipientID uuid.UUID
		}
		Delete []struct {
			RecipientID uuid.UUID
			ID          uuid.UUID
		}
		GetByID []struct {
			RecipientID uuid.UUID
			ID          uuid.UUID
		}
		List []struct {
			RecipientID uuid.UUID
			Limit       int
			Offset      int
		}
		MarkAllRead []struct {
			RecipientID uuid.UUID
		}
		MarkRead []struct {
			RecipientID uuid.UUID
			ID          uuid.UUID
		}
	}
	lockCountUnread sync.RWMutex
	lockDelete      sync.RWMutex
	lockGetByID     sync.RWMutex
	lockList        sync.RWMutex
	lockMarkAllRead sync.RWMutex
	lockMarkRead    sync.RWMutex
}

func (mock *notificationRepoMock) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	if mock.CountUnreadFunc == nil {
		panic("notificationRepoMock.CountUnreadFunc: method is nil but notificationRepo.CountUnread was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
	}{RecipientID: recipientID}
	mock.lockCountUnread.Lock()
	mock.calls.CountUnread = append(mock.calls.CountUnread, callInfo)
	mock.lockCountUnread.Unlock()
	return mock.CountUnreadFunc(ctx, recipientID)
}

func (mock *notificationRepoMock) CountUnreadCalls() []struct {
	RecipientID uuid.UUID
} {
	mock.lockCountUnread.RLock()
	calls := mock.calls.CountUnread
	mock.lockCountUnread.RUnlock()
	return calls
}

func (mock *notificationRepoMock) Delete(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) error {
	if mock.DeleteFunc == nil {
		panic("notificationRepoMock.DeleteFunc: method is nil but notificationRepo.Delete was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
		ID          uuid.UUID
	}{RecipientID: recipientID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, recipientID, id)
}

func (mock *notificationRepoMock) DeleteCalls() []struct {
	RecipientID uuid.UUID
	ID          uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *notificationRepoMock) GetByID(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) (*domain.Notification, error) {
	if mock.GetByIDFunc == nil {
		panic("notificationRepoMock.GetByIDFunc: method is nil but notificationRepo.GetByID was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
		ID          uuid.UUID
	}{RecipientID: recipientID, ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, recipientID, id)
}

func (mock *notificationRepoMock) GetByIDCalls() []struct {
	RecipientID uuid.UUID
	ID          uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *notificationRepoMock) List(ctx context.Context, recipientID uuid.UUID, limit int, offset int) ([]domain.Notification, error) {
	if mock.ListFunc == nil {
		panic("notificationRepoMock.ListFunc: method is nil but notificationRepo.List was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
		Limit       int
		Offset      int
	}{RecipientID: recipientID, Limit: limit, Offset: offset}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, recipientID, limit, offset)
}

func (mock *notificationRepoMock) ListCalls() []struct {
	RecipientID uuid.UUID
	Limit       int
	Offset      int
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *notificationRepoMock) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	if mock.MarkAllReadFunc == nil {
		panic("notificationRepoMock.MarkAllReadFunc: method is nil but notificationRepo.MarkAllRead was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
	}{RecipientID: recipientID}
	mock.lockMarkAllRead.Lock()
	mock.calls.MarkAllRead = append(mock.calls.MarkAllRead, callInfo)
	mock.lockMarkAllRead.Unlock()
	return mock.MarkAllReadFunc(ctx, recipientID)
}

func (mock *notificationRepoMock) MarkAllReadCalls() []struct {
	RecipientID uuid.UUID
} {
	mock.lockMarkAllRead.RLock()
	calls := mock.calls.MarkAllRead
	mock.lockMarkAllRead.RUnlock()
	return calls
}

func (mock *notificationRepoMock) MarkRead(ctx context.Context, recipientID uuid.UUID, id uuid.UUID) error {
	if mock.MarkReadFunc == nil {
		panic("notificationRepoMock.MarkReadFunc: method is nil but notificationRepo.MarkRead was just called")
	}
	callInfo := struct {
		RecipientID uuid.UUID
		ID          uuid.UUID
	}{RecipientID: recipientID, ID: id}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, callInfo)
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, recipientID, id)
}

func (mock *notificationRepoMock) MarkReadCalls() []struct {
	RecipientID uuid.UUID
	ID          uuid.UUID
} {
	mock.lockMarkRead.RLock()
	calls := mock.calls.MarkRead
	mock.lockMarkRead.RUnlock()
	return calls
}
