package feed

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

var _ engagementRepo = &engagementRepoMock{}

type engagementRepoMock struct {
	InsertFunc func(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	DeleteFunc func(ctx context.Context, userID, postID uuid.UUID) (bool, error)
	AmongFunc  func(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error)

	calls struct {
		Insert []struct {
			UserID uuid.UUID
			PostID uuid.UUID
		}
		Delete []struct {
			UserID uuid.UUID
			PostID uuid.UUID
		}
		Among []struct {
			UserID  uuid.UUID
			PostIDs []uuid.UUID
		}
	}
	lockInsert sync.RWMutex
	lockDelete sync.RWMutex
	lockAmong  sync.RWMutex
}

func (mock *engagementRepoMock) Insert(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if mock.InsertFunc == nil {
		panic("engagementRepoMock.InsertFunc: method is nil but engagementRepo.Insert was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		PostID uuid.UUID
	}{UserID: userID, PostID: postID}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, userID, postID)
}

func (mock *engagementRepoMock) InsertCalls() []struct {
	UserID uuid.UUID
	PostID uuid.UUID
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *engagementRepoMock) Delete(ctx context.Context, userID, postID uuid.UUID) (bool, error) {
	if mock.DeleteFunc == nil {
		panic("engagementRepoMock.DeleteFunc: method is nil but engagementRepo.Delete was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		PostID uuid.UUID
	}{UserID: userID, PostID: postID}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, userID, postID)
}

func (mock *engagementRepoMock) DeleteCalls() []struct {
	UserID uuid.UUID
	PostID uuid.UUID
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}

func (mock *engagementRepoMock) Among(ctx context.Context, userID uuid.UUID, postIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	if mock.AmongFunc == nil {
		panic("engagementRepoMock.AmongFunc: method is nil but engagementRepo.Among was just called")
	}
	callInfo := struct {
		UserID  uuid.UUID
		PostIDs []uuid.UUID
	}{UserID: userID, PostIDs: postIDs}
	mock.lockAmong.Lock()
	mock.calls.Among = append(mock.calls.Among, callInfo)
	mock.lockAmong.Unlock()
	return mock.AmongFunc(ctx, userID, postIDs)
}

func (mock *engagementRepoMock) AmongCalls() []struct {
	UserID  uuid.UUID
	PostIDs []uuid.UUID
} {
	mock.lockAmong.RLock()
	calls := mock.calls.Among
	mock.lockAmong.RUnlock()
	return calls
}
