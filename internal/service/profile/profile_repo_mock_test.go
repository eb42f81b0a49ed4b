package profile

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ profileRepo = &profileRepoMock{}

type profileRepoMock struct {
	FollowerCountFunc func(ctx context.Context, profileID uuid.UUID) (int, error)
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.Profile, error)
	SetAvatarURLFunc  func(ctx context.Context, id uuid.UUID, url string) (*string, error)

	calls struct {
		FollowerCount []struct {
			ProfileID uuid.UUID
		}
		GetByID []struct {
			ID uuid.UUID
		}
		SetAvatarURL []struct {
			ID  uuid.UUID
			URL string
		}
	}
	lockFollowerCount sync.RWMutex
	lockGetByID       sync.RWMutex
	lockSetAvatarURL  sync.RWMutex
}

func (mock *profileRepoMock) FollowerCount(ctx context.Context, profileID uuid.UUID) (int, error) {
	if mock.FollowerCountFunc == nil {
		panic("profileRepoMock.FollowerCountFunc: method is nil but profileRepo.FollowerCount was just called")
	}
	callInfo := struct {
		ProfileID uuid.UUID
	}{ProfileID: profileID}
	mock.lockFollowerCount.Lock()
	mock.calls.FollowerCount = append(mock.calls.FollowerCount, callInfo)
	mock.lockFollowerCount.Unlock()
	return mock.FollowerCountFunc(ctx, profileID)
}

func (mock *profileRepoMock) FollowerCountCalls() []struct {
	ProfileID uuid.UUID
} {
	mock.lockFollowerCount.RLock()
	calls := mock.calls.FollowerCount
	mock.lockFollowerCount.RUnlock()
	return calls
}

func (mock *profileRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Profile, error) {
	if mock.GetByIDFunc == nil {
		panic("profileRepoMock.GetByIDFunc: method is nil but profileRepo.GetByID was just called")
	}
	callInfo := struct {
		ID uuid.UUID
	}{ID: id}
	mock.lockGetByID.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, callInfo)
	mock.lockGetByID.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *profileRepoMock) GetByIDCalls() []struct {
	ID uuid.UUID
} {
	mock.lockGetByID.RLock()
	calls := mock.calls.GetByID
	mock.lockGetByID.RUnlock()
	return calls
}

func (mock *profileRepoMock) SetAvatarURL(ctx context.Context, id uuid.UUID, url string) (*string, error) {
	if mock.SetAvatarURLFunc == nil {
		panic("profileRepoMock.SetAvatarURLFunc: method is nil but profileRepo.SetAvatarURL was just called")
	}
	callInfo := struct {
		ID  uuid.UUID
		URL string
	}{ID: id, URL: url}
	mock.lockSetAvatarURL.Lock()
	mock.calls.SetAvatarURL = append(mock.calls.SetAvatarURL, callInfo)
	mock.lockSetAvatarURL.Unlock()
	return mock.SetAvatarURLFunc(ctx, id, url)
}

func (mock *profileRepoMock) SetAvatarURLCalls() []struct {
	ID  uuid.UUID
	URL string
} {
	mock.lockSetAvatarURL.RLock()
	calls := mock.calls.SetAvatarURL
	mock.lockSetAvatarURL.RUnlock()
	return calls
}
