package poll

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ voteRepo = &voteRepoMock{}

type voteRepoMock struct {
	ListByPostFunc func(ctx context.Context, postID uuid.UUID) ([]domain.PollVote, error)
	UpsertFunc     func(ctx context.Context, postID uuid.UUID, userID uuid.UUID, optionIndex int) error

	calls struct {
		ListByPost []struct {
			PostID uuid.UUID
		}
		Upsert []struct {
			PostID      uuid.UUID
			UserID      uuid.UUID
			OptionIndex int
		}
	}
	lockListByPost sync.RWMutex
	lockUpsert     sync.RWMutex
}

func (mock *voteRepoMock) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.PollVote, error) {
	if mock.ListByPostFunc == nil {
		panic("voteRepoMock.ListByPostFunc: method is nil but voteRepo.ListByPost was just called")
	}
	callInfo := struct {
		PostID uuid.UUID
	}{PostID: postID}
	mock.lockListByPost.Lock()
	mock.calls.ListByPost = append(mock.calls.ListByPost, callInfo)
	mock.lockListByPost.Unlock()
	return mock.ListByPostFunc(ctx, postID)
}

func (mock *voteRepoMock) ListByPostCalls() []struct {
	PostID uuid.UUID
} {
	mock.lockListByPost.RLock()
	calls := mock.calls.ListByPost
	mock.lockListByPost.RUnlock()
	return calls
}

func (mock *voteRepoMock) Upsert(ctx context.Context, postID uuid.UUID, userID uuid.UUID, optionIndex int) error {
	if mock.UpsertFunc == nil {
		panic("voteRepoMock.UpsertFunc: method is nil but voteRepo.Upsert was just called")
	}
	callInfo := struct {
		PostID      uuid.UUID
		UserID      uuid.UUID
		OptionIndex int
	}{PostID: postID, UserID: userID, OptionIndex: optionIndex}
	mock.lockUpsert.Lock()
	mock.calls.Upsert = append(mock.calls.Upsert, callInfo)
	mock.lockUpsert.Unlock()
	return mock.UpsertFunc(ctx, postID, userID, optionIndex)
}

func (mock *voteRepoMock) UpsertCalls() []struct {
	PostID      uuid.UUID
	UserID      uuid.UUID
	OptionIndex int
} {
	mock.lockUpsert.RLock()
	calls := mock.calls.Upsert
	mock.lockUpsert.RUnlock()
	return calls
}
