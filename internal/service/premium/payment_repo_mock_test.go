package premium

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

var _ paymentRepo = &paymentRepoMock{}

type paymentRepoMock struct {
	CreateMethodFunc   func(ctx context.Context, m *domain.PaymentMethod) (*domain.PaymentMethod, error)
	CreatePurchaseFunc func(ctx context.Context, p *domain.ContentPurchase) (*domain.ContentPurchase, error)
	DeleteMethodFunc   func(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	FindPurchaseFunc   func(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (*domain.ContentPurchase, error)
	ListMethodsFunc    func(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error)

	calls struct {
		CreateMethod []struct {
			M *domain.PaymentMethod
		}
		CreatePurchase []struct {
			P *domain.ContentPurchase
		}
		DeleteMethod []struct {
			UserID uuid.UUID
			ID     uuid.UUID
		}
		FindPurchase []struct {
			UserID uuid.UUID
			PostID uuid.UUID
		}
		ListMethods []struct {
			UserID uuid.UUID
		}
	}
	lockCreateMethod   sync.RWMutex
	lockCreatePurchase sync.RWMutex
	lockDeleteMethod   sync.RWMutex
	lockFindPurchase   sync.RWMutex
	lockListMethods    sync.RWMutex
}

func (mock *paymentRepoMock) CreateMethod(ctx context.Context, m *domain.PaymentMethod) (*domain.PaymentMethod, error) {
	if mock.CreateMethodFunc == nil {
		panic("paymentRepoMock.CreateMethodFunc: method is nil but paymentRepo.CreateMethod was just called")
	}
	callInfo := struct {
		M *domain.PaymentMethod
	}{M: m}
	mock.lockCreateMethod.Lock()
	mock.calls.CreateMethod = append(mock.calls.CreateMethod, callInfo)
	mock.lockCreateMethod.Unlock()
	return mock.CreateMethodFunc(ctx, m)
}

func (mock *paymentRepoMock) CreateMethodCalls() []struct {
	M *domain.PaymentMethod
} {
	mock.lockCreateMethod.RLock()
	calls := mock.calls.CreateMethod
	mock.lockCreateMethod.RUnlock()
	return calls
}

func (mock *paymentRepoMock) CreatePurchase(ctx context.Context, p *domain.ContentPurchase) (*domain.ContentPurchase, error) {
	if mock.CreatePurchaseFunc == nil {
		panic("paymentRepoMock.CreatePurchaseFunc: method is nil but paymentRepo.CreatePurchase was just called")
	}
	callInfo := struct {
		P *domain.ContentPurchase
	}{P: p}
	mock.lockCreatePurchase.Lock()
	mock.calls.CreatePurchase = append(mock.calls.CreatePurchase, callInfo)
	mock.lockCreatePurchase.Unlock()
	return mock.CreatePurchaseFunc(ctx, p)
}

func (mock *paymentRepoMock) CreatePurchaseCalls() []struct {
	P *domain.ContentPurchase
} {
	mock.lockCreatePurchase.RLock()
	calls := mock.calls.CreatePurchase
	mock.lockCreatePurchase.RUnlock()
	return calls
}

func (mock *paymentRepoMock) DeleteMethod(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if mock.DeleteMethodFunc == nil {
		panic("paymentRepoMock.DeleteMethodFunc: method is nil but paymentRepo.DeleteMethod was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		ID     uuid.UUID
	}{UserID: userID, ID: id}
	mock.lockDeleteMethod.Lock()
	mock.calls.DeleteMethod = append(mock.calls.DeleteMethod, callInfo)
	mock.lockDeleteMethod.Unlock()
	return mock.DeleteMethodFunc(ctx, userID, id)
}

func (mock *paymentRepoMock) DeleteMethodCalls() []struct {
	UserID uuid.UUID
	ID     uuid.UUID
} {
	mock.lockDeleteMethod.RLock()
	calls := mock.calls.DeleteMethod
	mock.lockDeleteMethod.RUnlock()
	return calls
}

func (mock *paymentRepoMock) FindPurchase(ctx context.Context, userID uuid.UUID, postID uuid.UUID) (*domain.ContentPurchase, error) {
	if mock.FindPurchaseFunc == nil {
		panic("paymentRepoMock.FindPurchaseFunc: method is nil but paymentRepo.FindPurchase was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
		PostID uuid.UUID
	}{UserID: userID, PostID: postID}
	mock.lockFindPurchase.Lock()
	mock.calls.FindPurchase = append(mock.calls.FindPurchase, callInfo)
	mock.lockFindPurchase.Unlock()
	return mock.FindPurchaseFunc(ctx, userID, postID)
}

func (mock *paymentRepoMock) FindPurchaseCalls() []struct {
	UserID uuid.UUID
	PostID uuid.UUID
} {
	mock.lockFindPurchase.RLock()
	calls := mock.calls.FindPurchase
	mock.lockFindPurchase.RUnlock()
	return calls
}

func (mock *paymentRepoMock) ListMethods(ctx context.Context, userID uuid.UUID) ([]domain.PaymentMethod, error) {
	if mock.ListMethodsFunc == nil {
		panic("paymentRepoMock.ListMethodsFunc: method is nil but paymentRepo.ListMethods was just called")
	}
	callInfo := struct {
		UserID uuid.UUID
	}{UserID: userID}
	mock.lockListMethods.Lock()
	mock.calls.ListMethods = append(mock.calls.ListMethods, callInfo)
	mock.lockListMethods.Unlock()
	return mock.ListMethodsFunc(ctx, userID)
}

func (mock *paymentRepoMock) ListMethodsCalls() []struct {
	UserID uuid.UUID
} {
	mock.lockListMethods.RLock()
	calls := mock.calls.ListMethods
	mock.lockListMethods.RUnlock()
	return calls
}
