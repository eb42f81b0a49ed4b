package premium

import "github.com/heartmarshall/creatorfeed/internal/domain"

// UnlockResult is the outcome of a successful unlock.
type UnlockResult struct {
	Purchase *domain.ContentPurchase
	// AlreadyPurchased is set when the viewer owned the post before this call.
	AlreadyPurchased bool
}
