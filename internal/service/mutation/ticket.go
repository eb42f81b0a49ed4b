package mutation

import (
	"context"
	"sync"
	"time"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// Ticket tracks one submitted edit until it resolves.
type Ticket struct {
	mutation Mutation
	group    *Group
	ctx      context.Context
	done     chan struct{}

	mu      sync.Mutex
	edit    domain.OptimisticEdit
	undo    func()
	commit  func()
	started time.Time
}

// Key returns the (entity, field) key of the edit.
func (t *Ticket) Key() domain.EditKey { return t.mutation.Key }

// Edit returns a snapshot of the edit record.
func (t *Ticket) Edit() domain.OptimisticEdit {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.edit
}

// Status returns the current lifecycle state.
func (t *Ticket) Status() domain.EditStatus {
	return t.Edit().Status
}

// Done is closed once the edit resolved.
func (t *Ticket) Done() <-chan struct{} { return t.done }

// Wait blocks until the edit resolved or ctx is done. The returned error is
// the resolution error: nil on commit.
func (t *Ticket) Wait(ctx context.Context) (domain.OptimisticEdit, error) {
	select {
	case <-t.done:
		e := t.Edit()
		return e, e.Err
	case <-ctx.Done():
		return t.Edit(), ctx.Err()
	}
}

func (t *Ticket) finish(status domain.EditStatus, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.edit.Status.IsResolved() {
		return
	}
	t.edit.Status = status
	t.edit.Err = err
	t.undo = nil
	t.commit = nil
	close(t.done)
}
