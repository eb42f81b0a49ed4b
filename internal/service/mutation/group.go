package mutation

import (
	"context"
	"sync"

	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// Group is one view's handle on a shared Coordinator. Its edits queue in the
// same lanes as every other view's; closing it detaches only its own.
type Group struct {
	c *Coordinator

	mu      sync.Mutex
	tickets map[*Ticket]struct{}
	closed  bool
}

// Group creates a handle for one view.
func (c *Coordinator) Group() *Group {
	return &Group{c: c, tickets: make(map[*Ticket]struct{})}
}

// Submit is Coordinator.Submit for an edit owned by the group's view.
func (g *Group) Submit(ctx context.Context, m Mutation) (*Ticket, error) {
	return g.c.submit(ctx, g, m)
}

// Pending returns the unresolved head edit of key, whichever view issued it.
func (g *Group) Pending(key domain.EditKey) (domain.OptimisticEdit, bool) {
	return g.c.Pending(key)
}

// Busy reports whether any view has an edit on key queued or in flight.
func (g *Group) Busy(key domain.EditKey) bool { return g.c.Busy(key) }

// IfIdle is Coordinator.IfIdle.
func (g *Group) IfIdle(key domain.EditKey, fn func()) bool { return g.c.IfIdle(key, fn) }

// InFlight returns the number of unresolved edits submitted through g.
func (g *Group) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.tickets)
}

// Close detaches the view. Its queued edits are discarded without being
// applied. Its in-flight edits still commit or roll back the shared state
// they changed, but their tickets report ErrDiscarded.
func (g *Group) Close() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	g.mu.Unlock()

	for _, t := range g.c.drop(g) {
		g.c.settle(t, domain.EditDiscarded, domain.ErrDiscarded)
	}
}

func (g *Group) isClosed() bool {
	if g == nil {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

// track registers t and reports false once the group is closed.
func (g *Group) track(t *Ticket) bool {
	if g == nil {
		return true
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return false
	}
	g.tickets[t] = struct{}{}
	return true
}

func (g *Group) release(t *Ticket) {
	if g == nil {
		return
	}
	g.mu.Lock()
	delete(g.tickets, t)
	g.mu.Unlock()
}
