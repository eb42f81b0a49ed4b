// Package mutation applies optimistic local changes immediately and
// reconciles them against the result of the matching remote write.
//
// Edits on the same (entity, field) key are serialized: a second edit waits
// in a FIFO lane and applies locally only when the previous one resolved.
// One Coordinator serves a whole session so views showing the same entity
// share its lanes; each view submits through its own Group.
package mutation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// Change is the result of applying a mutation locally.
type Change struct {
	Previous any
	Pending  any
	// Undo reverts exactly what was applied. Called at most once.
	Undo func()
	// Commit runs once the remote write succeeded. Optional.
	Commit func()
}

// Mutation describes one optimistic edit.
type Mutation struct {
	Key  domain.EditKey
	Kind string
	// Apply computes and applies the new local value from the current one.
	// An error refuses the edit without any local change.
	Apply func() (Change, error)
	// Remote persists the edit.
	Remote func(ctx context.Context) error
}

func (m Mutation) validate() error {
	var errs []domain.FieldError
	if m.Kind == "" {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "required"})
	}
	if m.Key.Field == "" {
		errs = append(errs, domain.FieldError{Field: "key.field", Message: "required"})
	}
	if m.Apply == nil {
		errs = append(errs, domain.FieldError{Field: "apply", Message: "required"})
	}
	if m.Remote == nil {
		errs = append(errs, domain.FieldError{Field: "remote", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Observer is notified of every resolved edit.
type Observer interface {
	EditResolved(kind string, edit domain.OptimisticEdit, elapsed time.Duration)
}

// Coordinator owns the lanes of in-flight optimistic edits of one session.
type Coordinator struct {
	log      *slog.Logger
	observer Observer
	timeout  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	lanes map[domain.EditKey][]*Ticket

	// live guards local state writes from resolutions against Close.
	live   sync.RWMutex
	closed bool
}

// NewCoordinator creates a coordinator. observer may be nil.
func NewCoordinator(logger *slog.Logger, observer Observer, cfg config.MutationConfig) *Coordinator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Coordinator{
		log:      logger.With("service", "mutation"),
		observer: observer,
		timeout:  timeout,
		now:      time.Now,
		lanes:    make(map[domain.EditKey][]*Ticket),
	}
}

// Submit applies m locally and issues its remote write. When another edit on
// the same key is unresolved, m is queued and applies when its turn starts.
//
// An error is returned only when m was refused before anything was applied;
// remote failures are reported through the ticket.
func (c *Coordinator) Submit(ctx context.Context, m Mutation) (*Ticket, error) {
	return c.submit(ctx, nil, m)
}

func (c *Coordinator) submit(ctx context.Context, g *Group, m Mutation) (*Ticket, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}

	t := &Ticket{
		mutation: m,
		group:    g,
		ctx:      context.WithoutCancel(ctx),
		done:     make(chan struct{}),
		edit:     domain.OptimisticEdit{Key: m.Key, Status: domain.EditQueued},
	}

	c.live.RLock()
	closed := c.closed
	c.live.RUnlock()
	if closed || !g.track(t) {
		return nil, fmt.Errorf("submit %s: %w", m.Key, domain.ErrDiscarded)
	}

	c.mu.Lock()
	lane := append(c.lanes[m.Key], t)
	c.lanes[m.Key] = lane
	head := len(lane) == 1
	c.mu.Unlock()

	if !head {
		c.log.DebugContext(ctx, "edit queued",
			slog.String("key", m.Key.String()),
			slog.String("kind", m.Kind),
			slog.Int("position", len(lane)-1),
		)
		return t, nil
	}

	if err := c.start(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Pending returns the unresolved head edit of key, if any.
func (c *Coordinator) Pending(key domain.EditKey) (domain.OptimisticEdit, bool) {
	c.mu.Lock()
	lane := c.lanes[key]
	c.mu.Unlock()
	if len(lane) == 0 {
		return domain.OptimisticEdit{}, false
	}
	e := lane[0].Edit()
	return e, e.Status == domain.EditPending
}

// Busy reports whether any edit on key is queued or in flight.
func (c *Coordinator) Busy(key domain.EditKey) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lanes[key]) > 0
}

// IfIdle runs fn only while no edit on key is queued or in flight, and
// reports whether it ran. No edit on key can apply or undo while fn runs.
// fn must not call back into the coordinator.
func (c *Coordinator) IfIdle(key domain.EditKey, fn func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.lanes[key]) > 0 {
		return false
	}
	fn()
	return true
}

// InFlight returns the number of unresolved edits across all keys.
func (c *Coordinator) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, lane := range c.lanes {
		n += len(lane)
	}
	return n
}

// Close ends the session. Queued edits are discarded without being applied;
// in-flight edits resolve as discarded without touching local state once
// their remote call returns.
func (c *Coordinator) Close() {
	c.live.Lock()
	c.closed = true
	c.live.Unlock()

	c.mu.Lock()
	var queued []*Ticket
	for key, lane := range c.lanes {
		if len(lane) > 1 {
			queued = append(queued, lane[1:]...)
		}
		c.lanes[key] = lane[:1]
	}
	c.mu.Unlock()

	for _, t := range queued {
		c.settle(t, domain.EditDiscarded, domain.ErrDiscarded)
	}
}

// start applies t locally and launches its remote write.
func (c *Coordinator) start(t *Ticket) error {
	c.live.RLock()
	if c.closed || t.group.isClosed() {
		c.live.RUnlock()
		c.finish(t, domain.EditDiscarded, domain.ErrDiscarded)
		return fmt.Errorf("start %s: %w", t.mutation.Key, domain.ErrDiscarded)
	}
	change, err := t.mutation.Apply()
	c.live.RUnlock()

	if err != nil {
		c.finish(t, domain.EditRolledBack, err)
		return err
	}

	t.mu.Lock()
	t.undo = change.Undo
	t.commit = change.Commit
	t.started = c.now()
	t.edit.PreviousValue = change.Previous
	t.edit.PendingValue = change.Pending
	t.edit.Status = domain.EditPending
	t.mu.Unlock()

	go c.run(t)
	return nil
}

func (c *Coordinator) run(t *Ticket) {
	ctx, cancel := context.WithTimeout(t.ctx, c.timeout)
	defer cancel()

	result := make(chan error, 1)
	go func() { result <- t.mutation.Remote(ctx) }()

	var err error
	select {
	case err = <-result:
	case <-ctx.Done():
		err = ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%s %s: %w", t.mutation.Kind, t.mutation.Key, domain.ErrTimeout)
	}

	c.resolve(t, err)
}

func (c *Coordinator) resolve(t *Ticket, remoteErr error) {
	c.live.RLock()
	if c.closed {
		c.live.RUnlock()
		c.finish(t, domain.EditDiscarded, domain.ErrDiscarded)
		return
	}

	t.mu.Lock()
	undo, commit := t.undo, t.commit
	t.mu.Unlock()

	// Shared state changed by the edit is reconciled even when the view
	// that issued it is gone.
	status := domain.EditCommitted
	if remoteErr != nil {
		status = domain.EditRolledBack
		if undo != nil {
			undo()
		}
	} else if commit != nil {
		commit()
	}

	// The lane frees before the ticket settles, so a waiter sees the key idle.
	next := c.pop(t)
	if t.group.isClosed() {
		c.settle(t, domain.EditDiscarded, domain.ErrDiscarded)
		c.live.RUnlock()
		c.startNext(next)
		return
	}
	c.settle(t, status, remoteErr)
	c.live.RUnlock()

	elapsed := c.now().Sub(t.started)
	edit := t.Edit()
	if remoteErr != nil {
		c.log.WarnContext(t.ctx, "optimistic edit rolled back",
			slog.String("key", edit.Key.String()),
			slog.String("kind", t.mutation.Kind),
			slog.Bool("retryable", domain.IsRetryable(remoteErr)),
			slog.String("error", remoteErr.Error()),
		)
	} else {
		c.log.DebugContext(t.ctx, "optimistic edit committed",
			slog.String("key", edit.Key.String()),
			slog.String("kind", t.mutation.Kind),
			slog.Duration("elapsed", elapsed),
		)
	}
	if c.observer != nil {
		c.observer.EditResolved(t.mutation.Kind, edit, elapsed)
	}

	c.startNext(next)
}

func (c *Coordinator) settle(t *Ticket, status domain.EditStatus, err error) {
	t.group.release(t)
	t.finish(status, err)
}

// finish settles the lane head t and starts the next edit of its lane.
func (c *Coordinator) finish(t *Ticket, status domain.EditStatus, err error) {
	next := c.pop(t)
	c.settle(t, status, err)
	c.startNext(next)
}

// pop removes the resolved head t from its lane and returns the edit whose
// turn comes next, if any.
func (c *Coordinator) pop(t *Ticket) *Ticket {
	key := t.mutation.Key

	c.mu.Lock()
	defer c.mu.Unlock()
	lane := c.lanes[key]
	if len(lane) == 0 || lane[0] != t {
		return nil
	}
	lane = lane[1:]
	if len(lane) == 0 {
		delete(c.lanes, key)
		return nil
	}
	c.lanes[key] = lane
	return lane[0]
}

func (c *Coordinator) startNext(next *Ticket) {
	if next == nil {
		return
	}
	// Errors are already recorded on the ticket.
	_ = c.start(next)
}

// drop removes queued tickets of g from every lane, leaving heads in place.
func (c *Coordinator) drop(g *Group) []*Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	var dropped []*Ticket
	for key, lane := range c.lanes {
		kept := lane[:1]
		for _, t := range lane[1:] {
			if t.group == g {
				dropped = append(dropped, t)
				continue
			}
			kept = append(kept, t)
		}
		c.lanes[key] = kept
	}
	return dropped
}
