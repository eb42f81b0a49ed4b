package notification

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// Inbox is the session-scoped notification store of one viewer. It is opened
// on sign-in and must be closed on sign-out.
type Inbox struct {
	svc    *Service
	log    *slog.Logger
	viewer uuid.UUID
	unread *aggregate.Counter
	edits  *mutation.Group
	scope  *realtime.Handle

	mu      sync.Mutex
	items   []domain.Notification
	hasMore bool
	loading bool
	err     error
	hasNew  bool
	closed  bool
	// removed holds locally deleted IDs whose DELETE event has not arrived.
	removed map[uuid.UUID]struct{}
	// readingID and readingAll describe the applied, unconfirmed read edit.
	readingID  uuid.UUID
	readingAll bool
}

// Open loads the first page and the unread count of the viewer in ctx and
// subscribes to their notification changes. A failed first load is reported
// through Err.
func (s *Service) Open(ctx context.Context) (*Inbox, error) {
	viewer, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	in := &Inbox{
		svc:     s,
		log:     s.log.With("user_id", viewer.String()),
		viewer:  viewer,
		unread:  s.counts.Counter(aggregate.Key{EntityID: viewer, Name: aggregate.UnreadCount}),
		edits:   s.edits.Group(),
		hasMore: true,
		removed: make(map[uuid.UUID]struct{}),
	}

	if s.hub != nil && s.cfg.Realtime {
		scope, err := s.hub.Open(ctx, realtime.Scope{
			Name: "notifications:" + viewer.String(),
			Filter: domain.ChangeFilter{
				Table:  domain.TableNotifications,
				Column: "recipient_id",
				Value:  viewer.String(),
			},
			OnEvent: in.onChange,
			Resync:  in.Refetch,
		})
		if err != nil {
			in.edits.Close()
			return nil, fmt.Errorf("notification.Open: %w", err)
		}
		in.scope = scope
	}

	if err := in.Refetch(ctx); err != nil {
		in.log.WarnContext(ctx, "initial notification load failed", slog.String("error", err.Error()))
	}
	return in, nil
}

// Close unsubscribes and detaches in-flight edits from the inbox.
func (i *Inbox) Close() {
	i.mu.Lock()
	i.closed = true
	i.mu.Unlock()

	i.edits.Close()
	if i.scope != nil {
		i.scope.Close()
	}
}

// Items returns the cached notifications, newest first.
func (i *Inbox) Items() []domain.Notification {
	i.mu.Lock()
	defer i.mu.Unlock()
	return slices.Clone(i.items)
}

// UnreadCount returns the viewer's unread notifications.
func (i *Inbox) UnreadCount() int { return i.unread.Value() }

func (i *Inbox) HasMore() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hasMore
}

func (i *Inbox) Loading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loading
}

// Err returns the last load failure, cleared by the next successful load.
func (i *Inbox) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// HasNew reports whether an unread notification arrived since the viewer
// last cleared the flag. It resets once nothing is unread.
func (i *Inbox) HasNew() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.unread.Value() == 0 {
		i.hasNew = false
	}
	return i.hasNew
}

// ClearNew acknowledges the arrival indicator.
func (i *Inbox) ClearNew() {
	i.mu.Lock()
	i.hasNew = false
	i.mu.Unlock()
}

// Refetch replaces the cache with the first page and the unread counter with
// the backend's count. Local edits still in flight stay applied.
func (i *Inbox) Refetch(ctx context.Context) error {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return domain.ErrDiscarded
	}
	i.loading = true
	i.mu.Unlock()

	size := i.svc.cfg.PageSize
	page, err := i.svc.repo.List(ctx, i.viewer, size, 0)
	var count int
	if err == nil {
		count, err = i.svc.repo.CountUnread(ctx, i.viewer)
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	i.loading = false
	if err != nil {
		i.err = fmt.Errorf("notification.Refetch: %w", err)
		return i.err
	}
	if i.closed {
		return nil
	}

	i.items = i.overlay(page)
	i.hasMore = len(page) == size
	i.err = nil
	i.edits.IfIdle(i.laneKey(), func() { i.unread.Set(count) })
	return nil
}

// LoadMore appends the next page, skipping notifications already cached.
// It is a no-op while another load runs or when nothing is left.
func (i *Inbox) LoadMore(ctx context.Context) (int, error) {
	i.mu.Lock()
	if i.closed {
		i.mu.Unlock()
		return 0, domain.ErrDiscarded
	}
	if i.loading || !i.hasMore {
		i.mu.Unlock()
		return 0, nil
	}
	i.loading = true
	offset := len(i.items)
	i.mu.Unlock()

	size := i.svc.cfg.PageSize
	page, err := i.svc.repo.List(ctx, i.viewer, size, offset)

	i.mu.Lock()
	defer i.mu.Unlock()
	i.loading = false
	if err != nil {
		i.err = fmt.Errorf("notification.LoadMore: %w", err)
		return 0, i.err
	}
	if i.closed {
		return 0, nil
	}

	added := 0
	for _, n := range i.overlay(page) {
		if i.indexOf(n.ID) >= 0 {
			continue
		}
		i.items = append(i.items, n)
		added++
	}
	i.hasMore = len(page) == size
	i.err = nil
	return added, nil
}

// overlay re-applies unresolved local edits to server rows. Caller holds mu.
func (i *Inbox) overlay(page []domain.Notification) []domain.Notification {
	out := make([]domain.Notification, 0, len(page))
	for _, n := range page {
		if _, gone := i.removed[n.ID]; gone {
			continue
		}
		if !n.IsRead && i.pendingRead(n.ID) {
			n.IsRead = true
		}
		out = append(out, n)
	}
	return out
}

// pendingRead reports whether an unconfirmed local edit marked id read.
// Caller holds mu.
func (i *Inbox) pendingRead(id uuid.UUID) bool {
	return i.readingAll || (i.readingID != uuid.Nil && i.readingID == id)
}

// laneKey is the edit lane of the inbox. Every inbox edit moves the unread
// counter, so they share one lane and resolve in submit order.
func (i *Inbox) laneKey() domain.EditKey {
	return domain.EditKey{EntityID: i.viewer, Field: domain.FieldInbox}
}

func (i *Inbox) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(i.items, func(n domain.Notification) bool { return n.ID == id })
}

// insertOrdered puts n back at its place in the newest-first order.
func (i *Inbox) insertOrdered(n domain.Notification) {
	at := slices.IndexFunc(i.items, func(o domain.Notification) bool { return o.CreatedAt.Before(n.CreatedAt) })
	if at < 0 {
		at = len(i.items)
	}
	i.items = slices.Insert(i.items, at, n)
}
