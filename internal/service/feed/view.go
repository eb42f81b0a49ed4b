package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/singleflight"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// entry holds a post of the window. Counts and the viewer's flags live in
// the session store, so every window showing the post sees the same values.
type entry struct {
	post  domain.Post
	mine  bool
	likes *aggregate.Counter
	liked *aggregate.Flag
	saved *aggregate.Flag
}

// Item is a snapshot of one post in a window. LikeCount reflects local
// optimistic edits.
type Item struct {
	domain.Post
	domain.ViewerState
}

// View is a FeedWindow: the ordered, duplicate-free posts one screen loaded
// so far, plus the edits and realtime scope bound to it.
type View struct {
	svc        *Service
	log        *slog.Logger
	viewer     uuid.UUID
	signedIn   bool
	edits      *mutation.Group
	loader     *dataloader.Loader[uuid.UUID, engagement]
	visibility *VisibilityTracker
	group      singleflight.Group
	scope      *realtime.Handle

	mu      sync.Mutex
	entries []*entry
	index   map[uuid.UUID]*entry
	next    domain.Cursor
	hasMore bool
	loading bool
	err     error
	closed  bool
}

// Open creates an empty window for the viewer in ctx, if any. Anonymous
// windows can load pages but not toggle anything. onVisibility receives
// autoplay eligibility changes and may be nil.
func (s *Service) Open(ctx context.Context, onVisibility func(VisibilityChange)) (*View, error) {
	tracker, err := NewVisibilityTracker(s.cfg, onVisibility)
	if err != nil {
		return nil, fmt.Errorf("feed.Open: %w", err)
	}

	v := &View{
		svc:        s,
		log:        s.log,
		edits:      s.edits.Group(),
		visibility: tracker,
		index:      make(map[uuid.UUID]*entry),
		hasMore:    true,
	}
	if viewer, ok := ctxutil.UserIDFromCtx(ctx); ok {
		v.viewer = viewer
		v.signedIn = true
		v.loader = newEngagementLoader(s.likes, s.saves, viewer)
	}

	if s.hub != nil {
		scope, err := s.hub.Open(ctx, realtime.Scope{
			Name:    "feed",
			Filter:  domain.ChangeFilter{Table: domain.TablePosts},
			OnEvent: v.applyPostChange,
		})
		if err != nil {
			v.edits.Close()
			return nil, fmt.Errorf("feed.Open: %w", err)
		}
		v.scope = scope
	}

	return v, nil
}

// Close tears the window down. Its queued edits are dropped; in-flight ones
// still reconcile the shared counts but no longer report to the window.
func (v *View) Close() {
	v.mu.Lock()
	v.closed = true
	v.mu.Unlock()

	v.edits.Close()
	if v.scope != nil {
		v.scope.Close()
	}
}

// LoadMore appends the next page. Concurrent calls for the same page share
// a single fetch; it returns the number of posts appended.
func (v *View) LoadMore(ctx context.Context) (int, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return 0, domain.ErrDiscarded
	}
	if !v.hasMore {
		v.mu.Unlock()
		return 0, nil
	}
	cursor := v.next
	v.mu.Unlock()

	added, err, _ := v.group.Do(cursor.String(), func() (any, error) {
		return v.fetch(ctx, cursor)
	})
	if err != nil {
		return 0, err
	}
	return added.(int), nil
}

// OnSentinel is called with the intersection ratio of the end-of-list
// sentinel and loads the next page once it is visible enough.
func (v *View) OnSentinel(ctx context.Context, ratio float64) (int, error) {
	threshold := v.svc.cfg.LoadMoreThreshold
	if threshold <= 0 {
		threshold = 0.1
	}
	if ratio < threshold {
		return 0, nil
	}
	return v.LoadMore(ctx)
}

func (v *View) fetch(ctx context.Context, cursor domain.Cursor) (int, error) {
	start := time.Now()
	v.mu.Lock()
	v.loading = true
	v.mu.Unlock()

	page, err := v.svc.LoadPage(ctx, cursor)
	var states map[uuid.UUID]engagement
	if err == nil {
		states, err = v.engagement(ctx, page.Items)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = false

	if err != nil {
		v.err = err
		v.observe(start, err)
		return 0, err
	}
	if v.closed {
		return 0, domain.ErrDiscarded
	}
	if v.next != cursor {
		return 0, nil
	}

	added := 0
	for _, p := range page.Items {
		if _, dup := v.index[p.ID]; dup {
			continue
		}
		st := states[p.ID]
		e := &entry{
			post:  p,
			mine:  v.signedIn && p.UserID == v.viewer,
			likes: v.svc.counts.Seed(aggregate.Key{EntityID: p.ID, Name: aggregate.LikeCount}, p.LikeCount),
			liked: v.svc.counts.SeedFlag(aggregate.Key{EntityID: p.ID, Name: aggregate.Liked}, st.liked),
			saved: v.svc.counts.SeedFlag(aggregate.Key{EntityID: p.ID, Name: aggregate.Saved}, st.saved),
		}
		v.entries = append(v.entries, e)
		v.index[p.ID] = e
		added++
	}
	v.next = page.NextCursor
	v.hasMore = page.HasMore
	v.err = nil
	v.observe(start, nil)

	v.log.DebugContext(ctx, "feed page loaded",
		slog.Int("cursor", int(cursor)),
		slog.Int("added", added),
		slog.Bool("has_more", page.HasMore),
	)
	return added, nil
}

// observe must be called with v.mu held.
func (v *View) observe(start time.Time, err error) {
	if v.svc.pages != nil {
		v.svc.pages.PageLoaded(len(v.entries), time.Since(start), err)
	}
}

func (v *View) engagement(ctx context.Context, posts []domain.Post) (map[uuid.UUID]engagement, error) {
	if !v.signedIn || len(posts) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	values, errs := v.loader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("feed viewer state: %w", err)
		}
	}

	states := make(map[uuid.UUID]engagement, len(ids))
	for i, id := range ids {
		states[id] = values[i]
	}
	return states, nil
}

// Items returns the window in server order.
func (v *View) Items() []Item {
	v.mu.Lock()
	defer v.mu.Unlock()
	items := make([]Item, len(v.entries))
	for i, e := range v.entries {
		items[i] = e.snapshot()
	}
	return items
}

// Item returns one post of the window.
func (v *View) Item(id uuid.UUID) (Item, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.index[id]
	if !ok {
		return Item{}, false
	}
	return e.snapshot(), true
}

func (e *entry) snapshot() Item {
	p := e.post
	p.LikeCount = e.likes.Value()
	return Item{Post: p, ViewerState: domain.ViewerState{
		IsLiked: e.liked.Value(),
		IsSaved: e.saved.Value(),
		IsMine:  e.mine,
	}}
}

// Len returns the number of posts in the window.
func (v *View) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.entries)
}

// HasMore reports whether another page may exist.
func (v *View) HasMore() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hasMore
}

// Loading reports whether a page fetch is in flight.
func (v *View) Loading() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.loading
}

// Err returns the error of the last failed page fetch, cleared by the next success.
func (v *View) Err() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.err
}

// Visibility returns the autoplay tracker of the window.
func (v *View) Visibility() *VisibilityTracker { return v.visibility }

// Edits returns the window's handle on the session's edit lanes.
func (v *View) Edits() *mutation.Group { return v.edits }

func (v *View) lookup(id uuid.UUID) (*entry, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	e, ok := v.index[id]
	return e, ok
}

func (v *View) remove(id uuid.UUID) bool {
	v.mu.Lock()
	e, ok := v.index[id]
	if ok {
		delete(v.index, id)
		for i, cur := range v.entries {
			if cur == e {
				v.entries = append(v.entries[:i], v.entries[i+1:]...)
				break
			}
		}
	}
	v.mu.Unlock()

	if ok {
		v.visibility.Remove(id)
	}
	return ok
}

// applyPostChange merges post row changes: deletes drop the post, updates
// adopt the server like count unless a local like edit is unresolved.
func (v *View) applyPostChange(ctx context.Context, ev domain.ChangeEvent) {
	id, err := uuid.Parse(ev.Field("id").String())
	if err != nil {
		return
	}

	switch ev.Type {
	case domain.ChangeDelete:
		if v.remove(id) {
			v.log.DebugContext(ctx, "post removed by realtime event", slog.String("post_id", id.String()))
		}
	case domain.ChangeUpdate:
		e, ok := v.lookup(id)
		if !ok {
			return
		}
		count := ev.Field("like_count")
		if !count.Exists() {
			return
		}
		v.edits.IfIdle(domain.EditKey{EntityID: id, Field: domain.FieldLike}, func() {
			e.likes.Set(int(count.Int()))
		})
	}
}
