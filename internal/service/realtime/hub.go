// Package realtime fans change events out to view scopes. Each scope is
// dispatched serially in arrival order, and a lost connection triggers a
// full resync of the scope instead of trying to replay missed events.
package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

type source interface {
	Subscribe(ctx context.Context, filter domain.ChangeFilter, sink domain.ChangeSink) (unsubscribe func(), err error)
}

// Observer is notified about dispatch activity. All methods must be cheap.
type Observer interface {
	EventDispatched(scope string, ev domain.ChangeEvent)
	EventDropped(scope string)
	Resynced(scope string, err error)
}

// Scope is one consumer of change events.
type Scope struct {
	Name   string
	Filter domain.ChangeFilter
	// OnEvent merges one event into local state.
	OnEvent func(ctx context.Context, ev domain.ChangeEvent)
	// Resync refetches the scope's aggregate state. Optional.
	Resync func(ctx context.Context) error
}

func (s Scope) validate() error {
	var errs []domain.FieldError
	if s.Name == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if s.Filter.Table == "" {
		errs = append(errs, domain.FieldError{Field: "filter.table", Message: "required"})
	}
	if s.OnEvent == nil {
		errs = append(errs, domain.FieldError{Field: "on_event", Message: "required"})
	}
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// Hub opens and tracks scopes over one change-event source.
type Hub struct {
	log        *slog.Logger
	src        source
	observer   Observer
	bufferSize int

	mu     sync.Mutex
	scopes map[*Handle]struct{}
	closed bool
}

// NewHub creates a hub. observer may be nil.
func NewHub(logger *slog.Logger, src source, observer Observer, cfg config.RealtimeConfig) *Hub {
	size := cfg.BufferSize
	if size <= 0 {
		size = 64
	}
	return &Hub{
		log:        logger.With("service", "realtime"),
		src:        src,
		observer:   observer,
		bufferSize: size,
		scopes:     make(map[*Handle]struct{}),
	}
}

// Open subscribes scope and starts its dispatcher. Handlers receive a
// context carrying ctx's values that is cancelled when the scope closes.
func (h *Hub) Open(ctx context.Context, scope Scope) (*Handle, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, fmt.Errorf("open scope %s: %w", scope.Name, domain.ErrDiscarded)
	}
	h.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &Handle{
		hub:    h,
		scope:  scope,
		ctx:    runCtx,
		cancel: cancel,
		queue:  make(chan item, h.bufferSize),
		done:   make(chan struct{}),
	}

	unsubscribe, err := h.src.Subscribe(ctx, scope.Filter, s)
	if err != nil {
		cancel()
		return nil, domain.NewNetworkError("subscribe "+scope.Filter.String(), err)
	}
	s.unsubscribe = unsubscribe

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		unsubscribe()
		cancel()
		return nil, fmt.Errorf("open scope %s: %w", scope.Name, domain.ErrDiscarded)
	}
	h.scopes[s] = struct{}{}
	h.mu.Unlock()

	go s.loop()

	h.log.InfoContext(ctx, "realtime scope opened",
		slog.String("scope", scope.Name),
		slog.String("filter", scope.Filter.String()),
	)
	return s, nil
}

// Len returns the number of open scopes.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.scopes)
}

// Close closes every open scope. Later Open calls fail.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	scopes := make([]*Handle, 0, len(h.scopes))
	for s := range h.scopes {
		scopes = append(scopes, s)
	}
	h.mu.Unlock()

	for _, s := range scopes {
		s.Close()
	}
}

func (h *Hub) forget(s *Handle) {
	h.mu.Lock()
	delete(h.scopes, s)
	h.mu.Unlock()
}

type item struct {
	ev     domain.ChangeEvent
	resync bool
}

// Handle is an open scope. It implements domain.ChangeSink for the source.
type Handle struct {
	hub         *Hub
	scope       Scope
	ctx         context.Context
	cancel      context.CancelFunc
	unsubscribe func()

	queue   chan item
	dropped atomic.Bool
	done    chan struct{}
	once    sync.Once
}

// Event enqueues ev. When the buffer is full the event is dropped and the
// scope resyncs once the backlog drained.
func (s *Handle) Event(ev domain.ChangeEvent) {
	if !s.push(item{ev: ev}) {
		s.dropped.Store(true)
		if s.hub.observer != nil {
			s.hub.observer.EventDropped(s.scope.Name)
		}
	}
}

// Reconnected schedules a full resync after the events already queued.
func (s *Handle) Reconnected() {
	if !s.push(item{resync: true}) {
		s.dropped.Store(true)
	}
}

// Resync schedules a full resync, for example after a manual refresh.
func (s *Handle) Resync() { s.Reconnected() }

// Close unsubscribes from the source and stops the dispatcher. Events
// already queued are discarded. Safe to call more than once.
func (s *Handle) Close() {
	s.once.Do(func() {
		if s.unsubscribe != nil {
			s.unsubscribe()
		}
		s.cancel()
		<-s.done
		s.hub.forget(s)
		s.hub.log.Info("realtime scope closed", slog.String("scope", s.scope.Name))
	})
}

// Done is closed once the dispatcher stopped.
func (s *Handle) Done() <-chan struct{} { return s.done }

func (s *Handle) push(it item) bool {
	select {
	case <-s.ctx.Done():
		return true
	default:
	}
	select {
	case s.queue <- it:
		return true
	default:
		return false
	}
}

func (s *Handle) loop() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case it := <-s.queue:
			if s.ctx.Err() != nil {
				return
			}
			if it.resync {
				s.resync()
			} else {
				s.dispatch(it.ev)
			}
			if len(s.queue) == 0 && s.dropped.Swap(false) {
				s.resync()
			}
		}
	}
}

func (s *Handle) dispatch(ev domain.ChangeEvent) {
	if !s.scope.Filter.Matches(ev) {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.hub.log.ErrorContext(s.ctx, "realtime handler panicked",
				slog.String("scope", s.scope.Name),
				slog.String("table", ev.Table),
				slog.Any("panic", r),
			)
		}
	}()
	s.scope.OnEvent(s.ctx, ev)
	if s.hub.observer != nil {
		s.hub.observer.EventDispatched(s.scope.Name, ev)
	}
}

func (s *Handle) resync() {
	if s.scope.Resync == nil {
		return
	}
	err := s.scope.Resync(s.ctx)
	if errors.Is(err, context.Canceled) && s.ctx.Err() != nil {
		return
	}
	if err != nil {
		s.hub.log.WarnContext(s.ctx, "realtime resync failed",
			slog.String("scope", s.scope.Name),
			slog.String("error", err.Error()),
		)
	} else {
		s.hub.log.InfoContext(s.ctx, "realtime scope resynced", slog.String("scope", s.scope.Name))
	}
	if s.hub.observer != nil {
		s.hub.observer.Resynced(s.scope.Name, err)
	}
}
