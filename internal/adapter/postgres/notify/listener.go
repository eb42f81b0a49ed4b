// Package notify delivers row changes emitted by the realtime_notify trigger
// over PostgreSQL LISTEN/NOTIFY.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// conn is the subset of *pgx.Conn the listener needs.
type conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
	Close(ctx context.Context) error
}

type subscription struct {
	filter domain.ChangeFilter
	sink   domain.ChangeSink
}

// Listener holds one dedicated connection LISTENing on the change channel and
// fans notifications out to subscriptions with a client-side filter.
type Listener struct {
	log        *slog.Logger
	channel    string
	backoffMin time.Duration
	backoffMax time.Duration
	connect    func(ctx context.Context) (conn, error)

	mu     sync.Mutex
	nextID int
	subs   map[int]subscription

	connected atomic.Bool
	events    atomic.Int64
}

// NewListener creates a listener for the configured database and channel.
// Call Run to start it.
func NewListener(logger *slog.Logger, db config.DatabaseConfig, cfg config.RealtimeConfig) *Listener {
	return &Listener{
		log:        logger.With("adapter", "pg_notify"),
		channel:    cfg.Channel,
		backoffMin: cfg.BackoffMin,
		backoffMax: cfg.BackoffMax,
		connect: func(ctx context.Context) (conn, error) {
			connCfg, err := postgres.ListenerConfig(db)
			if err != nil {
				return nil, err
			}
			return pgx.ConnectConfig(ctx, connCfg)
		},
		subs: make(map[int]subscription),
	}
}

// Subscribe registers sink for events matching filter. Subscribing does not
// require a live connection.
func (l *Listener) Subscribe(_ context.Context, filter domain.ChangeFilter, sink domain.ChangeSink) (func(), error) {
	if filter.Table == "" {
		return nil, domain.NewValidationError("filter", "table required")
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = subscription{filter: filter, sink: sink}
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}, nil
}

// Connected reports whether the listener currently holds a live connection.
func (l *Listener) Connected() bool { return l.connected.Load() }

// Delivered returns the number of notifications decoded so far.
func (l *Listener) Delivered() int64 { return l.events.Load() }

// Run connects, LISTENs and dispatches until ctx is done. Lost connections
// are re-established with exponential backoff; every subscription is then
// told it reconnected.
func (l *Listener) Run(ctx context.Context) error {
	first := true
	for {
		c, err := l.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		l.connected.Store(true)
		if first {
			l.log.InfoContext(ctx, "realtime listener connected", slog.String("channel", l.channel))
		} else {
			l.log.InfoContext(ctx, "realtime listener reconnected", slog.String("channel", l.channel))
			l.broadcastReconnected()
		}
		first = false

		err = l.consume(ctx, c)
		l.connected.Store(false)
		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = c.Close(closeCtx)
		cancel()

		if ctx.Err() != nil {
			return nil
		}
		l.log.WarnContext(ctx, "realtime connection lost", slog.String("error", err.Error()))
	}
}

func (l *Listener) dial(ctx context.Context) (conn, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.backoffMin
	b.MaxInterval = l.backoffMax
	b.MaxElapsedTime = 0

	var c conn
	op := func() error {
		var err error
		c, err = l.connect(ctx)
		if err != nil {
			return err
		}
		if _, err = c.Exec(ctx, "LISTEN "+pgx.Identifier{l.channel}.Sanitize()); err != nil {
			_ = c.Close(ctx)
			return err
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		l.log.WarnContext(ctx, "realtime connect failed",
			slog.String("error", err.Error()),
			slog.Duration("retry_in", wait),
		)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(b, ctx), notify); err != nil {
		return nil, fmt.Errorf("listen %s: %w", l.channel, err)
	}
	return c, nil
}

func (l *Listener) consume(ctx context.Context, c conn) error {
	for {
		n, err := c.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.dispatch(ctx, n.Payload)
	}
}

func (l *Listener) dispatch(ctx context.Context, payload string) {
	ev, err := domain.ParseChangeEvent([]byte(payload))
	if err != nil {
		l.log.WarnContext(ctx, "skipping malformed change event", slog.String("error", err.Error()))
		return
	}
	l.events.Add(1)

	for _, s := range l.snapshot() {
		if s.filter.Matches(ev) {
			s.sink.Event(ev)
		}
	}
}

func (l *Listener) broadcastReconnected() {
	for _, s := range l.snapshot() {
		s.sink.Reconnected()
	}
}

func (l *Listener) snapshot() []subscription {
	l.mu.Lock()
	defer l.mu.Unlock()
	subs := make([]subscription, 0, len(l.subs))
	for _, s := range l.subs {
		subs = append(subs, s)
	}
	return subs
}
