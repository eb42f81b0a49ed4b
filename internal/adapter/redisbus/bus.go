// Package redisbus carries change events over Redis pub/sub, one channel per
// table. It lets many client processes share a single database listener.
package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

const channelPrefix = "realtime:"

// Channel returns the pub/sub channel carrying changes of table.
func Channel(table string) string { return channelPrefix + table }

// NewClient builds a redis client from the realtime settings.
func NewClient(cfg config.RealtimeConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// Bus publishes and subscribes to change events.
type Bus struct {
	log        *slog.Logger
	client     redis.UniversalClient
	backoffMin time.Duration
	backoffMax time.Duration
}

// New creates a bus over client.
func New(logger *slog.Logger, client redis.UniversalClient, cfg config.RealtimeConfig) *Bus {
	return &Bus{
		log:        logger.With("adapter", "redisbus"),
		client:     client,
		backoffMin: cfg.BackoffMin,
		backoffMax: cfg.BackoffMax,
	}
}

// Publish sends ev to its table channel.
func (b *Bus) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if err := b.client.Publish(ctx, Channel(ev.Table), payload).Err(); err != nil {
		return domain.NewNetworkError("redis publish "+ev.Table, err)
	}
	return nil
}

// Subscribe listens on the filter's table channel and delivers matching
// events to sink. It returns once the server confirmed the subscription.
func (b *Bus) Subscribe(ctx context.Context, filter domain.ChangeFilter, sink domain.ChangeSink) (func(), error) {
	if filter.Table == "" {
		return nil, domain.NewValidationError("filter", "table required")
	}

	ps := b.client.Subscribe(ctx, Channel(filter.Table))
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, domain.NewNetworkError("redis subscribe "+filter.Table, err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &subscriber{log: b.log, filter: filter, sink: sink}
	go b.receive(runCtx, ps, sub)

	return func() {
		cancel()
		_ = ps.Close()
	}, nil
}

func (b *Bus) receive(ctx context.Context, ps *redis.PubSub, sub *subscriber) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = b.backoffMin
	bo.MaxInterval = b.backoffMax
	bo.MaxElapsedTime = 0

	for {
		msg, err := ps.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, redis.ErrClosed) {
				return
			}
			wait := bo.NextBackOff()
			b.log.WarnContext(ctx, "redis receive failed",
				slog.String("channel", Channel(sub.filter.Table)),
				slog.String("error", err.Error()),
				slog.Duration("retry_in", wait),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return
			}
			continue
		}
		bo.Reset()
		sub.handle(ctx, msg)
	}
}

// subscriber turns pub/sub messages into sink calls. A subscription
// confirmation after the first one means go-redis re-established the
// connection and resubscribed.
type subscriber struct {
	log    *slog.Logger
	filter domain.ChangeFilter
	sink   domain.ChangeSink
}

func (s *subscriber) handle(ctx context.Context, msg any) {
	switch m := msg.(type) {
	case *redis.Subscription:
		if m.Kind == "subscribe" {
			s.sink.Reconnected()
		}
	case *redis.Message:
		ev, err := domain.ParseChangeEvent([]byte(m.Payload))
		if err != nil {
			s.log.WarnContext(ctx, "skipping malformed change event",
				slog.String("channel", m.Channel),
				slog.String("error", err.Error()),
			)
			return
		}
		if s.filter.Matches(ev) {
			s.sink.Event(ev)
		}
	}
}

// Forwarder is a change sink that republishes every event onto the bus.
type Forwarder struct {
	bus     *Bus
	timeout time.Duration
}

// NewForwarder returns a sink that forwards events to bus.
func NewForwarder(bus *Bus) *Forwarder {
	return &Forwarder{bus: bus, timeout: 5 * time.Second}
}

func (f *Forwarder) Event(ev domain.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), f.timeout)
	defer cancel()
	if err := f.forward(ctx, ev); err != nil {
		f.bus.log.WarnContext(ctx, "forward change event", slog.String("table", ev.Table), slog.String("error", err.Error()))
	}
}

func (f *Forwarder) forward(ctx context.Context, ev domain.ChangeEvent) error {
	return f.bus.Publish(ctx, ev)
}

// Reconnected is a no-op: downstream subscribers resync on their own
// connection state, not on the upstream listener's.
func (f *Forwarder) Reconnected() {}
