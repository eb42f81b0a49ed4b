package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/heartmarshall/creatorfeed/internal/adapter/blob"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/engagement"
	notificationrepo "github.com/heartmarshall/creatorfeed/internal/adapter/postgres/notification"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/notify"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/payment"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/pollvote"
	"github.com/heartmarshall/creatorfeed/internal/adapter/postgres/post"
	profilerepo "github.com/heartmarshall/creatorfeed/internal/adapter/postgres/profile"
	"github.com/heartmarshall/creatorfeed/internal/adapter/redisbus"
	"github.com/heartmarshall/creatorfeed/internal/auth"
	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/metrics"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/feed"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/notification"
	"github.com/heartmarshall/creatorfeed/internal/service/poll"
	"github.com/heartmarshall/creatorfeed/internal/service/premium"
	"github.com/heartmarshall/creatorfeed/internal/service/profile"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
)

// App is the composition root of one client process. It owns the gateway
// connections, the realtime hub, the shared count store and the edit lanes
// every view submits through; views are opened through its services and at
// most one signed-in Session is live at a time.
type App struct {
	log     *slog.Logger
	cfg     *config.Config
	tokens  *auth.JWTManager
	metrics *metrics.Registry
	counts  *aggregate.Store
	edits   *mutation.Coordinator
	hub     *realtime.Hub

	pool     *pgxpool.Pool
	posts    *post.Repo
	listener *notify.Listener
	redis    *redis.Client

	Feed          *feed.Service
	Polls         *poll.Service
	Notifications *notification.Service
	Premium       *premium.Service
	Profiles      *profile.Service

	mu      sync.Mutex
	session *Session
}

// New connects to the backend and wires every service.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		pool.Close()
		return nil, err
	}

	a := &App{
		log:    logger,
		cfg:    cfg,
		tokens: auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.Audience, cfg.Auth.AccessTokenTTL),
		counts: aggregate.NewStore(),
		pool:   pool,
	}

	var (
		hubObserver  realtime.Observer
		editObserver mutation.Observer
		pageObserver feed.PageObserver
	)
	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(cfg.Metrics)
		hubObserver, editObserver, pageObserver = a.metrics, a.metrics, a.metrics
	}

	var source realtimeSource
	switch cfg.Realtime.Engine {
	case config.RealtimeEngineRedis:
		a.redis = redisbus.NewClient(cfg.Realtime)
		source = redisbus.New(logger, a.redis, cfg.Realtime)
	default:
		a.listener = notify.NewListener(logger, cfg.Database, cfg.Realtime)
		source = a.listener
	}
	a.hub = realtime.NewHub(logger, source, hubObserver, cfg.Realtime)
	a.edits = mutation.NewCoordinator(logger, editObserver, cfg.Mutation)

	posts := post.New(pool)
	a.posts = posts
	notifications := notificationrepo.New(pool)
	tx := postgres.NewTxManager(pool)

	a.Feed = feed.NewService(logger, posts, engagement.NewLikes(pool), engagement.NewSaves(pool), tx,
		a.counts, a.edits, a.hub, pageObserver, cfg.Feed)
	a.Polls = poll.NewService(logger, pollvote.New(pool), a.counts, a.edits, a.hub)
	a.Notifications = notification.NewService(logger, notifications, a.counts, a.edits, a.hub,
		logAlerter{log: logger}, cfg.Notifications)
	a.Premium = premium.NewService(logger, payment.New(pool), posts, notifications, tx)
	a.Profiles = profile.NewService(logger, profilerepo.New(pool), posts, blobs, a.counts, cfg.Storage)

	return a, nil
}

type realtimeSource interface {
	Subscribe(ctx context.Context, filter domain.ChangeFilter, sink domain.ChangeSink) (func(), error)
}

// Metrics returns the collector registry, nil when metrics are disabled.
func (a *App) Metrics() *metrics.Registry { return a.metrics }

// Counts returns the process-wide aggregate count store.
func (a *App) Counts() *aggregate.Store { return a.counts }

// Post fetches one post, for views opened outside a feed window.
func (a *App) Post(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return a.posts.GetByID(ctx, id)
}

// Ping checks the database connection.
func (a *App) Ping(ctx context.Context) error { return a.pool.Ping(ctx) }

// RealtimeReady reports whether change events can currently be delivered.
func (a *App) RealtimeReady(ctx context.Context) error {
	switch {
	case a.listener != nil:
		if !a.listener.Connected() {
			return fmt.Errorf("listener disconnected: %w", domain.ErrNetwork)
		}
	case a.redis != nil:
		if err := a.redis.Ping(ctx).Err(); err != nil {
			return domain.NewNetworkError("redis ping", err)
		}
	}
	return nil
}

// Run drives the realtime transport until ctx is done. The redis engine
// manages its connections per subscription and only waits here.
func (a *App) Run(ctx context.Context) error {
	a.log.InfoContext(ctx, "realtime started",
		slog.String("engine", a.cfg.Realtime.Engine),
		slog.String("version", BuildVersion()),
	)
	if a.listener != nil {
		return a.listener.Run(ctx)
	}
	<-ctx.Done()
	return nil
}

// Close logs out, tears down every realtime scope and releases connections.
// Edits still in flight resolve without touching local state.
func (a *App) Close() {
	a.Logout()
	a.edits.Close()
	a.hub.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn("close redis client", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}

// Session is the signed-in state of one viewer: its identity and the
// notification inbox subscribed on login.
type Session struct {
	Viewer auth.Viewer
	Inbox  *notification.Inbox

	ctx    context.Context
	cancel context.CancelFunc
}

// Context returns a context carrying the viewer ID. It is cancelled on logout.
func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) close() {
	s.Inbox.Close()
	s.cancel()
}

// Login verifies token, replaces any previous session and opens the viewer's
// notification inbox. A failed inbox open leaves the app signed out.
func (a *App) Login(ctx context.Context, token string) (*Session, error) {
	authed, viewer, err := a.tokens.Authenticate(ctx, token)
	if err != nil {
		return nil, err
	}

	a.Logout()

	sctx, cancel := context.WithCancel(authed)
	inbox, err := a.Notifications.Open(sctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open inbox: %w", err)
	}

	s := &Session{Viewer: viewer, Inbox: inbox, ctx: sctx, cancel: cancel}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	a.log.InfoContext(ctx, "signed in", slog.String("user_id", viewer.ID.String()))
	return s, nil
}

// Session returns the live session, or nil when signed out.
func (a *App) Session() *Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.session
}

// Logout closes the live session's inbox and drops everything the store
// holds for the viewer: their counters, like and save flags and own poll
// votes. It is a no-op when signed out.
func (a *App) Logout() {
	a.mu.Lock()
	s := a.session
	a.session = nil
	a.mu.Unlock()

	if s == nil {
		return
	}
	s.close()
	a.counts.ForgetViewer(s.Viewer.ID)
	a.log.Info("signed out", slog.String("user_id", s.Viewer.ID.String()))
}

// RequireSession returns the live session or ErrUnauthorized.
func (a *App) RequireSession() (*Session, error) {
	if s := a.Session(); s != nil {
		return s, nil
	}
	return nil, fmt.Errorf("no session: %w", domain.ErrUnauthorized)
}

// logAlerter surfaces inbound notifications in the log. Terminal clients
// have no sound or toast to play.
type logAlerter struct {
	log *slog.Logger
}

func (l logAlerter) Alert(ctx context.Context, n domain.Notification) {
	attrs := []any{
		slog.String("notification_id", n.ID.String()),
		slog.String("type", string(n.Type)),
	}
	if n.Message != "" {
		attrs = append(attrs, slog.String("message", n.Message))
	}
	l.log.InfoContext(ctx, "new notification", attrs...)
}

// IsShutdown reports whether err only signals a requested shutdown.
func IsShutdown(err error) bool {
	return errors.Is(err, context.Canceled)
}
