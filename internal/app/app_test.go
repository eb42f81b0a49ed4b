package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/creatorfeed/internal/auth"
	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/notification"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

const testSecret = "test-secret-at-least-32-chars-long-for-security"

// inboxRepo serves a fixed inbox for every recipient.
type inboxRepo struct {
	unread int
	err    error
}

func (r inboxRepo) List(_ context.Context, recipientID uuid.UUID, _, offset int) ([]domain.Notification, error) {
	if r.err != nil || offset > 0 {
		return nil, r.err
	}
	return []domain.Notification{{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Type:        domain.NotificationTypeFollow,
		Message:     "started following you",
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}}, nil
}

func (r inboxRepo) GetByID(context.Context, uuid.UUID, uuid.UUID) (*domain.Notification, error) {
	return nil, domain.ErrNotFound
}

func (r inboxRepo) CountUnread(context.Context, uuid.UUID) (int, error) { return r.unread, r.err }

func (inboxRepo) MarkRead(context.Context, uuid.UUID, uuid.UUID) error { return nil }
func (inboxRepo) MarkAllRead(context.Context, uuid.UUID) error { return nil }
func (inboxRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error { return nil }

func newTestApp(t *testing.T, repo inboxRepo) (*App, *realtime.MemorySource) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	src := realtime.NewMemorySource()
	hub := realtime.NewHub(logger, src, nil, config.RealtimeConfig{BufferSize: 8})
	counts := aggregate.NewStore()
	edits := mutation.NewCoordinator(logger, nil, config.MutationConfig{Timeout: time.Second})
	cfg := &config.Config{Realtime: config.RealtimeConfig{Engine: config.RealtimeEngineRedis}}

	a := &App{
		log:    logger,
		cfg:    cfg,
		tokens: auth.NewJWTManager(testSecret, "creatorfeed", "", time.Hour),
		counts: counts,
		edits:  edits,
		hub:    hub,
		Notifications: notification.NewService(logger, repo, counts, edits, hub, logAlerter{log: logger},
			config.NotificationConfig{PageSize: 20, Realtime: true}),
	}
	t.Cleanup(a.Close)
	return a, src
}

func token(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	tok, err := auth.NewJWTManager(testSecret, "creatorfeed", "", time.Hour).GenerateAccessToken(userID, "viewer@example.com")
	require.NoError(t, err)
	return tok
}

func TestApp_LoginOpensInbox(t *testing.T) {
	t.Parallel()

	a, src := newTestApp(t, inboxRepo{unread: 4})
	viewer := uuid.New()

	s, err := a.Login(context.Background(), token(t, viewer))
	require.NoError(t, err)

	assert.Equal(t, viewer, s.Viewer.ID)
	got, ok := ctxutil.UserIDFromCtx(s.Context())
	require.True(t, ok)
	assert.Equal(t, viewer, got)

	assert.Equal(t, 4, s.Inbox.UnreadCount())
	assert.Len(t, s.Inbox.Items(), 1)
	assert.Equal(t, 1, src.Subscribers())
	assert.Same(t, s, a.Session())
}

func TestApp_LogoutTearsDown(t *testing.T) {
	t.Parallel()

	a, src := newTestApp(t, inboxRepo{unread: 2})
	viewer := uuid.New()

	s, err := a.Login(context.Background(), token(t, viewer))
	require.NoError(t, err)

	a.Logout()

	assert.Nil(t, a.Session())
	assert.Equal(t, 0, src.Subscribers())
	assert.Error(t, s.Context().Err())
	assert.Equal(t, 0, a.Counts().Counter(aggregate.Key{EntityID: viewer, Name: aggregate.UnreadCount}).Value())

	_, err = a.RequireSession()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Second logout is a no-op.
	a.Logout()
}

func TestApp_LogoutForgetsViewerState(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, inboxRepo{})
	post := uuid.New()
	likes := aggregate.Key{EntityID: post, Name: aggregate.LikeCount}
	liked := aggregate.Key{EntityID: post, Name: aggregate.Liked}

	_, err := a.Login(context.Background(), token(t, uuid.New()))
	require.NoError(t, err)
	a.Counts().Seed(likes, 3)
	a.Counts().SeedFlag(liked, true)
	a.Counts().Tally(post).SetOwn(1)

	a.Logout()

	// The next viewer starts from their own state, not the last one's.
	assert.False(t, a.Counts().SeedFlag(liked, false).Value())
	assert.Equal(t, aggregate.NoVote, a.Counts().Tally(post).Own())
	assert.Zero(t, a.Counts().Tally(post).Snapshot().Total)
	assert.Equal(t, 3, a.Counts().Counter(likes).Value())
}

func TestApp_LoginReplacesSession(t *testing.T) {
	t.Parallel()

	a, src := newTestApp(t, inboxRepo{})

	first, err := a.Login(context.Background(), token(t, uuid.New()))
	require.NoError(t, err)
	second, err := a.Login(context.Background(), token(t, uuid.New()))
	require.NoError(t, err)

	assert.Error(t, first.Context().Err())
	assert.NoError(t, second.Context().Err())
	assert.Equal(t, 1, src.Subscribers())

	got, err := a.RequireSession()
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestApp_LoginRejectsBadToken(t *testing.T) {
	t.Parallel()

	a, src := newTestApp(t, inboxRepo{})

	_, err := a.Login(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, a.Session())
	assert.Equal(t, 0, src.Subscribers())
}

func TestApp_LoginSurvivesInboxLoadError(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, inboxRepo{err: errors.New("connection reset")})

	s, err := a.Login(context.Background(), token(t, uuid.New()))
	require.NoError(t, err)
	require.Error(t, s.Inbox.Err())
	assert.Contains(t, s.Inbox.Err().Error(), "connection reset")
}

func TestApp_RunRedisWaitsForCancel(t *testing.T) {
	t.Parallel()

	a, _ := newTestApp(t, inboxRepo{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestIsShutdown(t *testing.T) {
	t.Parallel()

	assert.True(t, IsShutdown(context.Canceled))
	assert.False(t, IsShutdown(domain.ErrNetwork))
}
