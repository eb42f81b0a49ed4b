package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

func newRegistry() *Registry {
	return New(config.MetricsConfig{Namespace: "test"})
}

func TestRegistry_EditResolved(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	r.EditResolved("like", domain.OptimisticEdit{Status: domain.EditCommitted}, 20*time.Millisecond)
	r.EditResolved("like", domain.OptimisticEdit{Status: domain.EditRolledBack}, time.Second)
	r.EditResolved("like", domain.OptimisticEdit{Status: domain.EditCommitted}, 5*time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.EditsResolved.WithLabelValues("like", string(domain.EditCommitted))))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.EditsResolved.WithLabelValues("like", string(domain.EditRolledBack))))
	assert.Equal(t, 1, testutil.CollectAndCount(r.EditLatency))
}

func TestRegistry_RealtimeLabelsUseScopeKind(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	ev := domain.ChangeEvent{Table: "poll_votes", Type: domain.ChangeInsert}
	r.EventDispatched("poll:3f2a", ev)
	r.EventDispatched("poll:9b1c", ev)
	r.EventDropped("notifications:u1")
	r.Resynced("poll:3f2a", nil)
	r.Resynced("poll:3f2a", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.EventsDispatched.WithLabelValues("poll", "poll_votes", "INSERT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.EventsDropped.WithLabelValues("notifications")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Resyncs.WithLabelValues("poll", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Resyncs.WithLabelValues("poll", "error")))
}

func TestRegistry_PageLoaded(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	r.PageLoaded(10, 30*time.Millisecond, nil)
	r.PageLoaded(20, 40*time.Millisecond, nil)
	r.PageLoaded(0, time.Millisecond, errors.New("offline"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.PagesLoaded.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PagesLoaded.WithLabelValues("error")))
	assert.Equal(t, 20.0, testutil.ToFloat64(r.FeedItems))
}

func TestRegistry_Handler(t *testing.T) {
	t.Parallel()

	r := newRegistry()
	r.EventDropped("feed")

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `test_realtime_events_dropped_total{scope="feed"} 1`))
}
