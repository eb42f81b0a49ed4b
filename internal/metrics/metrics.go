// Package metrics exposes prometheus collectors for the optimistic edit
// pipeline, the realtime hub and the feed loader.
package metrics

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/creatorfeed/internal/config"
	"github.com/heartmarshall/creatorfeed/internal/domain"
)

// Registry holds every collector of one process.
type Registry struct {
	reg *prometheus.Registry

	EditsResolved *prometheus.CounterVec
	EditLatency   *prometheus.HistogramVec

	EventsDispatched *prometheus.CounterVec
	EventsDropped    *prometheus.CounterVec
	Resyncs          *prometheus.CounterVec

	PagesLoaded *prometheus.CounterVec
	PageLatency prometheus.Histogram
	FeedItems   prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New(cfg config.MetricsConfig) *Registry {
	ns := cfg.Namespace

	r := &Registry{
		reg: prometheus.NewRegistry(),

		EditsResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "optimistic_edits_total",
				Help:      "Optimistic edits by kind and final status",
			},
			[]string{"kind", "status"},
		),
		EditLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "optimistic_edit_seconds",
				Help:      "Time from local apply to remote confirmation or rollback",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"kind"},
		),

		EventsDispatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "realtime_events_total",
				Help:      "Change events merged into view state",
			},
			[]string{"scope", "table", "type"},
		),
		EventsDropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "realtime_events_dropped_total",
				Help:      "Change events dropped because a scope buffer was full",
			},
			[]string{"scope"},
		),
		Resyncs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "realtime_resyncs_total",
				Help:      "Full refetches triggered by reconnects or overflow",
			},
			[]string{"scope", "result"},
		),

		PagesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: ns,
				Name:      "feed_pages_total",
				Help:      "Feed page fetches by result",
			},
			[]string{"result"},
		),
		PageLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: ns,
				Name:      "feed_page_seconds",
				Help:      "Feed page fetch duration",
				Buckets:   prometheus.DefBuckets,
			},
		),
		FeedItems: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: ns,
				Name:      "feed_window_items",
				Help:      "Items currently held by the feed window",
			},
		),
	}

	r.reg.MustRegister(
		r.EditsResolved, r.EditLatency,
		r.EventsDispatched, r.EventsDropped, r.Resyncs,
		r.PagesLoaded, r.PageLatency, r.FeedItems,
	)
	return r
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer { return r.reg }

// EditResolved records a resolved optimistic edit.
func (r *Registry) EditResolved(kind string, edit domain.OptimisticEdit, elapsed time.Duration) {
	r.EditsResolved.WithLabelValues(kind, string(edit.Status)).Inc()
	r.EditLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

// EventDispatched records one change event merged by a scope.
func (r *Registry) EventDispatched(scope string, ev domain.ChangeEvent) {
	r.EventsDispatched.WithLabelValues(scopeKind(scope), ev.Table, string(ev.Type)).Inc()
}

// EventDropped records an event lost to a full scope buffer.
func (r *Registry) EventDropped(scope string) {
	r.EventsDropped.WithLabelValues(scopeKind(scope)).Inc()
}

// Resynced records a scope resync.
func (r *Registry) Resynced(scope string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.Resyncs.WithLabelValues(scopeKind(scope), result).Inc()
}

// PageLoaded records one feed page fetch.
func (r *Registry) PageLoaded(items int, elapsed time.Duration, err error) {
	if err != nil {
		r.PagesLoaded.WithLabelValues("error").Inc()
		return
	}
	r.PagesLoaded.WithLabelValues("ok").Inc()
	r.PageLatency.Observe(elapsed.Seconds())
	r.FeedItems.Set(float64(items))
}

// scopeKind strips the entity id from scope names such as "poll:<id>" to
// keep label cardinality bounded.
func scopeKind(scope string) string {
	kind, _, _ := strings.Cut(scope, ":")
	return kind
}
