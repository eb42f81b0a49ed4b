package rest

import (
	"log/slog"
	"net/http"

	"github.com/heartmarshall/creatorfeed/internal/transport/middleware"
)

// NewOpsHandler mounts the probes and, when metrics is non-nil, /metrics.
func NewOpsHandler(logger *slog.Logger, health *HealthHandler, metrics http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)
	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	log := logger.With("transport", "ops")
	return middleware.Wrap(mux,
		middleware.ActionID,
		middleware.Logger(log),
		middleware.Recovery(log),
	)
}
