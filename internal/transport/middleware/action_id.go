package middleware

import (
	"net/http"

	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// ActionIDHeader carries the correlation ID of a request.
const ActionIDHeader = "X-Action-Id"

// ActionID reuses the caller's correlation ID or generates one, stores it in
// the request context and echoes it in the response.
func ActionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(ActionIDHeader); id != "" {
			ctx = ctxutil.WithActionID(ctx, id)
		}
		ctx, id := ctxutil.EnsureActionID(ctx)
		w.Header().Set(ActionIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
