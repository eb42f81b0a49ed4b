// Package middleware wraps the ops HTTP surface of long-running client
// processes: metrics scrapes and health probes.
package middleware

import "net/http"

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain combines multiple middleware into a single Middleware.
// Chain(mw1, mw2)(handler) results in mw1(mw2(handler)), so mw1 runs first.
func Chain(mws ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(mws) - 1; i >= 0; i-- {
			final = mws[i](final)
		}
		return final
	}
}

// Wrap applies mws to h, outermost first.
func Wrap(h http.Handler, mws ...Middleware) http.Handler {
	return Chain(mws...)(h)
}
