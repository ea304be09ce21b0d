// Package requesttime captures one "now" per HTTP request. Every stage of a
// document generation reads the same instant, so the footer timestamp and the
// filename agree.
package requesttime

import (
	"net/http"
	"time"

	"letwise/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request
// and stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
