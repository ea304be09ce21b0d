package testutil

import (
	"net/http"
	"time"

	"letwise/pkg/requestcontext"
)

// WithRequestID adds a request ID to the request context.
// This simulates what the metadata middleware does for incoming requests.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}

// WithTime pins the request time so generated documents are reproducible.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
