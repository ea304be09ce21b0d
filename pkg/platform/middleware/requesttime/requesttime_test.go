package requesttime

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"letwise/pkg/requestcontext"
	"letwise/pkg/testutil"
)

func TestMiddlewareSetsOneInstantPerRequest(t *testing.T) {
	var first, second time.Time
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first = requestcontext.Now(r.Context())
		second = requestcontext.Now(r.Context())
	}))

	before := time.Now().UTC()
	testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/"))

	assert.Equal(t, first, second)
	assert.False(t, first.Before(before.Add(-time.Second)))
	assert.Equal(t, time.UTC, first.Location())
}

func TestPinnedTimeIsReadBack(t *testing.T) {
	pinned := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	var got time.Time
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.Now(r.Context())
	})

	testutil.DoRequest(h, testutil.WithTime(testutil.NewRequest(t, http.MethodGet, "/"), pinned))

	assert.Equal(t, pinned, got)
}
