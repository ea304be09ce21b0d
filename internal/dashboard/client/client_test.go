package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letwise/pkg/platform/middleware/metadata"
	"letwise/pkg/requestcontext"
)

func TestClient(t *testing.T) {
	var gotRequestID string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(metadata.RequestIDHeader)
		switch r.URL.Path {
		case "/api/cases":
			_, _ = w.Write([]byte(`{"cases": [{"id": "c1", "title": "Flat 2 arrears", "status": "open"}]}`))
		case "/api/stats":
			_, _ = w.Write([]byte(`{"open_cases": 3, "documents": 7, "paid_orders": 2}`))
		default:
			http.Error(w, "boom", http.StatusBadGateway)
		}
	}))
	defer upstream.Close()

	c := New(upstream.URL, time.Second)
	ctx := requestcontext.WithRequestID(context.Background(), "req-1")

	cases, err := c.Cases(ctx)
	require.NoError(t, err)
	require.Len(t, cases, 1)
	assert.Equal(t, "Flat 2 arrears", cases[0].Title)
	assert.Equal(t, "req-1", gotRequestID)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, stats.Documents)

	_, err = c.Documents(ctx)
	assert.ErrorContains(t, err, "upstream status 502")
}
