// Package client reads dashboard resources from the case service over HTTP.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"letwise/internal/dashboard/models"
	"letwise/pkg/platform/middleware/metadata"
	"letwise/pkg/requestcontext"
)

const maxResponseBytes = 1 << 20

// Client fetches cases, documents and stats.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: timeout}}
}

func (c *Client) Cases(ctx context.Context) ([]models.Case, error) {
	var out struct {
		Cases []models.Case `json:"cases"`
	}
	if err := c.get(ctx, "/api/cases", &out); err != nil {
		return nil, err
	}
	return out.Cases, nil
}

func (c *Client) Documents(ctx context.Context) ([]models.Document, error) {
	var out struct {
		Documents []models.Document `json:"documents"`
	}
	if err := c.get(ctx, "/api/documents", &out); err != nil {
		return nil, err
	}
	return out.Documents, nil
}

func (c *Client) Stats(ctx context.Context) (models.Stats, error) {
	var out models.Stats
	if err := c.get(ctx, "/api/stats", &out); err != nil {
		return models.Stats{}, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, into any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if id := requestcontext.RequestID(ctx); id != "" {
		req.Header.Set(metadata.RequestIDHeader, id)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return fmt.Errorf("fetch %s: upstream status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(into); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
