// Package counter hands out per-document-kind sequence numbers used as the
// unique part of generated filenames.
package counter

import (
	"context"
	"sync"
)

// InMemoryCounter counts per kind within one process.
type InMemoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func NewInMemory() *InMemoryCounter {
	return &InMemoryCounter{counts: make(map[string]int64)}
}

// Next returns the next sequence number for kind, starting at 1.
func (c *InMemoryCounter) Next(_ context.Context, kind string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[kind]++
	return c.counts[kind], nil
}
