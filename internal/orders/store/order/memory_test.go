package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"letwise/internal/orders/models"
	"letwise/pkg/platform/sentinel"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemory()

	_, err := store.FindBySessionID(ctx, "cs_missing")
	assert.True(t, errors.Is(err, sentinel.ErrNotFound))

	o := &models.Order{ID: uuid.New(), SessionID: "cs_1", Product: "hmo_check", CreatedAt: time.Now()}
	require.NoError(t, store.Save(ctx, o))

	found, err := store.FindBySessionID(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, o.ID, found.ID)
	assert.False(t, found.IsPaid())

	found.Product = "mutated"
	again, err := store.FindBySessionID(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, "hmo_check", again.Product, "callers get a copy")
}
