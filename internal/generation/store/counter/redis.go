package counter

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "letwise:documents:"

// RedisCounter shares sequence numbers across replicas with INCR.
type RedisCounter struct {
	client redis.Cmdable
}

func NewRedis(client redis.Cmdable) *RedisCounter {
	return &RedisCounter{client: client}
}

func (c *RedisCounter) Next(ctx context.Context, kind string) (int64, error) {
	n, err := c.client.Incr(ctx, keyPrefix+kind).Result()
	if err != nil {
		return 0, fmt.Errorf("increment document counter: %w", err)
	}
	return n, nil
}
