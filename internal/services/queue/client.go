// Package queue implements the Redis-list queues connecting the API to
// the turn worker: turn jobs and pending GM suggestions.
package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// Client wraps the Redis connection shared by the queues.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewClient connects a queue client from a redis:// URL.
func NewClient(redisURL string, logger *slog.Logger) (*Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &Client{rdb: redis.NewClient(opts), logger: logger}, nil
}

// NewClientFromRedis wraps an existing connection; used by tests and by
// processes that share one connection with storage.
func NewClientFromRedis(rdb *redis.Client, logger *slog.Logger) *Client {
	return &Client{rdb: rdb, logger: logger}
}

// Ping tests the connection.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}
