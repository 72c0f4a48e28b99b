package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mfigueira/aventuria/pkg/game"
)

const sessionKeyPrefix = "session:"

// SessionTTL is how long an idle session survives in Redis. Every save
// refreshes it.
const SessionTTL = 7 * 24 * time.Hour

// RedisStorage implements Storage on a Redis connection.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
}

var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage creates Redis-backed session storage from a
// redis:// URL.
func NewRedisStorage(redisURL string, logger *slog.Logger) (*RedisStorage, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return &RedisStorage{
		client: redis.NewClient(opts),
		logger: logger,
	}, nil
}

// NewRedisStorageFromClient wraps an existing client; tests use this
// with miniredis.
func NewRedisStorageFromClient(client *redis.Client, logger *slog.Logger) *RedisStorage {
	return &RedisStorage{client: client, logger: logger}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("failed to close redis connection", "error", err)
		return err
	}
	return nil
}

func (r *RedisStorage) SaveSession(ctx context.Context, gs *game.GameState) error {
	if gs == nil {
		return fmt.Errorf("cannot save nil session")
	}
	gs.UpdatedAt = time.Now()

	data, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(gs.ID), data, SessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	r.logger.Debug("session saved", "session_id", gs.ID.String(), "bytes", len(data))
	return nil
}

func (r *RedisStorage) LoadSession(ctx context.Context, id uuid.UUID) (*game.GameState, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var gs game.GameState
	if err := json.Unmarshal([]byte(data), &gs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	// Snapshots are accepted as cold starts, so a corrupt or
	// hand-edited one must not reach the engine.
	if err := gs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid session snapshot: %w", err)
	}
	return &gs, nil
}

func (r *RedisStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}

// WaitForConnection blocks until Redis answers a ping or the retry
// budget runs out.
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	const maxRetries = 30
	const retryDelay = 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err == nil {
			r.logger.Info("redis connection established")
			return nil
		} else {
			r.logger.Debug("redis not ready yet", "attempt", i+1, "error", err)
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
		case <-time.After(retryDelay):
		}
	}
	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Client exposes the underlying connection for the queue services.
func (r *RedisStorage) Client() *redis.Client {
	return r.client
}
