package queue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SuggestionQueue holds pending human-GM suggestions per session. In
// gm-assist mode the shell's GM can queue story developments; the next
// resolved turn drains the queue and folds them into the Oracle prompt.
type SuggestionQueue struct {
	client *Client
}

// NewSuggestionQueue creates a suggestion queue on a client.
func NewSuggestionQueue(client *Client) *SuggestionQueue {
	return &SuggestionQueue{client: client}
}

func suggestionKey(sessionID uuid.UUID) string {
	return "suggestions:" + sessionID.String()
}

// Enqueue appends a suggestion for a session.
func (q *SuggestionQueue) Enqueue(ctx context.Context, sessionID uuid.UUID, suggestion string) error {
	if strings.TrimSpace(suggestion) == "" {
		return fmt.Errorf("suggestion is empty")
	}
	if err := q.client.rdb.RPush(ctx, suggestionKey(sessionID), suggestion).Err(); err != nil {
		return fmt.Errorf("failed to enqueue suggestion: %w", err)
	}
	return nil
}

// Drain removes and returns all pending suggestions for a session,
// joined into one directive string. Returns "" when none are queued.
func (q *SuggestionQueue) Drain(ctx context.Context, sessionID uuid.UUID) (string, error) {
	key := suggestionKey(sessionID)

	suggestions, err := q.client.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read suggestions: %w", err)
	}
	if len(suggestions) == 0 {
		return "", nil
	}
	if err := q.client.rdb.Del(ctx, key).Err(); err != nil {
		return "", fmt.Errorf("failed to clear suggestions: %w", err)
	}
	return strings.Join(suggestions, " "), nil
}

// Depth reports how many suggestions wait for a session.
func (q *SuggestionQueue) Depth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	n, err := q.client.rdb.LLen(ctx, suggestionKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get suggestion depth: %w", err)
	}
	return int(n), nil
}

// Clear drops all pending suggestions for a session. Called when the
// session is deleted.
func (q *SuggestionQueue) Clear(ctx context.Context, sessionID uuid.UUID) error {
	if err := q.client.rdb.Del(ctx, suggestionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to clear suggestions: %w", err)
	}
	return nil
}
