package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const sessionLockPrefix = "session-lock:"

// SessionLockTTL bounds how long a crashed holder can block a session.
const SessionLockTTL = 2 * time.Minute

// SessionLock serializes session mutation across the API handlers and
// the workers. One key per session, held for the duration of a turn or
// inventory command.
type SessionLock struct {
	client *Client
}

// NewSessionLock creates a session lock on a client.
func NewSessionLock(client *Client) *SessionLock {
	return &SessionLock{client: client}
}

// Acquire takes the lock for owner. Returns false when another owner
// already holds the session.
func (l *SessionLock) Acquire(ctx context.Context, sessionID uuid.UUID, owner string) (bool, error) {
	ok, err := l.client.rdb.SetNX(ctx, sessionLockPrefix+sessionID.String(), owner, SessionLockTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire session lock: %w", err)
	}
	return ok, nil
}

// Release drops the lock.
func (l *SessionLock) Release(ctx context.Context, sessionID uuid.UUID) {
	if err := l.client.rdb.Del(ctx, sessionLockPrefix+sessionID.String()).Err(); err != nil {
		l.client.logger.Error("failed to release session lock",
			"session_id", sessionID.String(), "error", err)
	}
}
