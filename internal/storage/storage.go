// Package storage persists session state between turns.
package storage

import (
	"context"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/game"
)

// Storage is the session persistence interface shared by the API and
// the worker.
type Storage interface {
	// Ping tests the backing connection.
	Ping(ctx context.Context) error

	// Close releases the backing connection.
	Close() error

	// SaveSession persists a session snapshot.
	SaveSession(ctx context.Context, gs *game.GameState) error

	// LoadSession retrieves a session by ID. Returns nil when the
	// session does not exist.
	LoadSession(ctx context.Context, id uuid.UUID) (*game.GameState, error)

	// DeleteSession removes a session by ID.
	DeleteSession(ctx context.Context, id uuid.UUID) error
}
