package storage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/mfigueira/aventuria/pkg/game"
)

// MockStorage is an in-memory Storage for handler and worker tests.
type MockStorage struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*game.GameState

	// SaveErr, LoadErr, and DeleteErr force failures when set.
	SaveErr   error
	LoadErr   error
	DeleteErr error
}

var _ Storage = (*MockStorage)(nil)

// NewMockStorage creates an empty in-memory store.
func NewMockStorage() *MockStorage {
	return &MockStorage{sessions: make(map[uuid.UUID]*game.GameState)}
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }

func (m *MockStorage) Close() error { return nil }

func (m *MockStorage) SaveSession(ctx context.Context, gs *game.GameState) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	// Store a deep copy so later mutations don't leak into the "persisted"
	// snapshot, matching real serialization behavior.
	cp, err := gs.DeepCopy()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[gs.ID] = cp
	return nil
}

func (m *MockStorage) LoadSession(ctx context.Context, id uuid.UUID) (*game.GameState, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	m.mu.RLock()
	gs, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return gs.DeepCopy()
}

func (m *MockStorage) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Count reports how many sessions are stored.
func (m *MockStorage) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
