// Package storage defines how game states are persisted between turns.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/cory-johannsen/delve/internal/game/state"
)

// ErrNotFound is returned when no save exists for a player.
var ErrNotFound = errors.New("storage: save not found")

// Store persists one game state per player.
//
// Load returns an error wrapping ErrNotFound when the player has no save, and
// one wrapping state.ErrIncompatibleSave when the stored bytes fail to hydrate.
type Store interface {
	Load(ctx context.Context, playerID string) (*state.GameState, error)
	Save(ctx context.Context, playerID string, s *state.GameState) error
	Close() error
}

// Pinger is implemented by stores backed by a database connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Memory is an in-process Store. It keeps serialized bytes so callers never
// share a state with the store.
type Memory struct {
	mu    sync.RWMutex
	saves map[string][]byte
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{saves: make(map[string][]byte)}
}

// Load implements Store.
func (m *Memory) Load(_ context.Context, playerID string) (*state.GameState, error) {
	m.mu.RLock()
	data, ok := m.saves[playerID]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("player %q: %w", playerID, ErrNotFound)
	}
	return state.Hydrate(data)
}

// Save implements Store.
//
// Precondition: playerID must be non-empty; s must be non-nil.
func (m *Memory) Save(_ context.Context, playerID string, s *state.GameState) error {
	if playerID == "" {
		return errors.New("storage: player id must not be empty")
	}
	data, err := state.Serialize(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.saves[playerID] = data
	m.mu.Unlock()
	return nil
}

// Close implements Store.
func (m *Memory) Close() error { return nil }
