// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// This is a lightweight persistence layer for ephemeral round state; rounds
// are fully reconstructed on reset, so nothing here needs to survive a
// process restart.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex.
//   - Update runs its callback under the write lock: game.Session has no
//     internal synchronization, so every mutation from the HTTP host goes
//     through Update to keep the event feed serialized.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/Isaiah-Swank/Boggle-AI/internal/game"
)

// ErrNotFound is returned when a session ID has no live round.
var ErrNotFound = errors.New("session not found")

// Store defines the persistence interface for round sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists a new session.
	Save(ctx context.Context, s *game.Session) error

	// Update looks up a session by ID and runs fn on it while holding the
	// store's write lock. Returns ErrNotFound if the session is missing.
	Update(ctx context.Context, id string, fn func(*game.Session)) error
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*game.Session)}
}

// Save adds the session to the map.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Update applies fn to the session with the given ID under the write lock.
func (m *memory) Update(ctx context.Context, id string, fn func(*game.Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrNotFound
	}
	fn(s)
	return nil
}
