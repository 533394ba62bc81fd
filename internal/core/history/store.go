package history

import (
	"sync"

	"divinewithin/internal/core/model"
)

// Store is an append-only log of completed sessions kept for the lifetime
// of the process. Insertion order is completion order.
type Store struct {
	mu       sync.RWMutex
	sessions []model.Session
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

// Append records a session.
func (store *Store) Append(session model.Session) {
	store.mu.Lock()
	store.sessions = append(store.sessions, session)
	store.mu.Unlock()
}

// All returns a copy of every session in insertion order.
func (store *Store) All() []model.Session {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return append([]model.Session(nil), store.sessions...)
}

// Len returns the number of recorded sessions.
func (store *Store) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.sessions)
}
