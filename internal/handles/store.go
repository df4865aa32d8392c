// Package handles keeps decoded documents addressable by unguessable,
// revocable IDs and serves them to the browser over loopback HTTP.
package handles

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// State describes what a handle ID currently refers to.
type State int

const (
	StateUnknown State = iota
	StateActive
	StateRevoked
)

// Entry is a registered document.
type Entry struct {
	Data     []byte
	MIMEType string
	Created  time.Time
}

// Store maps handle IDs to documents. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	active  map[string]Entry
	revoked map[string]struct{}
	now     func() time.Time
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		active:  make(map[string]Entry),
		revoked: make(map[string]struct{}),
		now:     time.Now,
	}
}

// Create registers data and returns its random ID.
func (s *Store) Create(data []byte, mimeType string) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active[id] = Entry{Data: data, MIMEType: mimeType, Created: s.now()}
	return id
}

// Get returns the entry for id and its state. Only active entries carry data.
func (s *Store) Get(id string) (Entry, State) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if e, ok := s.active[id]; ok {
		return e, StateActive
	}
	if _, ok := s.revoked[id]; ok {
		return Entry{}, StateRevoked
	}
	return Entry{}, StateUnknown
}

// Revoke drops the document behind id. It reports whether id was active;
// revoking an unknown or already revoked ID does nothing.
func (s *Store) Revoke(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.active[id]; !ok {
		return false
	}
	delete(s.active, id)
	s.revoked[id] = struct{}{}
	return true
}

// RevokeAll revokes every active handle and returns how many there were.
func (s *Store) RevokeAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.active)
	for id := range s.active {
		delete(s.active, id)
		s.revoked[id] = struct{}{}
	}
	return n
}

// Len returns the number of active handles.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.active)
}
