// Package memory holds wizard sessions in process. It backs local
// development and tests; production runs the Redis store.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
	dErrors "github.com/stratosilva/ethiopia-thdf/pkg/domain-errors"
)

type entry struct {
	session   declaration.Session
	expiresAt time.Time
}

// Store is an in-memory session store with per-entry expiry.
type Store struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]entry
	now      func() time.Time
}

// New creates a store whose entries expire after ttl. A zero ttl disables
// expiry.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]entry),
		now:      time.Now,
	}
}

// Create stores a new session. Creating an existing ID is a conflict.
func (s *Store) Create(_ context.Context, session *declaration.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[session.ID]; ok && !s.expired(e) {
		return dErrors.New(dErrors.CodeConflict, "session already exists")
	}
	s.sessions[session.ID] = s.entry(session)
	return nil
}

// Get returns a live session or sentinel.ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (*declaration.Session, error) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || s.expired(e) {
		return nil, sentinel.ErrNotFound
	}
	cp := e.session
	return &cp, nil
}

// Update replaces a session and refreshes its expiry.
func (s *Store) Update(_ context.Context, session *declaration.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[session.ID]; !ok || s.expired(e) {
		return sentinel.ErrNotFound
	}
	s.sessions[session.ID] = s.entry(session)
	return nil
}

// Delete removes a session. Deleting an unknown ID returns
// sentinel.ErrNotFound.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; !ok || s.expired(e) {
		return sentinel.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep drops expired entries. Call it periodically; Get and Update already
// treat expired entries as absent.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.sessions {
		if s.expired(e) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored entries, including not yet swept ones.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *Store) entry(session *declaration.Session) entry {
	e := entry{session: *session}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	return e
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}
