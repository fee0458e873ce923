package memory

import (
	"context"
	"sync"

	audit "github.com/stratosilva/ethiopia-thdf/pkg/platform/audit"
)

// Store is an in-memory audit store. Used in tests and when no
// database is configured.
type Store struct {
	mu     sync.RWMutex
	events []audit.Event
}

// New creates an empty in-memory audit store.
func New() *Store {
	return &Store{}
}

// Append records an event.
func (s *Store) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListBySession returns events for one declaration session, oldest first.
func (s *Store) ListBySession(_ context.Context, sessionID string) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []audit.Event
	for _, e := range s.events {
		if e.SessionID == sessionID {
			out = append(out, e)
		}
	}
	return out, nil
}

// All returns a copy of every recorded event. Test helper.
func (s *Store) All() []audit.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]audit.Event, len(s.events))
	copy(out, s.events)
	return out
}
