// Package memory is the in-process archive used when no database is
// configured.
package memory

import (
	"context"
	"sync"

	"github.com/stratosilva/ethiopia-thdf/internal/declaration"
	"github.com/stratosilva/ethiopia-thdf/internal/sentinel"
)

// Store implements declaration.Archiver in memory.
type Store struct {
	mu      sync.RWMutex
	entries []declaration.ArchiveEntry
}

// New creates an empty archive.
func New() *Store {
	return &Store{}
}

// Record appends one submission.
func (s *Store) Record(_ context.Context, entry declaration.ArchiveEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// FindByToken returns the most recent submission for a token.
func (s *Store) FindByToken(_ context.Context, token string) (*declaration.ArchiveEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].Token == token {
			entry := s.entries[i]
			return &entry, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// All returns a copy of every recorded submission.
func (s *Store) All() []declaration.ArchiveEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]declaration.ArchiveEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
