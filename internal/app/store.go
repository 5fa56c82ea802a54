package app

import (
	"sync"

	"forgeboard/internal/domain"
)

// MatchStore is the concurrent registry of live matches. Every external
// request enters through it.
//
// Each match owns its own mutex, held for the full duration of a
// mutating operation including any Oracle or Renderer call. That
// serializes operations per match id so two concurrent requests can
// never validate against the same stale hand, while unrelated matches
// proceed fully in parallel. The registry lock only guards the map.
type MatchStore struct {
	mu      sync.Mutex
	entries map[string]*matchEntry
}

type matchEntry struct {
	mu    sync.Mutex
	match *domain.Match
}

// NewMatchStore returns an empty registry.
func NewMatchStore() *MatchStore {
	return &MatchStore{entries: make(map[string]*matchEntry)}
}

// Add registers a match under its id.
func (s *MatchStore) Add(m *domain.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[m.ID] = &matchEntry{match: m}
}

// Snapshot returns a deep copy of the match state.
func (s *MatchStore) Snapshot(id string) (*domain.Match, error) {
	entry, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.match.Clone(), nil
}

// WithMatch runs fn with exclusive access to the match. fn may block on
// external calls; other operations on the same match wait, operations
// on other matches do not.
func (s *MatchStore) WithMatch(id string, fn func(m *domain.Match) error) error {
	entry, err := s.lookup(id)
	if err != nil {
		return err
	}
	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.match)
}

// Len returns the number of live matches.
func (s *MatchStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MatchStore) lookup(id string) (*matchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return entry, nil
}
