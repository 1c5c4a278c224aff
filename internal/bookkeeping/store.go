package bookkeeping

import "sync"

// Store is the single owner of the current snapshot. Readers get an
// immutable snapshot; writers replace it with a modified clone.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore creates a store holding snap, or an empty snapshot when nil.
func NewStore(snap *Snapshot) *Store {
	if snap == nil {
		snap = NewSnapshot()
	}
	return &Store{snap: snap}
}

// Current returns the published snapshot. Callers must not modify it.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Replace publishes snap as the current snapshot.
func (s *Store) Replace(snap *Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// Mutate applies fn to a clone of the current snapshot and publishes the
// result in one step. It returns the snapshot that was replaced.
func (s *Store) Mutate(fn func(*Snapshot)) *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.snap
	next := before.Clone()
	fn(next)
	s.snap = next
	return before
}
