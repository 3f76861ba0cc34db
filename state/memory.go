package state

import (
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests.
type MemoryStore struct {
	mu sync.Mutex
	p  *Persisted

	// Saves counts Save calls, letting tests assert persistence points.
	Saves int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Exists implements Store.
func (s *MemoryStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.p != nil
}

// Load implements Store.
func (s *MemoryStore) Load() (*Persisted, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.p == nil {
		return nil, ErrNotFound
	}
	cp := *s.p
	return &cp, nil
}

// Save implements Store.
func (s *MemoryStore) Save(p *Persisted) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Timestamp = time.Now()
	cp := *p
	s.p = &cp
	s.Saves++
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.p = nil
	return nil
}

// Seed places a snapshot in the store without counting as a Save.
func (s *MemoryStore) Seed(p *Persisted) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *p
	s.p = &cp
}
