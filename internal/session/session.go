package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Artifacts is the single cached slot for one session: the outputs of the
// most recent export. A new export replaces the slot wholesale; downloads
// re-serve these bytes without recomputation.
type Artifacts struct {
	ArchiveName string
	Archive     []byte
	ReportName  string
	Report      []byte
	Accepted    int
	Rejected    int
	CreatedAt   time.Time
}

// Store is a thread-safe, in-memory, session-keyed artifact cache with TTL
// eviction. Sessions never share state with each other.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
}

type entry struct {
	artifacts *Artifacts
	updatedAt time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// NewID mints a fresh session identifier.
func (s *Store) NewID() string {
	return uuid.NewString()
}

// Put replaces the artifact slot for a session.
func (s *Store) Put(id string, a *Artifacts) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[id] = &entry{artifacts: a, updatedAt: time.Now()}
}

// Get returns the cached artifacts for a session, or nil when the session
// has not exported anything (or its slot expired).
func (s *Store) Get(id string) *Artifacts {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries[id]
	if e == nil {
		return nil
	}
	e.updatedAt = time.Now()
	return e.artifacts
}

// Cleanup removes expired slots.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, e := range s.entries {
		if now.Sub(e.updatedAt) > s.ttl {
			delete(s.entries, id)
		}
	}
}

// Len reports how many sessions currently hold artifacts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Run sweeps expired slots until ctx is cancelled.
func (s *Store) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Minute {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}
