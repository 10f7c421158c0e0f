package attempt

import (
	"context"
	"sync"

	"github.com/mclassic/sentry"
)

// MemoryStore is an in-process attempt store for tests and single-node
// deployments. Counters never expire; Clear is the only way to forget.
//
// MemoryStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryStore struct {
	mu        sync.Mutex
	limit     int
	counts    map[string]int
	suspended map[string]bool
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
//
// NewMemoryStore may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		limit:     limit,
		counts:    make(map[string]int),
		suspended: make(map[string]bool),
	}
}

// Get returns the failed-attempt count for identifier, reporting at least
// the limit while the identifier is suspended.
func (s *MemoryStore) Get(_ context.Context, identifier string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := s.counts[identifier]
	if s.suspended[identifier] && count < s.limit {
		return s.limit, nil
	}
	return count, nil
}

// Limit reports the configured failed-attempt threshold.
func (s *MemoryStore) Limit() int {
	return s.limit
}

// Add records one failed attempt.
func (s *MemoryStore) Add(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counts[identifier]++
	return nil
}

// Clear removes the counter and any suspension flag for identifier.
func (s *MemoryStore) Clear(_ context.Context, identifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.counts, identifier)
	delete(s.suspended, identifier)
	return nil
}

// Suspend marks identifier locked out and reports the lockout as a
// *sentry.SuspendedError.
func (s *MemoryStore) Suspend(_ context.Context, identifier string) error {
	s.mu.Lock()
	s.suspended[identifier] = true
	s.mu.Unlock()

	return &sentry.SuspendedError{Identifier: identifier}
}
