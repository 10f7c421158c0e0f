package cookie

import (
	"context"
	"sync"
	"time"
)

type jarEntry struct {
	value   string
	expires time.Time
}

// Jar is an in-memory cookie store. It ignores the context entirely, so it
// models a single client; tests and single-user CLI tools are its
// audience, never multi-user servers.
//
// Jar instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Jar struct {
	mu     sync.Mutex
	values map[string]jarEntry
}

// NewJar describes the newjar operation and its observable behavior.
//
// NewJar may return an error when input validation, dependency calls, or security checks fail.
// NewJar does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewJar() *Jar {
	return &Jar{values: make(map[string]jarEntry)}
}

// Get reads a stored cookie, dropping it when its lifetime has passed.
func (j *Jar) Get(_ context.Context, name string) (string, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry, ok := j.values[name]
	if !ok {
		return "", false, nil
	}
	if !entry.expires.IsZero() && time.Now().After(entry.expires) {
		delete(j.values, name)
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores a cookie. A positive ttl bounds its lifetime; ttl <= 0 keeps
// it until deleted.
func (j *Jar) Set(_ context.Context, name, value string, ttl time.Duration) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	entry := jarEntry{value: value}
	if ttl > 0 {
		entry.expires = time.Now().Add(ttl)
	}
	j.values[name] = entry
	return nil
}

// Delete removes a stored cookie.
func (j *Jar) Delete(_ context.Context, name string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	delete(j.values, name)
	return nil
}
