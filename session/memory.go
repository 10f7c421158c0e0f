package session

import (
	"context"
	"sync"
)

// MemoryGateway keeps session state in process memory, one map per session
// id. Values never expire; tests and single-node demos are its audience.
//
// MemoryGateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MemoryGateway struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

// NewMemoryGateway describes the newmemorygateway operation and its observable behavior.
//
// NewMemoryGateway may return an error when input validation, dependency calls, or security checks fail.
// NewMemoryGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		sessions: make(map[string]map[string]string),
	}
}

// Get reads one session value for the session id in ctx.
func (g *MemoryGateway) Get(ctx context.Context, key string) (string, bool, error) {
	sid, ok := ID(ctx)
	if !ok {
		return "", false, nil
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	values, ok := g.sessions[sid]
	if !ok {
		return "", false, nil
	}
	value, ok := values[key]
	return value, ok, nil
}

// Set writes one session value for the session id in ctx.
func (g *MemoryGateway) Set(ctx context.Context, key, value string) error {
	sid, ok := ID(ctx)
	if !ok {
		return ErrNoSessionID
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	values, ok := g.sessions[sid]
	if !ok {
		values = make(map[string]string)
		g.sessions[sid] = values
	}
	values[key] = value
	return nil
}

// Delete removes one session value for the session id in ctx.
func (g *MemoryGateway) Delete(ctx context.Context, key string) error {
	sid, ok := ID(ctx)
	if !ok {
		return nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if values, ok := g.sessions[sid]; ok {
		delete(values, key)
		if len(values) == 0 {
			delete(g.sessions, sid)
		}
	}
	return nil
}
