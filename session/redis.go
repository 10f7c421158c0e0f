package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication core.
var ErrRedisUnavailable = errors.New("redis unavailable")

// ErrNoSessionID is returned when a write arrives on a context that
// carries no session id. Reads and deletes treat the same condition as an
// absent session instead.
var ErrNoSessionID = errors.New("no session id in context")

// Options control the Redis session namespace and lifetime.
//
// Options instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Options struct {
	// Prefix namespaces session keys; "sn" when empty.
	Prefix string
	// TTL is the session lifetime, attached on every write. Zero stores
	// sessions without expiry.
	TTL time.Duration
	// Sliding renews the TTL on every successful read, so sessions expire
	// after inactivity rather than after absolute age.
	Sliding bool
}

// RedisGateway stores each session as one Redis hash keyed by the session
// id carried in the request context. Field name and value are exactly the
// key/value pair the core passes in.
//
// RedisGateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisGateway struct {
	redis redis.UniversalClient
	opts  Options
}

// NewRedisGateway describes the newredisgateway operation and its observable behavior.
//
// NewRedisGateway may return an error when input validation, dependency calls, or security checks fail.
// NewRedisGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisGateway(client redis.UniversalClient, opts Options) *RedisGateway {
	if opts.Prefix == "" {
		opts.Prefix = "sn"
	}
	return &RedisGateway{
		redis: client,
		opts:  opts,
	}
}

func (g *RedisGateway) key(sid string) string {
	return g.opts.Prefix + ":" + sid
}

// Get reads one session value. A request without a session id, a missing
// hash, and a missing field all report ok=false with a nil error.
func (g *RedisGateway) Get(ctx context.Context, key string) (string, bool, error) {
	sid, ok := ID(ctx)
	if !ok {
		return "", false, nil
	}

	value, err := g.redis.HGet(ctx, g.key(sid), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if g.opts.Sliding && g.opts.TTL > 0 {
		if err := g.redis.Expire(ctx, g.key(sid), g.opts.TTL).Err(); err != nil {
			return "", false, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	return value, true, nil
}

// Set writes one session value and refreshes the session TTL. Requires a
// session id in ctx; writing without one is a caller bug and fails with
// [ErrNoSessionID].
func (g *RedisGateway) Set(ctx context.Context, key, value string) error {
	sid, ok := ID(ctx)
	if !ok {
		return ErrNoSessionID
	}

	_, err := g.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, g.key(sid), key, value)
		if g.opts.TTL > 0 {
			pipe.Expire(ctx, g.key(sid), g.opts.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Delete removes one session value. Deleting without a session id or from
// a session that does not exist is a no-op.
func (g *RedisGateway) Delete(ctx context.Context, key string) error {
	sid, ok := ID(ctx)
	if !ok {
		return nil
	}

	if err := g.redis.HDel(ctx, g.key(sid), key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Destroy drops the whole session hash at once. The core deletes keys
// individually; transport layers can call this when a visitor's session id
// is retired.
func (g *RedisGateway) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if err := g.redis.Del(ctx, g.key(sid)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
