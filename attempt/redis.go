package attempt

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mclassic/sentry"
)

// ErrRedisUnavailable is an exported constant or variable used by the authentication core.
var ErrRedisUnavailable = errors.New("redis unavailable")

// Options control lockout accounting for [RedisStore].
//
// Options instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Options struct {
	// Limit is the number of failed attempts tolerated before the gate
	// closes. Must be positive; sentry.Config.Validate enforces this for
	// stores wired from configuration.
	Limit int
	// Window bounds how long failures accumulate. The counter picks up
	// this TTL on its first increment; zero keeps counters until cleared.
	Window time.Duration
	// SuspendFor bounds how long a suspension stays in force. Zero keeps
	// the flag until the counter is cleared.
	SuspendFor time.Duration
}

// RedisStore counts failed attempts and suspension flags in Redis. One
// counter key and one flag key exist per identifier, so the store scales
// with the number of identifiers under attack, not with traffic.
//
// RedisStore instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RedisStore struct {
	redis redis.UniversalClient
	opts  Options
}

// NewRedisStore describes the newredisstore operation and its observable behavior.
//
// NewRedisStore may return an error when input validation, dependency calls, or security checks fail.
// NewRedisStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewRedisStore(client redis.UniversalClient, opts Options) *RedisStore {
	return &RedisStore{
		redis: client,
		opts:  opts,
	}
}

func (s *RedisStore) attemptKey(identifier string) string {
	return "at:" + identifier
}

func (s *RedisStore) suspendKey(identifier string) string {
	return "as:" + identifier
}

// Get returns the failed-attempt count for identifier. While a suspension
// flag is in force the reported count never drops below the limit, so the
// caller's threshold gate stays closed even after the counter expires.
func (s *RedisStore) Get(ctx context.Context, identifier string) (int, error) {
	suspended, err := s.redis.Exists(ctx, s.suspendKey(identifier)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	count, err := s.redis.Get(ctx, s.attemptKey(identifier)).Int()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			return 0, fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
		count = 0
	}

	if suspended > 0 && count < s.opts.Limit {
		return s.opts.Limit, nil
	}
	return count, nil
}

// Limit reports the configured failed-attempt threshold.
func (s *RedisStore) Limit() int {
	return s.opts.Limit
}

// Add records one failed attempt. INCR keeps the count atomic under
// concurrent failures; the window TTL is attached on the first increment.
func (s *RedisStore) Add(ctx context.Context, identifier string) error {
	key := s.attemptKey(identifier)

	count, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	if count == 1 && s.opts.Window > 0 {
		if err := s.redis.Expire(ctx, key, s.opts.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Clear removes both the counter and any suspension flag for identifier.
func (s *RedisStore) Clear(ctx context.Context, identifier string) error {
	if err := s.redis.Del(ctx, s.attemptKey(identifier), s.suspendKey(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

// Suspend marks identifier locked out and reports the lockout as a
// *sentry.SuspendedError. The flag write is idempotent, so repeated calls
// while suspended keep returning the same outcome.
func (s *RedisStore) Suspend(ctx context.Context, identifier string) error {
	if err := s.redis.Set(ctx, s.suspendKey(identifier), 1, s.opts.SuspendFor).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return &sentry.SuspendedError{Identifier: identifier}
}
