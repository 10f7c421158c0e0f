// Command sentry-loadtest hammers a fully wired authenticator with
// concurrent session checks and remember-me resumptions against Redis and
// prints latency percentiles per phase. Without -redis-addr (or REDIS_ADDR)
// it runs against an embedded miniredis, which measures the library stack
// rather than network round trips.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/mclassic/sentry"
	"github.com/mclassic/sentry/attempt"
	"github.com/mclassic/sentry/cookie"
	"github.com/mclassic/sentry/session"
)

func main() {
	var (
		users       = flag.Int("users", 5000, "number of user accounts to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 100000, "operations per phase (check + resume)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "sn", "session key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := sentry.DefaultConfig()
	cfg.Login.Column = "username"
	cfg.Metrics.Enabled = true

	auth, err := sentry.New().
		WithConfig(cfg).
		WithUserStore(newUserStore(*users)).
		WithAttemptStore(attempt.NewRedisStore(client, attempt.Options{
			Limit:      cfg.Throttle.MaxAttempts,
			Window:     15 * time.Minute,
			SuspendFor: 30 * time.Minute,
		})).
		WithSessionGateway(session.NewRedisGateway(client, session.Options{
			Prefix: *prefix,
			TTL:    24 * time.Hour,
		})).
		WithCookieGateway(routedCookies{}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
		os.Exit(1)
	}
	defer auth.Close()

	clients := make([]browser, *users)
	fmt.Printf("seeding %d logged-in users...\n", *users)
	startSeed := time.Now()
	for i := range clients {
		clients[i] = browser{
			identifier: identifierFor(i),
			sid:        session.NewID(),
			jar:        cookie.NewJar(),
		}
		ok, err := auth.Login(clients[i].context(ctx), clients[i].identifier, seedPassword, true)
		if err != nil || !ok {
			fmt.Fprintf(os.Stderr, "seed login %d failed: ok=%v err=%v\n", i, ok, err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	checkStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		b := &clients[r.Intn(len(clients))]
		b.mu.Lock()
		defer b.mu.Unlock()

		ok, err := auth.Check(b.context(ctx))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("session check for %s answered false", b.identifier)
		}
		return nil
	})

	resumeStats := runPhase(*ops, *concurrency, func(r *rand.Rand) error {
		b := &clients[r.Intn(len(clients))]
		b.mu.Lock()
		defer b.mu.Unlock()

		// A fresh session id misses, forcing the full remember-me
		// resumption: cookie decode, token validate, record update and
		// session re-open.
		b.sid = session.NewID()
		ok, err := auth.Check(b.context(ctx))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("resumption for %s answered false", b.identifier)
		}
		return nil
	})

	fmt.Println("---- results ----")
	printStats("check", checkStats)
	printStats("resume", resumeStats)
	fmt.Printf("counters: opened=%d resumed=%d resume_failed=%d\n",
		auth.Metrics().Value(sentry.MetricSessionOpened),
		auth.Metrics().Value(sentry.MetricSessionResumed),
		auth.Metrics().Value(sentry.MetricSessionResumeFailed),
	)
}

const seedPassword = "load-test-password"

func identifierFor(i int) string {
	return fmt.Sprintf("user-%d", i)
}

// browser models one returning client: a stable identity, its current
// session id, and a private cookie jar.
type browser struct {
	identifier string
	sid        string
	jar        *cookie.Jar
	mu         sync.Mutex
}

func (b *browser) context(ctx context.Context) context.Context {
	return withJar(session.WithID(ctx, b.sid), b.jar)
}

type jarContextKey struct{}

func withJar(ctx context.Context, jar *cookie.Jar) context.Context {
	return context.WithValue(ctx, jarContextKey{}, jar)
}

func jarFrom(ctx context.Context) (*cookie.Jar, bool) {
	jar, ok := ctx.Value(jarContextKey{}).(*cookie.Jar)
	return jar, ok
}

// routedCookies dispatches cookie operations to the per-browser jar carried
// in the context, so one gateway instance serves every simulated client.
type routedCookies struct{}

func (routedCookies) Get(ctx context.Context, name string) (string, bool, error) {
	jar, ok := jarFrom(ctx)
	if !ok {
		return "", false, nil
	}
	return jar.Get(ctx, name)
}

func (routedCookies) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	jar, ok := jarFrom(ctx)
	if !ok {
		return nil
	}
	return jar.Set(ctx, name, value, ttl)
}

func (routedCookies) Delete(ctx context.Context, name string) error {
	jar, ok := jarFrom(ctx)
	if !ok {
		return nil
	}
	return jar.Delete(ctx, name)
}

// userStore keeps the seeded accounts in memory so the measured latencies
// isolate the Redis-backed attempt and session paths.
type userStore struct {
	mu           sync.RWMutex
	users        map[int64]sentry.UserRecord
	byIdentifier map[string]int64
}

func newUserStore(n int) *userStore {
	s := &userStore{
		users:        make(map[int64]sentry.UserRecord, n),
		byIdentifier: make(map[string]int64, n),
	}
	for i := 0; i < n; i++ {
		id := int64(i + 1)
		identifier := identifierFor(i)
		s.users[id] = sentry.UserRecord{
			ID:           id,
			Identifier:   identifier,
			Email:        identifier + "@example.com",
			PasswordHash: seedPassword,
			Activated:    true,
			Enabled:      true,
		}
		s.byIdentifier[identifier] = id
	}
	return s
}

func (s *userStore) FindByIdentifier(_ context.Context, identifier string) (sentry.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byIdentifier[identifier]
	if !ok {
		return sentry.UserRecord{}, sentry.ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *userStore) FindByID(_ context.Context, id int64) (sentry.UserRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return sentry.UserRecord{}, sentry.ErrUserNotFound
	}
	return u, nil
}

func (s *userStore) Update(_ context.Context, id int64, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return sentry.ErrUserNotFound
	}
	for column, value := range fields {
		switch column {
		case sentry.FieldPasswordHash:
			u.PasswordHash, _ = value.(string)
		case sentry.FieldActivationHash:
			u.ActivationHash, _ = value.(string)
		case sentry.FieldPasswordResetHash:
			u.PasswordResetHash, _ = value.(string)
		case sentry.FieldTempPassword:
			u.TempPassword, _ = value.(string)
		case sentry.FieldRememberMeToken:
			u.RememberMeToken, _ = value.(string)
		case sentry.FieldActivated:
			u.Activated, _ = value.(bool)
		case sentry.FieldLastLogin:
			if ts, ok := value.(time.Time); ok {
				u.LastLogin = &ts
			}
		}
	}
	s.users[id] = u
	return nil
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

// runPhase spreads ops invocations of op across the worker pool and
// collects per-operation latencies.
func runPhase(ops, concurrency int, op func(r *rand.Rand) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		mu        sync.Mutex
		latencies = make([]time.Duration, 0, ops)
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				if int(atomic.AddInt64(&cursor, 1)) > ops {
					return
				}
				t0 := time.Now()
				err := op(r)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()

	total := time.Since(start)
	if len(latencies) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	return phaseStats{
		total:    total,
		ops:      len(latencies),
		failures: failures,
		p50:      percentile(latencies, 50),
		p95:      percentile(latencies, 95),
		p99:      percentile(latencies, 99),
		opsPerS:  float64(len(latencies)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
