package sentry

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// benchConfig keeps metrics and audit off so the benchmarks measure the
// credential path itself.
func benchConfig() Config {
	cfg := DefaultConfig()
	cfg.Login.Column = "username"
	return cfg
}

func BenchmarkLogin(b *testing.B) {
	f := newTestAuth(b, benchConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := f.auth.Login(ctx, "alice", "correct-horse", false)
		if err != nil || !ok {
			b.Fatalf("login: ok=%v err=%v", ok, err)
		}
		if err := f.auth.Logout(ctx); err != nil {
			b.Fatalf("logout: %v", err)
		}
	}
}

func BenchmarkLoginBcrypt(b *testing.B) {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	if err != nil {
		b.Fatalf("bcrypt: %v", err)
	}

	auth, err := New().
		WithConfig(benchConfig()).
		WithUserStore(newMockUserStore(activeUser(1, "alice", string(hash)))).
		WithAttemptStore(newMockAttemptStore(5)).
		WithSessionGateway(newMockSessionGateway()).
		WithCookieGateway(newMockCookieGateway()).
		WithSecretComparer(BcryptComparer{}).
		Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	defer func() { _ = auth.Close() }()

	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := auth.Login(ctx, "alice", "correct-horse", false)
		if err != nil || !ok {
			b.Fatalf("login: ok=%v err=%v", ok, err)
		}
		if err := auth.Logout(ctx); err != nil {
			b.Fatalf("logout: %v", err)
		}
	}
}

func BenchmarkCheckSessionHit(b *testing.B) {
	f := newTestAuth(b, benchConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()

	if ok, err := f.auth.Login(ctx, "alice", "correct-horse", false); err != nil || !ok {
		b.Fatalf("login: ok=%v err=%v", ok, err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := f.auth.Check(ctx)
		if err != nil || !ok {
			b.Fatalf("check: ok=%v err=%v", ok, err)
		}
	}
}

func BenchmarkCheckAnonymous(b *testing.B) {
	f := newTestAuth(b, benchConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ok, err := f.auth.Check(ctx)
		if err != nil {
			b.Fatalf("check: %v", err)
		}
		if ok {
			b.Fatal("anonymous check answered true")
		}
	}
}

func BenchmarkTokenGenerator(b *testing.B) {
	gen := TokenGenerator{}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := gen.NewToken(); err != nil {
			b.Fatalf("token: %v", err)
		}
	}
}
