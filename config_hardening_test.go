package sentry

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// Build copies the config by value; later mutations on the caller's copy
// must not reach a running authenticator.
func TestBuildDetachesConfig(t *testing.T) {
	cfg := authTestConfig()
	f := &authFixture{
		users:    newMockUserStore(activeUser(1, "alice", "correct-horse")),
		attempts: newMockAttemptStore(cfg.Throttle.MaxAttempts),
		sessions: newMockSessionGateway(),
		cookies:  newMockCookieGateway(),
		tokens:   &stubTokenSource{},
	}

	auth, err := New().
		WithConfig(cfg).
		WithUserStore(f.users).
		WithAttemptStore(f.attempts).
		WithSessionGateway(f.sessions).
		WithCookieGateway(f.cookies).
		WithTokenSource(f.tokens).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(func() { _ = auth.Close() })

	cfg.Session.Key = "hijacked"
	cfg.Remember.CookieName = "hijacked_cookie"

	if ok, err := auth.Login(context.Background(), "alice", "correct-horse", true); err != nil || !ok {
		t.Fatalf("Login: ok=%v err=%v", ok, err)
	}
	if _, ok := f.sessions.value("user_id"); !ok {
		t.Error("session written under a mutated key, not the built one")
	}
	if _, ok := f.cookies.value("remember_me"); !ok {
		t.Error("cookie written under a mutated name, not the built one")
	}
}

func TestLoginHostileIdentifiers(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))

	hostile := []string{
		strings.Repeat("a", 1<<16),
		"alice\x00",
		"alice\r\nSet-Cookie: x=y",
		"\x1b[31malice\x1b[0m",
		"' OR 1=1 --",
	}

	for _, identifier := range hostile {
		ok, err := f.auth.Login(context.Background(), identifier, "whatever", false)
		if ok {
			t.Fatalf("hostile identifier %q logged in", identifier)
		}
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("hostile identifier %q: unexpected error %v", identifier, err)
		}
	}

	if got := f.attempts.addCalls; got != 0 {
		t.Errorf("hostile unknown identifiers recorded %d attempts, want 0", got)
	}
}

func TestActivateHostileInputs(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))

	hostile := []struct {
		identifier string
		code       string
	}{
		{strings.Repeat("A", 1<<16), "code"},
		{"%%%not-base64%%%", "code"},
		{"\x00\x01\x02", "code"},
		{"YWxpY2U=", strings.Repeat("z", 1<<16)},
	}

	for _, in := range hostile {
		ok, err := f.auth.Activate(context.Background(), in.identifier, in.code)
		if ok {
			t.Fatalf("hostile activation input %q/%q succeeded", in.identifier, in.code)
		}
		if err != nil && !errors.Is(err, ErrUserNotFound) {
			t.Fatalf("hostile activation input: unexpected error %v", err)
		}
	}
}

func TestCheckHostileSessionValues(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))

	for _, value := range []string{
		strings.Repeat("9", 64),
		"1e9",
		"0x01",
		"１",
		"9223372036854775808",
	} {
		f.sessions.values["user_id"] = value

		ok, err := f.auth.Check(context.Background())
		if err != nil {
			t.Fatalf("Check with session value %q: %v", value, err)
		}
		if ok {
			t.Fatalf("session value %q authenticated", value)
		}
	}
}
