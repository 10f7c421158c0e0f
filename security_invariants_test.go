package sentry

import (
	"context"
	"strconv"
	"testing"
)

// Cross-cutting guarantees the individual operation tests do not pin
// down. Each test here states one way an attacker must not get in.

func TestSecurityInvariantSuspensionBeatsCorrectPassword(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()

	for i := 0; i < f.attempts.limit; i++ {
		if ok, err := f.auth.Login(ctx, "alice", "wrong-"+strconv.Itoa(i), false); ok || err != nil {
			t.Fatalf("failure %d: ok=%v err=%v", i, ok, err)
		}
	}

	// The gate closes before validation, so the correct password cannot
	// slip through on the attempt that triggers the suspension.
	ok, err := f.auth.Login(ctx, "alice", "correct-horse", false)
	if err != nil {
		t.Fatalf("suspending login: %v", err)
	}
	if ok {
		t.Fatal("correct password logged in past the attempt limit")
	}
	if f.attempts.suspendCalls != 1 {
		t.Fatalf("suspendCalls = %d, want 1", f.attempts.suspendCalls)
	}

	// And it stays closed while the suspension is in force.
	ok, err = f.auth.Login(ctx, "alice", "correct-horse", false)
	if err != nil {
		t.Fatalf("post-suspension login: %v", err)
	}
	if ok {
		t.Fatal("correct password logged in during suspension")
	}
}

func TestSecurityInvariantLoginRotatesTransportState(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()

	// State planted before login, as a fixation attempt would leave it.
	f.sessions.values["user_id"] = "2"
	f.cookies.values["remember_me"] = "planted"

	ok, err := f.auth.Login(ctx, "alice", "correct-horse", false)
	if err != nil || !ok {
		t.Fatalf("Login: ok=%v err=%v", ok, err)
	}

	if v, _ := f.sessions.value("user_id"); v != "1" {
		t.Errorf("session user_id = %q, want the fresh login's \"1\"", v)
	}
	if v, present := f.cookies.value("remember_me"); present {
		t.Errorf("planted remember cookie survived login: %q", v)
	}
}

func TestSecurityInvariantResetLinkSingleUse(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "old-horse"))
	ctx := context.Background()
	f.tokens.tokens = []string{"reset-code-1"}

	if _, err := f.auth.StartPasswordReset(ctx, "alice", "new-horse"); err != nil {
		t.Fatalf("StartPasswordReset: %v", err)
	}

	encoded := encodeIdentifier("alice")
	ok, err := f.auth.ConfirmPasswordReset(ctx, encoded, "reset-code-1")
	if err != nil || !ok {
		t.Fatalf("first confirm: ok=%v err=%v", ok, err)
	}

	ok, err = f.auth.ConfirmPasswordReset(ctx, encoded, "reset-code-1")
	if err != nil {
		t.Fatalf("replayed confirm: %v", err)
	}
	if ok {
		t.Fatal("reset link confirmed twice")
	}
}

func TestSecurityInvariantResetRevokesRememberedDevices(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "correct-horse"))
	ctx := context.Background()
	f.tokens.tokens = []string{"remember-tok", "reset-code"}

	if ok, err := f.auth.Login(ctx, "alice", "correct-horse", true); err != nil || !ok {
		t.Fatalf("Login: ok=%v err=%v", ok, err)
	}
	if _, present := f.cookies.value("remember_me"); !present {
		t.Fatal("remembered login issued no cookie")
	}

	if _, err := f.auth.StartPasswordReset(ctx, "alice", "new-horse"); err != nil {
		t.Fatalf("StartPasswordReset: %v", err)
	}
	if u := f.users.record(t, 1); u.RememberMeToken != "" {
		t.Fatalf("remember token survived the reset request: %q", u.RememberMeToken)
	}

	// The browser still holds the old cookie; once its session is gone it
	// must not resume against the revoked token.
	_ = f.sessions.Delete(ctx, "user_id")

	ok, err := f.auth.Check(ctx)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if ok {
		t.Fatal("revoked remember cookie resumed a session")
	}
}

func TestSecurityInvariantEscrowedPasswordStaysInert(t *testing.T) {
	f := newTestAuth(t, authTestConfig(), activeUser(1, "alice", "old-horse"))
	ctx := context.Background()
	f.tokens.tokens = []string{"reset-code"}

	if _, err := f.auth.StartPasswordReset(ctx, "alice", "new-horse"); err != nil {
		t.Fatalf("StartPasswordReset: %v", err)
	}

	// The escrowed secret is not live until the link is confirmed.
	ok, err := f.auth.Login(ctx, "alice", "new-horse", false)
	if err != nil {
		t.Fatalf("escrow login: %v", err)
	}
	if ok {
		t.Fatal("escrowed password logged in before confirmation")
	}

	// The old password still works, and using it abandons the escrow.
	ok, err = f.auth.Login(ctx, "alice", "old-horse", false)
	if err != nil || !ok {
		t.Fatalf("old password login: ok=%v err=%v", ok, err)
	}
	u := f.users.record(t, 1)
	if u.PasswordResetHash != "" || u.TempPassword != "" {
		t.Errorf("stale escrow left behind: hash=%q temp=%q", u.PasswordResetHash, u.TempPassword)
	}
	if u.PasswordHash != "old-horse" {
		t.Errorf("live password changed to %q without confirmation", u.PasswordHash)
	}
}
