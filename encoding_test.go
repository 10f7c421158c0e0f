package sentry

import "testing"

func TestEncodeRememberCookie(t *testing.T) {
	if got := encodeRememberCookie("alice", "tok"); got != "YWxpY2U6dG9r" {
		t.Fatalf("encodeRememberCookie = %q, want YWxpY2U6dG9r", got)
	}
}

func TestDecodeRememberCookieSplitsOnFirstColon(t *testing.T) {
	// Stored secrets are alphanumeric, but the decoder must still hand back
	// whatever follows the first separator untouched.
	identifier, secret, ok := decodeRememberCookie(encodeRememberCookie("alice", "a:b"))
	if !ok {
		t.Fatal("expected the cookie to decode")
	}
	if identifier != "alice" || secret != "a:b" {
		t.Fatalf("got %q/%q, want alice/a:b", identifier, secret)
	}
}

func TestDecodeRememberCookieRoundTrip(t *testing.T) {
	identifier, secret, ok := decodeRememberCookie(encodeRememberCookie("bob", "tok123"))
	if !ok || identifier != "bob" || secret != "tok123" {
		t.Fatalf("got %q/%q (ok=%v), want bob/tok123", identifier, secret, ok)
	}
}

func TestDecodeRememberCookieRejectsMalformed(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not base64", "%%%"},
		{"no separator", "bm9jb2xvbg=="},
		{"empty identifier", "OnNlY3JldA=="},
		{"empty secret", "YWxpY2U6"},
		{"empty value", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, _, ok := decodeRememberCookie(tc.value); ok {
				t.Fatalf("decodeRememberCookie(%q) accepted a malformed value", tc.value)
			}
		})
	}
}

func TestEncodeResetLink(t *testing.T) {
	if got := encodeResetLink("bob", "HASH"); got != "Ym9i/HASH" {
		t.Fatalf("encodeResetLink = %q, want Ym9i/HASH", got)
	}
}

func TestDecodeIdentifier(t *testing.T) {
	encoded := encodeIdentifier("carol")
	got, ok := decodeIdentifier(encoded)
	if !ok || got != "carol" {
		t.Fatalf("decodeIdentifier(%q) = %q (ok=%v), want carol", encoded, got, ok)
	}

	for _, bad := range []string{"", "%%%"} {
		if _, ok := decodeIdentifier(bad); ok {
			t.Fatalf("decodeIdentifier(%q) accepted a malformed value", bad)
		}
	}
}
