package cookie

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPGatewayReadsRequestCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "remember_me", Value: "abc123"})
	w := httptest.NewRecorder()
	ctx := WithHTTP(context.Background(), w, r)

	gw := NewHTTPGateway(HTTPOptions{})

	value, ok, err := gw.Get(ctx, "remember_me")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "abc123" {
		t.Fatalf("expected (abc123, true), got (%q, %v)", value, ok)
	}

	_, ok, err = gw.Get(ctx, "missing")
	if err != nil {
		t.Fatalf("Get for missing cookie failed: %v", err)
	}
	if ok {
		t.Fatal("expected missing cookie to read as absent")
	}
}

func TestHTTPGatewaySetWritesResponseCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ctx := WithHTTP(context.Background(), w, r)

	gw := NewHTTPGateway(HTTPOptions{Secure: true})

	if err := gw.Set(ctx, "remember_me", "abc123", time.Hour); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}

	c := cookies[0]
	if c.Name != "remember_me" || c.Value != "abc123" {
		t.Fatalf("unexpected cookie %q=%q", c.Name, c.Value)
	}
	if c.MaxAge != 3600 {
		t.Fatalf("expected Max-Age 3600, got %d", c.MaxAge)
	}
	if c.Path != "/" {
		t.Fatalf("expected default path /, got %q", c.Path)
	}
	if !c.HttpOnly {
		t.Fatal("expected HttpOnly by default")
	}
	if !c.Secure {
		t.Fatal("expected Secure to be carried through")
	}
}

func TestHTTPGatewaySessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ctx := WithHTTP(context.Background(), w, r)

	gw := NewHTTPGateway(HTTPOptions{})

	if err := gw.Set(ctx, "sid", "s-1", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge != 0 {
		t.Fatalf("expected session cookie without Max-Age, got %d", cookies[0].MaxAge)
	}
	if !cookies[0].Expires.IsZero() {
		t.Fatalf("expected session cookie without Expires, got %v", cookies[0].Expires)
	}
}

func TestHTTPGatewayDeleteExpiresCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	ctx := WithHTTP(context.Background(), w, r)

	gw := NewHTTPGateway(HTTPOptions{})

	if err := gw.Delete(ctx, "remember_me"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	if cookies[0].MaxAge >= 0 {
		t.Fatalf("expected negative Max-Age, got %d", cookies[0].MaxAge)
	}
	if cookies[0].Value != "" {
		t.Fatalf("expected cleared value, got %q", cookies[0].Value)
	}
}

func TestHTTPGatewayBareContext(t *testing.T) {
	gw := NewHTTPGateway(HTTPOptions{})
	ctx := context.Background()

	_, ok, err := gw.Get(ctx, "remember_me")
	if err != nil {
		t.Fatalf("Get on bare context failed: %v", err)
	}
	if ok {
		t.Fatal("expected absent cookie on bare context")
	}

	if err := gw.Set(ctx, "remember_me", "x", time.Hour); !errors.Is(err, ErrNoExchange) {
		t.Fatalf("expected ErrNoExchange from Set, got %v", err)
	}

	if err := gw.Delete(ctx, "remember_me"); err != nil {
		t.Fatalf("Delete on bare context should be a no-op, got %v", err)
	}
}

func TestJarLifecycle(t *testing.T) {
	jar := NewJar()
	ctx := context.Background()

	if err := jar.Set(ctx, "remember_me", "abc", 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	value, ok, err := jar.Get(ctx, "remember_me")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok || value != "abc" {
		t.Fatalf("expected (abc, true), got (%q, %v)", value, ok)
	}

	if err := jar.Set(ctx, "short", "x", time.Nanosecond); err != nil {
		t.Fatalf("Set with ttl failed: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, ok, _ := jar.Get(ctx, "short"); ok {
		t.Fatal("expected expired cookie to read as absent")
	}

	if err := jar.Delete(ctx, "remember_me"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := jar.Get(ctx, "remember_me"); ok {
		t.Fatal("expected deleted cookie to read as absent")
	}
}
