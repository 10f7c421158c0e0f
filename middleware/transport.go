package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mclassic/sentry"
	"github.com/mclassic/sentry/cookie"
	"github.com/mclassic/sentry/session"
)

// SessionOptions tunes the transport cookie minted by [WithSession].
type SessionOptions struct {
	// CookieName is the name of the session id cookie. Defaults to "sid".
	CookieName string

	// TTL bounds the session id cookie lifetime. Zero means a session
	// cookie that dies with the browser.
	TTL time.Duration

	// Secure marks the cookie as HTTPS-only.
	Secure bool
}

func (o SessionOptions) cookieName() string {
	if o.CookieName == "" {
		return "sid"
	}
	return o.CookieName
}

// WithSession wires the per-request context every authenticator call
// needs: a session id (read from the transport cookie, minted when
// absent), the HTTP exchange for cookie reads and writes, the client ip,
// and a request id. Handlers behind it can call Login, Check, Logout and
// the rest without touching net/http plumbing themselves.
func WithSession(opts SessionOptions) func(http.Handler) http.Handler {
	name := opts.cookieName()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := ""
			if c, err := r.Cookie(name); err == nil {
				sid = c.Value
			}
			if sid == "" {
				sid = session.NewID()
				transport := &http.Cookie{
					Name:     name,
					Value:    sid,
					Path:     "/",
					HttpOnly: true,
					Secure:   opts.Secure,
					SameSite: http.SameSiteLaxMode,
				}
				if opts.TTL > 0 {
					transport.MaxAge = int(opts.TTL / time.Second)
				}
				http.SetCookie(w, transport)
			}

			ctx := session.WithID(r.Context(), sid)
			ctx = cookie.WithHTTP(ctx, w, r)
			ctx = sentry.WithRequestID(ctx, requestID(r))
			ctx = sentry.WithClientIP(ctx, clientIP(r))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-Id"); id != "" {
		return id
	}
	return uuid.NewString()
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
