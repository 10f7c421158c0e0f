package cookie

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrNoExchange is returned when a cookie write arrives on a context that
// carries no HTTP exchange. Reads and deletes treat the same condition as
// an absent cookie instead, so non-HTTP callers can share the core's
// logout path without faking a transport.
var ErrNoExchange = errors.New("no http exchange in context")

type exchangeContextKey struct{}

type exchange struct {
	w http.ResponseWriter
	r *http.Request
}

// WithHTTP returns a context carrying the active HTTP exchange. Attach it
// once per request, before any Authenticator call that may touch cookies.
func WithHTTP(ctx context.Context, w http.ResponseWriter, r *http.Request) context.Context {
	return context.WithValue(ctx, exchangeContextKey{}, exchange{w: w, r: r})
}

func exchangeFrom(ctx context.Context) (exchange, bool) {
	if ctx == nil {
		return exchange{}, false
	}
	ex, ok := ctx.Value(exchangeContextKey{}).(exchange)
	return ex, ok
}

// HTTPOptions control the attributes stamped on every written cookie.
//
// HTTPOptions instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPOptions struct {
	// Path scopes the cookie; "/" when empty.
	Path string
	// Domain scopes the cookie; host-only when empty.
	Domain string
	// Secure restricts the cookie to TLS requests.
	Secure bool
	// ScriptAccessible leaves the cookie visible to client-side scripts.
	// The default (false) writes HttpOnly cookies.
	ScriptAccessible bool
	// SameSite defaults to [http.SameSiteLaxMode] when unset.
	SameSite http.SameSite
}

// HTTPGateway reads cookies from the request and writes them to the
// response carried in the context. One gateway value serves all requests.
//
// Writes become visible to reads on the following request; within a single
// exchange the request's cookie header is never rewritten.
//
// HTTPGateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HTTPGateway struct {
	opts HTTPOptions
}

// NewHTTPGateway describes the newhttpgateway operation and its observable behavior.
//
// NewHTTPGateway may return an error when input validation, dependency calls, or security checks fail.
// NewHTTPGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewHTTPGateway(opts HTTPOptions) *HTTPGateway {
	if opts.Path == "" {
		opts.Path = "/"
	}
	if opts.SameSite == 0 {
		opts.SameSite = http.SameSiteLaxMode
	}
	return &HTTPGateway{opts: opts}
}

// Get reads a request cookie. A context without an HTTP exchange, a
// missing cookie, and an empty value all report ok=false with a nil error.
func (g *HTTPGateway) Get(ctx context.Context, name string) (string, bool, error) {
	ex, ok := exchangeFrom(ctx)
	if !ok || ex.r == nil {
		return "", false, nil
	}

	c, err := ex.r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", false, nil
		}
		return "", false, err
	}
	if c.Value == "" {
		return "", false, nil
	}
	return c.Value, true, nil
}

// Set writes a response cookie with the configured attributes. A positive
// ttl becomes Max-Age and Expires; ttl <= 0 writes a session cookie.
// Writing without an HTTP exchange fails with [ErrNoExchange].
func (g *HTTPGateway) Set(ctx context.Context, name, value string, ttl time.Duration) error {
	ex, ok := exchangeFrom(ctx)
	if !ok || ex.w == nil {
		return ErrNoExchange
	}

	c := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     g.opts.Path,
		Domain:   g.opts.Domain,
		Secure:   g.opts.Secure,
		HttpOnly: !g.opts.ScriptAccessible,
		SameSite: g.opts.SameSite,
	}
	if ttl > 0 {
		c.Expires = time.Now().Add(ttl)
		c.MaxAge = int(ttl / time.Second)
	}

	http.SetCookie(ex.w, c)
	return nil
}

// Delete expires the named cookie. Deleting without an HTTP exchange is a
// no-op so logout flows work on bare contexts.
func (g *HTTPGateway) Delete(ctx context.Context, name string) error {
	ex, ok := exchangeFrom(ctx)
	if !ok || ex.w == nil {
		return nil
	}

	http.SetCookie(ex.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     g.opts.Path,
		Domain:   g.opts.Domain,
		Secure:   g.opts.Secure,
		HttpOnly: !g.opts.ScriptAccessible,
		SameSite: g.opts.SameSite,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	return nil
}
