package session

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieWriter is the slice of cookie transport [SignedGateway] needs.
// The sentry root package's CookieGateway satisfies it.
type CookieWriter interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Delete(ctx context.Context, name string) error
}

// sessionClaims carries one session key/value pair plus the registered
// expiry fields.
type sessionClaims struct {
	Key   string `json:"sk"`
	Value string `json:"sv"`
	jwt.RegisteredClaims
}

// SignedGateway stores the session client-side as an HS256-signed token in
// a cookie, trading server-side state for a signature check per read. Each
// cookie holds exactly one key/value pair; setting a different key
// replaces the previous pair, which fits the core's single session key.
//
// A token that fails signature or expiry checks reads as an absent
// session, never as an error: a tampered cookie is the client's problem,
// not an infrastructure failure.
//
// SignedGateway instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SignedGateway struct {
	cookies CookieWriter
	name    string
	secret  []byte
	ttl     time.Duration
}

// NewSignedGateway describes the newsignedgateway operation and its observable behavior.
//
// NewSignedGateway may return an error when input validation, dependency calls, or security checks fail.
// NewSignedGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewSignedGateway(cookies CookieWriter, cookieName string, secret []byte, ttl time.Duration) (*SignedGateway, error) {
	if cookies == nil {
		return nil, errors.New("cookie transport required")
	}
	if cookieName == "" {
		return nil, errors.New("cookie name required")
	}
	if len(secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	if ttl <= 0 {
		return nil, errors.New("ttl must be positive")
	}

	return &SignedGateway{
		cookies: cookies,
		name:    cookieName,
		secret:  secret,
		ttl:     ttl,
	}, nil
}

// Get reads and verifies the session token. Absent, tampered, expired, and
// wrong-key tokens all report ok=false with a nil error.
func (g *SignedGateway) Get(ctx context.Context, key string) (string, bool, error) {
	raw, ok, err := g.cookies.Get(ctx, g.name)
	if err != nil {
		return "", false, err
	}
	if !ok || raw == "" {
		return "", false, nil
	}

	claims, ok := g.parse(raw)
	if !ok || claims.Key != key {
		return "", false, nil
	}
	return claims.Value, true, nil
}

// Set signs a fresh token holding the key/value pair and writes it to the
// cookie transport.
func (g *SignedGateway) Set(ctx context.Context, key, value string) error {
	now := time.Now()
	claims := sessionClaims{
		Key:   key,
		Value: value,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return err
	}
	return g.cookies.Set(ctx, g.name, signed, g.ttl)
}

// Delete drops the session cookie when it holds the given key. A token for
// a different key, or no token at all, is left alone.
func (g *SignedGateway) Delete(ctx context.Context, key string) error {
	raw, ok, err := g.cookies.Get(ctx, g.name)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}

	claims, parsed := g.parse(raw)
	if parsed && claims.Key != key {
		return nil
	}
	// Unparseable tokens are dropped too; they can never read back.
	return g.cookies.Delete(ctx, g.name)
}

func (g *SignedGateway) parse(raw string) (*sessionClaims, bool) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	token, err := parser.ParseWithClaims(raw, &sessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing algorithm")
		}
		return g.secret, nil
	})
	if err != nil {
		return nil, false
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, false
	}
	return claims, true
}
