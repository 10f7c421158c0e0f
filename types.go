package sentry

import (
	"context"
	"time"
)

// Field names accepted by [UserStore.Update]. Stores must reject keys
// outside this set.
const (
	// FieldPasswordHash is an exported constant or variable used by the authentication core.
	FieldPasswordHash = "password_hash"
	// FieldActivationHash is an exported constant or variable used by the authentication core.
	FieldActivationHash = "activation_hash"
	// FieldPasswordResetHash is an exported constant or variable used by the authentication core.
	FieldPasswordResetHash = "password_reset_hash"
	// FieldTempPassword is an exported constant or variable used by the authentication core.
	FieldTempPassword = "temp_password"
	// FieldRememberMeToken is an exported constant or variable used by the authentication core.
	FieldRememberMeToken = "remember_me_token"
	// FieldActivated is an exported constant or variable used by the authentication core.
	FieldActivated = "activated"
	// FieldLastLogin is an exported constant or variable used by the authentication core.
	FieldLastLogin = "last_login"
)

// UserRecord is the full account record returned by [UserStore]. The core
// holds it only for the duration of a single operation; the store remains
// the owner of record state.
//
// Credential fields are opaque strings; the empty string means "not set".
// An empty stored credential never matches any presented secret.
type UserRecord struct {
	ID                int64
	Identifier        string
	Email             string
	PasswordHash      string
	ActivationHash    string
	PasswordResetHash string
	TempPassword      string
	RememberMeToken   string
	Activated         bool
	Enabled           bool
	LastLogin         *time.Time
}

// UserStore is the primary interface that callers must implement to
// integrate sentry with their user database. FindByIdentifier resolves the
// configured login column; both lookups return [ErrUserNotFound] when no
// record exists. Update applies the given Field* keys to a single record
// and must be atomic per record.
type UserStore interface {
	FindByIdentifier(ctx context.Context, identifier string) (UserRecord, error)
	FindByID(ctx context.Context, id int64) (UserRecord, error)
	Update(ctx context.Context, id int64, fields map[string]any) error
}

// AttemptStore tracks failed authentication attempts per identifier and
// owns the suspension mechanism. Add and Clear must be atomic per
// identifier: two concurrent failures must both count, and a concurrent
// clear must not lose an increment.
//
// Suspend records the lockout and returns a [*SuspendedError] carrying the
// identifier; any other error reports store I/O failure. While an
// identifier is suspended, Get reports at least Limit so threshold checks
// keep failing closed.
type AttemptStore interface {
	Get(ctx context.Context, identifier string) (int, error)
	Limit() int
	Add(ctx context.Context, identifier string) error
	Clear(ctx context.Context, identifier string) error
	Suspend(ctx context.Context, identifier string) error
}

// SessionGateway abstracts the server-side session of the request in
// flight. A single configured key holds the authenticated user's numeric
// id as a decimal string. Implementations locate the concrete session
// through the request context (see the session subpackage).
type SessionGateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CookieGateway abstracts the client cookie transport of the request in
// flight. Set persists a cookie for ttl; Delete expires it immediately.
// Implementations locate the concrete request/response pair through the
// request context (see the cookie subpackage).
type CookieGateway interface {
	Get(ctx context.Context, name string) (value string, ok bool, err error)
	Set(ctx context.Context, name, value string, ttl time.Duration) error
	Delete(ctx context.Context, name string) error
}

// TokenSource produces the random secrets behind remember-me pairing and
// password-reset codes. Implementations must draw from a cryptographically
// secure source; both tokens gate account takeover.
type TokenSource interface {
	NewToken() (string, error)
}

// SecretComparer decides whether a presented secret matches a stored
// credential field. Implementations must not leak match position through
// timing.
type SecretComparer interface {
	Compare(secret, stored string) bool
}

// PasswordReset is returned by [Authenticator.StartPasswordReset]. Link is
// what outbound mail should embed; its identifier segment feeds straight
// back into [Authenticator.ConfirmPasswordReset].
type PasswordReset struct {
	Identifier string
	Email      string
	Link       string
}
