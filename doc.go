// Package sentry provides a session-based authentication core: password
// login with failed-attempt throttling and suspension, account activation
// links, two-phase password resets, and remember-me session resumption.
//
// The package is designed for concurrent server workloads: Authenticator
// methods are safe to call from multiple goroutines after initialization
// through [Builder.Build]. Per-request state never lives on the
// Authenticator; it travels in the context the caller passes to each
// operation.
//
// # Architecture boundaries
//
// sentry is the public surface. It exposes [Authenticator], [Builder],
// [Config], the store and gateway interfaces, and value types
// (UserRecord, PasswordReset, MetricsSnapshot, AuditEvent). Concrete
// backends live in sub-packages: attempt/ and session/ for Redis and
// in-memory stores, cookie/ for HTTP transport, store/postgres/ for user
// records. Sub-packages depend on this package, never the other way
// around.
//
// # What this package must NOT do
//
//   - Hash passwords or enforce password policy. Stored secrets are
//     compared through [SecretComparer]; producing them is the caller's
//     concern.
//   - Send mail. [Authenticator.StartPasswordReset] returns the contact
//     address and reset link for a delivery layer to use.
//   - Talk to Redis, Postgres, or the HTTP layer directly. All I/O goes
//     through the injected store and gateway interfaces.
package sentry
