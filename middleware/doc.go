// Package middleware exposes net/http adapters for the session-cookie
// authentication core.
//
// # Handlers
//
//   - [WithSession] wires the per-request context: session id, HTTP
//     exchange, client IP, and request id.
//   - [RequireAuthenticated] rejects anonymous requests and injects the
//     resolved user record for handlers behind it.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Authenticator calls. It does
// NOT implement authentication logic itself; all decisions are delegated to
// Authenticator.Check.
//
// # What this package must NOT do
//
//   - Compare secrets or read user records directly.
//   - Talk to session or attempt storage (the core owns I/O).
//   - Make decisions beyond pass/reject from Authenticator.Check.
package middleware
