// Package session provides session gateways for the sentry core. A session
// id travels in the request context via [WithID]; the transport layer mints
// one per visitor (see [NewID]) and the gateways key their storage by it,
// so a single gateway value serves every request concurrently.
//
// [RedisGateway] keeps session state server-side in Redis hashes.
// [SignedGateway] keeps it client-side in an HMAC-signed token carried by a
// cookie. [MemoryGateway] backs tests and single-process deployments.
//
// # Architecture boundaries
//
// This package owns session persistence and nothing else. It does NOT
// decide who is authenticated, touch user records, or count failed
// attempts; those responsibilities belong to the core package.
//
// # What this package must NOT do
//
//   - Import the sentry root package (no upward imports; the gateways
//     satisfy its interfaces structurally).
//   - Interpret the values it stores. A session value is an opaque string.
package session
