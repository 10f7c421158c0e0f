// Package password hashes account secrets with Argon2id and verifies
// presented secrets against the stored hashes.
//
// # Output format
//
// Hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>
//
// Verification replays the parameters embedded in the stored hash, so a
// deployment can raise its [Params] without invalidating existing hashes.
// [Hasher.NeedsRehash] reports when a stored hash predates the current
// parameters; callers typically re-hash on the next successful login,
// while the plaintext is in hand.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. [Hasher.Compare]
// satisfies the core SecretComparer contract structurally, so one *Hasher
// can serve the authenticator builder as comparer and the signup path as
// hasher.
//
// # What this package must NOT do
//
//   - Store or retrieve secrets. Callers supply plaintext and receive hashes.
//   - Impose password policy. Length and reuse rules belong to the caller.
//   - Log plaintext secrets or derived keys.
package password
