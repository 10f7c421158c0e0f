package sentry

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// PlainComparer defines a public type used by sentry APIs.
//
// It matches secrets by constant-time equality and is the default for all
// four credential fields: generated tokens are stored literally, and the
// password compare stays timing-safe even when deployments store literal
// values.
type PlainComparer struct{}

// Compare reports whether secret equals stored.
func (PlainComparer) Compare(secret, stored string) bool {
	return subtle.ConstantTimeCompare([]byte(secret), []byte(stored)) == 1
}

// BcryptComparer defines a public type used by sentry APIs.
//
// It treats the stored password field as a bcrypt digest and the presented
// secret as plaintext. Staged reset secrets must then be bcrypt digests as
// well: a confirmed reset copies the staged value into the password field
// verbatim.
type BcryptComparer struct{}

// Compare reports whether secret matches the bcrypt digest in stored.
func (BcryptComparer) Compare(secret, stored string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(secret)) == nil
}
