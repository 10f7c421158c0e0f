package sentry

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is an exported constant or variable used by the authentication core.
	ErrConfig = errors.New("invalid configuration")
	// ErrUserNotFound is an exported constant or variable used by the authentication core.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserNotActivated is an exported constant or variable used by the authentication core.
	ErrUserNotActivated = errors.New("user not activated")
	// ErrUserDisabled is an exported constant or variable used by the authentication core.
	ErrUserDisabled = errors.New("user disabled")
	// ErrSuspended is an exported constant or variable used by the authentication core.
	ErrSuspended = errors.New("identifier suspended")
	// ErrSecretMismatch is an exported constant or variable used by the authentication core.
	ErrSecretMismatch = errors.New("secret mismatch")
	// ErrEmptySecret is an exported constant or variable used by the authentication core.
	ErrEmptySecret = errors.New("empty secret")
	// ErrNotAuthenticated is an exported constant or variable used by the authentication core.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrNotReady is an exported constant or variable used by the authentication core.
	ErrNotReady = errors.New("authenticator not initialized")
)

// SuspendedError reports that an identifier crossed the failed-attempt limit
// and has been locked out by the attempt store. It matches [ErrSuspended]
// under [errors.Is] so callers can branch without inspecting the type.
type SuspendedError struct {
	Identifier string
}

// Error describes the error for logs and wrapped chains.
func (e *SuspendedError) Error() string {
	return fmt.Sprintf("identifier %q suspended", e.Identifier)
}

// Is reports whether target is [ErrSuspended].
func (e *SuspendedError) Is(target error) bool {
	return target == ErrSuspended
}

// isValidationOutcome distinguishes the validator's deliberate verdicts
// from infrastructure failures. Store and generator errors are never
// validation outcomes and must keep propagating.
func isValidationOutcome(err error) bool {
	return errors.Is(err, ErrSecretMismatch) ||
		errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrUserNotActivated) ||
		errors.Is(err, ErrUserDisabled)
}
