package sentry

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// CredentialValidator runs the shared validation sequence for every
// credential kind: look the record up, gate on account state, compare the
// presented secret against the stored field in constant time, and record a
// failed attempt when the credential participates in throttling.
//
// The ordering is load-bearing. Account-state gates run before any secret
// comparison so a disabled or unactivated record never leaks whether the
// secret was right, and only a genuine mismatch touches the attempt counter.
//
// CredentialValidator instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CredentialValidator struct {
	users    UserStore
	attempts AttemptStore
	comparer SecretComparer
	log      zerolog.Logger
}

// NewCredentialValidator describes the newcredentialvalidator operation and its observable behavior, including relevant side effects and error conditions.
func NewCredentialValidator(users UserStore, attempts AttemptStore, comparer SecretComparer) *CredentialValidator {
	if comparer == nil {
		comparer = PlainComparer{}
	}
	return &CredentialValidator{
		users:    users,
		attempts: attempts,
		comparer: comparer,
		log:      zerolog.Nop(),
	}
}

// Validate compares secret against the stored field selected by cred and
// returns the matching record. Terminal outcomes surface as typed errors:
// [ErrUserNotFound], [ErrUserNotActivated] and [ErrUserDisabled]. A wrong
// secret returns [ErrSecretMismatch] after the attempt was recorded for
// retryable credentials. Store failures propagate wrapped and are never
// converted into a mismatch.
func (v *CredentialValidator) Validate(ctx context.Context, identifier, secret string, cred Credential) (UserRecord, error) {
	if v == nil {
		return UserRecord{}, ErrNotReady
	}

	user, err := v.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("find user %q: %w", identifier, err)
	}

	if cred.requiresActivated() && !user.Activated {
		return UserRecord{}, ErrUserNotActivated
	}
	if !user.Enabled {
		return UserRecord{}, ErrUserDisabled
	}

	stored, known := cred.secretOf(user)
	if !known {
		return UserRecord{}, fmt.Errorf("%w: unknown credential %d", ErrConfig, int(cred))
	}

	if stored == "" || !v.compare(cred, secret, stored) {
		if cred.Retryable() {
			if aerr := v.attempts.Add(ctx, identifier); aerr != nil {
				return UserRecord{}, fmt.Errorf("record failed attempt: %w", aerr)
			}
		}
		v.log.Debug().Str("identifier", identifier).Str("credential", cred.String()).Msg("credential mismatch")
		return UserRecord{}, ErrSecretMismatch
	}

	return user, nil
}

// compare routes the password field through the configured comparer so
// deployments can keep digests at rest; generated one-shot tokens are
// stored verbatim and always compared in constant time.
func (v *CredentialValidator) compare(cred Credential, secret, stored string) bool {
	if cred.hashed() {
		return v.comparer.Compare(secret, stored)
	}
	return PlainComparer{}.Compare(secret, stored)
}
