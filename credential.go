package sentry

import "time"

// Credential selects which stored secret a validation run compares against.
// Each value carries its own post-success mutation strategy so the facade
// dispatches on the enum instead of re-deriving side effects per call site.
//
// Credential instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Credential int

const (
	// CredentialPassword is an exported constant or variable used by the authentication core.
	CredentialPassword Credential = iota
	// CredentialActivation is an exported constant or variable used by the authentication core.
	CredentialActivation
	// CredentialPasswordReset is an exported constant or variable used by the authentication core.
	CredentialPasswordReset
	// CredentialRememberMe is an exported constant or variable used by the authentication core.
	CredentialRememberMe
)

// String describes the credential for logs and audit metadata.
func (c Credential) String() string {
	switch c {
	case CredentialPassword:
		return "password"
	case CredentialActivation:
		return "activation_hash"
	case CredentialPasswordReset:
		return "password_reset_hash"
	case CredentialRememberMe:
		return "remember_me_token"
	default:
		return "unknown"
	}
}

// Retryable reports whether a mismatch on this credential counts toward
// the failed-attempt limit. Activation codes and remember-me tokens never
// throttle; lockout there would let a third party suspend an account it
// does not own.
func (c Credential) Retryable() bool {
	return c == CredentialPassword || c == CredentialPasswordReset
}

// secretOf returns the stored field this credential compares against and
// whether the credential is known.
func (c Credential) secretOf(u UserRecord) (string, bool) {
	switch c {
	case CredentialPassword:
		return u.PasswordHash, true
	case CredentialActivation:
		return u.ActivationHash, true
	case CredentialPasswordReset:
		return u.PasswordResetHash, true
	case CredentialRememberMe:
		return u.RememberMeToken, true
	default:
		return "", false
	}
}

// hashed reports whether the stored field may hold a digest rather than a
// literal token, in which case the configured [SecretComparer] decides the
// match. Generated tokens are always compared literally in constant time.
func (c Credential) hashed() bool {
	return c == CredentialPassword
}

// requiresActivated reports whether validation demands an activated record.
// The activation credential exists to flip that flag, so it alone skips the
// gate; the enabled gate applies to every credential.
func (c Credential) requiresActivated() bool {
	return c != CredentialActivation
}

// successMutation returns the record fields that must be persisted once
// this credential matched. The caller owns persistence and session state;
// the map keys are the Field* constants accepted by [UserStore.Update].
func (c Credential) successMutation(u UserRecord, now time.Time) map[string]any {
	switch c {
	case CredentialPassword:
		fields := map[string]any{FieldLastLogin: now}
		// A pending reset staged before this login is abandoned by it.
		if u.PasswordResetHash != "" {
			fields[FieldPasswordResetHash] = ""
			fields[FieldTempPassword] = ""
		}
		return fields
	case CredentialActivation:
		return map[string]any{
			FieldActivationHash: "",
			FieldActivated:      true,
		}
	case CredentialPasswordReset:
		return map[string]any{
			FieldPasswordHash:      u.TempPassword,
			FieldPasswordResetHash: "",
			FieldTempPassword:      "",
			FieldRememberMeToken:   "",
		}
	case CredentialRememberMe:
		return map[string]any{FieldLastLogin: now}
	default:
		return nil
	}
}

// clearsAttempts reports whether a match resets the failed-attempt counter.
func (c Credential) clearsAttempts() bool {
	return c == CredentialPassword
}
