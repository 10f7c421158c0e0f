package sentry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// StartPasswordReset stages a password reset for identifier. A fresh reset
// code is generated and persisted together with newSecret, which is held in
// escrow until [Authenticator.ConfirmPasswordReset] copies it over the
// password field. Any outstanding remember-me token is revoked in the same
// update so a stolen long-lived cookie cannot outlive the reset.
//
// newSecret is stored exactly as given; when the deployment compares
// passwords with [BcryptComparer] the caller must pass the digest, not the
// plaintext. The returned payload carries the contact address and a reset
// link ready to hand to a mail delivery layer; this package never sends
// anything itself.
func (a *Authenticator) StartPasswordReset(ctx context.Context, identifier, newSecret string) (*PasswordReset, error) {
	if a == nil {
		return nil, ErrNotReady
	}
	if newSecret == "" {
		a.emitAudit(ctx, auditEventPasswordResetRequest, false, identifier, 0, ErrEmptySecret, nil)
		return nil, ErrEmptySecret
	}

	user, err := a.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			a.emitAudit(ctx, auditEventPasswordResetRequest, false, identifier, 0, ErrUserNotFound, nil)
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user %q: %w", identifier, err)
	}

	code, err := a.tokens.NewToken()
	if err != nil {
		return nil, fmt.Errorf("generate reset code: %w", err)
	}

	fields := map[string]any{
		FieldPasswordResetHash: code,
		FieldTempPassword:      newSecret,
		FieldRememberMeToken:   "",
	}
	if err := a.users.Update(ctx, user.ID, fields); err != nil {
		return nil, fmt.Errorf("persist reset request: %w", err)
	}

	a.metrics.Inc(MetricPasswordResetRequest)
	a.emitAudit(ctx, auditEventPasswordResetRequest, true, identifier, user.ID, nil, nil)

	return &PasswordReset{
		Identifier: identifier,
		Email:      user.Email,
		Link:       encodeResetLink(identifier, code),
	}, nil
}

// ConfirmPasswordReset completes a staged reset. encodedIdentifier is the
// base64 identifier from the reset link and code the reset secret. The
// failed-attempt gate runs before validation, exactly as for login, so
// reset codes cannot be brute-forced past the limit; a wrong code counts
// toward it.
//
// On success the escrowed secret becomes the password and the reset pair
// and any remember-me token are cleared. No session is opened; the user
// logs in with the new password afterward. Whether a suspended identifier
// is reported as [ErrSuspended] or hidden behind a generic false is
// controlled by [ThrottleConfig].RevealSuspensionOnReset.
func (a *Authenticator) ConfirmPasswordReset(ctx context.Context, encodedIdentifier, code string) (bool, error) {
	if a == nil {
		return false, ErrNotReady
	}
	if encodedIdentifier == "" || code == "" {
		a.metrics.Inc(MetricPasswordResetConfirmFailure)
		a.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", 0, nil, func() map[string]string {
			return map[string]string{"reason": "empty_input"}
		})
		return false, nil
	}

	identifier, ok := decodeIdentifier(encodedIdentifier)
	if !ok {
		a.metrics.Inc(MetricPasswordResetConfirmFailure)
		a.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", 0, nil, func() map[string]string {
			return map[string]string{"reason": "malformed_identifier"}
		})
		return false, nil
	}

	suspended, err := a.gateAttempts(ctx, identifier)
	if err != nil {
		return false, err
	}
	if suspended != nil {
		a.metrics.Inc(MetricPasswordResetSuspended)
		a.emitAudit(ctx, auditEventPasswordResetConfirm, false, identifier, 0, suspended, nil)
		if a.config.Throttle.RevealSuspensionOnReset {
			return false, suspended
		}
		return false, nil
	}

	user, err := a.validator.Validate(ctx, identifier, code, CredentialPasswordReset)
	if err != nil {
		if errors.Is(err, ErrSecretMismatch) {
			a.metrics.Inc(MetricPasswordResetConfirmFailure)
			a.metrics.Inc(MetricAttemptRecorded)
			a.emitAudit(ctx, auditEventPasswordResetConfirm, false, identifier, 0, err, nil)
			return false, nil
		}
		a.metrics.Inc(MetricPasswordResetConfirmFailure)
		a.emitAudit(ctx, auditEventPasswordResetConfirm, false, identifier, 0, err, nil)
		return false, err
	}

	fields := CredentialPasswordReset.successMutation(user, time.Now().UTC())
	if err := a.persistSuccess(ctx, user, CredentialPasswordReset, fields); err != nil {
		return false, err
	}

	a.metrics.Inc(MetricPasswordResetConfirmSuccess)
	a.emitAudit(ctx, auditEventPasswordResetConfirm, true, identifier, user.ID, nil, nil)
	return true, nil
}
