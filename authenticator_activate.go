package sentry

import (
	"context"
	"errors"
	"time"
)

// Activate confirms an account activation link. encodedIdentifier is the
// base64 identifier embedded in the link when the account was provisioned;
// code is the activation secret. On an exact match the activation hash is
// cleared and the record flips to activated, after which the same link can
// never match again.
//
// Empty or undecodable inputs and a wrong code report false with a nil
// error; activation attempts never count toward the failed-attempt limit.
// A missing or disabled account surfaces as a typed error.
func (a *Authenticator) Activate(ctx context.Context, encodedIdentifier, code string) (bool, error) {
	if a == nil {
		return false, ErrNotReady
	}
	if encodedIdentifier == "" || code == "" {
		a.metrics.Inc(MetricActivationFailure)
		a.emitAudit(ctx, auditEventActivationConfirm, false, "", 0, nil, func() map[string]string {
			return map[string]string{"reason": "empty_input"}
		})
		return false, nil
	}

	identifier, ok := decodeIdentifier(encodedIdentifier)
	if !ok {
		a.metrics.Inc(MetricActivationFailure)
		a.emitAudit(ctx, auditEventActivationConfirm, false, "", 0, nil, func() map[string]string {
			return map[string]string{"reason": "malformed_identifier"}
		})
		return false, nil
	}

	user, err := a.validator.Validate(ctx, identifier, code, CredentialActivation)
	if err != nil {
		a.metrics.Inc(MetricActivationFailure)
		a.emitAudit(ctx, auditEventActivationConfirm, false, identifier, 0, err, nil)
		if errors.Is(err, ErrSecretMismatch) {
			return false, nil
		}
		return false, err
	}

	fields := CredentialActivation.successMutation(user, time.Now().UTC())
	if err := a.persistSuccess(ctx, user, CredentialActivation, fields); err != nil {
		return false, err
	}

	a.metrics.Inc(MetricActivationSuccess)
	a.emitAudit(ctx, auditEventActivationConfirm, true, identifier, user.ID, nil, nil)
	return true, nil
}
