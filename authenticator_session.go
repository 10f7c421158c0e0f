package sentry

import (
	"context"
	"fmt"
	"time"
)

// Logout deletes the remember-me cookie and destroys the session. It is
// idempotent: logging out without an open session is not an error, and
// both deletions run even when one of them fails.
func (a *Authenticator) Logout(ctx context.Context) error {
	if a == nil {
		return ErrNotReady
	}
	if err := a.clearTransport(ctx); err != nil {
		a.emitAudit(ctx, auditEventLogout, false, "", 0, err, nil)
		return err
	}
	a.metrics.Inc(MetricLogout)
	a.metrics.Inc(MetricSessionDestroyed)
	a.emitAudit(ctx, auditEventLogout, true, "", 0, nil, nil)
	return nil
}

// Check reports whether the request carries an authenticated session. A
// session holding a valid user id answers true immediately. Otherwise the
// remember-me cookie, when present and valid, transparently re-opens the
// session. When neither path succeeds any stale cookie and session state
// is cleared before false is returned.
//
// Check returns an error only for store failures; every validation outcome
// during resumption, including a vanished or deactivated account, degrades
// to an ordinary unauthenticated answer.
func (a *Authenticator) Check(ctx context.Context) (bool, error) {
	if a == nil {
		return false, ErrNotReady
	}
	_, ok, err := a.sessionUserID(ctx)
	if err != nil {
		return false, err
	}
	if ok {
		return true, nil
	}

	resumed, err := a.resumeRememberMe(ctx)
	if err != nil {
		return false, err
	}
	if resumed {
		return true, nil
	}

	if err := a.clearTransport(ctx); err != nil {
		return false, fmt.Errorf("clear stale session state: %w", err)
	}
	return false, nil
}

// resumeRememberMe attempts to re-open a session from the remember-me
// cookie. Malformed cookies and every validation verdict report false with
// a nil error; only store failures propagate.
func (a *Authenticator) resumeRememberMe(ctx context.Context) (bool, error) {
	raw, ok, err := a.cookies.Get(ctx, a.config.Remember.CookieName)
	if err != nil {
		return false, fmt.Errorf("read remember cookie: %w", err)
	}
	if !ok || raw == "" {
		return false, nil
	}

	identifier, token, ok := decodeRememberCookie(raw)
	if !ok {
		a.metrics.Inc(MetricSessionResumeFailed)
		a.emitAudit(ctx, auditEventSessionResumeFailed, false, "", 0, nil, func() map[string]string {
			return map[string]string{"reason": "malformed_cookie"}
		})
		a.log.Debug().Msg("remember cookie malformed")
		return false, nil
	}

	user, err := a.validator.Validate(ctx, identifier, token, CredentialRememberMe)
	if err != nil {
		if isValidationOutcome(err) {
			a.metrics.Inc(MetricSessionResumeFailed)
			a.emitAudit(ctx, auditEventSessionResumeFailed, false, identifier, 0, err, nil)
			return false, nil
		}
		return false, err
	}

	fields := CredentialRememberMe.successMutation(user, time.Now().UTC())
	if err := a.persistSuccess(ctx, user, CredentialRememberMe, fields); err != nil {
		return false, err
	}
	if err := a.openSession(ctx, user.ID); err != nil {
		return false, err
	}

	a.metrics.Inc(MetricSessionResumed)
	a.emitAudit(ctx, auditEventSessionResumed, true, identifier, user.ID, nil, nil)
	return true, nil
}
