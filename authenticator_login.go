package sentry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Login validates identifier and secret against the password credential
// and, on success, opens a session. When remember is true a fresh
// remember-me token is persisted and issued as a cookie alongside the
// session.
//
// Any prior authenticated state is discarded first, so a failed attempt
// leaves the caller logged out. The boolean result covers the recoverable
// outcomes: wrong secret, empty input, and an identifier that is currently
// suspended all report false with a nil error. Terminal account conditions
// ([ErrUserNotFound], [ErrUserNotActivated], [ErrUserDisabled]) and store
// failures return an error.
func (a *Authenticator) Login(ctx context.Context, identifier, secret string, remember bool) (bool, error) {
	if a == nil {
		return false, ErrNotReady
	}
	if a.metrics.LatencyEnabled() {
		start := time.Now()
		defer func() { a.metrics.Observe(MetricLoginLatency, time.Since(start)) }()
	}

	if err := a.clearTransport(ctx); err != nil {
		return false, fmt.Errorf("clear prior session: %w", err)
	}

	suspended, err := a.gateAttempts(ctx, identifier)
	if err != nil {
		return false, err
	}
	if suspended != nil {
		// Login never reveals the suspension; the caller sees the same
		// generic failure a wrong password produces.
		a.metrics.Inc(MetricLoginSuspended)
		a.emitAudit(ctx, auditEventLoginSuspended, false, identifier, 0, suspended, nil)
		a.log.Debug().Str("identifier", identifier).Msg("login rejected while suspended")
		return false, nil
	}

	if identifier == "" || secret == "" {
		a.metrics.Inc(MetricLoginFailure)
		a.emitAudit(ctx, auditEventLoginFailure, false, identifier, 0, nil, func() map[string]string {
			return map[string]string{"reason": "empty_input"}
		})
		return false, nil
	}

	user, err := a.validator.Validate(ctx, identifier, secret, CredentialPassword)
	if err != nil {
		if errors.Is(err, ErrSecretMismatch) {
			a.metrics.Inc(MetricLoginFailure)
			a.metrics.Inc(MetricAttemptRecorded)
			a.emitAudit(ctx, auditEventLoginFailure, false, identifier, 0, err, nil)
			return false, nil
		}
		a.metrics.Inc(MetricLoginFailure)
		a.emitAudit(ctx, auditEventLoginFailure, false, identifier, 0, err, nil)
		return false, err
	}

	fields := CredentialPassword.successMutation(user, time.Now().UTC())

	var cookieValue string
	if remember {
		token, terr := a.tokens.NewToken()
		if terr != nil {
			return false, fmt.Errorf("generate remember token: %w", terr)
		}
		fields[FieldRememberMeToken] = token
		cookieValue = encodeRememberCookie(identifier, token)
	}

	if err := a.persistSuccess(ctx, user, CredentialPassword, fields); err != nil {
		return false, err
	}
	if remember {
		if err := a.cookies.Set(ctx, a.config.Remember.CookieName, cookieValue, a.config.Remember.TTL.Std()); err != nil {
			return false, fmt.Errorf("issue remember cookie: %w", err)
		}
	}
	if err := a.openSession(ctx, user.ID); err != nil {
		return false, err
	}

	a.metrics.Inc(MetricLoginSuccess)
	a.emitAudit(ctx, auditEventLoginSuccess, true, identifier, user.ID, nil, func() map[string]string {
		return map[string]string{"remember": strconv.FormatBool(remember)}
	})
	return true, nil
}

// gateAttempts checks the failed-attempt counter against the limit and
// marks the identifier suspended once the limit is reached. A non-nil
// *SuspendedError means the attempt must not proceed; how visibly the
// caller reports that is the operation's choice.
func (a *Authenticator) gateAttempts(ctx context.Context, identifier string) (*SuspendedError, error) {
	count, err := a.attempts.Get(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("read attempt count: %w", err)
	}
	if count < a.attempts.Limit() {
		return nil, nil
	}
	if err := a.attempts.Suspend(ctx, identifier); err != nil && !errors.Is(err, ErrSuspended) {
		return nil, fmt.Errorf("suspend identifier: %w", err)
	}
	return &SuspendedError{Identifier: identifier}, nil
}

// persistSuccess writes the credential's post-success field mutations in a
// single store update and clears the attempt counter for credentials that
// reset throttling. The session, when the credential opens one, is the
// caller's last step after this returns.
func (a *Authenticator) persistSuccess(ctx context.Context, user UserRecord, cred Credential, fields map[string]any) error {
	if err := a.users.Update(ctx, user.ID, fields); err != nil {
		return fmt.Errorf("persist %s success: %w", cred, err)
	}
	if cred.clearsAttempts() {
		if err := a.attempts.Clear(ctx, user.Identifier); err != nil {
			return fmt.Errorf("clear attempt count: %w", err)
		}
	}
	return nil
}
