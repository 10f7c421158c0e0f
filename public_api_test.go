package sentry_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/mclassic/sentry"
	"github.com/mclassic/sentry/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = sentry.New
	_ = sentry.DefaultConfig
	_ = sentry.LoadConfig

	var _ *sentry.Authenticator
	var _ sentry.Config
	var _ sentry.UserRecord
	var _ *sentry.PasswordReset
	var _ sentry.UserStore
	var _ sentry.AttemptStore
	var _ sentry.SessionGateway
	var _ sentry.CookieGateway
	var _ sentry.TokenSource
	var _ sentry.SecretComparer
	var _ sentry.AuditSink
	var _ sentry.AuditEvent
	var _ sentry.MetricsSnapshot
	var _ sentry.MetricID = sentry.MetricLoginSuccess

	var _ error = sentry.ErrConfig
	var _ error = sentry.ErrUserNotFound
	var _ error = sentry.ErrUserNotActivated
	var _ error = sentry.ErrUserDisabled
	var _ error = sentry.ErrSuspended
	var _ error = sentry.ErrSecretMismatch
	var _ error = sentry.ErrEmptySecret
	var _ error = sentry.ErrNotAuthenticated
	var _ error = sentry.ErrNotReady
	var _ error = (*sentry.SuspendedError)(nil)

	var _ func(middleware.SessionOptions) func(http.Handler) http.Handler = middleware.WithSession
	var _ func(*sentry.Authenticator) func(http.Handler) http.Handler = middleware.RequireAuthenticated

	var _ func(*sentry.Authenticator, context.Context, string, string, bool) (bool, error) = (*sentry.Authenticator).Login
	var _ func(*sentry.Authenticator, context.Context) error = (*sentry.Authenticator).Logout
	var _ func(*sentry.Authenticator, context.Context) (bool, error) = (*sentry.Authenticator).Check
	var _ func(*sentry.Authenticator, context.Context) (sentry.UserRecord, error) = (*sentry.Authenticator).CurrentUser
	var _ func(*sentry.Authenticator, context.Context, string, string) (bool, error) = (*sentry.Authenticator).Activate
	var _ func(*sentry.Authenticator, context.Context, string, string) (*sentry.PasswordReset, error) = (*sentry.Authenticator).StartPasswordReset
	var _ func(*sentry.Authenticator, context.Context, string, string) (bool, error) = (*sentry.Authenticator).ConfirmPasswordReset
	var _ func(*sentry.Authenticator) error = (*sentry.Authenticator).Close
	var _ func(*sentry.Authenticator) uint64 = (*sentry.Authenticator).AuditDropped
	var _ func(*sentry.Authenticator) sentry.MetricsSnapshot = (*sentry.Authenticator).MetricsSnapshot
}
