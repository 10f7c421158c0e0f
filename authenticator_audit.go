package sentry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const (
	auditEventLoginSuccess         = "login_success"
	auditEventLoginFailure         = "login_failure"
	auditEventLoginSuspended       = "login_suspended"
	auditEventLogout               = "logout"
	auditEventSessionResumed       = "session_resumed"
	auditEventSessionResumeFailed  = "session_resume_failed"
	auditEventActivationConfirm    = "activation_confirm"
	auditEventPasswordResetRequest = "password_reset_request"
	auditEventPasswordResetConfirm = "password_reset_confirm"
)

// AuditErrorCode defines a public type used by sentry APIs.
//
// AuditErrorCode instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditErrorCode string

const (
	auditErrConfig         AuditErrorCode = "config"
	auditErrUserNotFound   AuditErrorCode = "user_not_found"
	auditErrNotActivated   AuditErrorCode = "user_not_activated"
	auditErrDisabled       AuditErrorCode = "user_disabled"
	auditErrSuspended      AuditErrorCode = "suspended"
	auditErrSecretMismatch AuditErrorCode = "secret_mismatch"
	auditErrInternal       AuditErrorCode = "internal_error"
)

func (a *Authenticator) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	identifier string,
	userID int64,
	err error,
	metadataBuilder func() map[string]string,
) {
	if a == nil || a.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		EventType:  eventType,
		Identifier: identifier,
		UserID:     userID,
		IP:         clientIPFromContext(ctx),
		RequestID:  requestIDFromContext(ctx),
		Success:    success,
		Metadata:   metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Code = string(code)
	}

	a.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrConfig):
		return auditErrConfig
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrUserNotActivated):
		return auditErrNotActivated
	case errors.Is(err, ErrUserDisabled):
		return auditErrDisabled
	case errors.Is(err, ErrSuspended):
		return auditErrSuspended
	case errors.Is(err, ErrSecretMismatch):
		return auditErrSecretMismatch
	default:
		return auditErrInternal
	}
}
