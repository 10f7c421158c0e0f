package internaldefs

import (
	"github.com/mclassic/sentry"
)

// CounterDef defines a public type used by sentry APIs.
//
// CounterDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type CounterDef struct {
	ID   sentry.MetricID
	Name string
	Help string
}

// HistogramDef defines a public type used by sentry APIs.
//
// HistogramDef instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type HistogramDef struct {
	ID   sentry.MetricID
	Name string
	Help string
}

// CounterDefs is an exported constant or variable used by the authentication core.
var CounterDefs = []CounterDef{
	{ID: sentry.MetricLoginSuccess, Name: "sentry_login_success_total", Help: "Successful login attempts."},
	{ID: sentry.MetricLoginFailure, Name: "sentry_login_failure_total", Help: "Failed login attempts."},
	{ID: sentry.MetricLoginSuspended, Name: "sentry_login_suspended_total", Help: "Login attempts refused because the identifier is suspended."},
	{ID: sentry.MetricLogout, Name: "sentry_logout_total", Help: "Logout operations."},
	{ID: sentry.MetricSessionOpened, Name: "sentry_session_opened_total", Help: "Sessions opened after successful validation."},
	{ID: sentry.MetricSessionDestroyed, Name: "sentry_session_destroyed_total", Help: "Sessions destroyed by logout."},
	{ID: sentry.MetricSessionResumed, Name: "sentry_session_resumed_total", Help: "Sessions resumed from a remember-me cookie."},
	{ID: sentry.MetricSessionResumeFailed, Name: "sentry_session_resume_failed_total", Help: "Remember-me resumptions that failed validation."},
	{ID: sentry.MetricActivationSuccess, Name: "sentry_activation_success_total", Help: "Successful account activations."},
	{ID: sentry.MetricActivationFailure, Name: "sentry_activation_failure_total", Help: "Failed account activation attempts."},
	{ID: sentry.MetricPasswordResetRequest, Name: "sentry_password_reset_request_total", Help: "Password reset requests."},
	{ID: sentry.MetricPasswordResetConfirmSuccess, Name: "sentry_password_reset_confirm_success_total", Help: "Successful password reset confirmations."},
	{ID: sentry.MetricPasswordResetConfirmFailure, Name: "sentry_password_reset_confirm_failure_total", Help: "Failed password reset confirmations."},
	{ID: sentry.MetricPasswordResetSuspended, Name: "sentry_password_reset_suspended_total", Help: "Password reset confirmations refused because the identifier is suspended."},
	{ID: sentry.MetricAttemptRecorded, Name: "sentry_attempt_recorded_total", Help: "Failed attempts recorded against the throttle counter."},
}

// HistogramDefs is an exported constant or variable used by the authentication core.
var HistogramDefs = []HistogramDef{
	{ID: sentry.MetricLoginLatency, Name: "sentry_login_latency_seconds", Help: "Login latency histogram."},
}

// HistogramBounds is an exported constant or variable used by the authentication core.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is an exported constant or variable used by the authentication core.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets describes the normalizebuckets operation and its observable behavior.
//
// NormalizeBuckets may return an error when input validation, dependency calls, or security checks fail.
// NormalizeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets describes the cumulativebuckets operation and its observable behavior.
//
// CumulativeBuckets may return an error when input validation, dependency calls, or security checks fail.
// CumulativeBuckets does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
