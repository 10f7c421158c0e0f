package sentry

import (
	"fmt"
	"strings"
	"time"
)

// LintSeverity ranks advisory configuration findings.
type LintSeverity uint8

// Severity levels, ordered. [LintWarnings.BySeverity] and
// [LintWarnings.AsError] treat their argument as a floor.
const (
	LintLow LintSeverity = iota + 1
	LintMedium
	LintHigh
)

// String describes the string operation and its observable behavior.
//
// String does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (s LintSeverity) String() string {
	switch s {
	case LintLow:
		return "LOW"
	case LintMedium:
		return "MEDIUM"
	case LintHigh:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// LintWarning flags a configuration that validates but weakens the
// deployment. Code is stable and machine-checkable; Detail is for humans.
//
// LintWarning instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LintWarning struct {
	Code     string
	Severity LintSeverity
	Detail   string
}

// LintWarnings defines a public type used by sentry APIs.
type LintWarnings []LintWarning

// Codes returns the warning codes in emission order.
func (ws LintWarnings) Codes() []string {
	codes := make([]string, len(ws))
	for i, w := range ws {
		codes[i] = w.Code
	}
	return codes
}

// BySeverity returns the warnings at or above min.
func (ws LintWarnings) BySeverity(min LintSeverity) LintWarnings {
	var flagged LintWarnings
	for _, w := range ws {
		if w.Severity >= min {
			flagged = append(flagged, w)
		}
	}
	return flagged
}

// AsError folds the warnings at or above min into one error, nil when
// none reach the floor. Deployments that refuse to boot on severe
// findings call Lint().AsError(LintHigh) next to Validate.
func (ws LintWarnings) AsError(min LintSeverity) error {
	flagged := ws.BySeverity(min)
	if len(flagged) == 0 {
		return nil
	}
	return fmt.Errorf("config lint: %s", strings.Join(flagged.Codes(), ", "))
}

// Lint reports advisory findings that Validate accepts but a security
// review would question. Unlike Validate it never blocks construction;
// callers decide which severities they tolerate.
func (c Config) Lint() LintWarnings {
	var ws LintWarnings

	switch {
	case c.Throttle.MaxAttempts > 100:
		ws = append(ws, LintWarning{
			Code:     "throttle_ineffective",
			Severity: LintHigh,
			Detail:   "more than 100 tolerated failures leaves guessing effectively unthrottled",
		})
	case c.Throttle.MaxAttempts > 10:
		ws = append(ws, LintWarning{
			Code:     "attempt_limit_high",
			Severity: LintMedium,
			Detail:   "a generous attempt budget invites online guessing",
		})
	case c.Throttle.MaxAttempts > 0 && c.Throttle.MaxAttempts < 3:
		ws = append(ws, LintWarning{
			Code:     "attempt_limit_low",
			Severity: LintLow,
			Detail:   "ordinary typos will lock accounts; consider at least 3 attempts",
		})
	}

	if c.Throttle.RevealSuspensionOnReset {
		ws = append(ws, LintWarning{
			Code:     "reveal_suspension",
			Severity: LintMedium,
			Detail:   "reset confirmations disclose lockout state to unauthenticated callers",
		})
	}

	if c.Remember.TTL.Std() > 90*24*time.Hour {
		ws = append(ws, LintWarning{
			Code:     "remember_ttl_long",
			Severity: LintMedium,
			Detail:   "remember-me pairings outlive 90 days",
		})
	}

	if c.Audit.Enabled && c.Audit.BlockIfFull {
		ws = append(ws, LintWarning{
			Code:     "audit_blocking",
			Severity: LintMedium,
			Detail:   "a stalled audit sink backpressures logins",
		})
	}
	if !c.Audit.Enabled {
		ws = append(ws, LintWarning{
			Code:     "audit_disabled",
			Severity: LintLow,
			Detail:   "authentication decisions leave no audit trail",
		})
	}

	if !c.Metrics.Enabled {
		ws = append(ws, LintWarning{
			Code:     "metrics_disabled",
			Severity: LintLow,
			Detail:   "operational counters are off",
		})
	}

	return ws
}
