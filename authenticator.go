package sentry

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
)

// Authenticator is the facade every caller goes through. It owns no state
// of its own beyond configuration and wiring: user records live behind
// [UserStore], throttling behind [AttemptStore], and the transport-facing
// session and cookie state behind [SessionGateway] and [CookieGateway].
// Per-request values such as the acting HTTP exchange or client address
// travel in the context, so a single Authenticator is safe for concurrent
// use across requests.
//
// Construct one through [Builder]; the zero value is not usable.
//
// Every operation follows the same discipline: terminal account conditions
// surface as typed errors, a wrong secret is a boolean failure, and store
// I/O failures always propagate. An operation never reports success before
// all of its record mutations have been persisted.
type Authenticator struct {
	config    Config
	users     UserStore
	attempts  AttemptStore
	sessions  SessionGateway
	cookies   CookieGateway
	validator *CredentialValidator
	tokens    TokenSource

	audit   *auditDispatcher
	metrics *Metrics
	log     zerolog.Logger
}

// Close releases background resources, draining and stopping the audit
// dispatcher. The Authenticator must not be used after Close.
func (a *Authenticator) Close() error {
	if a == nil {
		return nil
	}
	if a.audit != nil {
		a.audit.Close()
	}
	return nil
}

// AuditDropped reports how many audit events were discarded because the
// sink could not keep up. Always zero when auditing is disabled or the
// dispatcher blocks instead of dropping.
func (a *Authenticator) AuditDropped() uint64 {
	if a == nil || a.audit == nil {
		return 0
	}
	return a.audit.Dropped()
}

// Metrics exposes the in-process counter set for exporters. Returns nil
// when metrics are disabled.
func (a *Authenticator) Metrics() *Metrics {
	if a == nil {
		return nil
	}
	return a.metrics
}

// MetricsSnapshot describes the metricssnapshot operation and its observable behavior, including relevant side effects and error conditions.
func (a *Authenticator) MetricsSnapshot() MetricsSnapshot {
	if a == nil || a.metrics == nil {
		return MetricsSnapshot{}
	}
	return a.metrics.Snapshot()
}

// CurrentUser loads the record behind the open session. It consults the
// session gateway only; call [Authenticator.Check] first when remember-me
// resumption should get a chance to re-open the session. Returns
// [ErrNotAuthenticated] when no valid session exists or the record behind
// it has disappeared.
func (a *Authenticator) CurrentUser(ctx context.Context) (UserRecord, error) {
	if a == nil {
		return UserRecord{}, ErrNotReady
	}
	id, ok, err := a.sessionUserID(ctx)
	if err != nil {
		return UserRecord{}, err
	}
	if !ok {
		return UserRecord{}, ErrNotAuthenticated
	}
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return UserRecord{}, ErrNotAuthenticated
		}
		return UserRecord{}, fmt.Errorf("find user id %d: %w", id, err)
	}
	return user, nil
}

// sessionUserID reads the session gateway and parses the stored user id.
// A present but malformed value reports ok=false so callers treat it like
// an absent session.
func (a *Authenticator) sessionUserID(ctx context.Context) (int64, bool, error) {
	raw, ok, err := a.sessions.Get(ctx, a.config.Session.Key)
	if err != nil {
		return 0, false, fmt.Errorf("read session: %w", err)
	}
	if !ok {
		return 0, false, nil
	}
	id, perr := strconv.ParseInt(raw, 10, 64)
	if perr != nil || id <= 0 {
		return 0, false, nil
	}
	return id, true, nil
}

// openSession marks the request authenticated. Callers must have persisted
// every record mutation first; the session is the last thing written.
func (a *Authenticator) openSession(ctx context.Context, userID int64) error {
	if err := a.sessions.Set(ctx, a.config.Session.Key, strconv.FormatInt(userID, 10)); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	a.metrics.Inc(MetricSessionOpened)
	return nil
}

// clearTransport removes the remember-me cookie and destroys the session.
// Both deletions run even if the first fails, and both are idempotent.
func (a *Authenticator) clearTransport(ctx context.Context) error {
	cookieErr := a.cookies.Delete(ctx, a.config.Remember.CookieName)
	sessionErr := a.sessions.Delete(ctx, a.config.Session.Key)
	return errors.Join(cookieErr, sessionErr)
}
