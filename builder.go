package sentry

import (
	"errors"

	"github.com/rs/zerolog"
)

// Builder defines a public type used by sentry APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	users    UserStore
	attempts AttemptStore
	sessions SessionGateway
	cookies  CookieGateway

	tokens   TokenSource
	comparer SecretComparer

	auditSink AuditSink
	logger    zerolog.Logger

	built bool
}

// New describes the new operation and its observable behavior.
//
// New may return an error when input validation, dependency calls, or security checks fail.
// New does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: zerolog.Nop(),
	}
}

// WithConfig describes the withconfig operation and its observable behavior.
//
// WithConfig may return an error when input validation, dependency calls, or security checks fail.
// WithConfig does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithUserStore describes the withuserstore operation and its observable behavior.
//
// WithUserStore may return an error when input validation, dependency calls, or security checks fail.
// WithUserStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithAttemptStore describes the withattemptstore operation and its observable behavior.
//
// WithAttemptStore may return an error when input validation, dependency calls, or security checks fail.
// WithAttemptStore does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAttemptStore(store AttemptStore) *Builder {
	b.attempts = store
	return b
}

// WithSessionGateway describes the withsessiongateway operation and its observable behavior.
//
// WithSessionGateway may return an error when input validation, dependency calls, or security checks fail.
// WithSessionGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSessionGateway(gw SessionGateway) *Builder {
	b.sessions = gw
	return b
}

// WithCookieGateway describes the withcookiegateway operation and its observable behavior.
//
// WithCookieGateway may return an error when input validation, dependency calls, or security checks fail.
// WithCookieGateway does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithCookieGateway(gw CookieGateway) *Builder {
	b.cookies = gw
	return b
}

// WithTokenSource describes the withtokensource operation and its observable behavior.
//
// WithTokenSource may return an error when input validation, dependency calls, or security checks fail.
// WithTokenSource does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithTokenSource(src TokenSource) *Builder {
	b.tokens = src
	return b
}

// WithSecretComparer describes the withsecretcomparer operation and its observable behavior.
//
// WithSecretComparer may return an error when input validation, dependency calls, or security checks fail.
// WithSecretComparer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithSecretComparer(cmp SecretComparer) *Builder {
	b.comparer = cmp
	return b
}

// WithAuditSink describes the withauditsink operation and its observable behavior.
//
// WithAuditSink may return an error when input validation, dependency calls, or security checks fail.
// WithAuditSink does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger describes the withlogger operation and its observable behavior.
//
// WithLogger may return an error when input validation, dependency calls, or security checks fail.
// WithLogger does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled describes the withmetricsenabled operation and its observable behavior.
//
// WithMetricsEnabled may return an error when input validation, dependency calls, or security checks fail.
// WithMetricsEnabled does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms describes the withlatencyhistograms operation and its observable behavior.
//
// WithLatencyHistograms may return an error when input validation, dependency calls, or security checks fail.
// WithLatencyHistograms does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build describes the build operation and its observable behavior.
//
// Build may return an error when input validation, dependency calls, or security checks fail.
// Build does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (b *Builder) Build() (*Authenticator, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := b.config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.users == nil {
		return nil, errors.New("user store required")
	}
	if b.attempts == nil {
		return nil, errors.New("attempt store required")
	}
	if b.sessions == nil {
		return nil, errors.New("session gateway required")
	}
	if b.cookies == nil {
		return nil, errors.New("cookie gateway required")
	}

	tokens := b.tokens
	if tokens == nil {
		tokens = TokenGenerator{}
	}
	comparer := b.comparer
	if comparer == nil {
		comparer = PlainComparer{}
	}

	validator := &CredentialValidator{
		users:    b.users,
		attempts: b.attempts,
		comparer: comparer,
		log:      b.logger,
	}

	auth := &Authenticator{
		config:    cfg,
		users:     b.users,
		attempts:  b.attempts,
		sessions:  b.sessions,
		cookies:   b.cookies,
		validator: validator,
		tokens:    tokens,
		audit:     newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:   NewMetrics(cfg.Metrics),
		log:       b.logger,
	}

	b.built = true

	return auth, nil
}
