package sentry

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
)

// Duration is a [time.Duration] that unmarshals Go duration strings
// ("15m", "336h") from both environment variables and JSON config files.
type Duration time.Duration

// UnmarshalText implements [encoding.TextUnmarshaler].
func (d *Duration) UnmarshalText(b []byte) error {
	parsed, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped [time.Duration].
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config defines a public type used by sentry APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Login    LoginConfig    `envPrefix:"SENTRY_LOGIN_" json:"login,omitempty"`
	Session  SessionConfig  `envPrefix:"SENTRY_SESSION_" json:"session,omitempty"`
	Remember RememberConfig `envPrefix:"SENTRY_REMEMBER_" json:"remember,omitempty"`
	Throttle ThrottleConfig `envPrefix:"SENTRY_THROTTLE_" json:"throttle,omitempty"`
	Audit    AuditConfig    `envPrefix:"SENTRY_AUDIT_" json:"audit,omitempty"`
	Metrics  MetricsConfig  `envPrefix:"SENTRY_METRICS_" json:"metrics,omitempty"`
}

/*
====================================
LOGIN CONFIG
====================================
*/

// LoginConfig defines a public type used by sentry APIs.
//
// LoginConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginConfig struct {
	// Column names the unique login value users present as their
	// identifier. Empty is a fatal startup error.
	Column string `env:"COLUMN" json:"column"`
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by sentry APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// Key is the session slot that holds the authenticated user's
	// numeric id as a decimal string.
	Key string `env:"KEY" json:"key"`
}

/*
====================================
REMEMBER-ME CONFIG
====================================
*/

// RememberConfig defines a public type used by sentry APIs.
//
// RememberConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type RememberConfig struct {
	CookieName string   `env:"COOKIE_NAME" json:"cookie_name"`
	TTL        Duration `env:"TTL" json:"ttl"`
}

/*
====================================
THROTTLE CONFIG
====================================
*/

// ThrottleConfig defines a public type used by sentry APIs.
//
// ThrottleConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type ThrottleConfig struct {
	// MaxAttempts is the shared failed-attempt limit. Attempt store
	// constructors take it at wiring time; the core reads the live value
	// back through [AttemptStore.Limit].
	MaxAttempts int `env:"MAX_ATTEMPTS" json:"max_attempts"`

	// RevealSuspensionOnReset surfaces the typed suspension error from
	// ConfirmPasswordReset instead of flattening it into a failed
	// outcome the way Login always does.
	RevealSuspensionOnReset bool `env:"REVEAL_SUSPENSION_ON_RESET" json:"reveal_suspension_on_reset"`
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by sentry APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool `env:"ENABLED" json:"enabled"`
	BufferSize int  `env:"BUFFER_SIZE" json:"buffer_size"`

	// BlockIfFull makes emitters wait for queue space instead of
	// dropping the event and bumping the dropped counter.
	BlockIfFull bool `env:"BLOCK_IF_FULL" json:"block_if_full"`
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by sentry APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool `env:"ENABLED" json:"enabled"`
	EnableLatencyHistograms bool `env:"ENABLE_LATENCY_HISTOGRAMS" json:"enable_latency_histograms"`
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the baseline configuration. Login.Column has no
// safe default and stays empty; Validate rejects it until set.
func DefaultConfig() Config {
	return Config{
		Login: LoginConfig{
			Column: "",
		},
		Session: SessionConfig{
			Key: "user_id",
		},
		Remember: RememberConfig{
			CookieName: "remember_me",
			TTL:        Duration(14 * 24 * time.Hour),
		},
		Throttle: ThrottleConfig{
			MaxAttempts:             5,
			RevealSuspensionOnReset: false,
		},
		Audit: AuditConfig{
			Enabled:     false,
			BufferSize:  1024,
			BlockIfFull: false,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

/*
====================================
VALIDATION
====================================
*/

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Login.Column) == "" {
		return fmt.Errorf("%w: Login Column must be set", ErrConfig)
	}

	if strings.TrimSpace(c.Session.Key) == "" {
		return fmt.Errorf("%w: Session Key must be set", ErrConfig)
	}

	if strings.TrimSpace(c.Remember.CookieName) == "" {
		return fmt.Errorf("%w: Remember CookieName must be set", ErrConfig)
	}
	if c.Remember.TTL <= 0 {
		return fmt.Errorf("%w: Remember TTL must be > 0", ErrConfig)
	}

	if c.Throttle.MaxAttempts <= 0 {
		return fmt.Errorf("%w: Throttle MaxAttempts must be > 0", ErrConfig)
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return fmt.Errorf("%w: Audit BufferSize must be > 0 when Audit Enabled is true", ErrConfig)
	}

	return nil
}

/*
====================================
LOADING
====================================
*/

// LoadConfig assembles a Config by layering sources, highest precedence
// first: SENTRY_* environment variables, then the optional JSON file at
// path, then [DefaultConfig]. An empty path skips the file layer. The
// merged result is validated before being returned.
func LoadConfig(path string) (Config, error) {
	var merged Config

	var envCfg Config
	if err := env.Parse(&envCfg); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	if err := mergo.Merge(&merged, envCfg); err != nil {
		return Config{}, fmt.Errorf("merge env config: %w", err)
	}

	if path != "" {
		fileCfg, err := parseJSONConfig(path)
		if err != nil {
			return Config{}, err
		}
		if err := mergo.Merge(&merged, fileCfg); err != nil {
			return Config{}, fmt.Errorf("merge file config: %w", err)
		}
	}

	if err := mergo.Merge(&merged, DefaultConfig()); err != nil {
		return Config{}, fmt.Errorf("merge default config: %w", err)
	}

	if err := merged.Validate(); err != nil {
		return Config{}, err
	}
	return merged, nil
}

func parseJSONConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}
