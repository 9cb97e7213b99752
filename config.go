package goLiveness

import (
	"errors"
	"strings"
	"time"
)

// DefaultMargin is the window before expiry at which a token is treated as
// already expiring.
const DefaultMargin = 60 * time.Second

// DefaultLoginPath is the route the monitor navigates to after termination.
const DefaultLoginPath = "/login"

// Config defines the monitor configuration.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Margin      time.Duration
	LoginPath   string
	Termination TerminationConfig
	Watch       WatchConfig
	Audit       AuditConfig
	Metrics     MetricsConfig
}

/*
====================================
TERMINATION CONFIG
====================================
*/

// TerminationConfig controls the logout-and-redirect sequence.
//
// With ContinueOnError false (default) the first failing step aborts the
// sequence. With ContinueOnError true every step runs and the errors are
// joined, so navigation still happens when a clear step fails.
type TerminationConfig struct {
	ContinueOnError bool
}

/*
====================================
WATCH CONFIG
====================================
*/

// WatchConfig controls the polling loop started by [Monitor.Watch].
type WatchConfig struct {
	Interval     time.Duration
	CheckOnStart bool
}

// AuditConfig defines audit dispatcher buffering.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines in-process metric collection.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		Margin:    DefaultMargin,
		LoginPath: DefaultLoginPath,
		Termination: TerminationConfig{
			ContinueOnError: false,
		},
		Watch: WatchConfig{
			Interval:     15 * time.Second,
			CheckOnStart: true,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the configuration used by [New].
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	return cfg
}

/*
====================================
VALIDATION
====================================
*/

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.Margin <= 0 {
		return errors.New("Margin must be > 0")
	}

	path := strings.TrimSpace(c.LoginPath)
	if path == "" {
		return errors.New("LoginPath must not be empty")
	}
	if !strings.HasPrefix(path, "/") {
		return errors.New("LoginPath must start with '/'")
	}

	if c.Watch.Interval <= 0 {
		return errors.New("Watch Interval must be > 0")
	}
	// A poll slower than the margin can miss the whole window.
	if c.Watch.Interval >= c.Margin {
		return errors.New("Watch Interval must be shorter than Margin")
	}

	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when Audit is enabled")
	}

	if c.Metrics.EnableLatencyHistograms && !c.Metrics.Enabled {
		return errors.New("Metrics EnableLatencyHistograms requires Metrics Enabled")
	}

	return nil
}
