package goLiveness

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	internalaudit "github.com/MrEthical07/goLiveness/internal/audit"
)

// Builder assembles a [Monitor] from its collaborators.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config

	tokens    TokenSource
	auth      SessionClearer
	roles     SessionClearer
	navigator Navigator
	clock     Clock
	logger    *zap.Logger
	auditSink AuditSink
	onAccess  AccessExpiringHandler

	built bool
}

// New returns a Builder holding the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithMargin sets the expiry safety margin.
func (b *Builder) WithMargin(margin time.Duration) *Builder {
	b.config.Margin = margin
	return b
}

// WithLoginPath sets the route used after termination.
func (b *Builder) WithLoginPath(path string) *Builder {
	b.config.LoginPath = path
	return b
}

// WithTokenSource sets where token expirations are read from.
func (b *Builder) WithTokenSource(src TokenSource) *Builder {
	b.tokens = src
	return b
}

// WithAuthClearer sets the collaborator that clears authentication data.
func (b *Builder) WithAuthClearer(c SessionClearer) *Builder {
	b.auth = c
	return b
}

// WithRoleClearer sets the collaborator that clears cached role data.
func (b *Builder) WithRoleClearer(c SessionClearer) *Builder {
	b.roles = c
	return b
}

// WithNavigator sets the collaborator that performs the login redirect.
func (b *Builder) WithNavigator(n Navigator) *Builder {
	b.navigator = n
	return b
}

// WithClock injects the time source. Defaults to the real clock.
func (b *Builder) WithClock(c Clock) *Builder {
	b.clock = c
	return b
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func (b *Builder) WithLogger(l *zap.Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink sets the audit sink. Auditing still has to be enabled in
// [AuditConfig].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithAccessExpiringHandler sets the handler [Monitor.Watch] calls when the
// access token is inside the margin.
func (b *Builder) WithAccessExpiringHandler(h AccessExpiringHandler) *Builder {
	b.onAccess = h
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the check latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and returns a ready [Monitor].
//
// Build fails when a collaborator is missing or the configuration is
// invalid. A Builder can be built only once.
func (b *Builder) Build() (*Monitor, error) {
	if b.built {
		return nil, ErrBuilderUsed
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch {
	case b.tokens == nil:
		return nil, ErrTokenSourceRequired
	case b.auth == nil:
		return nil, ErrAuthClearerRequired
	case b.roles == nil:
		return nil, ErrRoleClearerRequired
	case b.navigator == nil:
		return nil, ErrNavigatorRequired
	}

	clock := b.clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		config:    cfg,
		tokens:    b.tokens,
		auth:      b.auth,
		roles:     b.roles,
		navigator: b.navigator,
		clock:     clock,
		logger:    logger.Named("liveness"),
		onAccess:  b.onAccess,
		metrics:   NewMetrics(cfg.Metrics),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    cfg.Audit.Enabled,
			BufferSize: cfg.Audit.BufferSize,
			DropIfFull: cfg.Audit.DropIfFull,
		}, b.auditSink),
	}
	m.deps = m.buildDeps()

	b.built = true

	return m, nil
}
