package goLiveness

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	internalaudit "github.com/MrEthical07/goLiveness/internal/audit"
	"github.com/MrEthical07/goLiveness/internal/flows"
)

// Monitor evaluates token expirations against the configured margin and
// terminates the session when the refresh token is expiring or missing.
//
// Monitor holds no session state. Every check reads the token source and the
// clock again, so checks may be called at any rate and from any goroutine as
// long as the collaborators allow it.
type Monitor struct {
	config    Config
	tokens    TokenSource
	auth      SessionClearer
	roles     SessionClearer
	navigator Navigator
	clock     Clock
	logger    *zap.Logger
	onAccess  AccessExpiringHandler
	metrics   *Metrics
	audit     *internalaudit.Dispatcher
	deps      flows.Deps
}

func (m *Monitor) buildDeps() flows.Deps {
	return flows.Deps{
		Access: flows.AccessDeps{
			Expiration: m.tokens.AccessTokenExpiration,
			Now:        m.clock.Now,
			Margin:     m.config.Margin,
		},
		Refresh: flows.RefreshDeps{
			Expiration: m.tokens.RefreshTokenExpiration,
			Now:        m.clock.Now,
			Margin:     m.config.Margin,
			Terminate:  m.terminate,
		},
		Terminate: flows.TerminateDeps{
			ClearAuth:       m.auth.Logout,
			ClearRoles:      m.roles.Logout,
			Navigate:        m.navigator.Navigate,
			LoginPath:       m.config.LoginPath,
			ContinueOnError: m.config.Termination.ContinueOnError,
			FailureErr:      ErrTerminationFailed,
		},
	}
}

// CheckAccessTokenExpiration reports whether the access token has less than
// the margin left. An access token with no known expiration is reported as
// not expiring. Token source errors are returned unchanged.
func (m *Monitor) CheckAccessTokenExpiration(ctx context.Context) (bool, error) {
	if m == nil {
		return false, ErrMonitorNotReady
	}
	start := m.clock.Now()
	m.metrics.Inc(MetricAccessCheck)

	res := flows.RunAccessCheck(ctx, m.deps.Access)
	m.observe(start)
	if res.Err != nil {
		m.metrics.Inc(MetricAccessCheckError)
		return false, res.Err
	}

	switch res.Decision {
	case flows.DecisionExpiring:
		m.metrics.Inc(MetricAccessExpiring)
	case flows.DecisionMissing:
		m.metrics.Inc(MetricAccessMissing)
	}
	m.logger.Debug("access token checked",
		zap.String("decision", res.Decision.String()),
		zap.Duration("remaining", res.Remaining),
	)

	return res.Expiring, nil
}

// CheckRefreshTokenExpiration terminates the session when the refresh token
// has less than the margin left or no known expiration. Otherwise it does
// nothing.
//
// Token source errors are returned without terminating. Termination errors
// wrap [ErrTerminationFailed].
func (m *Monitor) CheckRefreshTokenExpiration(ctx context.Context) error {
	_, err := m.checkRefresh(ctx)
	return err
}

func (m *Monitor) checkRefresh(ctx context.Context) (bool, error) {
	if m == nil {
		return false, ErrMonitorNotReady
	}
	start := m.clock.Now()
	m.metrics.Inc(MetricRefreshCheck)

	res := flows.RunRefreshCheck(ctx, m.deps.Refresh)
	m.observe(start)
	if !res.Terminated && res.Err != nil {
		m.metrics.Inc(MetricRefreshCheckError)
		return false, res.Err
	}

	switch res.Decision {
	case flows.DecisionExpiring:
		m.metrics.Inc(MetricRefreshExpiring)
	case flows.DecisionMissing:
		m.metrics.Inc(MetricRefreshMissing)
	}
	m.logger.Debug("refresh token checked",
		zap.String("decision", res.Decision.String()),
		zap.Duration("remaining", res.Remaining),
		zap.Bool("terminated", res.Terminated),
	)

	return res.Terminated, res.Err
}

func (m *Monitor) terminate(ctx context.Context, decision flows.ExpiryDecision) error {
	reason := ReasonRefreshExpiring
	if decision == flows.DecisionMissing {
		reason = ReasonRefreshMissing
	}

	res := flows.RunTerminate(ctx, m.deps.Terminate)

	event := AuditEvent{
		ID:        uuid.NewString(),
		Timestamp: m.clock.Now(),
		EventType: AuditEventSessionTerminated,
		Reason:    string(reason),
		Success:   res.Err == nil,
		Metadata:  map[string]string{"login_path": m.config.LoginPath},
	}
	if res.Err != nil {
		m.metrics.Inc(MetricTerminationFailure)
		event.Error = res.Err.Error()
		event.Metadata["failed_stage"] = string(res.FailedStage)
	} else {
		m.metrics.Inc(MetricTermination)
		m.logger.Info("session terminated",
			zap.String("reason", string(reason)),
			zap.String("login_path", m.config.LoginPath),
		)
	}
	m.audit.Emit(ctx, event)

	return res.Err
}

func (m *Monitor) observe(start time.Time) {
	if !m.metrics.LatencyEnabled() {
		return
	}
	m.metrics.Observe(MetricCheckLatency, m.clock.Since(start))
}

// Config returns a copy of the active configuration.
func (m *Monitor) Config() Config {
	if m == nil {
		return Config{}
	}
	return cloneConfig(m.config)
}

// Close flushes and stops the audit dispatcher.
func (m *Monitor) Close() {
	if m == nil {
		return
	}
	m.audit.Close()
}

// AuditDropped returns the number of audit events dropped by backpressure.
func (m *Monitor) AuditDropped() uint64 {
	if m == nil {
		return 0
	}
	return m.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the monitor's metrics.
func (m *Monitor) MetricsSnapshot() MetricsSnapshot {
	if m == nil || m.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return m.metrics.Snapshot()
}
