package goLiveness

import (
	"context"

	"go.uber.org/zap"
)

// Watch polls the token source every Config.Watch.Interval until ctx ends.
//
// Each tick runs the refresh check first. When it did not terminate the
// session, the access check runs and the [AccessExpiringHandler] is called if
// the access token is inside the margin. Tick errors are logged and the loop
// keeps going. Watch returns ctx.Err().
func (m *Monitor) Watch(ctx context.Context) error {
	if m == nil {
		return ErrMonitorNotReady
	}

	ticker := m.clock.NewTicker(m.config.Watch.Interval)
	defer ticker.Stop()

	m.logger.Info("watch started",
		zap.Duration("interval", m.config.Watch.Interval),
		zap.Duration("margin", m.config.Margin),
	)
	defer m.logger.Info("watch stopped")

	if m.config.Watch.CheckOnStart {
		m.Tick(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			m.Tick(ctx)
		}
	}
}

// Tick runs one watch iteration synchronously. It reports whether the
// session was terminated.
func (m *Monitor) Tick(ctx context.Context) bool {
	if m == nil {
		return false
	}
	defer m.metrics.Inc(MetricWatchTick)

	terminated, err := m.checkRefresh(ctx)
	if err != nil {
		m.logger.Error("refresh check failed", zap.Error(err))
	}
	if terminated {
		return true
	}
	if err != nil {
		// The token source is unreadable; the access check would fail the same way.
		return false
	}

	expiring, err := m.CheckAccessTokenExpiration(ctx)
	if err != nil {
		m.logger.Error("access check failed", zap.Error(err))
		return false
	}
	if expiring && m.onAccess != nil {
		m.onAccess(ctx)
	}
	return false
}
