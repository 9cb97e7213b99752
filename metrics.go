package goLiveness

import (
	internalmetrics "github.com/MrEthical07/goLiveness/internal/metrics"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricAccessCheck counts access-token evaluations.
	MetricAccessCheck = MetricID(internalmetrics.MetricAccessCheck)
	// MetricAccessExpiring counts access evaluations inside the margin.
	MetricAccessExpiring = MetricID(internalmetrics.MetricAccessExpiring)
	// MetricAccessMissing counts access evaluations with no known expiration.
	MetricAccessMissing = MetricID(internalmetrics.MetricAccessMissing)
	// MetricAccessCheckError counts access evaluations failed by the token source.
	MetricAccessCheckError = MetricID(internalmetrics.MetricAccessCheckError)
	// MetricRefreshCheck counts refresh-token evaluations.
	MetricRefreshCheck = MetricID(internalmetrics.MetricRefreshCheck)
	// MetricRefreshExpiring counts refresh evaluations inside the margin.
	MetricRefreshExpiring = MetricID(internalmetrics.MetricRefreshExpiring)
	// MetricRefreshMissing counts refresh evaluations with no known expiration.
	MetricRefreshMissing = MetricID(internalmetrics.MetricRefreshMissing)
	// MetricRefreshCheckError counts refresh evaluations failed by the token source.
	MetricRefreshCheckError = MetricID(internalmetrics.MetricRefreshCheckError)
	// MetricTermination counts completed logout-and-redirect sequences.
	MetricTermination = MetricID(internalmetrics.MetricTermination)
	// MetricTerminationFailure counts sequences that returned an error.
	MetricTerminationFailure = MetricID(internalmetrics.MetricTerminationFailure)
	// MetricWatchTick counts polling loop ticks.
	MetricWatchTick = MetricID(internalmetrics.MetricWatchTick)
	// MetricCheckLatency is the check latency histogram.
	MetricCheckLatency = MetricID(internalmetrics.MetricCheckLatency)
)

// Metrics holds atomic counters and the optional latency histogram.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a [Metrics] instance. When Enabled is false all
// operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
