package internaldefs

import (
	goLiveness "github.com/MrEthical07/goLiveness"
)

// CounterDef binds a counter slot to its exported name.
type CounterDef struct {
	ID   goLiveness.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram slot to its exported name.
type HistogramDef struct {
	ID   goLiveness.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter for audit events lost to backpressure.
const AuditDroppedName = "goliveness_audit_dropped_total"

// AuditDroppedHelp describes AuditDroppedName.
const AuditDroppedHelp = "Dropped audit events due to dispatcher backpressure."

// CounterDefs lists every exported counter in render order.
var CounterDefs = []CounterDef{
	{ID: goLiveness.MetricAccessCheck, Name: "goliveness_access_check_total", Help: "Access token expiration checks."},
	{ID: goLiveness.MetricAccessExpiring, Name: "goliveness_access_expiring_total", Help: "Access checks that found the token inside the margin."},
	{ID: goLiveness.MetricAccessMissing, Name: "goliveness_access_missing_total", Help: "Access checks with no known expiration."},
	{ID: goLiveness.MetricAccessCheckError, Name: "goliveness_access_check_error_total", Help: "Access checks failed by the token source."},
	{ID: goLiveness.MetricRefreshCheck, Name: "goliveness_refresh_check_total", Help: "Refresh token expiration checks."},
	{ID: goLiveness.MetricRefreshExpiring, Name: "goliveness_refresh_expiring_total", Help: "Refresh checks that found the token inside the margin."},
	{ID: goLiveness.MetricRefreshMissing, Name: "goliveness_refresh_missing_total", Help: "Refresh checks with no known expiration."},
	{ID: goLiveness.MetricRefreshCheckError, Name: "goliveness_refresh_check_error_total", Help: "Refresh checks failed by the token source."},
	{ID: goLiveness.MetricTermination, Name: "goliveness_termination_total", Help: "Completed logout and redirect sequences."},
	{ID: goLiveness.MetricTerminationFailure, Name: "goliveness_termination_failure_total", Help: "Logout and redirect sequences that failed."},
	{ID: goLiveness.MetricWatchTick, Name: "goliveness_watch_tick_total", Help: "Watch loop ticks."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goLiveness.MetricCheckLatency, Name: "goliveness_check_latency_seconds", Help: "Expiration check latency histogram."},
}

// HistogramBounds are the upper bounds of the eight latency buckets, in
// seconds.
var HistogramBounds = []string{
	"0.001",
	"0.0025",
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"+Inf",
}

// HistogramUpperBounds are the finite bucket bounds in seconds; the last
// bucket is +Inf.
var HistogramUpperBounds = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1}

// HistogramBoundSuffix names each bucket for exporters that cannot use labels.
var HistogramBoundSuffix = []string{
	"0_001",
	"0_0025",
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"inf",
}

// NormalizeBuckets copies raw into a fixed array, padding with zeros.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
