// Package otel exposes liveness monitor metrics as OpenTelemetry instruments.
//
// [New] registers an Int64ObservableCounter per counter and an
// Int64ObservableGauge per latency bucket. One callback reads
// [goLiveness.Monitor.MetricsSnapshot] on each collection cycle.
//
// # What this package must NOT do
//
//   - Own the MeterProvider. Callers supply the Meter.
//   - Mutate monitor state.
package otel
