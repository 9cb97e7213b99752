// Package prometheus renders liveness monitor metrics in Prometheus text
// exposition format.
//
// [New] wraps a [goLiveness.Monitor] and [Exporter.Handler] serves the
// output. Counters are named goliveness_*_total; the latency histogram is
// goliveness_check_latency_seconds.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the Handler.
//   - Mutate monitor state.
package prometheus
