// Package internal groups the implementation packages private to goLiveness.
//
// # Sub-packages
//
//   - audit: async event dispatch (Dispatcher + Sink implementations)
//   - flows: pure-function orchestrators for the expiry checks and termination
//   - metrics: lock-free counters and the check latency histogram
//
// # What this package must NOT do
//
//   - Export types that appear in the public goLiveness API except through aliases.
//   - Be imported by any package outside the goLiveness module.
package internal
