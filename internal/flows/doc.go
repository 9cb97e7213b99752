// Package flows contains pure-function orchestrators for every Monitor operation.
//
// Each flow function (RunAccessCheck, RunRefreshCheck, RunTerminate) accepts a
// typed dependency struct and returns a result without side-effects beyond
// those dependencies. The Monitor builds the dependency structs once and stays
// thin.
//
// # Architecture boundaries
//
// Flow functions coordinate calls to the token source, the session clearers
// and the navigator. They do NOT own any of these collaborators and never
// recover from their failures.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goLiveness (to avoid import cycles).
//   - Read the wall clock directly; time comes from Deps.Now.
package flows
