// Package tokenstore keeps the client's current access and refresh tokens in
// Redis and serves their expiration instants to the liveness monitor.
//
// # Record encoding
//
// A [Record] is stored as deterministic CBOR under a single key. The record
// carries a schema version; unknown versions decode as [ErrRecordCorrupt].
//
// # Architecture boundaries
//
// [Store] implements both the token source and the auth session clearer
// contracts. It does NOT decide whether a token is expiring; that decision
// belongs to the monitor.
//
// # What this package must NOT do
//
//   - Import goLiveness or navigation (no upward imports).
//   - Treat a missing record as an error. Missing means absent expirations.
package tokenstore
