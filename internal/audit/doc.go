// Package audit implements async event dispatching for session terminations.
//
// # Components
//
//   - [Sink]: interface for event consumers (channel, JSON writer, zap, no-op).
//   - [Dispatcher]: buffered async relay with drop-if-full / block-if-full semantics.
//   - [Event]: structured audit record with id, timestamp, type, subject, reason, metadata.
//
// # Architecture boundaries
//
// This package owns event buffering and sink delivery. It does NOT decide which events
// to emit; the Monitor does.
//
// # What this package must NOT do
//
//   - Filter or suppress events based on business logic.
//   - Import goLiveness or any sibling internal package.
package audit
