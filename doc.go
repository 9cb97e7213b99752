// Package goLiveness provides a client-side session-liveness monitor for
// access/refresh token pairs.
//
// A [Monitor] reads token expirations from a [TokenSource] and decides whether
// each token is inside the safety margin (60 seconds by default). An access
// token inside the margin is reported to the caller; a refresh token inside the
// margin, or with no known expiration, triggers session termination: the auth
// [SessionClearer], then the role [SessionClearer], then navigation to the
// login path.
//
// # Architecture boundaries
//
// goLiveness is the public surface. It exposes [Monitor], [Builder], [Config]
// and the collaborator interfaces. Decision and termination orchestration
// lives in internal/flows. Concrete collaborators live in tokenstore,
// tokenstore/sqlite, permission and navigation; the monitor never imports
// them.
//
// # What this package must NOT do
//
//   - Parse, refresh or transport tokens.
//   - Recover from or retry collaborator failures. Errors reach the caller.
//   - Deduplicate overlapping checks. Collaborators must be idempotent.
package goLiveness
