package goLiveness

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// TokenSource exposes the current expirations of the held token pair.
//
// ok is false when no expiration is known. Both methods are reads and must
// not mutate the stored tokens.
type TokenSource interface {
	AccessTokenExpiration(ctx context.Context) (exp time.Time, ok bool, err error)
	RefreshTokenExpiration(ctx context.Context) (exp time.Time, ok bool, err error)
}

// SessionClearer clears one half of the client session. The monitor uses one
// for authentication credentials and one for cached role data.
//
// Implementations must be idempotent: the monitor may call Logout again
// while a previous termination is still in flight.
type SessionClearer interface {
	Logout(ctx context.Context) error
}

// Navigator moves the client to a route.
type Navigator interface {
	Navigate(ctx context.Context, path string) error
}

// Clock is the time capability used for every margin decision.
type Clock = clockwork.Clock

// SessionClearerFunc adapts a function to [SessionClearer].
type SessionClearerFunc func(ctx context.Context) error

// Logout calls f(ctx).
func (f SessionClearerFunc) Logout(ctx context.Context) error {
	return f(ctx)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, path string) error

// Navigate calls f(ctx, path).
func (f NavigatorFunc) Navigate(ctx context.Context, path string) error {
	return f(ctx, path)
}

// AccessExpiringHandler is invoked by [Monitor.Watch] when the access token
// enters the margin. A typical handler starts a token refresh.
type AccessExpiringHandler func(ctx context.Context)

// TerminationReason explains why a session was terminated.
type TerminationReason string

const (
	// ReasonRefreshMissing means the token source had no refresh expiration.
	ReasonRefreshMissing TerminationReason = "refresh_missing"
	// ReasonRefreshExpiring means the refresh token was inside the margin.
	ReasonRefreshExpiring TerminationReason = "refresh_expiring"
)
