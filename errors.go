package goLiveness

import "errors"

var (
	// ErrTokenSourceRequired is returned by Build when no token source is set.
	ErrTokenSourceRequired = errors.New("token source required")
	// ErrAuthClearerRequired is returned by Build when no auth session clearer is set.
	ErrAuthClearerRequired = errors.New("auth session clearer required")
	// ErrRoleClearerRequired is returned by Build when no role session clearer is set.
	ErrRoleClearerRequired = errors.New("role session clearer required")
	// ErrNavigatorRequired is returned by Build when no navigator is set.
	ErrNavigatorRequired = errors.New("navigator required")
	// ErrBuilderUsed is returned when Build is called twice on one builder.
	ErrBuilderUsed = errors.New("builder already used")
	// ErrMonitorNotReady is returned by methods called on a nil monitor.
	ErrMonitorNotReady = errors.New("monitor not initialized")
	// ErrTerminationFailed wraps collaborator failures during logout-and-redirect.
	ErrTerminationFailed = errors.New("session termination failed")
)
