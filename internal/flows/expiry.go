package flows

import (
	"context"
	"time"
)

// ExpiryDecision classifies a single margin evaluation.
type ExpiryDecision int

const (
	// DecisionValid means the token has at least Margin left.
	DecisionValid ExpiryDecision = iota
	// DecisionExpiring means the token has less than Margin left.
	DecisionExpiring
	// DecisionMissing means no expiration is known.
	DecisionMissing
)

// String returns the decision name used in logs and audit metadata.
func (d ExpiryDecision) String() string {
	switch d {
	case DecisionValid:
		return "valid"
	case DecisionExpiring:
		return "expiring"
	case DecisionMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Decide applies the margin policy to one optional expiration.
//
// Remaining time equal to margin is not expiring: the comparison is strict.
func Decide(exp time.Time, ok bool, now time.Time, margin time.Duration) (ExpiryDecision, time.Duration) {
	if !ok {
		return DecisionMissing, 0
	}
	remaining := exp.Sub(now)
	if remaining < margin {
		return DecisionExpiring, remaining
	}
	return DecisionValid, remaining
}

// AccessDeps captures access-token check dependencies.
type AccessDeps struct {
	Expiration ExpirationReader
	Now        func() time.Time
	Margin     time.Duration
}

// AccessResult reports the access-token predicate and how it was reached.
type AccessResult struct {
	Expiring  bool
	Decision  ExpiryDecision
	Remaining time.Duration
	Err       error
}

// RunAccessCheck evaluates the access token. An absent expiration is not
// expiring.
func RunAccessCheck(ctx context.Context, deps AccessDeps) AccessResult {
	exp, ok, err := deps.Expiration(ctx)
	if err != nil {
		return AccessResult{Err: err}
	}

	decision, remaining := Decide(exp, ok, deps.Now(), deps.Margin)
	return AccessResult{
		Expiring:  decision == DecisionExpiring,
		Decision:  decision,
		Remaining: remaining,
	}
}

// RefreshDeps captures refresh-token enforcement dependencies.
type RefreshDeps struct {
	Expiration ExpirationReader
	Now        func() time.Time
	Margin     time.Duration
	Terminate  func(ctx context.Context, decision ExpiryDecision) error
}

// RefreshResult reports whether enforcement terminated the session.
type RefreshResult struct {
	Terminated bool
	Decision   ExpiryDecision
	Remaining  time.Duration
	Err        error
}

// RunRefreshCheck evaluates the refresh token and terminates the session when
// the expiration is absent or inside the margin. Token source errors are
// returned without terminating.
func RunRefreshCheck(ctx context.Context, deps RefreshDeps) RefreshResult {
	exp, ok, err := deps.Expiration(ctx)
	if err != nil {
		return RefreshResult{Err: err}
	}

	decision, remaining := Decide(exp, ok, deps.Now(), deps.Margin)
	if decision == DecisionValid {
		return RefreshResult{Decision: decision, Remaining: remaining}
	}

	return RefreshResult{
		Terminated: true,
		Decision:   decision,
		Remaining:  remaining,
		Err:        deps.Terminate(ctx, decision),
	}
}
