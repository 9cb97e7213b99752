package flows

import (
	"context"
	"time"
)

// ExpirationReader reads one optional expiration instant.
type ExpirationReader func(ctx context.Context) (time.Time, bool, error)

// Step is one termination step.
type Step func(ctx context.Context) error

// Deps groups flow dependency sets. The monitor builds this once and
// delegates each check to the matching flow.
type Deps struct {
	Access    AccessDeps
	Refresh   RefreshDeps
	Terminate TerminateDeps
}
