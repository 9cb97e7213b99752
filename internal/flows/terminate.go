package flows

import (
	"context"
	"errors"
	"fmt"
)

// TerminateDeps captures logout-and-redirect dependencies.
type TerminateDeps struct {
	ClearAuth       Step
	ClearRoles      Step
	Navigate        func(ctx context.Context, path string) error
	LoginPath       string
	ContinueOnError bool
	FailureErr      error
}

// TerminateStage names the termination step that failed.
type TerminateStage string

const (
	StageNone       TerminateStage = ""
	StageClearAuth  TerminateStage = "clear_auth"
	StageClearRoles TerminateStage = "clear_roles"
	StageNavigate   TerminateStage = "navigate"
)

// TerminateResult carries the first failing stage and the (possibly joined)
// error.
type TerminateResult struct {
	FailedStage TerminateStage
	Err         error
}

// RunTerminate clears auth data, clears role data and navigates to the login
// path, in that order. Without ContinueOnError the first failure stops the
// sequence.
func RunTerminate(ctx context.Context, deps TerminateDeps) TerminateResult {
	steps := []struct {
		stage TerminateStage
		run   Step
	}{
		{StageClearAuth, deps.ClearAuth},
		{StageClearRoles, deps.ClearRoles},
		{StageNavigate, func(ctx context.Context) error {
			return deps.Navigate(ctx, deps.LoginPath)
		}},
	}

	var (
		failed TerminateStage
		errs   []error
	)
	for _, step := range steps {
		err := step.run(ctx)
		if err == nil {
			continue
		}
		if failed == StageNone {
			failed = step.stage
		}
		errs = append(errs, fmt.Errorf("%s: %w", step.stage, err))
		if !deps.ContinueOnError {
			break
		}
	}

	if len(errs) == 0 {
		return TerminateResult{}
	}

	err := errors.Join(errs...)
	if deps.FailureErr != nil {
		err = fmt.Errorf("%w: %w", deps.FailureErr, err)
	}
	return TerminateResult{FailedStage: failed, Err: err}
}
