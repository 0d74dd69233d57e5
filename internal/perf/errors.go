package perf

import (
	"errors"
	"fmt"
)

var (
	// ErrAborted is returned when the operator declines the go-ahead prompt.
	ErrAborted = errors.New("comparison aborted by user")
	// ErrSessionUsed is returned when Run is called on an orchestrator that already ran.
	ErrSessionUsed = errors.New("orchestrator session already used")
)

// EnvironmentSetupError reports a clone, install, build or runtime start failure.
type EnvironmentSetupError struct {
	Step string
	Err  error
}

func (e *EnvironmentSetupError) Error() string {
	return fmt.Sprintf("environment setup failed (%s): %v", e.Step, e.Err)
}

func (e *EnvironmentSetupError) Unwrap() error { return e.Err }

// BranchTransitionError reports a checkout or rebuild failure for a branch.
type BranchTransitionError struct {
	Branch string
	Step   string
	Err    error
}

func (e *BranchTransitionError) Error() string {
	return fmt.Sprintf("branch %s: %s failed: %v", e.Branch, e.Step, e.Err)
}

func (e *BranchTransitionError) Unwrap() error { return e.Err }

// SuiteExecutionError reports a test run or result file failure.
type SuiteExecutionError struct {
	Suite string
	Round int
	Err   error
}

func (e *SuiteExecutionError) Error() string {
	if e.Round > 0 {
		return fmt.Sprintf("suite %s round %d: %v", e.Suite, e.Round, e.Err)
	}

	return fmt.Sprintf("suite %s: %v", e.Suite, e.Err)
}

func (e *SuiteExecutionError) Unwrap() error { return e.Err }

// ConfigError reports a missing or malformed configuration file, or an
// invalid value destined for one.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// InvalidInputError reports input that violates a precondition.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
