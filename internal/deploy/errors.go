package deploy

import (
	"errors"
	"fmt"
)

// PreflightError is returned when the deployer account fails the pre-flight
// check. No transaction has been built or submitted when it is raised.
type PreflightError struct {
	Reason string
}

func (e *PreflightError) Error() string {
	return fmt.Sprintf("preflight check failed: %s", e.Reason)
}

// IsPreflight returns true if the error is a PreflightError.
func IsPreflight(err error) bool {
	var pe *PreflightError
	return errors.As(err, &pe)
}

// StepError wraps the failure of a named step. The wrapped error keeps its
// type so callers can distinguish reverts, timeouts and transport failures.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// InvalidTransitionError is returned for a step status transition the state
// machine does not allow.
type InvalidTransitionError struct {
	From StepStatus
	To   StepStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid step transition from %q to %q", e.From, e.To)
}
