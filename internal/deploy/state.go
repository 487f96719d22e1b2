package deploy

import (
	"time"
)

// StepStatus is the lifecycle stage of a single deployment step.
type StepStatus string

const (
	// StepPending indicates the step has not started.
	StepPending StepStatus = "Pending"
	// StepBuilding indicates the transaction body is being assembled.
	StepBuilding StepStatus = "Building"
	// StepSubmitted indicates the signed transaction was accepted by the node.
	StepSubmitted StepStatus = "Submitted"
	// StepConfirming indicates the receipt poll is in progress.
	StepConfirming StepStatus = "Confirming"
	// StepConfirmed indicates the step executed successfully on-chain.
	StepConfirmed StepStatus = "Confirmed"
	// StepReverted indicates the transaction was mined but execution failed.
	StepReverted StepStatus = "Reverted"
	// StepTimedOut indicates no receipt appeared within the wait window.
	StepTimedOut StepStatus = "TimedOut"
	// StepFailed indicates a transport or encoding error before confirmation.
	StepFailed StepStatus = "Failed"
)

// String returns the string representation of the status.
func (s StepStatus) String() string {
	return string(s)
}

// IsTerminal returns true for statuses a step cannot leave.
func (s StepStatus) IsTerminal() bool {
	switch s {
	case StepConfirmed, StepReverted, StepTimedOut, StepFailed:
		return true
	}
	return false
}

// SequenceStatus is the lifecycle stage of a whole deployment run.
type SequenceStatus string

const (
	// SequenceRunning indicates steps are still executing.
	SequenceRunning SequenceStatus = "Running"
	// SequenceCompleted indicates every step confirmed.
	SequenceCompleted SequenceStatus = "Completed"
	// SequenceAborted indicates a step failure stopped the run.
	SequenceAborted SequenceStatus = "Aborted"
)

// StepTransition records one status change for audit purposes.
type StepTransition struct {
	From      StepStatus
	To        StepStatus
	Timestamp time.Time
	Reason    string
}

// StepState tracks the current status and transition history of one step.
type StepState struct {
	Name    string
	Status  StepStatus
	History []StepTransition
}

// NewStepState creates a StepState in the Pending status.
func NewStepState(name string) *StepState {
	return &StepState{Name: name, Status: StepPending}
}

// Tracker validates and records step status transitions.
type Tracker struct {
	valid map[StepStatus][]StepStatus
}

// NewTracker creates a Tracker with the deployment step state machine.
func NewTracker() *Tracker {
	return &Tracker{
		valid: map[StepStatus][]StepStatus{
			// A step starts building, or fails early on an encoding error.
			StepPending: {StepBuilding, StepFailed},

			// Building ends with a submitted transaction or a build/transport error.
			StepBuilding: {StepSubmitted, StepFailed},

			// Submission is immediately followed by the confirmation wait.
			StepSubmitted: {StepConfirming, StepFailed},

			// Confirmation resolves to exactly one terminal outcome.
			StepConfirming: {StepConfirmed, StepReverted, StepTimedOut, StepFailed},

			// Terminal statuses have no valid transitions.
			StepConfirmed: {},
			StepReverted:  {},
			StepTimedOut:  {},
			StepFailed:    {},
		},
	}
}

// CanTransition checks whether a transition is valid.
func (t *Tracker) CanTransition(from, to StepStatus) bool {
	for _, valid := range t.valid[from] {
		if valid == to {
			return true
		}
	}
	return false
}

// Transition moves the step to the target status, recording the change.
// Returns an InvalidTransitionError if the transition is not allowed.
func (t *Tracker) Transition(state *StepState, target StepStatus, reason string) error {
	if state == nil || !t.CanTransition(state.Status, target) {
		from := StepStatus("")
		if state != nil {
			from = state.Status
		}
		return &InvalidTransitionError{From: from, To: target}
	}

	state.History = append(state.History, StepTransition{
		From:      state.Status,
		To:        target,
		Timestamp: time.Now(),
		Reason:    reason,
	})
	state.Status = target
	return nil
}
