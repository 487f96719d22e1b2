package deploy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_CanTransition(t *testing.T) {
	tracker := NewTracker()

	tests := []struct {
		name  string
		from  StepStatus
		to    StepStatus
		valid bool
	}{
		{"pending starts building", StepPending, StepBuilding, true},
		{"pending can fail early", StepPending, StepFailed, true},
		{"building to submitted", StepBuilding, StepSubmitted, true},
		{"building cannot confirm directly", StepBuilding, StepConfirmed, false},
		{"submitted to confirming", StepSubmitted, StepConfirming, true},
		{"confirming to confirmed", StepConfirming, StepConfirmed, true},
		{"confirming to reverted", StepConfirming, StepReverted, true},
		{"confirming to timed out", StepConfirming, StepTimedOut, true},
		{"confirmed is terminal", StepConfirmed, StepBuilding, false},
		{"reverted is terminal", StepReverted, StepConfirming, false},
		{"failed is terminal", StepFailed, StepPending, false},
		{"no skipping submission", StepPending, StepConfirming, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tracker.CanTransition(tt.from, tt.to))
		})
	}
}

func TestTracker_Transition(t *testing.T) {
	tracker := NewTracker()

	t.Run("records history", func(t *testing.T) {
		state := NewStepState("wrapper")
		require.NoError(t, tracker.Transition(state, StepBuilding, ""))
		require.NoError(t, tracker.Transition(state, StepSubmitted, ""))
		require.NoError(t, tracker.Transition(state, StepConfirming, ""))
		require.NoError(t, tracker.Transition(state, StepConfirmed, ""))

		assert.Equal(t, StepConfirmed, state.Status)
		require.Len(t, state.History, 4)
		assert.Equal(t, StepPending, state.History[0].From)
		assert.Equal(t, StepConfirmed, state.History[3].To)
		assert.False(t, state.History[0].Timestamp.IsZero())
	})

	t.Run("rejects invalid transitions", func(t *testing.T) {
		state := NewStepState("wrapper")
		err := tracker.Transition(state, StepConfirmed, "")
		require.Error(t, err)

		var invalid *InvalidTransitionError
		require.ErrorAs(t, err, &invalid)
		assert.Equal(t, StepPending, invalid.From)
		assert.Equal(t, StepConfirmed, invalid.To)

		// The state must be untouched on rejection.
		assert.Equal(t, StepPending, state.Status)
		assert.Empty(t, state.History)
	})

	t.Run("nil state is rejected", func(t *testing.T) {
		assert.Error(t, tracker.Transition(nil, StepBuilding, ""))
	})

	t.Run("failure reason is recorded", func(t *testing.T) {
		state := NewStepState("router")
		require.NoError(t, tracker.Transition(state, StepBuilding, ""))
		require.NoError(t, tracker.Transition(state, StepFailed, "connection refused"))
		assert.Equal(t, "connection refused", state.History[1].Reason)
	})
}

func TestStepStatus_IsTerminal(t *testing.T) {
	terminal := []StepStatus{StepConfirmed, StepReverted, StepTimedOut, StepFailed}
	for _, status := range terminal {
		assert.True(t, status.IsTerminal(), status)
	}

	live := []StepStatus{StepPending, StepBuilding, StepSubmitted, StepConfirming}
	for _, status := range live {
		assert.False(t, status.IsTerminal(), status)
	}
}
