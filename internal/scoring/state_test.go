package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to AssessmentState
		want     bool
	}{
		{StateNotStarted, StateRunning, true},
		{StateRunning, StateEndedByAlgorithm, true},
		{StateRunning, StateEndedByScript, true},
		{StateRunning, StateEndedByAbort, true},
		{StateEndedByAbort, StateScored, true},
		{StateNotStarted, StateScored, false},
		{StateRunning, StateScored, false},
		{StateScored, StateRunning, false},
		{StateEndedByAlgorithm, StateRunning, false},
		{StateScored, StateScored, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestTransition(t *testing.T) {
	st, err := Transition(StateNotStarted, StateRunning)
	require.NoError(t, err)
	assert.Equal(t, StateRunning, st)

	st, err = Transition(StateRunning, StateNotStarted)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateRunning, st)
}

func TestParseAssessmentState(t *testing.T) {
	for _, s := range []string{"not-started", "running", "ended-by-algorithm", "ended-by-script", "ended-by-abort", "scored"} {
		st, err := ParseAssessmentState(s)
		require.NoError(t, err)
		assert.Equal(t, AssessmentState(s), st)
	}
	_, err := ParseAssessmentState("paused")
	assert.Error(t, err)
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StateEndedByScript.IsTerminal())
	assert.False(t, StateRunning.IsTerminal())
	assert.False(t, StateScored.IsTerminal())
}
