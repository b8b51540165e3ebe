package scoring

import "fmt"

// AssessmentState is the lifecycle state of an assessment.
type AssessmentState string

const (
	StateNotStarted       AssessmentState = "not-started"
	StateRunning          AssessmentState = "running"
	StateEndedByAlgorithm AssessmentState = "ended-by-algorithm"
	StateEndedByScript    AssessmentState = "ended-by-script"
	StateEndedByAbort     AssessmentState = "ended-by-abort"
	StateScored           AssessmentState = "scored"
)

var transitions = map[AssessmentState][]AssessmentState{
	StateNotStarted:       {StateRunning},
	StateRunning:          {StateEndedByAlgorithm, StateEndedByScript, StateEndedByAbort},
	StateEndedByAlgorithm: {StateScored},
	StateEndedByScript:    {StateScored},
	StateEndedByAbort:     {StateScored},
}

// ParseAssessmentState parses a stored state name.
func ParseAssessmentState(s string) (AssessmentState, error) {
	st := AssessmentState(s)
	if _, ok := transitions[st]; ok || st == StateScored {
		return st, nil
	}
	return "", fmt.Errorf("unknown assessment state %q", s)
}

// IsTerminal reports whether the run has ended and awaits scoring.
func (s AssessmentState) IsTerminal() bool {
	return s == StateEndedByAlgorithm || s == StateEndedByScript || s == StateEndedByAbort
}

// CanTransition reports whether from may move to to. No transition is
// reversible.
func CanTransition(from, to AssessmentState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns to when the move is allowed, ErrInvalidTransition otherwise.
func Transition(from, to AssessmentState) (AssessmentState, error) {
	if !CanTransition(from, to) {
		return from, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return to, nil
}
