package simulator

import (
	"errors"
	"math"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/flash"
)

// ErrNoCandidate is returned by a ChallengePicker handed an empty list.
var ErrNoCandidate = errors.New("no candidate to pick from")

// ChallengePicker chooses one challenge among the ranked candidates.
type ChallengePicker func(cands []flash.Candidate) (catalog.Challenge, error)

// FirstCandidate always takes the best-ranked candidate.
func FirstCandidate(cands []flash.Candidate) (catalog.Challenge, error) {
	if len(cands) == 0 {
		return catalog.Challenge{}, ErrNoCandidate
	}
	return cands[0].Challenge, nil
}

// IntN is the randomness needed to pick among candidates.
type IntN interface {
	IntN(n int) int
}

// RandomCandidate picks uniformly among the candidates.
func RandomCandidate(rng IntN) ChallengePicker {
	return func(cands []flash.Candidate) (catalog.Challenge, error) {
		if len(cands) == 0 {
			return catalog.Challenge{}, ErrNoCandidate
		}
		return cands[rng.IntN(len(cands))].Challenge, nil
	}
}

// AnswerPicker supplies the test-taker's answers.
type AnswerPicker interface {
	// Done reports whether no answer is available for step.
	Done(step int) bool
	// Answer returns the result given to ch at step.
	Answer(step int, ch catalog.Challenge) catalog.AnswerResult
}

// ScriptedAnswers replays a fixed answer script.
type ScriptedAnswers []catalog.AnswerResult

func (s ScriptedAnswers) Done(step int) bool { return step >= len(s) }

func (s ScriptedAnswers) Answer(step int, _ catalog.Challenge) catalog.AnswerResult { return s[step] }

// CapacityAnswers answers like a test-taker of fixed capacity who succeeds
// whenever the success probability is at least one half. Limit caps the
// number of answers; 0 leaves the end to the algorithm.
type CapacityAnswers struct {
	Capacity float64
	Limit    int
}

func (c CapacityAnswers) Done(step int) bool { return c.Limit > 0 && step >= c.Limit }

func (c CapacityAnswers) Answer(_ int, ch catalog.Challenge) catalog.AnswerResult {
	if successProbability(c.Capacity, ch) >= 0.5 {
		return catalog.ResultCorrect
	}
	return catalog.ResultIncorrect
}

// Float64 is the randomness needed to draw probabilistic answers.
type Float64 interface {
	Float64() float64
}

// ProbabilisticAnswers succeeds with the model probability at Capacity.
type ProbabilisticAnswers struct {
	Capacity float64
	Limit    int
	Rand     Float64
}

func (p ProbabilisticAnswers) Done(step int) bool { return p.Limit > 0 && step >= p.Limit }

func (p ProbabilisticAnswers) Answer(_ int, ch catalog.Challenge) catalog.AnswerResult {
	if p.Rand.Float64() < successProbability(p.Capacity, ch) {
		return catalog.ResultCorrect
	}
	return catalog.ResultIncorrect
}

// successProbability is the 2PL success chance; uncalibrated challenges
// are a coin flip.
func successProbability(capacity float64, ch catalog.Challenge) float64 {
	disc, ok := ch.Discriminant()
	if !ok {
		return 0.5
	}
	return 1 / (1 + math.Exp(-disc*(capacity-ch.Difficulty())))
}
