// Package simulator replays flash assessments step by step. Every step
// returns a new State, so a run can be resumed from any prefix.
package simulator

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/flash"
)

// EndReason tells how a simulated run stopped.
type EndReason string

const (
	EndedByAlgorithm EndReason = "ended-by-algorithm"
	EndedByScript    EndReason = "ended-by-script"
)

// TraceStep records one served challenge. Estimate is the estimate after
// the answer was taken into account.
type TraceStep struct {
	Index     int
	Challenge catalog.Challenge
	Result    catalog.AnswerResult
	Reward    float64
	Estimate  flash.Estimate
}

// State is the immutable state of a run between two steps.
type State struct {
	Answers   []catalog.Answer
	Trace     []TraceStep
	Estimate  flash.Estimate
	Done      bool
	EndReason EndReason
}

// Result is the outcome of a finished run.
type Result struct {
	Trace     []TraceStep
	Answers   []catalog.Answer
	Estimate  flash.Estimate
	EndReason EndReason
}

// Simulator drives a flash algorithm over a catalog.
type Simulator struct {
	algo          *flash.Algorithm
	cat           *catalog.Catalog
	pickChallenge ChallengePicker
	pickAnswer    AnswerPicker
}

// New builds a simulator. All collaborators are required.
func New(algo *flash.Algorithm, cat *catalog.Catalog, pickChallenge ChallengePicker, pickAnswer AnswerPicker) (*Simulator, error) {
	switch {
	case algo == nil:
		return nil, errors.New("simulator: nil algorithm")
	case cat == nil:
		return nil, errors.New("simulator: nil catalog")
	case pickChallenge == nil:
		return nil, errors.New("simulator: nil challenge picker")
	case pickAnswer == nil:
		return nil, errors.New("simulator: nil answer picker")
	}
	return &Simulator{algo: algo, cat: cat, pickChallenge: pickChallenge, pickAnswer: pickAnswer}, nil
}

// Start returns the state before the first answer.
func (s *Simulator) Start() State {
	return State{Estimate: s.algo.Estimate(nil, s.cat)}
}

// Resume rebuilds the state reached after answers, as if they had been
// produced by earlier steps. The trace is not reconstructed.
func (s *Simulator) Resume(answers []catalog.Answer) State {
	return State{Answers: slices.Clone(answers), Estimate: s.algo.Estimate(answers, s.cat)}
}

// Step advances st by one answer. A finished state is returned unchanged.
// The input state is never modified.
func (s *Simulator) Step(st State) (State, error) {
	if st.Done {
		return st, nil
	}
	step := len(st.Answers)

	var cont flash.Continue
	switch out := s.algo.Next(st.Answers, s.cat).(type) {
	case flash.Ended:
		return finish(st, out.Estimate, EndedByAlgorithm), nil
	case flash.Continue:
		cont = out
	}

	if s.pickAnswer.Done(step) {
		return finish(st, cont.Estimate, EndedByScript), nil
	}

	ch, err := s.pickChallenge(cont.Candidates)
	if err != nil {
		return st, fmt.Errorf("step %d: pick challenge: %w", step, err)
	}
	idx := slices.IndexFunc(cont.Candidates, func(c flash.Candidate) bool { return c.Challenge.ID() == ch.ID() })
	if idx < 0 {
		return st, fmt.Errorf("step %d: picked challenge %q is not a candidate", step, ch.ID())
	}

	result := s.pickAnswer.Answer(step, ch)
	answers := append(slices.Clone(st.Answers), catalog.Answer{ChallengeID: ch.ID(), Result: result, Position: step})
	est := s.algo.Estimate(answers, s.cat)

	trace := append(slices.Clone(st.Trace), TraceStep{
		Index:     step,
		Challenge: ch,
		Result:    result,
		Reward:    cont.Candidates[idx].Reward,
		Estimate:  est,
	})
	return State{Answers: answers, Trace: trace, Estimate: est}, nil
}

func finish(st State, est flash.Estimate, reason EndReason) State {
	return State{
		Answers:   st.Answers,
		Trace:     st.Trace,
		Estimate:  est,
		Done:      true,
		EndReason: reason,
	}
}

// Run folds Step from Start until the run ends.
func (s *Simulator) Run() (Result, error) {
	return s.RunFrom(s.Start())
}

// RunFrom folds Step from st until the run ends.
func (s *Simulator) RunFrom(st State) (Result, error) {
	var err error
	for !st.Done {
		if st, err = s.Step(st); err != nil {
			return Result{}, err
		}
	}
	return Result{Trace: st.Trace, Answers: st.Answers, Estimate: st.Estimate, EndReason: st.EndReason}, nil
}
