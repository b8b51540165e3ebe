package flash

import (
	"errors"

	"github.com/abhisek/adaptest/internal/catalog"
)

// Outcome is the result of one algorithm step: either Continue or Ended.
type Outcome interface {
	outcome()
}

// Continue carries the ranked candidates for the next challenge.
type Continue struct {
	Candidates []Candidate
	Estimate   Estimate
}

// Ended carries the final estimate of a finished run.
type Ended struct {
	Estimate Estimate
	Reason   EndReason
}

func (Continue) outcome() {}
func (Ended) outcome()    {}

// Next estimates the capacity from answers and returns the next step.
func (a *Algorithm) Next(answers []catalog.Answer, cat *catalog.Catalog) Outcome {
	est := a.Estimate(answers, cat)
	cands, err := a.NextCandidates(answers, cat, est.Capacity)
	var ended *AssessmentEndedError
	if errors.As(err, &ended) {
		return Ended{Estimate: est, Reason: ended.Reason}
	}
	return Continue{Candidates: cands, Estimate: est}
}
