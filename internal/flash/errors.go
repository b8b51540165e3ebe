package flash

import (
	"errors"
	"fmt"
)

// ErrAssessmentEnded is matched by every *AssessmentEndedError. It is the
// normal end of an adaptive run, not a failure.
var ErrAssessmentEnded = errors.New("assessment ended")

// EndReason tells why the algorithm stopped offering challenges.
type EndReason string

const (
	ReasonNoCandidate   EndReason = "no-candidate"
	ReasonMaximumLength EndReason = "maximum-length"
)

// AssessmentEndedError is returned by NextCandidates when no further
// challenge may be served.
type AssessmentEndedError struct {
	Reason  EndReason
	Answers int
}

func (e *AssessmentEndedError) Error() string {
	return fmt.Sprintf("assessment ended after %d answers: %s", e.Answers, e.Reason)
}

func (e *AssessmentEndedError) Is(target error) bool { return target == ErrAssessmentEnded }
