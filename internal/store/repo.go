package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/adaptest/internal/catalog"
	"github.com/abhisek/adaptest/internal/scoring"
)

// ErrNotFound is returned when a requested assessment does not exist.
var ErrNotFound = errors.New("not found")

// ErrNotRunning is returned when answers are appended to an assessment that
// is not running.
var ErrNotRunning = errors.New("assessment is not running")

// Assessment is one stored assessment of a candidate.
type Assessment struct {
	ID          string
	CandidateID string
	State       scoring.AssessmentState
	AbortReason scoring.AbortReason
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Result is one scoring of an assessment. Sequence orders it against the
// answers it covers.
type Result struct {
	ID              int64
	AssessmentID    string
	Sequence        int64
	Capacity        float64
	ErrorRate       float64
	Score           int
	Status          scoring.Status
	CompetenceMarks []scoring.CompetenceMark
	CreatedAt       time.Time
}

// ResultSummary aggregates the latest result of every scored assessment.
type ResultSummary struct {
	Total        int
	ByStatus     map[scoring.Status]int
	AverageScore float64
}

// AssessmentRepo manages assessments and their answers.
type AssessmentRepo interface {
	// Create stores a new not-started assessment for candidateID.
	Create(ctx context.Context, candidateID string) (*Assessment, error)

	// Get returns an assessment by ID, or ErrNotFound.
	Get(ctx context.Context, id string) (*Assessment, error)

	// SetState moves an assessment to state. Only lifecycle transitions are allowed.
	SetState(ctx context.Context, id string, state scoring.AssessmentState) error

	// Abort ends a running assessment with reason.
	Abort(ctx context.Context, id string, reason scoring.AbortReason) error

	// AppendAnswer records the next answer of a running assessment.
	AppendAnswer(ctx context.Context, id, challengeID string, result catalog.AnswerResult) (catalog.Answer, error)

	// Answers returns the answers of an assessment in answer order.
	Answers(ctx context.Context, id string) ([]catalog.Answer, error)

	// ListByState returns the assessments in any of states, oldest first.
	// With no state every assessment is returned.
	ListByState(ctx context.Context, states ...scoring.AssessmentState) ([]Assessment, error)
}

// ResultRepo manages scoring results.
type ResultRepo interface {
	// Save stores a new result and fills its ID, Sequence and CreatedAt.
	Save(ctx context.Context, res *Result) error

	// Latest returns the most recent result of an assessment, or nil if none exist.
	Latest(ctx context.Context, assessmentID string) (*Result, error)

	// Summary aggregates the latest result of every assessment.
	Summary(ctx context.Context) (ResultSummary, error)
}
