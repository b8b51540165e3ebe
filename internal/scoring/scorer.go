// Package scoring turns a final capacity estimate into a bounded
// certification score, a validation status and per-competence marks.
package scoring

import (
	"errors"
	"fmt"
	"math"

	"github.com/abhisek/adaptest/internal/catalog"
)

// Status is the certification outcome.
type Status string

const (
	StatusValidated Status = "validated"
	StatusRejected  Status = "rejected"
)

// AbortReason tells why an assessment was interrupted.
type AbortReason string

const (
	AbortNone      AbortReason = ""
	AbortCandidate AbortReason = "candidate"
	AbortTechnical AbortReason = "technical"
)

// ParseAbortReason accepts "", "candidate" and "technical".
func ParseAbortReason(s string) (AbortReason, error) {
	switch r := AbortReason(s); r {
	case AbortNone, AbortCandidate, AbortTechnical:
		return r, nil
	default:
		return "", fmt.Errorf("unknown abort reason %q", s)
	}
}

// DefaultBounds is the capacity split of the default interval table.
var DefaultBounds = []Bounds{
	{Min: math.Inf(-1), Max: -2},
	{Min: -2, Max: -1},
	{Min: -1, Max: -0.5},
	{Min: -0.5, Max: 0},
	{Min: 0, Max: 0.5},
	{Min: 0.5, Max: 1},
	{Min: 1, Max: 2},
	{Min: 2, Max: math.Inf(1)},
}

// Config holds the scorer configuration. When Intervals is empty the table
// is built from Bounds with EvenIntervals.
type Config struct {
	Intervals                        []Interval   `yaml:"intervals"`
	Bounds                           []Bounds     `yaml:"bounds"`
	MinimumAnswersRequiredToValidate int          `yaml:"minimum_answers_required_to_validate" validate:"gte=0"`
	MaxReachableScore                int          `yaml:"max_reachable_score" validate:"gte=0"`
	Competences                      []Competence `yaml:"competences" validate:"dive"`
}

// DefaultConfig returns the default scoring configuration.
func DefaultConfig() Config {
	return Config{
		Bounds:                           DefaultBounds,
		MinimumAnswersRequiredToValidate: 20,
		MaxReachableScore:                MaxReachableScore,
	}
}

// Table builds and validates the interval table of the configuration.
func (c Config) Table() (IntervalTable, error) {
	intervals := c.Intervals
	if len(intervals) == 0 {
		intervals = EvenIntervals(c.Bounds, float64(c.MaxReachableScore))
	}
	return NewIntervalTable(intervals)
}

// Input is the data scored for one assessment.
type Input struct {
	Capacity    float64
	Answers     []catalog.Answer
	AbortReason AbortReason
}

// Result is the scoring outcome. CompetenceMarks has one entry per
// configured competence, in configuration order.
type Result struct {
	Status          Status
	Score           int
	Capacity        float64
	CompetenceMarks []CompetenceMark
}

// Scorer scores final capacities with a validated configuration.
type Scorer struct {
	cfg   Config
	table IntervalTable
}

// NewScorer validates cfg. Any malformed interval table or competence list
// is reported as a *ConfigurationError.
func NewScorer(cfg Config) (*Scorer, error) {
	var errs []error
	if cfg.MinimumAnswersRequiredToValidate < 0 {
		errs = append(errs, &ConfigurationError{Subject: "scoring", Problems: []string{"minimum answers must be >= 0"}})
	}
	if cfg.MaxReachableScore < 0 {
		errs = append(errs, &ConfigurationError{Subject: "scoring", Problems: []string{"max reachable score must be >= 0"}})
	}
	table, err := cfg.Table()
	if err != nil {
		errs = append(errs, err)
	}
	if err := validateCompetences(cfg.Competences); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &Scorer{cfg: cfg, table: table}, nil
}

// Table returns the interval table in use.
func (s *Scorer) Table() IntervalTable { return s.table }

// Score computes the status, score and competence marks of in.
func (s *Scorer) Score(in Input) Result {
	res := Score(in.Capacity, in.Answers, in.AbortReason, s.table, s.cfg.MinimumAnswersRequiredToValidate)
	res.Score = s.table.Score(in.Capacity, s.cfg.MaxReachableScore)
	res.CompetenceMarks = make([]CompetenceMark, 0, len(s.cfg.Competences))
	for _, c := range s.cfg.Competences {
		res.CompetenceMarks = append(res.CompetenceMarks, c.Mark(in.Capacity))
	}
	return res
}

// ScoreFinished scores an assessment in state. Only ended or already scored
// assessments can be scored.
func (s *Scorer) ScoreFinished(state AssessmentState, in Input) (Result, error) {
	if !state.IsTerminal() && state != StateScored {
		return Result{}, fmt.Errorf("%w: cannot score an assessment in state %s", ErrInvalidTransition, state)
	}
	return s.Score(in), nil
}

// Score scores capacity against table without competence marks.
func Score(capacity float64, answers []catalog.Answer, abortReason AbortReason, table IntervalTable, minAnswers int) Result {
	return Result{
		Status:   StatusFor(len(answers), abortReason, minAnswers),
		Score:    table.Score(capacity, MaxReachableScore),
		Capacity: capacity,
	}
}

// StatusFor rejects an assessment only when it was aborted before reaching
// minAnswers answers.
func StatusFor(answerCount int, abortReason AbortReason, minAnswers int) Status {
	if answerCount < minAnswers && abortReason != AbortNone {
		return StatusRejected
	}
	return StatusValidated
}
