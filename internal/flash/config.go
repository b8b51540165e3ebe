package flash

import (
	"errors"
	"fmt"
)

// SuccessRateRange requires candidates picked at answer indices Start..End
// (inclusive) to have an estimated success probability of at least Rate.
type SuccessRateRange struct {
	Start int     `yaml:"start" validate:"gte=0"`
	End   int     `yaml:"end" validate:"gtefield=Start"`
	Rate  float64 `yaml:"rate" validate:"gte=0,lte=1"`
}

// SampleGrid is the capacity grid the posterior is evaluated on.
type SampleGrid struct {
	Min   float64 `yaml:"min"`
	Max   float64 `yaml:"max" validate:"gtfield=Min"`
	Count int     `yaml:"count" validate:"gte=2"`
}

// Config holds the tunables of one flash assessment run.
type Config struct {
	// WarmUpLength is the number of initial answers during which capacity
	// moves and candidate difficulties are bounded by VariationPercent.
	WarmUpLength     int     `yaml:"warm_up_length" validate:"gte=0"`
	VariationPercent float64 `yaml:"variation_percent" validate:"gt=0,lte=1"`
	// MaximumAssessmentLength ends the run after that many answers; 0 means unbounded.
	MaximumAssessmentLength int `yaml:"maximum_assessment_length" validate:"gte=0"`
	MaxCandidates           int `yaml:"max_candidates" validate:"gte=1"`

	LimitToOneQuestionPerTube       bool `yaml:"limit_to_one_question_per_tube"`
	EnablePassageByAllCompetences   bool `yaml:"enable_passage_by_all_competences"`
	ChallengesBetweenSameCompetence int  `yaml:"challenges_between_same_competence" validate:"gte=0"`

	MinimumEstimatedSuccessRateRanges []SuccessRateRange `yaml:"minimum_estimated_success_rate_ranges" validate:"dive"`

	DefaultCapacity  float64    `yaml:"default_capacity"`
	DefaultErrorRate float64    `yaml:"default_error_rate" validate:"gte=0"`
	Grid             SampleGrid `yaml:"grid"`
	PriorVariance    float64    `yaml:"prior_variance" validate:"gt=0"`
}

// DefaultConfig returns the configuration used for certification runs.
func DefaultConfig() Config {
	return Config{
		WarmUpLength:     0,
		VariationPercent: 0.5,
		MaxCandidates:    5,
		DefaultCapacity:  0,
		DefaultErrorRate: 5,
		Grid:             SampleGrid{Min: -9, Max: 9, Count: 81},
		PriorVariance:    1.5,
	}
}

// Validate reports every value the algorithm cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.WarmUpLength < 0 {
		errs = append(errs, fmt.Errorf("warm-up length must be >= 0, got %d", c.WarmUpLength))
	}
	if c.VariationPercent <= 0 || c.VariationPercent > 1 {
		errs = append(errs, fmt.Errorf("variation percent must be in (0,1], got %g", c.VariationPercent))
	}
	if c.MaximumAssessmentLength < 0 {
		errs = append(errs, fmt.Errorf("maximum assessment length must be >= 0, got %d", c.MaximumAssessmentLength))
	}
	if c.MaxCandidates < 1 {
		errs = append(errs, fmt.Errorf("max candidates must be >= 1, got %d", c.MaxCandidates))
	}
	if c.ChallengesBetweenSameCompetence < 0 {
		errs = append(errs, fmt.Errorf("challenges between same competence must be >= 0, got %d", c.ChallengesBetweenSameCompetence))
	}
	if c.DefaultErrorRate < 0 {
		errs = append(errs, fmt.Errorf("default error rate must be >= 0, got %g", c.DefaultErrorRate))
	}
	if c.Grid.Count < 2 || c.Grid.Max <= c.Grid.Min {
		errs = append(errs, fmt.Errorf("invalid sample grid [%g, %g] x %d", c.Grid.Min, c.Grid.Max, c.Grid.Count))
	}
	if c.PriorVariance <= 0 {
		errs = append(errs, fmt.Errorf("prior variance must be > 0, got %g", c.PriorVariance))
	}
	for i, r := range c.MinimumEstimatedSuccessRateRanges {
		if r.Start < 0 || r.End < r.Start || r.Rate < 0 || r.Rate > 1 {
			errs = append(errs, fmt.Errorf("success rate range %d: invalid {start %d, end %d, rate %g}", i, r.Start, r.End, r.Rate))
		}
	}
	return errors.Join(errs...)
}

// minimumSuccessRate returns the rate required at answer index n, if any.
func (c Config) minimumSuccessRate(n int) (float64, bool) {
	for _, r := range c.MinimumEstimatedSuccessRateRanges {
		if n >= r.Start && n <= r.End {
			return r.Rate, true
		}
	}
	return 0, false
}

func (c Config) inWarmUp(n int) bool { return n < c.WarmUpLength }
