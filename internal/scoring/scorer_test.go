package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptest/internal/catalog"
)

func answers(n int) []catalog.Answer {
	out := make([]catalog.Answer, n)
	for i := range out {
		out[i] = catalog.Answer{ChallengeID: "ch", Result: catalog.ResultCorrect, Position: i}
	}
	return out
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		reason  AbortReason
		minimum int
		want    Status
	}{
		{"aborted before the minimum", 2, AbortCandidate, 3, StatusRejected},
		{"aborted at the minimum", 2, AbortCandidate, 2, StatusValidated},
		{"short but not aborted", 2, AbortNone, 3, StatusValidated},
		{"technical abort before the minimum", 0, AbortTechnical, 1, StatusRejected},
		{"aborted after enough answers", 30, AbortTechnical, 20, StatusValidated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.count, tt.reason, tt.minimum))
		})
	}
}

func TestScore_ShortAbortedAssessment(t *testing.T) {
	table := MustIntervalTable([]Interval{
		{Min: negInf, Max: -1, ScoreMin: 0, ScoreMax: 100},
		{Min: -1, Max: 1, ScoreMin: 100, ScoreMax: 500},
		{Min: 1, Max: posInf, ScoreMin: 500, ScoreMax: 1023},
	})

	rejected := Score(-1, answers(2), AbortCandidate, table, 3)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, 100, rejected.Score)

	validated := Score(-1, answers(2), AbortCandidate, table, 2)
	assert.Equal(t, StatusValidated, validated.Status)
}

func TestCompetence_Level(t *testing.T) {
	c := Competence{ID: "1.1", Thresholds: []float64{-1, 0, 1}}
	assert.Equal(t, 0, c.Level(-5))
	assert.Equal(t, 1, c.Level(-1))
	assert.Equal(t, 2, c.Level(0.5))
	assert.Equal(t, 3, c.Level(9))

	c.MaxLevel = 1
	assert.Equal(t, 1, c.Level(9))

	many := Competence{ID: "5.2", Thresholds: []float64{-4, -3, -2, -1, 0, 1, 2, 3, 4}}
	assert.Equal(t, MaxReachableLevel, many.Level(10))
	assert.Equal(t, CompetenceMark{CompetenceID: "5.2", Level: 7, Score: 56}, many.Mark(10))
}

func TestScorer_Score(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinimumAnswersRequiredToValidate = 3
	cfg.Competences = []Competence{
		{ID: "1.1", AreaCode: "1", Thresholds: []float64{-2, -1, 0, 1}},
		{ID: "1.2", AreaCode: "1", Thresholds: []float64{-1, 1}, MaxLevel: 1},
		{ID: "2.1", AreaCode: "2", Thresholds: []float64{5}},
	}
	s, err := NewScorer(cfg)
	require.NoError(t, err)

	res := s.Score(Input{Capacity: 0.2, Answers: answers(10)})
	assert.Equal(t, StatusValidated, res.Status)
	assert.Equal(t, 0.2, res.Capacity)
	assert.Equal(t, s.Table().Score(0.2, MaxReachableScore), res.Score)
	assert.Equal(t, []CompetenceMark{
		{CompetenceID: "1.1", AreaCode: "1", Level: 3, Score: 24},
		{CompetenceID: "1.2", AreaCode: "1", Level: 1, Score: 8},
		{CompetenceID: "2.1", AreaCode: "2", Level: 0, Score: 0},
	}, res.CompetenceMarks)

	rejected := s.Score(Input{Capacity: 0.2, Answers: answers(2), AbortReason: AbortTechnical})
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Len(t, rejected.CompetenceMarks, 3)
}

func TestScorer_ExplicitIntervalsWin(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxReachableScore = 400
	cfg.Intervals = []Interval{{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: 400}}
	s, err := NewScorer(cfg)
	require.NoError(t, err)
	assert.Equal(t, 200, s.Score(Input{Capacity: 0.5}).Score)
	assert.Equal(t, 400, s.Score(Input{Capacity: 3}).Score)
}

func TestNewScorer_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no interval", func(c *Config) { c.Bounds = nil }},
		{"gap in bounds", func(c *Config) { c.Bounds = []Bounds{{Min: negInf, Max: 0}, {Min: 1, Max: posInf}} }},
		{"thresholds not increasing", func(c *Config) {
			c.Competences = []Competence{{ID: "1.1", Thresholds: []float64{1, 0}}}
		}},
		{"duplicate competence", func(c *Config) { c.Competences = []Competence{{ID: "1.1"}, {ID: "1.1"}} }},
		{"max level above seven", func(c *Config) { c.Competences = []Competence{{ID: "1.1", MaxLevel: 8}} }},
		{"negative minimum", func(c *Config) { c.MinimumAnswersRequiredToValidate = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			_, err := NewScorer(cfg)
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestScoreFinished(t *testing.T) {
	s, err := NewScorer(DefaultConfig())
	require.NoError(t, err)

	_, err = s.ScoreFinished(StateRunning, Input{Capacity: 0})
	assert.ErrorIs(t, err, ErrInvalidTransition)

	for _, st := range []AssessmentState{StateEndedByAlgorithm, StateEndedByScript, StateEndedByAbort, StateScored} {
		res, err := s.ScoreFinished(st, Input{Capacity: math.Inf(1)})
		require.NoError(t, err, st)
		assert.Equal(t, MaxReachableScore, res.Score)
	}
}

func TestParseAbortReason(t *testing.T) {
	r, err := ParseAbortReason("technical")
	require.NoError(t, err)
	assert.Equal(t, AbortTechnical, r)

	r, err = ParseAbortReason("")
	require.NoError(t, err)
	assert.Equal(t, AbortNone, r)

	_, err = ParseAbortReason("bored")
	assert.Error(t, err)
}
