package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var (
	negInf = math.Inf(-1)
	posInf = math.Inf(1)
)

func threeBandTable(t *testing.T) IntervalTable {
	t.Helper()
	table, err := NewIntervalTable([]Interval{
		{Min: negInf, Max: -1, ScoreMin: 0, ScoreMax: 100},
		{Min: -1, Max: 1, ScoreMin: 100, ScoreMax: 500},
		{Min: 1, Max: posInf, ScoreMin: 500, ScoreMax: 1023},
	})
	require.NoError(t, err)
	return table
}

func boundedTable(t *testing.T) IntervalTable {
	t.Helper()
	table, err := NewIntervalTable([]Interval{
		{Min: -3, Max: 0, ScoreMin: 0, ScoreMax: 400},
		{Min: 0, Max: 3, ScoreMin: 400, ScoreMax: 895},
	})
	require.NoError(t, err)
	return table
}

func TestIntervalTable_Score(t *testing.T) {
	three := threeBandTable(t)
	bounded := boundedTable(t)

	tests := []struct {
		name     string
		table    IntervalTable
		capacity float64
		want     int
	}{
		{"boundary lands in the higher interval", three, -1, 100},
		{"just below a boundary", three, -1.000001, 99},
		{"linear inside a finite interval", three, 0, 300},
		{"upper boundary", three, 1, 500},
		{"far below the table", three, -50, 0},
		{"clamped to the max reachable score", three, 40, MaxReachableScore},
		{"at the floor", bounded, -3, 0},
		{"below the floor", bounded, -3.5, 0},
		{"middle of first interval", bounded, -1.5, 200},
		{"at the ceiling", bounded, 3, MaxReachableScore},
		{"above the ceiling", bounded, 12, MaxReachableScore},
		{"NaN capacity", bounded, math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.table.Score(tt.capacity, MaxReachableScore))
		})
	}
}

func TestIntervalTable_HalfInfiniteInterpolation(t *testing.T) {
	three := threeBandTable(t)
	// exp(c - max) below the first boundary.
	assert.Equal(t, int(math.Floor(100*math.Exp(-1))), three.Score(-2, MaxReachableScore))
	// 1 - exp(min - c) above the last boundary.
	assert.Equal(t, int(math.Floor(500+523*(1-math.Exp(-0.5)))), three.Score(1.5, 1023))
}

func TestIntervalTable_Monotonic(t *testing.T) {
	tables := map[string]IntervalTable{
		"three bands": threeBandTable(t),
		"bounded":     boundedTable(t),
		"default":     MustIntervalTable(EvenIntervals(DefaultBounds, MaxReachableScore)),
	}
	for name, table := range tables {
		t.Run(name, func(t *testing.T) {
			prev := table.Score(-10, MaxReachableScore)
			for c := -10.0; c <= 10; c += 0.01 {
				got := table.Score(c, MaxReachableScore)
				require.GreaterOrEqual(t, got, prev, "capacity %g", c)
				require.GreaterOrEqual(t, got, 0)
				require.LessOrEqual(t, got, MaxReachableScore)
				prev = got
			}
		})
	}
}

func TestNewIntervalTable_Rejects(t *testing.T) {
	tests := []struct {
		name      string
		intervals []Interval
	}{
		{"empty", nil},
		{"min not below max", []Interval{{Min: 1, Max: 1, ScoreMin: 0, ScoreMax: 10}}},
		{"gap", []Interval{
			{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: 10},
			{Min: 1.5, Max: 2, ScoreMin: 10, ScoreMax: 20},
		}},
		{"overlap", []Interval{
			{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: 10},
			{Min: 0.5, Max: 2, ScoreMin: 10, ScoreMax: 20},
		}},
		{"infinite inner bound", []Interval{
			{Min: 0, Max: posInf, ScoreMin: 0, ScoreMax: 10},
			{Min: 1, Max: 2, ScoreMin: 10, ScoreMax: 20},
		}},
		{"infinite min after first", []Interval{
			{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: 10},
			{Min: negInf, Max: 2, ScoreMin: 10, ScoreMax: 20},
		}},
		{"score ranges not contiguous", []Interval{
			{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: 10},
			{Min: 1, Max: 2, ScoreMin: 12, ScoreMax: 20},
		}},
		{"decreasing score range", []Interval{{Min: 0, Max: 1, ScoreMin: 0, ScoreMax: -5}}},
		{"first score not zero", []Interval{{Min: 0, Max: 1, ScoreMin: 5, ScoreMax: 10}}},
		{"NaN bound", []Interval{{Min: math.NaN(), Max: 1, ScoreMin: 0, ScoreMax: 10}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewIntervalTable(tt.intervals)
			require.ErrorIs(t, err, ErrConfiguration)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.NotEmpty(t, cfgErr.Problems)
		})
	}
}

func TestEvenIntervals(t *testing.T) {
	intervals := EvenIntervals(DefaultBounds, MaxReachableScore)
	require.Len(t, intervals, len(DefaultBounds))
	assert.Equal(t, 0.0, intervals[0].ScoreMin)
	assert.Equal(t, float64(MaxReachableScore), intervals[len(intervals)-1].ScoreMax)
	for i := 1; i < len(intervals); i++ {
		assert.Equal(t, intervals[i-1].ScoreMax, intervals[i].ScoreMin)
	}
	_, err := NewIntervalTable(intervals)
	assert.NoError(t, err)

	assert.Nil(t, EvenIntervals(nil, 100))
}

func TestMaxReachableScore(t *testing.T) {
	assert.Equal(t, 895, MaxReachableScore)
}

func TestBounds_MissingMaxMeansInfinity(t *testing.T) {
	var bounds []Bounds
	require.NoError(t, yaml.Unmarshal([]byte("[{min: -.inf, max: -1}, {min: -1, max: 1}, {min: 1}]"), &bounds))
	require.Len(t, bounds, 3)
	assert.True(t, math.IsInf(bounds[2].Max, 1))
	assert.Equal(t, 1.0, bounds[1].Max)

	table, err := NewIntervalTable(EvenIntervals(bounds, MaxReachableScore))
	require.NoError(t, err)
	assert.Equal(t, MaxReachableScore, table.Score(50, MaxReachableScore))
}

func TestBounds_MissingMaxOnlyOnLast(t *testing.T) {
	var bounds []Bounds
	require.NoError(t, yaml.Unmarshal([]byte("[{min: -.inf}, {min: -1, max: 1}, {min: 1}]"), &bounds))
	_, err := NewIntervalTable(EvenIntervals(bounds, MaxReachableScore))
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestBounds_RequiresMin(t *testing.T) {
	var bounds []Bounds
	assert.Error(t, yaml.Unmarshal([]byte("[{max: 1}]"), &bounds))
}
