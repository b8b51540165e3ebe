package scoring

import (
	"errors"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

// Interval maps capacities in [Min, Max) to scores in [ScoreMin, ScoreMax].
// Only the first interval may start at -Inf and only the last may end at +Inf.
type Interval struct {
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	ScoreMin float64 `yaml:"score_min"`
	ScoreMax float64 `yaml:"score_max"`
}

// Bounds is an interval without its score range. In YAML the max may be
// omitted, meaning +Inf; only the last bound of a table may do so.
type Bounds struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// UnmarshalYAML decodes a bound, reading a missing max as +Inf.
func (b *Bounds) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Min *float64 `yaml:"min"`
		Max *float64 `yaml:"max"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Min == nil {
		return errors.New("bound without min")
	}
	b.Min = *raw.Min
	b.Max = math.Inf(1)
	if raw.Max != nil {
		b.Max = *raw.Max
	}
	return nil
}

// EvenIntervals gives every bound an equal share of [0, maxScore].
func EvenIntervals(bounds []Bounds, maxScore float64) []Interval {
	if len(bounds) == 0 {
		return nil
	}
	share := maxScore / float64(len(bounds))
	out := make([]Interval, len(bounds))
	for i, b := range bounds {
		out[i] = Interval{
			Min:      b.Min,
			Max:      b.Max,
			ScoreMin: float64(i) * share,
			ScoreMax: float64(i+1) * share,
		}
	}
	out[len(out)-1].ScoreMax = maxScore
	return out
}

// IntervalTable is a validated, contiguous and increasing list of intervals.
type IntervalTable struct {
	intervals []Interval
}

// NewIntervalTable validates intervals. A table with gaps, overlaps or
// decreasing scores is rejected with a *ConfigurationError.
func NewIntervalTable(intervals []Interval) (IntervalTable, error) {
	if err := validateIntervals(intervals); err != nil {
		return IntervalTable{}, err
	}
	return IntervalTable{intervals: append([]Interval(nil), intervals...)}, nil
}

// MustIntervalTable is NewIntervalTable for static tables; it panics on error.
func MustIntervalTable(intervals []Interval) IntervalTable {
	t, err := NewIntervalTable(intervals)
	if err != nil {
		panic(err)
	}
	return t
}

// Intervals returns a copy of the table rows.
func (t IntervalTable) Intervals() []Interval { return append([]Interval(nil), t.intervals...) }

func validateIntervals(intervals []Interval) error {
	if len(intervals) == 0 {
		return &ConfigurationError{Subject: "interval table", Problems: []string{"no interval"}}
	}

	var problems []string
	last := len(intervals) - 1
	for i, iv := range intervals {
		if math.IsNaN(iv.Min) || math.IsNaN(iv.Max) || math.IsNaN(iv.ScoreMin) || math.IsNaN(iv.ScoreMax) {
			problems = append(problems, fmt.Sprintf("interval %d: NaN bound", i))
			continue
		}
		if math.IsInf(iv.Min, 1) || (math.IsInf(iv.Min, -1) && i != 0) {
			problems = append(problems, fmt.Sprintf("interval %d: infinite min only allowed as -Inf on the first interval", i))
		}
		if math.IsInf(iv.Max, -1) || (math.IsInf(iv.Max, 1) && i != last) {
			problems = append(problems, fmt.Sprintf("interval %d: infinite max only allowed as +Inf on the last interval", i))
		}
		if iv.Min >= iv.Max {
			problems = append(problems, fmt.Sprintf("interval %d: min %g >= max %g", i, iv.Min, iv.Max))
		}
		if math.IsInf(iv.ScoreMin, 0) || math.IsInf(iv.ScoreMax, 0) || iv.ScoreMin > iv.ScoreMax {
			problems = append(problems, fmt.Sprintf("interval %d: score range [%g, %g] is not increasing", i, iv.ScoreMin, iv.ScoreMax))
		}
		if i == 0 && iv.ScoreMin != 0 {
			problems = append(problems, fmt.Sprintf("interval 0: score range must start at 0, got %g", iv.ScoreMin))
		}
		if i > 0 {
			prev := intervals[i-1]
			switch {
			case prev.Max < iv.Min:
				problems = append(problems, fmt.Sprintf("gap between interval %d (max %g) and %d (min %g)", i-1, prev.Max, i, iv.Min))
			case prev.Max > iv.Min:
				problems = append(problems, fmt.Sprintf("overlap between interval %d (max %g) and %d (min %g)", i-1, prev.Max, i, iv.Min))
			}
			if prev.ScoreMax != iv.ScoreMin {
				problems = append(problems, fmt.Sprintf("score ranges of intervals %d and %d are not contiguous (%g != %g)", i-1, i, prev.ScoreMax, iv.ScoreMin))
			}
		}
	}
	if len(problems) > 0 {
		return &ConfigurationError{Subject: "interval table", Problems: problems}
	}
	return nil
}

// Score maps capacity to an integer score in [0, maxReachable]. A capacity
// equal to a boundary belongs to the interval starting there.
func (t IntervalTable) Score(capacity float64, maxReachable int) int {
	if len(t.intervals) == 0 || math.IsNaN(capacity) {
		return 0
	}
	first, last := t.intervals[0], t.intervals[len(t.intervals)-1]
	if capacity < first.Min {
		return 0
	}
	if capacity >= last.Max {
		return maxReachable
	}

	for _, iv := range t.intervals {
		if capacity >= iv.Min && capacity < iv.Max {
			raw := iv.ScoreMin + position(iv, capacity)*(iv.ScoreMax-iv.ScoreMin)
			return clamp(int(math.Floor(raw)), 0, maxReachable)
		}
	}
	return maxReachable
}

// position returns where capacity sits inside iv, in [0, 1).
func position(iv Interval, capacity float64) float64 {
	lowInf, highInf := math.IsInf(iv.Min, -1), math.IsInf(iv.Max, 1)
	switch {
	case lowInf && highInf:
		return 1 / (1 + math.Exp(-capacity))
	case lowInf:
		return math.Exp(capacity - iv.Max)
	case highInf:
		return 1 - math.Exp(iv.Min-capacity)
	default:
		return (capacity - iv.Min) / (iv.Max - iv.Min)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
