package scoring

import "fmt"

const (
	// MaxReachableLevel is the highest level a competence can reach.
	MaxReachableLevel = 7
	// NumberOfCompetences is the number of competences of a full certification.
	NumberOfCompetences = 16
	// PixPerLevel is the score earned per competence level.
	PixPerLevel = 8
	// MaxReachableScore leaves one point below the perfect score.
	MaxReachableScore = MaxReachableLevel*NumberOfCompetences*PixPerLevel - 1
)

// Competence configures the level mapping of one competence. Thresholds are
// the capacities at which each successive level is reached.
type Competence struct {
	ID         string    `yaml:"id" validate:"required"`
	AreaCode   string    `yaml:"area_code"`
	Thresholds []float64 `yaml:"thresholds"`
	// MaxLevel caps the level below MaxReachableLevel; 0 means no extra cap.
	MaxLevel int `yaml:"max_level" validate:"gte=0,lte=7"`
}

// CompetenceMark is the level and score earned on one competence.
type CompetenceMark struct {
	CompetenceID string `json:"competence_id"`
	AreaCode     string `json:"area_code,omitempty"`
	Level        int    `json:"level"`
	Score        int    `json:"score"`
}

// Level returns the number of thresholds reached at capacity, capped.
func (c Competence) Level(capacity float64) int {
	level := 0
	for _, th := range c.Thresholds {
		if capacity >= th {
			level++
		}
	}
	limit := MaxReachableLevel
	if c.MaxLevel > 0 && c.MaxLevel < limit {
		limit = c.MaxLevel
	}
	return min(level, limit)
}

// Mark computes the competence mark at capacity.
func (c Competence) Mark(capacity float64) CompetenceMark {
	level := c.Level(capacity)
	return CompetenceMark{
		CompetenceID: c.ID,
		AreaCode:     c.AreaCode,
		Level:        level,
		Score:        level * PixPerLevel,
	}
}

func validateCompetences(comps []Competence) error {
	var problems []string
	seen := make(map[string]bool, len(comps))
	for i, c := range comps {
		if c.ID == "" {
			problems = append(problems, fmt.Sprintf("competence %d: empty id", i))
		} else if seen[c.ID] {
			problems = append(problems, fmt.Sprintf("competence %q: duplicate", c.ID))
		}
		seen[c.ID] = true
		if c.MaxLevel < 0 || c.MaxLevel > MaxReachableLevel {
			problems = append(problems, fmt.Sprintf("competence %q: max level %d outside [0, %d]", c.ID, c.MaxLevel, MaxReachableLevel))
		}
		for j := 1; j < len(c.Thresholds); j++ {
			if c.Thresholds[j] <= c.Thresholds[j-1] {
				problems = append(problems, fmt.Sprintf("competence %q: thresholds must be strictly increasing", c.ID))
				break
			}
		}
	}
	if len(problems) > 0 {
		return &ConfigurationError{Subject: "competences", Problems: problems}
	}
	return nil
}
