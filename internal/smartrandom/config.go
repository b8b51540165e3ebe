package smartrandom

import (
	"errors"
	"fmt"
)

// Config holds the tunable constants of the classical selector.
type Config struct {
	// FirstChallengeLevel is the level reported for, and used to pick, the first challenge.
	FirstChallengeLevel float64 `yaml:"first_challenge_level" validate:"gt=0"`
	// MinLevel, MaxLevel and LevelStep enumerate the candidate levels of the
	// predicted-level search.
	MinLevel  float64 `yaml:"min_level" validate:"gte=0"`
	MaxLevel  float64 `yaml:"max_level" validate:"gtfield=MinLevel"`
	LevelStep float64 `yaml:"level_step" validate:"gt=0"`
	// TooDifficultGap drops skills harder than the predicted level by more than this.
	TooDifficultGap float64 `yaml:"too_difficult_gap" validate:"gt=0"`
	// EasyTubeMaxLevel is the hardest skill level a tube may hold to count as easy.
	EasyTubeMaxLevel float64 `yaml:"easy_tube_max_level" validate:"gt=0"`
	// DefaultSkillDifficulty is used for knowledge elements of unknown skills.
	DefaultSkillDifficulty float64 `yaml:"default_skill_difficulty" validate:"gt=0"`
}

// DefaultConfig returns the selector constants used for placement tests.
func DefaultConfig() Config {
	return Config{
		FirstChallengeLevel:    2,
		MinLevel:               0.5,
		MaxLevel:               7.5,
		LevelStep:              0.5,
		TooDifficultGap:        2,
		EasyTubeMaxLevel:       3,
		DefaultSkillDifficulty: 2,
	}
}

// Validate checks the configuration for values the algorithm cannot use.
func (c Config) Validate() error {
	var errs []error
	if c.FirstChallengeLevel <= 0 {
		errs = append(errs, fmt.Errorf("first challenge level must be > 0, got %g", c.FirstChallengeLevel))
	}
	if c.LevelStep <= 0 {
		errs = append(errs, fmt.Errorf("level step must be > 0, got %g", c.LevelStep))
	}
	if c.MaxLevel < c.MinLevel {
		errs = append(errs, fmt.Errorf("max level %g below min level %g", c.MaxLevel, c.MinLevel))
	}
	if c.TooDifficultGap <= 0 {
		errs = append(errs, fmt.Errorf("too difficult gap must be > 0, got %g", c.TooDifficultGap))
	}
	return errors.Join(errs...)
}

// levels enumerates the candidate levels, MinLevel included, MaxLevel included
// when it falls on the step grid.
func (c Config) levels() []float64 {
	var out []float64
	n := int((c.MaxLevel-c.MinLevel)/c.LevelStep + 1e-9)
	for i := 0; i <= n; i++ {
		out = append(out, c.MinLevel+float64(i)*c.LevelStep)
	}
	return out
}
