package smartrandom

import (
	"math"

	"github.com/abhisek/adaptest/internal/catalog"
)

// probability returns the chance that a test-taker at level succeeds on a
// skill of the given difficulty.
func probability(level, difficulty float64) float64 {
	return 1 / (1 + math.Exp(difficulty-level))
}

// PredictedLevel returns the level maximizing the log-likelihood of the
// knowledge elements. Ties keep the lowest level, so an empty history
// predicts MinLevel.
func PredictedLevel(cfg Config, kes []catalog.KnowledgeElement, cat *catalog.Catalog) float64 {
	best := cfg.MinLevel
	bestLikelihood := math.Inf(-1)
	for _, level := range cfg.levels() {
		ll := logLikelihood(cfg, level, kes, cat)
		if ll > bestLikelihood {
			best, bestLikelihood = level, ll
		}
	}
	return best
}

func logLikelihood(cfg Config, level float64, kes []catalog.KnowledgeElement, cat *catalog.Catalog) float64 {
	sum := 0.0
	for _, ke := range kes {
		difficulty := cfg.DefaultSkillDifficulty
		if s, ok := cat.Skill(ke.SkillID); ok {
			difficulty = s.Difficulty
		}
		p := probability(level, difficulty)
		if ke.IsValidated() {
			sum += math.Log(p)
		} else {
			sum += math.Log(1 - p)
		}
	}
	return sum
}
