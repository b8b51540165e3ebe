// Package flash implements the IRT-based adaptive algorithm: a grid
// posterior over capacity under a two-parameter logistic model, candidate
// filtering and information-based ranking.
package flash

import (
	"fmt"
	"math"

	"github.com/abhisek/adaptest/internal/catalog"
)

// Estimate is a capacity estimate with its standard error.
type Estimate struct {
	Capacity  float64
	ErrorRate float64
}

// Algorithm is safe for concurrent use; it holds only precomputed,
// read-only tables.
type Algorithm struct {
	cfg   Config
	grid  []float64
	prior []float64
}

// New validates cfg and precomputes the sample grid and the prior.
func New(cfg Config) (*Algorithm, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("flash config: %w", err)
	}
	a := &Algorithm{
		cfg:   cfg,
		grid:  make([]float64, cfg.Grid.Count),
		prior: make([]float64, cfg.Grid.Count),
	}
	step := (cfg.Grid.Max - cfg.Grid.Min) / float64(cfg.Grid.Count-1)
	var total float64
	for i := range a.grid {
		x := cfg.Grid.Min + float64(i)*step
		a.grid[i] = x
		a.prior[i] = math.Exp(-x * x / (2 * cfg.PriorVariance))
		total += a.prior[i]
	}
	for i := range a.prior {
		a.prior[i] /= total
	}
	return a, nil
}

// Config returns the configuration the algorithm was built with.
func (a *Algorithm) Config() Config { return a.cfg }

// probability is the 2PL chance of a correct answer.
func probability(capacity, discriminant, difficulty float64) float64 {
	return 1 / (1 + math.Exp(-discriminant*(capacity-difficulty)))
}

// Estimate computes the capacity from the full answer history. Answers on
// unknown or uncalibrated challenges carry no information and are skipped.
// With no usable answer the configured defaults are returned.
func (a *Algorithm) Estimate(answers []catalog.Answer, cat *catalog.Catalog) Estimate {
	est := Estimate{Capacity: a.cfg.DefaultCapacity, ErrorRate: a.cfg.DefaultErrorRate}
	if cat == nil {
		return est
	}

	posterior := make([]float64, len(a.prior))
	copy(posterior, a.prior)

	for i, ans := range answers {
		ch, ok := cat.Challenge(ans.ChallengeID)
		if !ok {
			continue
		}
		disc, calibrated := ch.Discriminant()
		if !calibrated {
			continue
		}
		for j, theta := range a.grid {
			p := probability(theta, disc, ch.Difficulty())
			if ans.Result.IsCorrect() {
				posterior[j] *= p
			} else {
				posterior[j] *= 1 - p
			}
		}
		normalize(posterior)

		mean, sd := moments(a.grid, posterior)
		if a.cfg.inWarmUp(i) {
			mean = capMove(est.Capacity, mean, a.cfg.VariationPercent)
		}
		est = Estimate{Capacity: mean, ErrorRate: sd}
	}
	return est
}

// capMove bounds the move from prev to next by variation * max(|prev|, 1).
func capMove(prev, next, variation float64) float64 {
	limit := variation * math.Max(math.Abs(prev), 1)
	return prev + math.Max(-limit, math.Min(limit, next-prev))
}

func normalize(w []float64) {
	var total float64
	for _, v := range w {
		total += v
	}
	if total == 0 {
		return
	}
	for i := range w {
		w[i] /= total
	}
}

func moments(grid, w []float64) (mean, sd float64) {
	for i, x := range grid {
		mean += x * w[i]
	}
	var variance float64
	for i, x := range grid {
		d := x - mean
		variance += d * d * w[i]
	}
	return mean, math.Sqrt(variance)
}
