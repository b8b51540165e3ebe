package smartrandom

import "github.com/abhisek/adaptest/internal/catalog"

const rewardEpsilon = 1e-9

// reward is the expected number of skills a single answer on s settles:
// a success validates the untested skills at or below s in its tube, a
// failure invalidates those at or above it.
func reward(level float64, s catalog.Skill, t tube, tested map[string]bool) float64 {
	var easier, harder int
	for _, other := range t.skills {
		if tested[other.ID] {
			continue
		}
		if other.Difficulty <= s.Difficulty {
			easier++
		}
		if other.Difficulty >= s.Difficulty {
			harder++
		}
	}
	p := probability(level, s.Difficulty)
	return p*float64(easier) + (1-p)*float64(harder)
}

// bestRewarded returns the candidates tied for the maximum reward.
func bestRewarded(level float64, cands []candidate, tubes map[string]tube, tested map[string]bool) []candidate {
	var best []candidate
	top := 0.0
	for _, c := range cands {
		r := reward(level, c.skill, tubes[c.skill.TubeID], tested)
		switch {
		case len(best) == 0 || r > top+rewardEpsilon:
			best = []candidate{c}
			top = r
		case r >= top-rewardEpsilon:
			best = append(best, c)
		}
	}
	return best
}
