package flash

import (
	"math"
	"slices"

	"github.com/abhisek/adaptest/internal/catalog"
)

// Candidate is a servable challenge with its reward at the current capacity.
type Candidate struct {
	Challenge catalog.Challenge
	Reward    float64
}

// filter narrows a candidate list. Soft filters are skipped when they would
// leave nothing.
type filter func([]catalog.Challenge) []catalog.Challenge

func keep(in []catalog.Challenge, pred func(catalog.Challenge) bool) []catalog.Challenge {
	var out []catalog.Challenge
	for _, ch := range in {
		if pred(ch) {
			out = append(out, ch)
		}
	}
	return out
}

func soft(in []catalog.Challenge, f filter) []catalog.Challenge {
	if out := f(in); len(out) > 0 {
		return out
	}
	return in
}

// NextCandidates returns the challenges that may be served next, best
// reward first. When nothing can be served it returns an
// *AssessmentEndedError instead of an empty list.
func (a *Algorithm) NextCandidates(answers []catalog.Answer, cat *catalog.Catalog, capacity float64) ([]Candidate, error) {
	n := len(answers)
	if a.cfg.MaximumAssessmentLength > 0 && n >= a.cfg.MaximumAssessmentLength {
		return nil, &AssessmentEndedError{Reason: ReasonMaximumLength, Answers: n}
	}
	if cat == nil {
		return nil, &AssessmentEndedError{Reason: ReasonNoCandidate, Answers: n}
	}

	answered := catalog.AnsweredChallengeIDs(answers)
	answeredTubes := make(map[string]bool)
	if a.cfg.LimitToOneQuestionPerTube {
		for _, ans := range answers {
			if ch, ok := cat.Challenge(ans.ChallengeID); ok {
				for _, t := range cat.TubesOf(ch) {
					answeredTubes[t] = true
				}
			}
		}
	}

	eligible := keep(cat.Challenges(), func(ch catalog.Challenge) bool {
		if !ch.IsCalibrated() || !ch.IsSelectable() || answered[ch.ID()] {
			return false
		}
		for _, t := range cat.TubesOf(ch) {
			if answeredTubes[t] {
				return false
			}
		}
		return true
	})
	if len(eligible) == 0 {
		return nil, &AssessmentEndedError{Reason: ReasonNoCandidate, Answers: n}
	}

	if a.cfg.EnablePassageByAllCompetences {
		eligible = soft(eligible, uncoveredCompetences(answers, cat))
	}
	if a.cfg.ChallengesBetweenSameCompetence > 0 {
		eligible = soft(eligible, spacedCompetences(answers, cat, a.cfg.ChallengesBetweenSameCompetence))
	}
	if rate, ok := a.cfg.minimumSuccessRate(n); ok {
		eligible = soft(eligible, minimumSuccessRate(capacity, rate))
	}
	if a.cfg.inWarmUp(n) {
		eligible = soft(eligible, warmUpWindow(capacity, a.cfg.VariationPercent))
	}

	cands := make([]Candidate, 0, len(eligible))
	for _, ch := range eligible {
		disc, _ := ch.Discriminant()
		cands = append(cands, Candidate{Challenge: ch, Reward: Reward(capacity, disc, ch.Difficulty())})
	}
	slices.SortStableFunc(cands, func(x, y Candidate) int {
		switch {
		case x.Reward > y.Reward:
			return -1
		case x.Reward < y.Reward:
			return 1
		}
		return 0
	})
	if len(cands) > a.cfg.MaxCandidates {
		cands = cands[:a.cfg.MaxCandidates]
	}
	return cands, nil
}

// uncoveredCompetences prefers competences no answer has touched yet.
func uncoveredCompetences(answers []catalog.Answer, cat *catalog.Catalog) filter {
	covered := make(map[string]bool)
	for _, ans := range answers {
		if ch, ok := cat.Challenge(ans.ChallengeID); ok {
			covered[cat.CompetenceOf(ch)] = true
		}
	}
	return func(in []catalog.Challenge) []catalog.Challenge {
		return keep(in, func(ch catalog.Challenge) bool { return !covered[cat.CompetenceOf(ch)] })
	}
}

// spacedCompetences drops competences seen in the last `between` answers.
func spacedCompetences(answers []catalog.Answer, cat *catalog.Catalog, between int) filter {
	recent := make(map[string]bool)
	for i := len(answers) - 1; i >= 0 && i >= len(answers)-between; i-- {
		if ch, ok := cat.Challenge(answers[i].ChallengeID); ok {
			recent[cat.CompetenceOf(ch)] = true
		}
	}
	return func(in []catalog.Challenge) []catalog.Challenge {
		return keep(in, func(ch catalog.Challenge) bool { return !recent[cat.CompetenceOf(ch)] })
	}
}

func minimumSuccessRate(capacity, rate float64) filter {
	return func(in []catalog.Challenge) []catalog.Challenge {
		return keep(in, func(ch catalog.Challenge) bool {
			disc, _ := ch.Discriminant()
			return probability(capacity, disc, ch.Difficulty()) >= rate
		})
	}
}

// warmUpWindow keeps challenges whose difficulty lies within
// variation * max(|capacity|, 1) of the capacity.
func warmUpWindow(capacity, variation float64) filter {
	width := variation * math.Max(math.Abs(capacity), 1)
	return func(in []catalog.Challenge) []catalog.Challenge {
		return keep(in, func(ch catalog.Challenge) bool {
			return math.Abs(ch.Difficulty()-capacity) <= width
		})
	}
}
