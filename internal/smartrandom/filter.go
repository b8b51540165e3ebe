package smartrandom

import (
	"slices"

	"github.com/abhisek/adaptest/internal/catalog"
)

// candidate is a playable target skill with its eligible challenges.
type candidate struct {
	skill      catalog.Skill
	challenges []catalog.Challenge
}

// tube groups the playable target skills of one tube by increasing difficulty.
type tube struct {
	id     string
	skills []catalog.Skill
}

func (t tube) hardestLevel() float64 {
	if len(t.skills) == 0 {
		return 0
	}
	return t.skills[len(t.skills)-1].Difficulty
}

// keepIfAny applies a soft filter: the result replaces the input only when
// it is non-empty.
func keepIfAny(in []candidate, keep func(candidate) bool) []candidate {
	out := filterCandidates(in, keep)
	if len(out) == 0 {
		return in
	}
	return out
}

func filterCandidates(in []candidate, keep func(candidate) bool) []candidate {
	var out []candidate
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

// restrictChallengesIfAny is restrictChallenges that leaves in untouched
// when the restriction would drop every candidate.
func restrictChallengesIfAny(in []candidate, keep func(catalog.Challenge) bool) []candidate {
	out := restrictChallenges(in, keep)
	if len(out) == 0 {
		return in
	}
	return out
}

// restrictChallenges narrows each candidate's challenges and drops the
// candidates left with none.
func restrictChallenges(in []candidate, keep func(catalog.Challenge) bool) []candidate {
	var out []candidate
	for _, c := range in {
		var chs []catalog.Challenge
		for _, ch := range c.challenges {
			if keep(ch) {
				chs = append(chs, ch)
			}
		}
		if len(chs) > 0 {
			out = append(out, candidate{skill: c.skill, challenges: chs})
		}
	}
	return out
}

func untested(tested map[string]bool) func(candidate) bool {
	return func(c candidate) bool { return !tested[c.skill.ID] }
}

func notTimed(ch catalog.Challenge) bool { return !ch.IsTimed() }

// fromEasyTubes keeps skills whose tube tops out at or below maxLevel.
func fromEasyTubes(tubes map[string]tube, maxLevel float64) func(candidate) bool {
	return func(c candidate) bool {
		t, ok := tubes[c.skill.TubeID]
		return ok && t.hardestLevel() <= maxLevel
	}
}

func atLevel(level float64) func(candidate) bool {
	return func(c candidate) bool { return c.skill.Difficulty == level }
}

func notTooDifficult(level, gap float64) func(candidate) bool {
	return func(c candidate) bool { return c.skill.Difficulty-level <= gap }
}

func outsideTubes(tubeIDs []string) func(candidate) bool {
	return func(c candidate) bool { return !slices.Contains(tubeIDs, c.skill.TubeID) }
}
