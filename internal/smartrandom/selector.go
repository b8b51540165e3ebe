// Package smartrandom implements the classical placement selector. It
// predicts a discrete level from knowledge elements and picks the next
// challenge among the skills expected to settle the most knowledge.
package smartrandom

import (
	"errors"
	"fmt"
	"slices"

	"github.com/abhisek/adaptest/internal/catalog"
)

// ErrUnknownSkill is returned when a target skill is missing from the catalog.
var ErrUnknownSkill = errors.New("unknown skill")

// Rand is the randomness source used for tie-breaks. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

// Input is everything the selector looks at for one pick.
type Input struct {
	KnowledgeElements []catalog.KnowledgeElement
	Catalog           *catalog.Catalog
	TargetSkillIDs    []string
	Answers           []catalog.Answer
}

// Result is the outcome of one pick. Challenge is the zero value when
// HasEnded is true.
type Result struct {
	HasEnded       bool
	Challenge      catalog.Challenge
	EstimatedLevel float64
	// PossibleSkills are the skills the pick was drawn from.
	PossibleSkills []catalog.Skill
}

// Selector picks challenges for placement tests.
type Selector struct {
	cfg Config
	rng Rand
}

// NewSelector validates cfg and returns a selector drawing ties from rng.
func NewSelector(cfg Config, rng Rand) (*Selector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("smart-random config: %w", err)
	}
	if rng == nil {
		return nil, errors.New("smart-random: nil random source")
	}
	return &Selector{cfg: cfg, rng: rng}, nil
}

// SelectNext picks the next challenge. Running out of skills is reported
// through Result.HasEnded, not as an error.
func (s *Selector) SelectNext(in Input) (Result, error) {
	if in.Catalog == nil {
		return Result{}, errors.New("smart-random: nil catalog")
	}
	cat := in.Catalog

	answered := catalog.AnsweredChallengeIDs(in.Answers)
	cands, err := playableSkills(cat, in.TargetSkillIDs, answered)
	if err != nil {
		return Result{}, err
	}
	tubes := buildTubes(cands)

	tested := make(map[string]bool, len(in.KnowledgeElements))
	for _, ke := range in.KnowledgeElements {
		tested[ke.SkillID] = true
	}

	last, hasLast := lastAnsweredChallenge(cat, in.Answers)

	var level float64
	var possible []candidate
	if !hasLast {
		level = s.cfg.FirstChallengeLevel
		possible = s.firstChallengeSkills(cands, tubes, tested)
	} else {
		level = PredictedLevel(s.cfg, in.KnowledgeElements, cat)
		possible = s.nextChallengeSkills(cat, cands, last, level, tested)
		possible = bestRewarded(level, possible, tubes, tested)
	}

	if len(possible) == 0 {
		return Result{HasEnded: true, EstimatedLevel: level}, nil
	}

	picked := possible[s.rng.IntN(len(possible))]
	ch := picked.challenges[s.rng.IntN(len(picked.challenges))]

	skills := make([]catalog.Skill, 0, len(possible))
	for _, c := range possible {
		skills = append(skills, c.skill)
	}
	return Result{Challenge: ch, EstimatedLevel: level, PossibleSkills: skills}, nil
}

func (s *Selector) firstChallengeSkills(cands []candidate, tubes map[string]tube, tested map[string]bool) []candidate {
	out := filterCandidates(cands, untested(tested))
	out = keepIfAny(out, fromEasyTubes(tubes, s.cfg.EasyTubeMaxLevel))
	out = restrictChallengesIfAny(out, notTimed)
	return keepIfAny(out, atLevel(s.cfg.FirstChallengeLevel))
}

func (s *Selector) nextChallengeSkills(cat *catalog.Catalog, cands []candidate, last catalog.Challenge, level float64, tested map[string]bool) []candidate {
	out := filterCandidates(cands, untested(tested))
	if last.IsTimed() {
		out = restrictChallengesIfAny(out, notTimed)
	}
	out = filterCandidates(out, notTooDifficult(level, s.cfg.TooDifficultGap))
	return keepIfAny(out, outsideTubes(cat.TubesOf(last)))
}

// playableSkills resolves the target skills, in input order without
// duplicates, keeping those with at least one selectable unanswered challenge.
func playableSkills(cat *catalog.Catalog, targets []string, answered map[string]bool) ([]candidate, error) {
	var out []candidate
	seen := make(map[string]bool, len(targets))
	for _, id := range targets {
		if seen[id] {
			continue
		}
		seen[id] = true
		sk, ok := cat.Skill(id)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
		}
		var chs []catalog.Challenge
		for _, ch := range cat.ChallengesForSkill(id) {
			if ch.IsSelectable() && !answered[ch.ID()] {
				chs = append(chs, ch)
			}
		}
		if len(chs) > 0 {
			out = append(out, candidate{skill: sk, challenges: chs})
		}
	}
	return out, nil
}

func buildTubes(cands []candidate) map[string]tube {
	tubes := make(map[string]tube)
	for _, c := range cands {
		t := tubes[c.skill.TubeID]
		t.id = c.skill.TubeID
		t.skills = append(t.skills, c.skill)
		tubes[t.id] = t
	}
	for id, t := range tubes {
		slices.SortStableFunc(t.skills, func(a, b catalog.Skill) int {
			switch {
			case a.Difficulty < b.Difficulty:
				return -1
			case a.Difficulty > b.Difficulty:
				return 1
			}
			return 0
		})
		tubes[id] = t
	}
	return tubes
}

// lastAnsweredChallenge returns the most recent answered challenge that the
// catalog knows. Answers on unknown challenges do not end the first question.
func lastAnsweredChallenge(cat *catalog.Catalog, answers []catalog.Answer) (catalog.Challenge, bool) {
	for i := len(answers) - 1; i >= 0; i-- {
		if ch, ok := cat.Challenge(answers[i].ChallengeID); ok {
			return ch, true
		}
	}
	return catalog.Challenge{}, false
}
