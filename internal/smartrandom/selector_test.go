package smartrandom

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/adaptest/internal/catalog"
)

func ptr[T any](v T) *T { return &v }

// placementCatalog has an easy tube (tA, levels 1..3) and a hard tube (tB, levels 2 and 5).
func placementCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	ch := func(id string, status catalog.Status, timer time.Duration, skills ...string) catalog.Challenge {
		p := catalog.ChallengeParams{ID: id, Status: status, SkillIDs: skills}
		if timer > 0 {
			p.Timer = ptr(timer)
		}
		return catalog.MustChallenge(p)
	}
	cat, err := catalog.New(
		[]catalog.Competence{{ID: "c1", Name: "Search"}},
		[]catalog.Tube{{ID: "tA", Name: "Browsing", CompetenceID: "c1"}, {ID: "tB", Name: "Queries", CompetenceID: "c1"}},
		[]catalog.Skill{
			{ID: "a1", Difficulty: 1, TubeID: "tA"},
			{ID: "a2", Difficulty: 2, TubeID: "tA"},
			{ID: "a3", Difficulty: 3, TubeID: "tA"},
			{ID: "b2", Difficulty: 2, TubeID: "tB"},
			{ID: "b5", Difficulty: 5, TubeID: "tB"},
		},
		[]catalog.Challenge{
			ch("chA1", catalog.StatusValidated, 0, "a1"),
			ch("chA2", catalog.StatusValidated, 0, "a2"),
			ch("chA2x", catalog.StatusArchived, 0, "a2"),
			ch("chA3", catalog.StatusValidated, 0, "a3"),
			ch("chA3t", catalog.StatusValidated, 30*time.Second, "a3"),
			ch("chB2", catalog.StatusValidated, 30*time.Second, "b2"),
			ch("chB2b", catalog.StatusPreValidated, 0, "b2"),
			ch("chB5", catalog.StatusValidated, 0, "b5"),
		},
	)
	require.NoError(t, err)
	return cat
}

var allTargets = []string{"a1", "a2", "a3", "b2", "b5"}

func newSelector(t *testing.T, seed uint64) *Selector {
	t.Helper()
	s, err := NewSelector(DefaultConfig(), rand.New(rand.NewPCG(seed, seed^0x9e3779b9)))
	require.NoError(t, err)
	return s
}

func skillIDs(skills []catalog.Skill) []string {
	var ids []string
	for _, s := range skills {
		ids = append(ids, s.ID)
	}
	return ids
}

func TestSelectNext_FirstChallengeAtLevelTwo(t *testing.T) {
	cat := placementCatalog(t)
	for seed := uint64(0); seed < 20; seed++ {
		res, err := newSelector(t, seed).SelectNext(Input{Catalog: cat, TargetSkillIDs: allTargets})
		require.NoError(t, err)
		assert.False(t, res.HasEnded)
		assert.Equal(t, 2.0, res.EstimatedLevel)
		assert.Equal(t, "chA2", res.Challenge.ID(), "seed %d", seed)
		assert.Equal(t, []string{"a2"}, skillIDs(res.PossibleSkills))
	}
}

func TestSelectNext_FirstChallengeIgnoresUnknownAnswers(t *testing.T) {
	cat := placementCatalog(t)
	res, err := newSelector(t, 1).SelectNext(Input{
		Catalog:        cat,
		TargetSkillIDs: allTargets,
		Answers:        []catalog.Answer{{ChallengeID: "gone", Result: catalog.ResultCorrect}},
	})
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.EstimatedLevel)
}

func TestSelectNext_FirstChallengeFallsBackWhenNoEasyTube(t *testing.T) {
	cat := placementCatalog(t)
	res, err := newSelector(t, 3).SelectNext(Input{Catalog: cat, TargetSkillIDs: []string{"b5"}})
	require.NoError(t, err)
	assert.Equal(t, 2.0, res.EstimatedLevel)
	assert.Equal(t, "chB5", res.Challenge.ID())
}

func TestSelectNext_UnknownSkill(t *testing.T) {
	cat := placementCatalog(t)
	_, err := newSelector(t, 1).SelectNext(Input{Catalog: cat, TargetSkillIDs: []string{"a1", "nope"}})
	require.ErrorIs(t, err, ErrUnknownSkill)
}

func TestSelectNext_AvoidsLastTubeAndMaximizesReward(t *testing.T) {
	cat := placementCatalog(t)
	in := Input{
		Catalog:        cat,
		TargetSkillIDs: allTargets,
		Answers: []catalog.Answer{
			{ChallengeID: "chA2", Result: catalog.ResultCorrect, Position: 0},
		},
		KnowledgeElements: []catalog.KnowledgeElement{
			{SkillID: "a2", Status: catalog.KnowledgeValidated},
			{SkillID: "a1", Status: catalog.KnowledgeValidated},
		},
	}
	for seed := uint64(0); seed < 10; seed++ {
		res, err := newSelector(t, seed).SelectNext(in)
		require.NoError(t, err)
		assert.Equal(t, 7.5, res.EstimatedLevel)
		assert.Equal(t, "chB5", res.Challenge.ID())
	}
}

func TestSelectNext_NoTimedChallengeAfterTimed(t *testing.T) {
	cat := placementCatalog(t)
	in := Input{
		Catalog:           cat,
		TargetSkillIDs:    allTargets,
		Answers:           []catalog.Answer{{ChallengeID: "chB2", Result: catalog.ResultCorrect}},
		KnowledgeElements: []catalog.KnowledgeElement{{SkillID: "b2", Status: catalog.KnowledgeValidated}},
	}
	for seed := uint64(0); seed < 20; seed++ {
		res, err := newSelector(t, seed).SelectNext(in)
		require.NoError(t, err)
		assert.Equal(t, "chA3", res.Challenge.ID(), "seed %d", seed)
		assert.False(t, res.Challenge.IsTimed())
	}
}

func TestSelectNext_DropsTooDifficultSkills(t *testing.T) {
	cat := placementCatalog(t)
	res, err := newSelector(t, 5).SelectNext(Input{
		Catalog:           cat,
		TargetSkillIDs:    allTargets,
		Answers:           []catalog.Answer{{ChallengeID: "chA1", Result: catalog.ResultIncorrect}},
		KnowledgeElements: []catalog.KnowledgeElement{{SkillID: "a1", Status: catalog.KnowledgeInvalidated}},
	})
	require.NoError(t, err)
	assert.Equal(t, 0.5, res.EstimatedLevel)
	assert.Equal(t, []string{"b2"}, skillIDs(res.PossibleSkills))
	assert.Contains(t, []string{"chB2", "chB2b"}, res.Challenge.ID())
}

func TestSelectNext_EndsWhenNothingLeft(t *testing.T) {
	cat := placementCatalog(t)
	var kes []catalog.KnowledgeElement
	for _, id := range allTargets {
		kes = append(kes, catalog.KnowledgeElement{SkillID: id, Status: catalog.KnowledgeValidated})
	}
	res, err := newSelector(t, 1).SelectNext(Input{
		Catalog:           cat,
		TargetSkillIDs:    allTargets,
		Answers:           []catalog.Answer{{ChallengeID: "chA1", Result: catalog.ResultCorrect}},
		KnowledgeElements: kes,
	})
	require.NoError(t, err)
	assert.True(t, res.HasEnded)
	assert.Empty(t, res.Challenge.ID())
	assert.Equal(t, 7.5, res.EstimatedLevel)
}

func TestSelectNext_SameSeedSamePick(t *testing.T) {
	cat := placementCatalog(t)
	in := Input{
		Catalog:           cat,
		TargetSkillIDs:    allTargets,
		Answers:           []catalog.Answer{{ChallengeID: "chA1", Result: catalog.ResultIncorrect}},
		KnowledgeElements: []catalog.KnowledgeElement{{SkillID: "a1", Status: catalog.KnowledgeInvalidated}},
	}
	a, err := newSelector(t, 42).SelectNext(in)
	require.NoError(t, err)
	b, err := newSelector(t, 42).SelectNext(in)
	require.NoError(t, err)
	assert.Equal(t, a.Challenge.ID(), b.Challenge.ID())
}

func TestNewSelector_Rejects(t *testing.T) {
	_, err := NewSelector(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.LevelStep = 0
	_, err = NewSelector(cfg, rand.New(rand.NewPCG(1, 2)))
	assert.Error(t, err)
}

func TestSelectNext_OnlyTimedChallengesStillPlayable(t *testing.T) {
	timer := 30 * time.Second
	cat, err := catalog.New(
		[]catalog.Competence{{ID: "c1", Name: "Search"}},
		[]catalog.Tube{{ID: "t1", CompetenceID: "c1"}, {ID: "t2", CompetenceID: "c1"}},
		[]catalog.Skill{
			{ID: "s1", Difficulty: 2, TubeID: "t1"},
			{ID: "s2", Difficulty: 2, TubeID: "t2"},
		},
		[]catalog.Challenge{
			catalog.MustChallenge(catalog.ChallengeParams{ID: "ch1", Status: catalog.StatusValidated, SkillIDs: []string{"s1"}, Timer: &timer}),
			catalog.MustChallenge(catalog.ChallengeParams{ID: "ch2", Status: catalog.StatusValidated, SkillIDs: []string{"s2"}, Timer: &timer}),
		},
	)
	require.NoError(t, err)
	s := newSelector(t, 3)

	first, err := s.SelectNext(Input{Catalog: cat, TargetSkillIDs: []string{"s1", "s2"}})
	require.NoError(t, err)
	require.False(t, first.HasEnded)
	assert.True(t, first.Challenge.IsTimed())
	assert.Equal(t, 2.0, first.EstimatedLevel)

	played := first.Challenge.ID()
	skill := first.Challenge.SkillIDs()[0]
	second, err := s.SelectNext(Input{
		Catalog:           cat,
		TargetSkillIDs:    []string{"s1", "s2"},
		KnowledgeElements: []catalog.KnowledgeElement{{SkillID: skill, Status: catalog.KnowledgeValidated}},
		Answers:           []catalog.Answer{{ChallengeID: played, Result: catalog.ResultCorrect}},
	})
	require.NoError(t, err)
	require.False(t, second.HasEnded)
	assert.NotEqual(t, played, second.Challenge.ID())
	assert.True(t, second.Challenge.IsTimed())
}
