package catalog

func ptr[T any](v T) *T { return &v }

// testCatalog builds a two-competence catalog used across tests.
func testCatalog() (*Catalog, error) {
	competences := []Competence{
		{ID: "c1", Name: "Search", AreaCode: "1"},
		{ID: "c2", Name: "Communicate", AreaCode: "2"},
	}
	tubes := []Tube{
		{ID: "t-web", Name: "@web", CompetenceID: "c1"},
		{ID: "t-mail", Name: "@mail", CompetenceID: "c2"},
	}
	skills := []Skill{
		{ID: "web3", Name: "@web3", Difficulty: 3, TubeID: "t-web"},
		{ID: "web1", Name: "@web1", Difficulty: 1, TubeID: "t-web"},
		{ID: "mail2", Name: "@mail2", Difficulty: 2, TubeID: "t-mail"},
	}
	challenges := []Challenge{
		MustChallenge(ChallengeParams{ID: "ch1", Status: StatusValidated, SkillIDs: []string{"web1"}, Difficulty: -1, Discriminant: ptr(1.0)}),
		MustChallenge(ChallengeParams{ID: "ch2", Status: StatusArchived, SkillIDs: []string{"web3"}, Difficulty: 1}),
		MustChallenge(ChallengeParams{ID: "ch3", Status: StatusValidated, SkillIDs: []string{"mail2", "web3"}, Difficulty: 0.5, Discriminant: ptr(1.5)}),
	}
	return New(competences, tubes, skills, challenges)
}
