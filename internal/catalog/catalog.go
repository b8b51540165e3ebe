package catalog

import (
	"fmt"
	"slices"
	"sort"
)

// Catalog holds the competences, tubes, skills and challenges of one item
// bank with precomputed indices. It is read-only once built.
type Catalog struct {
	competences []Competence
	tubes       []Tube
	skills      []Skill
	challenges  []Challenge

	competenceByID map[string]*Competence
	tubeByID       map[string]*Tube
	skillByID      map[string]*Skill
	challengeByID  map[string]int

	challengesBySkill map[string][]int
	skillsByTube      map[string][]Skill
}

// New validates the inputs and builds the catalog indices.
// Challenges keep their input order, which is the catalog order used for
// deterministic tie-breaking.
func New(competences []Competence, tubes []Tube, skills []Skill, challenges []Challenge) (*Catalog, error) {
	if err := validate(competences, tubes, skills, challenges); err != nil {
		return nil, err
	}

	c := &Catalog{
		competences:       slices.Clone(competences),
		tubes:             slices.Clone(tubes),
		skills:            slices.Clone(skills),
		challenges:        slices.Clone(challenges),
		competenceByID:    make(map[string]*Competence, len(competences)),
		tubeByID:          make(map[string]*Tube, len(tubes)),
		skillByID:         make(map[string]*Skill, len(skills)),
		challengeByID:     make(map[string]int, len(challenges)),
		challengesBySkill: make(map[string][]int),
		skillsByTube:      make(map[string][]Skill),
	}

	for i := range c.competences {
		c.competenceByID[c.competences[i].ID] = &c.competences[i]
	}
	for i := range c.tubes {
		c.tubeByID[c.tubes[i].ID] = &c.tubes[i]
	}
	for i := range c.skills {
		s := &c.skills[i]
		// Skills inherit the competence of their tube when not set explicitly.
		if s.CompetenceID == "" {
			if t, ok := c.tubeByID[s.TubeID]; ok {
				s.CompetenceID = t.CompetenceID
			}
		}
		c.skillByID[s.ID] = s
	}
	for i, ch := range c.challenges {
		c.challengeByID[ch.ID()] = i
		for _, sid := range ch.skillIDs {
			c.challengesBySkill[sid] = append(c.challengesBySkill[sid], i)
		}
	}

	// Group skills by tube, sorted by difficulty then ID.
	for _, s := range c.skills {
		c.skillsByTube[s.TubeID] = append(c.skillsByTube[s.TubeID], s)
	}
	for tubeID, group := range c.skillsByTube {
		sort.Slice(group, func(i, j int) bool {
			if group[i].Difficulty != group[j].Difficulty {
				return group[i].Difficulty < group[j].Difficulty
			}
			return group[i].ID < group[j].ID
		})
		c.skillsByTube[tubeID] = group
	}

	return c, nil
}

// Challenge returns a challenge by ID.
func (c *Catalog) Challenge(id string) (Challenge, bool) {
	i, ok := c.challengeByID[id]
	if !ok {
		return Challenge{}, false
	}
	return c.challenges[i], true
}

// Skill returns a skill by ID.
func (c *Catalog) Skill(id string) (Skill, bool) {
	s, ok := c.skillByID[id]
	if !ok {
		return Skill{}, false
	}
	return *s, true
}

// Tube returns a tube by ID.
func (c *Catalog) Tube(id string) (Tube, bool) {
	t, ok := c.tubeByID[id]
	if !ok {
		return Tube{}, false
	}
	return *t, true
}

// Competence returns a competence by ID.
func (c *Catalog) Competence(id string) (Competence, bool) {
	comp, ok := c.competenceByID[id]
	if !ok {
		return Competence{}, false
	}
	return *comp, true
}

// Challenges returns all challenges in catalog order.
func (c *Catalog) Challenges() []Challenge { return slices.Clone(c.challenges) }

// Skills returns all skills in input order.
func (c *Catalog) Skills() []Skill { return slices.Clone(c.skills) }

// Tubes returns all tubes in input order.
func (c *Catalog) Tubes() []Tube { return slices.Clone(c.tubes) }

// Competences returns all competences in input order.
func (c *Catalog) Competences() []Competence { return slices.Clone(c.competences) }

// ChallengesForSkill returns the challenges testing a skill, in catalog order.
func (c *Catalog) ChallengesForSkill(skillID string) []Challenge {
	idx := c.challengesBySkill[skillID]
	out := make([]Challenge, 0, len(idx))
	for _, i := range idx {
		out = append(out, c.challenges[i])
	}
	return out
}

// SkillsInTube returns the skills of a tube ordered by increasing difficulty.
func (c *Catalog) SkillsInTube(tubeID string) []Skill {
	return slices.Clone(c.skillsByTube[tubeID])
}

// TubesOf returns the distinct tube IDs of a challenge's skills.
func (c *Catalog) TubesOf(ch Challenge) []string {
	var out []string
	for _, sid := range ch.skillIDs {
		s, ok := c.skillByID[sid]
		if !ok || slices.Contains(out, s.TubeID) {
			continue
		}
		out = append(out, s.TubeID)
	}
	return out
}

// CompetenceOf returns the competence ID of a challenge's first skill.
func (c *Catalog) CompetenceOf(ch Challenge) string {
	for _, sid := range ch.skillIDs {
		if s, ok := c.skillByID[sid]; ok {
			return s.CompetenceID
		}
	}
	return ""
}

// Stats summarizes catalog content for display.
type Stats struct {
	Competences int
	Tubes       int
	Skills      int
	Challenges  int
	Selectable  int
	Calibrated  int
	Timed       int
	ByStatus    map[Status]int
}

// Stats counts catalog content.
func (c *Catalog) Stats() Stats {
	st := Stats{
		Competences: len(c.competences),
		Tubes:       len(c.tubes),
		Skills:      len(c.skills),
		Challenges:  len(c.challenges),
		ByStatus:    make(map[Status]int),
	}
	for _, ch := range c.challenges {
		st.ByStatus[ch.status]++
		if ch.IsSelectable() {
			st.Selectable++
		}
		if ch.calibrated {
			st.Calibrated++
		}
		if ch.timed {
			st.Timed++
		}
	}
	return st
}

// String implements fmt.Stringer for Stats.
func (s Stats) String() string {
	return fmt.Sprintf("%d competences, %d tubes, %d skills, %d challenges (%d selectable, %d calibrated, %d timed)",
		s.Competences, s.Tubes, s.Skills, s.Challenges, s.Selectable, s.Calibrated, s.Timed)
}
