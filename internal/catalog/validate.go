package catalog

import (
	"fmt"
	"strings"
)

// validate performs the structural checks on a catalog's content.
// Returns a combined error describing all problems found, or nil if valid.
func validate(competences []Competence, tubes []Tube, skills []Skill, challenges []Challenge) error {
	var errs []string

	competenceIDs := make(map[string]bool, len(competences))
	for _, c := range competences {
		if c.ID == "" {
			errs = append(errs, "competence with empty ID")
			continue
		}
		if competenceIDs[c.ID] {
			errs = append(errs, fmt.Sprintf("duplicate competence ID: %q", c.ID))
		}
		competenceIDs[c.ID] = true
	}

	tubeIDs := make(map[string]bool, len(tubes))
	for _, t := range tubes {
		if t.ID == "" {
			errs = append(errs, "tube with empty ID")
			continue
		}
		if tubeIDs[t.ID] {
			errs = append(errs, fmt.Sprintf("duplicate tube ID: %q", t.ID))
		}
		tubeIDs[t.ID] = true
		if !competenceIDs[t.CompetenceID] {
			errs = append(errs, fmt.Sprintf("tube %q references nonexistent competence %q", t.ID, t.CompetenceID))
		}
	}

	skillIDs := make(map[string]bool, len(skills))
	for _, s := range skills {
		if s.ID == "" {
			errs = append(errs, "skill with empty ID")
			continue
		}
		if skillIDs[s.ID] {
			errs = append(errs, fmt.Sprintf("duplicate skill ID: %q", s.ID))
		}
		skillIDs[s.ID] = true
		if !tubeIDs[s.TubeID] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent tube %q", s.ID, s.TubeID))
		}
		if s.CompetenceID != "" && !competenceIDs[s.CompetenceID] {
			errs = append(errs, fmt.Sprintf("skill %q references nonexistent competence %q", s.ID, s.CompetenceID))
		}
	}

	challengeIDs := make(map[string]bool, len(challenges))
	for _, ch := range challenges {
		// The zero Challenge never went through NewChallenge.
		if ch.ID() == "" || len(ch.skillIDs) == 0 {
			errs = append(errs, "challenge not built with NewChallenge")
			continue
		}
		if challengeIDs[ch.ID()] {
			errs = append(errs, fmt.Sprintf("duplicate challenge ID: %q", ch.ID()))
		}
		challengeIDs[ch.ID()] = true
		for _, sid := range ch.skillIDs {
			if !skillIDs[sid] {
				errs = append(errs, fmt.Sprintf("challenge %q references nonexistent skill %q", ch.ID(), sid))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}
