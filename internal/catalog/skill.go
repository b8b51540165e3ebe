package catalog

// Competence is a certifiable competence. Tubes belong to exactly one competence.
type Competence struct {
	ID       string
	Name     string
	AreaCode string
}

// Tube is a named progression of skills of increasing difficulty within one competence.
type Tube struct {
	ID           string
	Name         string
	CompetenceID string
}

// Skill is a single skill node of a tube.
type Skill struct {
	ID   string
	Name string
	// Difficulty is the skill level; legacy content uses whole levels 1..8.
	Difficulty   float64
	TubeID       string
	CompetenceID string
}
