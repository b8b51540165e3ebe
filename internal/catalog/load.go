package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the catalog document major version this build reads.
const SupportedMajor = "v1"

// Format identifies the encoding of a catalog document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath guesses the document format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Document is the serialized form of a catalog.
type Document struct {
	Version     string          `json:"version" yaml:"version"`
	Competences []CompetenceDoc `json:"competences" yaml:"competences"`
	Tubes       []TubeDoc       `json:"tubes" yaml:"tubes"`
	Skills      []SkillDoc      `json:"skills" yaml:"skills"`
	Challenges  []ChallengeDoc  `json:"challenges" yaml:"challenges"`
}

// CompetenceDoc is the serialized form of a Competence.
type CompetenceDoc struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	AreaCode string `json:"area_code,omitempty" yaml:"area_code,omitempty"`
}

// TubeDoc is the serialized form of a Tube.
type TubeDoc struct {
	ID           string `json:"id" yaml:"id"`
	Name         string `json:"name" yaml:"name"`
	CompetenceID string `json:"competence_id" yaml:"competence_id"`
}

// SkillDoc is the serialized form of a Skill.
type SkillDoc struct {
	ID         string  `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	Difficulty float64 `json:"difficulty" yaml:"difficulty"`
	TubeID     string  `json:"tube_id" yaml:"tube_id"`
}

// ChallengeDoc is the serialized form of a Challenge.
type ChallengeDoc struct {
	ID           string   `json:"id" yaml:"id"`
	Status       string   `json:"status" yaml:"status"`
	SkillIDs     []string `json:"skill_ids" yaml:"skill_ids"`
	Difficulty   float64  `json:"difficulty" yaml:"difficulty"`
	Discriminant *float64 `json:"discriminant,omitempty" yaml:"discriminant,omitempty"`
	// TimerSeconds is the time limit in seconds, absent for untimed challenges.
	TimerSeconds *int `json:"timer,omitempty" yaml:"timer,omitempty"`
}

// LoadFile reads a catalog document from disk.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Load(f, FormatFromPath(path))
}

// Load decodes, schema-validates and builds a catalog.
func Load(r io.Reader, format Format) (*Catalog, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	if format == FormatYAML {
		raw, err = yamlToJSON(raw)
		if err != nil {
			return nil, err
		}
	}

	if err := validateDocument(raw); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return doc.Build()
}

// Build converts the document into a Catalog. Every challenge goes through
// NewChallenge, so an invalid challenge fails the whole document.
func (d Document) Build() (*Catalog, error) {
	if !semver.IsValid(d.Version) {
		return nil, fmt.Errorf("catalog version %q is not a semantic version", d.Version)
	}
	if major := semver.Major(d.Version); major != SupportedMajor {
		return nil, fmt.Errorf("catalog version %s not supported (want %s.x)", d.Version, SupportedMajor)
	}

	competences := make([]Competence, 0, len(d.Competences))
	for _, c := range d.Competences {
		competences = append(competences, Competence(c))
	}
	tubes := make([]Tube, 0, len(d.Tubes))
	for _, t := range d.Tubes {
		tubes = append(tubes, Tube(t))
	}
	skills := make([]Skill, 0, len(d.Skills))
	for _, s := range d.Skills {
		skills = append(skills, Skill{ID: s.ID, Name: s.Name, Difficulty: s.Difficulty, TubeID: s.TubeID})
	}
	challenges := make([]Challenge, 0, len(d.Challenges))
	for _, c := range d.Challenges {
		p := ChallengeParams{
			ID:           c.ID,
			Status:       Status(c.Status),
			SkillIDs:     c.SkillIDs,
			Difficulty:   c.Difficulty,
			Discriminant: c.Discriminant,
		}
		if c.TimerSeconds != nil {
			timer := time.Duration(*c.TimerSeconds) * time.Second
			p.Timer = &timer
		}
		ch, err := NewChallenge(p)
		if err != nil {
			return nil, err
		}
		challenges = append(challenges, ch)
	}

	return New(competences, tubes, skills, challenges)
}

// yamlToJSON re-encodes a YAML document as JSON so both formats share the
// schema validation path.
func yamlToJSON(raw []byte) ([]byte, error) {
	var v any
	if err := yaml.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode catalog yaml: %w", err)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("convert catalog yaml: %w", err)
	}
	return b, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// validateDocument checks raw JSON against the embedded catalog schema.
func validateDocument(raw []byte) error {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("invalid catalog JSON: %w", err)
	}

	schemaOnce.Do(func() {
		compiledSchema, schemaErr = compileSchema()
	})
	if schemaErr != nil {
		return fmt.Errorf("compile catalog schema: %w", schemaErr)
	}

	if err := compiledSchema.Validate(parsed); err != nil {
		return fmt.Errorf("catalog schema validation failed: %w", err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(documentSchema)))
	if err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}
	c := jsonschema.NewCompiler()
	const url = "schema://catalog.json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	return c.Compile(url)
}
