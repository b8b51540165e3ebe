package catalog

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Status is the editorial status of a challenge.
type Status string

const (
	StatusValidated    Status = "validated"
	StatusPreValidated Status = "pre-validated"
	StatusProposed     Status = "proposed"
	StatusArchived     Status = "archived"
	StatusObsolete     Status = "obsolete"
)

// IsSelectable reports whether challenges with this status may be served.
func (s Status) IsSelectable() bool {
	return s == StatusValidated || s == StatusPreValidated
}

// ErrInvalidChallenge is matched by every *InvalidChallengeError.
var ErrInvalidChallenge = errors.New("invalid challenge")

// InvalidChallengeError reports a challenge that failed construction.
type InvalidChallengeError struct {
	ChallengeID string
	Reason      string
}

func (e *InvalidChallengeError) Error() string {
	if e.ChallengeID == "" {
		return fmt.Sprintf("invalid challenge: %s", e.Reason)
	}
	return fmt.Sprintf("invalid challenge %q: %s", e.ChallengeID, e.Reason)
}

func (e *InvalidChallengeError) Is(target error) bool { return target == ErrInvalidChallenge }

// ChallengeParams carries the raw fields of a challenge before validation.
type ChallengeParams struct {
	ID         string
	Status     Status
	SkillIDs   []string
	Difficulty float64
	// Discriminant is nil for legacy, uncalibrated content.
	Discriminant *float64
	// Timer is nil for untimed challenges.
	Timer *time.Duration
}

// Challenge is an immutable catalog item. Build it with NewChallenge.
type Challenge struct {
	id           string
	status       Status
	skillIDs     []string
	difficulty   float64
	discriminant float64
	calibrated   bool
	timer        time.Duration
	timed        bool
}

// NewChallenge validates p and returns the challenge. A challenge must carry
// an id and at least one skill.
func NewChallenge(p ChallengeParams) (Challenge, error) {
	if p.ID == "" {
		return Challenge{}, &InvalidChallengeError{Reason: "empty id"}
	}
	if len(p.SkillIDs) == 0 {
		return Challenge{}, &InvalidChallengeError{ChallengeID: p.ID, Reason: "no associated skill"}
	}
	for _, id := range p.SkillIDs {
		if id == "" {
			return Challenge{}, &InvalidChallengeError{ChallengeID: p.ID, Reason: "empty skill id"}
		}
	}
	if p.Timer != nil && *p.Timer <= 0 {
		return Challenge{}, &InvalidChallengeError{ChallengeID: p.ID, Reason: "timer must be positive"}
	}

	c := Challenge{
		id:         p.ID,
		status:     p.Status,
		skillIDs:   slices.Clone(p.SkillIDs),
		difficulty: p.Difficulty,
	}
	if p.Discriminant != nil {
		c.discriminant = *p.Discriminant
		c.calibrated = true
	}
	if p.Timer != nil {
		c.timer = *p.Timer
		c.timed = true
	}
	return c, nil
}

// MustChallenge is NewChallenge for static fixtures; it panics on error.
func MustChallenge(p ChallengeParams) Challenge {
	c, err := NewChallenge(p)
	if err != nil {
		panic(err)
	}
	return c
}

func (c Challenge) ID() string { return c.id }
func (c Challenge) Status() Status { return c.status }
func (c Challenge) Difficulty() float64 { return c.difficulty }

// SkillIDs returns a copy of the challenge's skill ids.
func (c Challenge) SkillIDs() []string { return slices.Clone(c.skillIDs) }

// HasSkill reports whether the challenge tests skillID.
func (c Challenge) HasSkill(skillID string) bool { return slices.Contains(c.skillIDs, skillID) }

// Discriminant returns the IRT discriminant, if the challenge is calibrated.
func (c Challenge) Discriminant() (float64, bool) { return c.discriminant, c.calibrated }

// Timer returns the time limit, if any.
func (c Challenge) Timer() (time.Duration, bool) { return c.timer, c.timed }

func (c Challenge) IsTimed() bool { return c.timed }
func (c Challenge) IsCalibrated() bool { return c.calibrated }
func (c Challenge) IsSelectable() bool { return c.status.IsSelectable() }
