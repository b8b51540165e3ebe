package catalog

import (
	"fmt"
	"strings"
)

// AnswerResult is the outcome of a single answer.
type AnswerResult string

const (
	ResultCorrect   AnswerResult = "correct"
	ResultIncorrect AnswerResult = "incorrect"
	ResultAbandoned AnswerResult = "abandoned"
	ResultTimedOut  AnswerResult = "timed-out"
)

// IsCorrect reports whether the answer counts as a success.
func (r AnswerResult) IsCorrect() bool { return r == ResultCorrect }

// ParseResult parses an answer result. Short forms ok/ko/aband are accepted.
func ParseResult(s string) (AnswerResult, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "correct", "ok":
		return ResultCorrect, nil
	case "incorrect", "ko":
		return ResultIncorrect, nil
	case "abandoned", "aband":
		return ResultAbandoned, nil
	case "timed-out", "timedout":
		return ResultTimedOut, nil
	default:
		return "", fmt.Errorf("unknown answer result %q", s)
	}
}

// ParseResults parses a list of answer results, failing on the first unknown one.
func ParseResults(values []string) ([]AnswerResult, error) {
	out := make([]AnswerResult, 0, len(values))
	for i, v := range values {
		r, err := ParseResult(v)
		if err != nil {
			return nil, fmt.Errorf("result %d: %w", i, err)
		}
		out = append(out, r)
	}
	return out, nil
}

// Answer records one answer of a test-taker. Position is the index of the
// answer in the assessment's answer sequence.
type Answer struct {
	ChallengeID string
	Result      AnswerResult
	Position    int
}

// KnowledgeStatus is the validity of a knowledge element.
type KnowledgeStatus string

const (
	KnowledgeValidated   KnowledgeStatus = "validated"
	KnowledgeInvalidated KnowledgeStatus = "invalidated"
)

// KnowledgeElement is a discrete fact about the test-taker's mastery of one skill.
type KnowledgeElement struct {
	SkillID string
	Status  KnowledgeStatus
}

// IsValidated reports whether the element asserts mastery.
func (ke KnowledgeElement) IsValidated() bool { return ke.Status == KnowledgeValidated }

// AnsweredChallengeIDs returns the set of challenge ids present in answers.
func AnsweredChallengeIDs(answers []Answer) map[string]bool {
	ids := make(map[string]bool, len(answers))
	for _, a := range answers {
		ids[a.ChallengeID] = true
	}
	return ids
}
