package scoring

import (
	"errors"
	"fmt"
	"strings"
)

// ErrConfiguration is matched by every *ConfigurationError.
var ErrConfiguration = errors.New("invalid scoring configuration")

// ConfigurationError lists the problems found in one piece of scoring
// configuration. It is returned before any score is computed.
type ConfigurationError struct {
	Subject  string
	Problems []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("invalid %s: %s", e.Subject, e.Problems[0])
	}
	return fmt.Sprintf("invalid %s:\n  %s", e.Subject, strings.Join(e.Problems, "\n  "))
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ErrInvalidTransition is returned for a lifecycle move that is not allowed.
var ErrInvalidTransition = errors.New("invalid assessment state transition")
