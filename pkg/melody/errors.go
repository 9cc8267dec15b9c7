package melody

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("invalid configuration")
	// ErrEvaluation is matched by every *EvaluationError.
	ErrEvaluation = errors.New("evaluation failed")
)

// ConfigError reports a malformed run configuration, such as an empty cantus
// firmus or one with pitches outside the encodable range.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// EvaluationError reports a genome the evaluator cannot score. Operators are
// contracted to produce legal genomes, so this always indicates a bug.
type EvaluationError struct {
	Locus  int
	Pitch  int
	Reason string
}

func (e *EvaluationError) Error() string {
	if e.Locus < 0 {
		return fmt.Sprintf("evaluation error: %s", e.Reason)
	}
	return fmt.Sprintf("evaluation error at locus %d (pitch %d): %s", e.Locus, e.Pitch, e.Reason)
}

func (e *EvaluationError) Is(target error) bool { return target == ErrEvaluation }
