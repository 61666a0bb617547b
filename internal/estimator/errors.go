package estimator

import (
	"errors"
	"fmt"

	"covid-estimator/internal/model"
)

var (
	// ErrNotANumber aliases the model coercion error so callers can test
	// against a single sentinel.
	ErrNotANumber = model.ErrNotANumber

	ErrOutOfRange          = errors.New("value out of integer range")
	ErrMissingInput        = errors.New("missing input")
	ErrMissingPrecondition = errors.New("missing precondition")
	ErrCycle               = errors.New("dependency cycle")
	ErrUnknownStage        = errors.New("unknown stage")
)

// Skip records a field a stage could not derive for one branch.
type Skip struct {
	Scenario string
	Field    model.Field
	Err      error
}

func (s Skip) Code() string {
	return Code(s.Err)
}

func (s Skip) String() string {
	return fmt.Sprintf("%s.%s not derived: %v", s.Scenario, s.Field, s.Err)
}

// Code maps a stage error to its message code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotANumber):
		return model.CodeNotANumber
	case errors.Is(err, ErrOutOfRange):
		return model.CodeOutOfRange
	case errors.Is(err, ErrMissingInput):
		return model.CodeMissingInput
	case errors.Is(err, ErrMissingPrecondition):
		return model.CodeMissingPrecondition
	}
	return model.CodeFieldSkipped
}

func missingInput(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingInput, name)
}
