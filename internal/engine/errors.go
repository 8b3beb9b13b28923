package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the single error class of the XP model: negative XP
	// values, levels below 1 and unknown task kinds.
	ErrInvalidInput = errors.New("invalid input")

	ErrTaskNotFound  = errors.New("task not found")
	ErrAlreadyDone   = errors.New("task is already done")
	ErrNotDone       = errors.New("task is not done")
	ErrEventConsumed = errors.New("completion event already consumed")
)

// InvalidInputError names the offending field and value. It matches
// ErrInvalidInput with errors.Is.
type InvalidInputError struct {
	Field string
	Value any
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Value)
}

func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(field string, value any) error {
	return &InvalidInputError{Field: field, Value: value}
}
