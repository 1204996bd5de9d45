package view

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingOptionValue is matched by MissingOptionValueError.
	ErrMissingOptionValue = errors.New("missing option value")
	// ErrOptionValue is matched by OptionValueError.
	ErrOptionValue = errors.New("invalid option value")
)

// MissingOptionValueError is returned when an Option is the last argument.
type MissingOptionValueError struct {
	Option Option
}

func (e *MissingOptionValueError) Error() string {
	return fmt.Sprintf("option %q has no value", string(e.Option))
}

// Is reports whether target is ErrMissingOptionValue.
func (e *MissingOptionValueError) Is(target error) bool {
	return target == ErrMissingOptionValue
}

// OptionValueError is returned when a recognized option holds a value of the wrong shape.
type OptionValueError struct {
	Option Option
	Value  any
	Reason string
}

func (e *OptionValueError) Error() string {
	return fmt.Sprintf("option %q: %s (got %v)", string(e.Option), e.Reason, e.Value)
}

// Is reports whether target is ErrOptionValue.
func (e *OptionValueError) Is(target error) bool {
	return target == ErrOptionValue
}
