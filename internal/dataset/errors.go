package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks caller mistakes: bad tokens, unknown columns, out of range options.
	ErrValidation = errors.New("validation error")
	// ErrDataState marks failures that depend on the data itself.
	ErrDataState = errors.New("data state error")

	ErrUnknownColumn = errors.New("unknown column")
	ErrNoRows        = errors.New("no rows left")
	ErrAllMissing    = errors.New("all values missing")
	ErrTypeMismatch  = errors.New("type mismatch")
)

// ValidationError reports a rejected argument.
type ValidationError struct {
	Field string
	Value string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Msg)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}
	return []error{ErrValidation, e.Err}
}

// DataStateError reports an operation the data cannot support. The input
// dataset is always left untouched when one is returned.
type DataStateError struct {
	Kind   error
	Column string
	Msg    string
}

func (e *DataStateError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%v in column %q: %s", e.Kind, e.Column, e.Msg)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Msg)
}

func (e *DataStateError) Unwrap() []error {
	if e.Kind == nil {
		return []error{ErrDataState}
	}
	return []error{ErrDataState, e.Kind}
}

// Invalid builds a ValidationError.
func Invalid(field, value, format string, args ...any) error {
	return &ValidationError{Field: field, Value: value, Msg: fmt.Sprintf(format, args...)}
}

// DataState builds a DataStateError of the given kind.
func DataState(kind error, column, format string, args ...any) error {
	return &DataStateError{Kind: kind, Column: column, Msg: fmt.Sprintf(format, args...)}
}
