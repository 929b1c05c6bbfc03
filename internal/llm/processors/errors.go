package processors

import (
	"errors"
	"fmt"
)

// ErrEvaluationFailure is the single category every evaluation problem belongs to.
// Callers check it with errors.Is and fall back.
var ErrEvaluationFailure = errors.New("evaluation failed")

// ParseError means the model output held no parseable JSON object
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("evaluation parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrEvaluationFailure, e.Err}
}

// ShapeError means the JSON parsed but a field is missing or has the wrong type
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("evaluation shape error: %s %s", e.Field, e.Reason)
}

func (e *ShapeError) Unwrap() error {
	return ErrEvaluationFailure
}
