package applications

import (
	"errors"
	"fmt"

	"hirescore/internal/store"
	"hirescore/pkg/models"
)

var (
	ErrJobNotFound          = store.ErrJobNotFound
	ErrApplicationNotFound  = store.ErrApplicationNotFound
	ErrDuplicateApplication = store.ErrDuplicateApplication

	ErrAccessDenied  = errors.New("access denied")
	ErrInvalidStatus = errors.New("invalid status")
)

// ValidationError reports the first failing rule on an application payload
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// TransitionError is returned when the status machine forbids a change
type TransitionError struct {
	From models.ApplicationStatus
	To   models.ApplicationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change application status from %s to %s", e.From, e.To)
}
