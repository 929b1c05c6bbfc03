package store

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrJobNotFound covers missing jobs and jobs that are not accepting applications
	ErrJobNotFound = errors.New("job not found")

	ErrApplicationNotFound = errors.New("application not found")

	// ErrDuplicateApplication is returned when the candidate email already applied to the job
	ErrDuplicateApplication = errors.New("an application for this job already exists for this email")

	// ErrDuplicateScore signals a second score write for one application, which is a bug
	ErrDuplicateScore = errors.New("score already recorded for application")

	ErrDuplicateEmail = errors.New("email already registered")
)
