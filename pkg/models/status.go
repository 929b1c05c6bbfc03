package models

import "fmt"

// ApplicationStatus mirrors the CHECK constraint on applications.status.
//
// Forward path:
//
//	PENDING ──► REVIEWING ──► INTERVIEWED ──► HIRED
//	   │            │              │
//	   └────────────┴──────────────┴──► REJECTED
//
// HIRED and REJECTED are terminal. Skipping ahead on the forward path is allowed.
type ApplicationStatus string

const (
	StatusPending     ApplicationStatus = "PENDING"
	StatusReviewing   ApplicationStatus = "REVIEWING"
	StatusInterviewed ApplicationStatus = "INTERVIEWED"
	StatusHired       ApplicationStatus = "HIRED"
	StatusRejected    ApplicationStatus = "REJECTED"
)

// AllStatuses lists every status in forward-path order.
var AllStatuses = []ApplicationStatus{
	StatusPending,
	StatusReviewing,
	StatusInterviewed,
	StatusHired,
	StatusRejected,
}

// ParseStatus converts a raw string to an ApplicationStatus, returning an error
// for unknown values.
func ParseStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	switch st {
	case StatusPending, StatusReviewing, StatusInterviewed, StatusHired, StatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("unknown application status %q", s)
}

// rank orders the non-rejected statuses along the forward path.
var rank = map[ApplicationStatus]int{
	StatusPending:     0,
	StatusReviewing:   1,
	StatusInterviewed: 2,
	StatusHired:       3,
}

// IsTerminal reports whether no transition may leave s.
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusHired || s == StatusRejected
}

// IsTransitionAllowed returns true when moving from → to is permitted.
// Setting the current status again is always allowed and is a no-op for callers.
func IsTransitionAllowed(from, to ApplicationStatus) bool {
	if from == to {
		return true
	}
	if from.IsTerminal() {
		return false
	}
	if to == StatusRejected {
		return true
	}
	return rank[to] > rank[from]
}

// Label renders the status for humans, e.g. "Interviewed".
func (s ApplicationStatus) Label() string {
	if s == "" {
		return ""
	}
	raw := string(s)
	out := []byte(raw[:1])
	for i := 1; i < len(raw); i++ {
		c := raw[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out = append(out, c)
	}
	return string(out)
}

// JobStatus mirrors the CHECK constraint on jobs.status.
type JobStatus string

const (
	JobStatusActive JobStatus = "ACTIVE"
	JobStatusPaused JobStatus = "PAUSED"
	JobStatusClosed JobStatus = "CLOSED"
)

// ParseJobStatus validates a raw job status.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusActive, JobStatusPaused, JobStatusClosed:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// JobType is the employment type of a posting.
type JobType string

const (
	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeFreelance  JobType = "FREELANCE"
	JobTypeInternship JobType = "INTERNSHIP"
)

// QuestionType is the input kind of a custom question.
type QuestionType string

const (
	QuestionText           QuestionType = "TEXT"
	QuestionTextarea       QuestionType = "TEXTAREA"
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionYesNo          QuestionType = "YES_NO"
	QuestionNumber         QuestionType = "NUMBER"
)

// Role is the account type of a user.
type Role string

const (
	RoleEmployer  Role = "EMPLOYER"
	RoleCandidate Role = "CANDIDATE"
)
