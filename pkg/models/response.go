package models

import "time"

// ScoreSummary is the score subset returned right after submission.
type ScoreSummary struct {
	ResumeScore      int  `json:"resumeScore"`
	CoverLetterScore *int `json:"coverLetterScore"`
	OverallScore     int  `json:"overallScore"`
}

// SubmitApplicationResponse is returned with 201 on submission.
type SubmitApplicationResponse struct {
	Message             string        `json:"message"`
	ApplicationID       string        `json:"applicationId"`
	EvaluationCompleted bool          `json:"evaluationCompleted"`
	Scores              *ScoreSummary `json:"scores"`
}

// UpdateApplicationStatusResponse is returned with 200 on a status change.
type UpdateApplicationStatusResponse struct {
	Message string            `json:"message"`
	Status  ApplicationStatus `json:"status"`
}

// AuthResponse is returned by sign-up and sign-in.
type AuthResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
	Token   string `json:"token,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string      `json:"error"`
	Details   interface{} `json:"details,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// EventType names a domain event published to Redis.
type EventType string

const (
	EventApplicationSubmitted     EventType = "APPLICATION_SUBMITTED"
	EventApplicationStatusChanged EventType = "APPLICATION_STATUS_CHANGED"
)

// Event is the JSON envelope published on the event channel.
type Event struct {
	Type          EventType         `json:"type"`
	ApplicationID string            `json:"applicationId"`
	JobID         string            `json:"jobId"`
	Data          map[string]string `json:"data,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}
