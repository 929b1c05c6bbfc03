package models

import "time"

// Job is an employer-owned posting.
type Job struct {
	ID           string     `json:"id"`
	EmployerID   string     `json:"employerId"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Requirements string     `json:"requirements,omitempty"`
	Location     string     `json:"location,omitempty"`
	Salary       string     `json:"salary,omitempty"`
	Type         JobType    `json:"type"`
	Status       JobStatus  `json:"status"`
	CompanyName  string     `json:"companyName,omitempty"`
	Questions    []Question `json:"questions"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Question is a custom field attached to a job.
type Question struct {
	ID       string       `json:"id"`
	JobID    string       `json:"jobId"`
	Text     string       `json:"question"`
	Type     QuestionType `json:"type"`
	Required bool         `json:"required"`
	Position int          `json:"order"`
	Options  []string     `json:"options,omitempty"`
}

// RequiredQuestions returns the job's required questions in position order.
func (j *Job) RequiredQuestions() []Question {
	var out []Question
	for _, q := range j.Questions {
		if q.Required {
			out = append(out, q)
		}
	}
	return out
}

// QuestionByID looks up a question on the job.
func (j *Job) QuestionByID(id string) (Question, bool) {
	for _, q := range j.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
