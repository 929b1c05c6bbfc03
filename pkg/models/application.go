package models

import "time"

// ResumePlaceholderURL marks a submission whose resume was pasted as text.
const ResumePlaceholderURL = "text-resume"

// Application is a candidate's submission against one job.
type Application struct {
	ID             string            `json:"id"`
	JobID          string            `json:"jobId"`
	CandidateID    *string           `json:"candidateId,omitempty"`
	CandidateName  string            `json:"candidateName"`
	CandidateEmail string            `json:"candidateEmail"`
	CandidatePhone *string           `json:"candidatePhone"`
	ResumeText     string            `json:"resumeText"`
	ResumeURL      string            `json:"resumeUrl"`
	GithubURL      *string           `json:"githubUrl"`
	WebsiteURL     *string           `json:"websiteUrl"`
	CoverLetter    *string           `json:"coverLetter"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// QuestionAnswer is a candidate's answer to one question.
type QuestionAnswer struct {
	ApplicationID string       `json:"-"`
	QuestionID    string       `json:"questionId"`
	Question      string       `json:"question,omitempty"`
	QuestionType  QuestionType `json:"questionType,omitempty"`
	Required      bool         `json:"required"`
	Answer        string       `json:"answer"`
}

// ScoreSource tells operators whether a score came from the model or the fallback policy.
type ScoreSource string

const (
	ScoreSourceAI       ScoreSource = "ai"
	ScoreSourceFallback ScoreSource = "fallback"
)

// Score is the persisted evaluation of one application.
type Score struct {
	ApplicationID    string      `json:"-"`
	ResumeScore      int         `json:"resumeScore"`
	CoverLetterScore *int        `json:"coverLetterScore"`
	OverallScore     int         `json:"overallScore"`
	Strengths        []string    `json:"strengths"`
	Improvements     []string    `json:"improvements"`
	Tips             []string    `json:"tips"`
	Feedback         string      `json:"feedback"`
	Source           ScoreSource `json:"source"`
	CreatedAt        time.Time   `json:"createdAt"`
}

// EvaluationRequest carries the inputs of one model evaluation.
type EvaluationRequest struct {
	JobTitle       string
	JobDescription string
	ResumeText     string
	CoverLetter    string
}

// EvaluationResult is the validated, clamped output of the evaluation client
// or the fallback policy.
type EvaluationResult struct {
	ResumeScore      int      `json:"resumeScore"`
	CoverLetterScore *int     `json:"coverLetterScore,omitempty"`
	OverallScore     int      `json:"overallScore"`
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	Tips             []string `json:"tips"`
	Feedback         string   `json:"feedback"`
}

// ToScore attaches the result to an application.
func (r *EvaluationResult) ToScore(applicationID string, source ScoreSource) *Score {
	return &Score{
		ApplicationID:    applicationID,
		ResumeScore:      r.ResumeScore,
		CoverLetterScore: r.CoverLetterScore,
		OverallScore:     r.OverallScore,
		Strengths:        r.Strengths,
		Improvements:     r.Improvements,
		Tips:             r.Tips,
		Feedback:         r.Feedback,
		Source:           source,
	}
}

// ApplicationDetail is the full view an owning employer gets.
type ApplicationDetail struct {
	Application
	Job             *Job             `json:"job"`
	Score           *Score           `json:"scores"`
	QuestionAnswers []QuestionAnswer `json:"questionAnswers"`
}

// StatusContext is everything the status-update path needs about one application.
type StatusContext struct {
	ApplicationID  string
	JobID          string
	JobTitle       string
	EmployerID     string
	CompanyName    string
	CandidateName  string
	CandidateEmail string
	Status         ApplicationStatus
}

// StatusNotification is the payload handed to the notifier.
type StatusNotification struct {
	CandidateName  string
	CandidateEmail string
	JobTitle       string
	CompanyName    string
	Status         ApplicationStatus
	JobID          string
	ApplicationID  string
}

// ApplicationFilter scopes an application listing. Empty fields are ignored
// but at least one must be set.
type ApplicationFilter struct {
	EmployerID  string
	JobID       string
	CandidateID string
}
