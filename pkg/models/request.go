package models

// SubmitApplicationRequest is the public application payload.
type SubmitApplicationRequest struct {
	JobID           string            `json:"jobId" validate:"required"`
	CandidateName   string            `json:"candidateName" validate:"required"`
	CandidateEmail  string            `json:"candidateEmail" validate:"required,candidate_email"`
	CandidatePhone  string            `json:"candidatePhone,omitempty" validate:"omitempty,max=50"`
	ResumeText      string            `json:"resumeText"`
	ResumeURL       string            `json:"resumeUrl,omitempty"`
	GithubURL       string            `json:"githubUrl,omitempty" validate:"omitempty,absolute_url"`
	WebsiteURL      string            `json:"websiteUrl,omitempty" validate:"omitempty,absolute_url"`
	CoverLetter     string            `json:"coverLetter,omitempty"`
	QuestionAnswers map[string]string `json:"questionAnswers"`
}

// UpdateApplicationStatusRequest is the employer status change payload.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

// CreateQuestionRequest describes one custom question on a new job.
type CreateQuestionRequest struct {
	Question string   `json:"question" validate:"required"`
	Type     string   `json:"type" validate:"required,oneof=TEXT TEXTAREA MULTIPLE_CHOICE YES_NO NUMBER"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
	Order    int      `json:"order"`
}

// CreateJobRequest is the employer job posting payload.
type CreateJobRequest struct {
	Title           string                  `json:"title" validate:"required"`
	Description     string                  `json:"description" validate:"required"`
	Requirements    string                  `json:"requirements,omitempty"`
	Location        string                  `json:"location,omitempty"`
	Salary          string                  `json:"salary,omitempty"`
	Type            string                  `json:"type" validate:"omitempty,oneof=FULL_TIME PART_TIME CONTRACT FREELANCE INTERNSHIP"`
	CustomQuestions []CreateQuestionRequest `json:"customQuestions" validate:"dive"`
}

// UpdateJobStatusRequest changes a posting's status.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PAUSED CLOSED"`
}

// SignUpRequest creates an account.
type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Name        string `json:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty"`
	Role        string `json:"role" validate:"omitempty,oneof=EMPLOYER CANDIDATE"`
}

// SignInRequest opens a session.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
