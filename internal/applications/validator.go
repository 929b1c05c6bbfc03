package applications

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"hirescore/internal/api/validation"
	"hirescore/pkg/models"
)

// ResumePlaceholderText stands in for the resume when only a file was uploaded
const ResumePlaceholderText = "Resume uploaded as file. Please refer to the uploaded document for detailed candidate information."

// Validator runs the payload checks of a submission. Methods return the
// first failing rule as a *ValidationError.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validation.New()}
}

// Normalize trims the payload in place and applies the resume URL placeholder
func Normalize(req *models.SubmitApplicationRequest) {
	req.JobID = strings.TrimSpace(req.JobID)
	req.CandidateName = strings.TrimSpace(req.CandidateName)
	req.CandidateEmail = strings.TrimSpace(req.CandidateEmail)
	req.CandidatePhone = strings.TrimSpace(req.CandidatePhone)
	req.ResumeText = strings.TrimSpace(req.ResumeText)
	req.ResumeURL = strings.TrimSpace(req.ResumeURL)
	req.GithubURL = strings.TrimSpace(req.GithubURL)
	req.WebsiteURL = strings.TrimSpace(req.WebsiteURL)
	req.CoverLetter = strings.TrimSpace(req.CoverLetter)
	if req.ResumeURL == "" {
		req.ResumeURL = models.ResumePlaceholderURL
	}
	if req.QuestionAnswers == nil {
		req.QuestionAnswers = map[string]string{}
	}
}

// ValidatePayload checks everything that does not need the job
func (v *Validator) ValidatePayload(req *models.SubmitApplicationRequest) error {
	if req.JobID == "" {
		return invalid("jobId", "Job ID is required")
	}
	if req.CandidateName == "" {
		return invalid("candidateName", "Name is required")
	}
	if req.CandidateEmail == "" {
		return invalid("candidateEmail", "Email is required")
	}
	if v.validate.Var(req.CandidateEmail, "candidate_email") != nil {
		return invalid("candidateEmail", "Valid email is required")
	}
	if req.CandidatePhone != "" && v.validate.Var(req.CandidatePhone, "max=50") != nil {
		return invalid("candidatePhone", "Phone number is too long")
	}
	if req.ResumeText == "" && (req.ResumeURL == "" || req.ResumeURL == models.ResumePlaceholderURL) {
		return invalid("resumeText", "Resume content or file is required")
	}
	if req.GithubURL != "" && v.validate.Var(req.GithubURL, "absolute_url") != nil {
		return invalid("githubUrl", "Invalid GitHub URL")
	}
	if req.WebsiteURL != "" && v.validate.Var(req.WebsiteURL, "absolute_url") != nil {
		return invalid("websiteUrl", "Invalid website URL")
	}
	return nil
}

// ValidateAnswers checks the answers against the job's questions and returns
// them in question order, with blank optional answers dropped.
func (v *Validator) ValidateAnswers(job *models.Job, answers map[string]string) ([]models.QuestionAnswer, error) {
	for questionID := range answers {
		if _, ok := job.QuestionByID(questionID); !ok {
			return nil, invalid("questionAnswers", fmt.Sprintf("Unknown question: %s", questionID))
		}
	}

	out := make([]models.QuestionAnswer, 0, len(answers))
	for _, q := range job.Questions {
		answer := strings.TrimSpace(answers[q.ID])
		if answer == "" {
			if q.Required {
				return nil, invalid("questionAnswers", "Please answer required question: "+q.Text)
			}
			continue
		}
		if err := checkAnswerType(q, answer); err != nil {
			return nil, err
		}
		out = append(out, models.QuestionAnswer{
			QuestionID:   q.ID,
			Question:     q.Text,
			QuestionType: q.Type,
			Required:     q.Required,
			Answer:       answer,
		})
	}
	return out, nil
}

func checkAnswerType(q models.Question, answer string) error {
	switch q.Type {
	case models.QuestionMultipleChoice:
		for _, option := range q.Options {
			if answer == option {
				return nil
			}
		}
		return invalid("questionAnswers", "Please choose one of the listed options for: "+q.Text)
	case models.QuestionYesNo:
		switch strings.ToLower(answer) {
		case "yes", "no":
			return nil
		}
		return invalid("questionAnswers", "Please answer yes or no for: "+q.Text)
	case models.QuestionNumber:
		if _, err := strconv.ParseFloat(answer, 64); err != nil {
			return invalid("questionAnswers", "Please enter a number for: "+q.Text)
		}
	}
	return nil
}
