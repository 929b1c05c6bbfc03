// Package jobs manages employer job postings and their custom questions.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hirescore/internal/logging"
	"hirescore/internal/store"
	"hirescore/pkg/models"
)

var (
	ErrJobNotFound = store.ErrJobNotFound
	ErrInvalidJob  = errors.New("invalid job")
)

type Store interface {
	CreateJob(ctx context.Context, job *models.Job) error
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	GetActiveJob(ctx context.Context, jobID string) (*models.Job, error)
	ListActiveJobs(ctx context.Context) ([]*models.Job, error)
	ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error)
	UpdateJobStatus(ctx context.Context, jobID, employerID string, status models.JobStatus) error
}

type Service struct {
	store  Store
	logger logging.Logger
}

func NewService(st Store, logger logging.Logger) *Service {
	return &Service{store: st, logger: logger.WithField("component", "jobs")}
}

// Create posts a new ACTIVE job with its questions in one transaction
func (s *Service) Create(ctx context.Context, employerID string, req models.CreateJobRequest) (*models.Job, error) {
	job := &models.Job{
		EmployerID:   employerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Requirements: strings.TrimSpace(req.Requirements),
		Location:     strings.TrimSpace(req.Location),
		Salary:       strings.TrimSpace(req.Salary),
		Type:         models.JobType(req.Type),
		Status:       models.JobStatusActive,
	}
	if job.Type == "" {
		job.Type = models.JobTypeFullTime
	}
	if job.Title == "" || job.Description == "" {
		return nil, fmt.Errorf("%w: title and description are required", ErrInvalidJob)
	}

	questions, err := buildQuestions(req.CustomQuestions)
	if err != nil {
		return nil, err
	}
	job.Questions = questions

	if err := s.store.CreateJob(ctx, job); err != nil {
		return nil, err
	}

	s.logger.Info("Job created", map[string]interface{}{
		"job_id":      job.ID,
		"employer_id": employerID,
		"questions":   len(job.Questions),
	})
	return job, nil
}

func buildQuestions(reqs []models.CreateQuestionRequest) ([]models.Question, error) {
	questions := make([]models.Question, 0, len(reqs))
	for i, q := range reqs {
		text := strings.TrimSpace(q.Question)
		if text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInvalidJob, i+1)
		}

		var options []string
		for _, opt := range q.Options {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}

		qType := models.QuestionType(q.Type)
		if qType == models.QuestionMultipleChoice && len(options) == 0 {
			return nil, fmt.Errorf("%w: multiple choice question %q needs options", ErrInvalidJob, text)
		}
		if qType != models.QuestionMultipleChoice {
			options = nil
		}

		position := q.Order
		if position == 0 {
			position = i
		}

		questions = append(questions, models.Question{
			Text:     text,
			Type:     qType,
			Required: q.Required,
			Position: position,
			Options:  options,
		})
	}
	return questions, nil
}

// ListActive returns open postings, newest first
func (s *Service) ListActive(ctx context.Context) ([]*models.Job, error) {
	return s.store.ListActiveJobs(ctx)
}

// GetActive returns one open posting; paused and closed jobs look missing
func (s *Service) GetActive(ctx context.Context, jobID string) (*models.Job, error) {
	return s.store.GetActiveJob(ctx, jobID)
}

func (s *Service) ListForEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	return s.store.ListJobsByEmployer(ctx, employerID)
}

// UpdateStatus opens, pauses or closes a job owned by employerID
func (s *Service) UpdateStatus(ctx context.Context, jobID, employerID, rawStatus string) (*models.Job, error) {
	status, err := models.ParseJobStatus(rawStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJob, err)
	}

	if err := s.store.UpdateJobStatus(ctx, jobID, employerID, status); err != nil {
		return nil, err
	}

	s.logger.Info("Job status updated", map[string]interface{}{
		"job_id": jobID,
		"status": string(status),
	})
	return s.store.GetJob(ctx, jobID)
}
