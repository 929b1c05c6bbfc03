// Package applications runs the application-scoring pipeline and the
// employer status workflow.
package applications

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"hirescore/internal/background"
	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/internal/scoring"
	"hirescore/internal/store"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

// Store is the persistence the service depends on
type Store interface {
	GetJob(ctx context.Context, jobID string) (*models.Job, error)
	GetActiveJob(ctx context.Context, jobID string) (*models.Job, error)
	CreateApplication(ctx context.Context, app *models.Application, answers []models.QuestionAnswer) error
	RecordScore(ctx context.Context, score *models.Score) error
	GetStatusContext(ctx context.Context, applicationID string) (*models.StatusContext, error)
	SetApplicationStatus(ctx context.Context, applicationID, employerID string, status models.ApplicationStatus) (models.ApplicationStatus, error)
	GetApplicationDetail(ctx context.Context, applicationID string) (*models.ApplicationDetail, error)
	ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]*models.ApplicationDetail, error)
	ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error)
}

type Evaluator interface {
	Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error)
}

type Notifier interface {
	NotifyStatusChange(ctx context.Context, notification models.StatusNotification) bool
}

// Dispatcher runs detached work; see background.TaskManager
type Dispatcher interface {
	Submit(task background.Task) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.Event) error
}

// SubmitResult is the outcome of a successful submission
type SubmitResult struct {
	Application *models.Application
	Answers     []models.QuestionAnswer
	Score       *models.Score
	// EvaluationCompleted is true only when a model-derived score was stored
	EvaluationCompleted bool
}

// Service wires the validator, store, evaluator and notifier together
type Service struct {
	store      Store
	evaluator  Evaluator
	notifier   Notifier
	dispatcher Dispatcher
	events     EventPublisher
	validator  *Validator
	strict     bool
	logger     logging.Logger
	now        func() time.Time

	// scoreTimeout bounds evaluation plus the score write, independent of the caller
	scoreTimeout time.Duration
}

// scoreWriteGrace is the time left for the score write after a slow evaluation
const scoreWriteGrace = 5 * time.Second

func NewService(cfg *config.Config, st Store, evaluator Evaluator, notifier Notifier, dispatcher Dispatcher, events EventPublisher, logger logging.Logger) *Service {
	evalTimeout := cfg.LLM.Timeout
	if evalTimeout <= 0 {
		evalTimeout = 30 * time.Second
	}
	return &Service{
		store:        st,
		evaluator:    evaluator,
		notifier:     notifier,
		dispatcher:   dispatcher,
		events:       events,
		validator:    NewValidator(),
		strict:       cfg.Applications.StrictTransitions,
		scoreTimeout: evalTimeout + scoreWriteGrace,
		logger:       logger.WithField("component", "applications"),
		now:          time.Now,
	}
}

// Submit validates and stores an application, then scores it. The score is
// written after the create transaction commits; evaluation failures are
// absorbed by the fallback policy. Scoring is detached from ctx cancellation
// once the row exists, so a client disconnect cannot leave it unscored.
// candidateID links a signed-in candidate.
func (s *Service) Submit(ctx context.Context, req *models.SubmitApplicationRequest, candidateID *string) (*SubmitResult, error) {
	Normalize(req)
	if err := s.validator.ValidatePayload(req); err != nil {
		return nil, err
	}

	job, err := s.store.GetActiveJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}

	answers, err := s.validator.ValidateAnswers(job, req.QuestionAnswers)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:             utils.GenerateID(),
		JobID:          job.ID,
		CandidateID:    candidateID,
		CandidateName:  req.CandidateName,
		CandidateEmail: req.CandidateEmail,
		CandidatePhone: utils.NilIfEmpty(req.CandidatePhone),
		ResumeText:     req.ResumeText,
		ResumeURL:      req.ResumeURL,
		GithubURL:      utils.NilIfEmpty(req.GithubURL),
		WebsiteURL:     utils.NilIfEmpty(req.WebsiteURL),
		CoverLetter:    utils.NilIfEmpty(req.CoverLetter),
		Status:         models.StatusPending,
	}
	if err := s.store.CreateApplication(ctx, app, answers); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"application_id": app.ID,
		"job_id":         job.ID,
	}
	s.logger.Info("Application created", fields)

	scoreCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.scoreTimeout)
	defer cancel()

	result := &SubmitResult{Application: app, Answers: answers}
	result.Score, result.EvaluationCompleted = s.score(scoreCtx, job, app, fields)

	s.publish(models.Event{
		Type:          models.EventApplicationSubmitted,
		ApplicationID: app.ID,
		JobID:         job.ID,
		Data:          map[string]string{"evaluationSource": string(result.Score.Source)},
	})

	return result, nil
}

// score evaluates the application and records exactly one score for it
func (s *Service) score(ctx context.Context, job *models.Job, app *models.Application, fields map[string]interface{}) (*models.Score, bool) {
	resumeContent := utils.GetStringOrDefault(app.ResumeText, ResumePlaceholderText)
	var coverLetter string
	if app.CoverLetter != nil {
		coverLetter = *app.CoverLetter
	}

	source := models.ScoreSourceAI
	evaluation, err := s.evaluator.Evaluate(ctx, models.EvaluationRequest{
		JobTitle:       job.Title,
		JobDescription: job.Description,
		ResumeText:     resumeContent,
		CoverLetter:    coverLetter,
	})
	if err != nil {
		s.logger.Warn("AI evaluation failed, using fallback scores", withField(fields, "error", err.Error()))
		evaluation = scoring.FallbackResult(coverLetter != "")
		source = models.ScoreSourceFallback
	}

	score := evaluation.ToScore(app.ID, source)
	if err := s.recordScore(ctx, score, fields); err != nil {
		if errors.Is(err, store.ErrDuplicateScore) {
			s.logger.Error("Duplicate score write for application, this is a bug", withField(fields, "error", err.Error()))
		} else {
			s.logger.Error("Failed to record score", withField(fields, "error", err.Error()))
		}
		return score, false
	}

	s.logger.Info("Application scored", withFields(fields, map[string]interface{}{
		"evaluation_source": string(source),
		"overall_score":     score.OverallScore,
	}))
	return score, source == models.ScoreSourceAI
}

// recordScore writes the score, retrying a failed write once. A duplicate is
// never retried.
func (s *Service) recordScore(ctx context.Context, score *models.Score, fields map[string]interface{}) error {
	err := s.store.RecordScore(ctx, score)
	if err == nil || errors.Is(err, store.ErrDuplicateScore) || ctx.Err() != nil {
		return err
	}
	s.logger.Warn("Score write failed, retrying", withField(fields, "error", err.Error()))
	return s.store.RecordScore(ctx, score)
}

// UpdateStatus changes an application's status on behalf of the employer
// owning its job and returns the new status. A change schedules the candidate
// notification; setting the current status again does nothing.
func (s *Service) UpdateStatus(ctx context.Context, applicationID, employerID, rawStatus string) (models.ApplicationStatus, error) {
	status, err := models.ParseStatus(rawStatus)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidStatus, rawStatus)
	}

	sc, err := s.store.GetStatusContext(ctx, applicationID)
	if err != nil {
		return "", err
	}
	if sc.EmployerID != employerID {
		return "", ErrAccessDenied
	}
	if sc.Status == status {
		return status, nil
	}
	if s.strict && !models.IsTransitionAllowed(sc.Status, status) {
		return "", &TransitionError{From: sc.Status, To: status}
	}

	previous, err := s.store.SetApplicationStatus(ctx, applicationID, employerID, status)
	if err != nil {
		return "", err
	}

	s.logger.Info("Application status updated", map[string]interface{}{
		"application_id": applicationID,
		"job_id":         sc.JobID,
		"from":           string(previous),
		"to":             string(status),
	})

	if previous != status {
		s.dispatchNotification(models.StatusNotification{
			CandidateName:  sc.CandidateName,
			CandidateEmail: sc.CandidateEmail,
			JobTitle:       sc.JobTitle,
			CompanyName:    sc.CompanyName,
			Status:         status,
			JobID:          sc.JobID,
			ApplicationID:  applicationID,
		})
		s.publish(models.Event{
			Type:          models.EventApplicationStatusChanged,
			ApplicationID: applicationID,
			JobID:         sc.JobID,
			Data:          map[string]string{"from": string(previous), "to": string(status)},
		})
	}

	return status, nil
}

// Get returns the full application for the employer owning its job
func (s *Service) Get(ctx context.Context, applicationID, employerID string) (*models.ApplicationDetail, error) {
	detail, err := s.store.GetApplicationDetail(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if detail.Job == nil || detail.Job.EmployerID != employerID {
		return nil, ErrAccessDenied
	}
	return detail, nil
}

// ListForJob returns a job's applications, best score first, for its owner
func (s *Service) ListForJob(ctx context.Context, jobID, employerID string) ([]*models.ApplicationDetail, error) {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.EmployerID != employerID {
		return nil, ErrAccessDenied
	}
	return s.store.ListApplications(ctx, models.ApplicationFilter{JobID: jobID})
}

// ListForEmployer returns applications across the employer's jobs, best score
// first. A non-empty jobID narrows the list to that job.
func (s *Service) ListForEmployer(ctx context.Context, employerID, jobID string) ([]*models.ApplicationDetail, error) {
	return s.store.ListApplications(ctx, models.ApplicationFilter{EmployerID: employerID, JobID: jobID})
}

// ListForCandidate returns the signed-in candidate's own applications, newest first
func (s *Service) ListForCandidate(ctx context.Context, candidateID string) ([]*models.ApplicationDetail, error) {
	return s.store.ListApplications(ctx, models.ApplicationFilter{CandidateID: candidateID})
}

// Dashboard builds the employer overview from the owned jobs and their applications
func (s *Service) Dashboard(ctx context.Context, employerID string) (*models.Dashboard, error) {
	jobs, err := s.store.ListJobsByEmployer(ctx, employerID)
	if err != nil {
		return nil, err
	}
	apps, err := s.store.ListApplications(ctx, models.ApplicationFilter{EmployerID: employerID})
	if err != nil {
		return nil, err
	}

	monthStart := startOfMonth(s.now())
	perJob := make(map[string]int, len(jobs))
	dashboard := &models.Dashboard{
		Stats:              models.DashboardStats{TotalApplications: len(apps)},
		Jobs:               make([]models.DashboardJob, 0, len(jobs)),
		RecentApplications: make([]models.RecentApplication, 0, models.RecentApplicationsLimit),
	}
	for _, app := range apps {
		perJob[app.JobID]++
		switch {
		case app.Status == models.StatusPending:
			dashboard.Stats.PendingApplications++
		case app.Status == models.StatusHired && !app.UpdatedAt.Before(monthStart):
			dashboard.Stats.HiredThisMonth++
		}
	}
	for _, job := range jobs {
		if job.Status == models.JobStatusActive {
			dashboard.Stats.ActiveJobs++
		}
		dashboard.Jobs = append(dashboard.Jobs, models.DashboardJob{
			ID:                job.ID,
			Title:             job.Title,
			Status:            job.Status,
			Type:              job.Type,
			Location:          job.Location,
			CreatedAt:         job.CreatedAt,
			ApplicationsCount: perJob[job.ID],
		})
	}

	recent := append([]*models.ApplicationDetail(nil), apps...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].CreatedAt.After(recent[j].CreatedAt)
	})
	if len(recent) > models.RecentApplicationsLimit {
		recent = recent[:models.RecentApplicationsLimit]
	}
	for _, app := range recent {
		item := models.RecentApplication{
			ID:             app.ID,
			CandidateName:  app.CandidateName,
			CandidateEmail: app.CandidateEmail,
			Status:         app.Status,
			CreatedAt:      app.CreatedAt,
		}
		if app.Job != nil {
			item.JobTitle = app.Job.Title
		}
		if app.Score != nil {
			overall, resume := app.Score.OverallScore, app.Score.ResumeScore
			item.OverallScore = &overall
			item.ResumeScore = &resume
			item.CoverLetterScore = app.Score.CoverLetterScore
		}
		dashboard.RecentApplications = append(dashboard.RecentApplications, item)
	}
	return dashboard, nil
}

func startOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func (s *Service) dispatchNotification(notification models.StatusNotification) {
	err := s.dispatcher.Submit(background.Task{
		Type: background.TaskTypeNotification,
		Metadata: map[string]interface{}{
			"application_id": notification.ApplicationID,
			"status":         string(notification.Status),
		},
		Run: func(ctx context.Context) error {
			if !s.notifier.NotifyStatusChange(ctx, notification) {
				return errors.New("status email was not accepted by the transport")
			}
			return nil
		},
	})
	if err != nil {
		s.logger.Error("Failed to schedule status notification", map[string]interface{}{
			"application_id": notification.ApplicationID,
			"error":          err.Error(),
		})
	}
}

func (s *Service) publish(event models.Event) {
	event.OccurredAt = time.Now().UTC()
	err := s.dispatcher.Submit(background.Task{
		Type:     background.TaskTypeEvent,
		Metadata: map[string]interface{}{"event_type": string(event.Type)},
		Run: func(ctx context.Context) error {
			return s.events.Publish(ctx, event)
		},
	})
	if err != nil {
		s.logger.Warn("Failed to schedule event", map[string]interface{}{
			"event_type":     string(event.Type),
			"application_id": event.ApplicationID,
			"error":          err.Error(),
		})
	}
}

func withField(fields map[string]interface{}, key string, value interface{}) map[string]interface{} {
	return withFields(fields, map[string]interface{}{key: value})
}

func withFields(fields, extra map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields)+len(extra))
	for k, v := range fields {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
