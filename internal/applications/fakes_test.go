package applications

import (
	"context"
	"errors"
	"strings"
	"sync"

	"hirescore/internal/background"
	"hirescore/internal/store"
	"hirescore/pkg/models"
)

type fakeStore struct {
	mu      sync.Mutex
	jobs    map[string]*models.Job
	apps    map[string]*models.Application
	answers map[string][]models.QuestionAnswer
	scores  map[string]*models.Score

	scoreErr error
	// scoreFailures fails that many score writes before succeeding
	scoreFailures int
	scoreAttempts int
}

func newFakeStore(jobs ...*models.Job) *fakeStore {
	s := &fakeStore{
		jobs:    make(map[string]*models.Job),
		apps:    make(map[string]*models.Application),
		answers: make(map[string][]models.QuestionAnswer),
		scores:  make(map[string]*models.Score),
	}
	for _, j := range jobs {
		s.jobs[j.ID] = j
	}
	return s
}

func (s *fakeStore) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (s *fakeStore) GetActiveJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (s *fakeStore) CreateApplication(ctx context.Context, app *models.Application, answers []models.QuestionAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.apps {
		if existing.JobID == app.JobID && strings.EqualFold(existing.CandidateEmail, app.CandidateEmail) {
			return store.ErrDuplicateApplication
		}
	}
	copied := *app
	s.apps[app.ID] = &copied
	s.answers[app.ID] = append([]models.QuestionAnswer(nil), answers...)
	return nil
}

func (s *fakeStore) RecordScore(ctx context.Context, score *models.Score) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scoreAttempts++
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.scoreFailures > 0 {
		s.scoreFailures--
		return errors.New("write tcp: connection reset by peer")
	}
	if s.scoreErr != nil {
		return s.scoreErr
	}
	if _, exists := s.scores[score.ApplicationID]; exists {
		return store.ErrDuplicateScore
	}
	s.scores[score.ApplicationID] = score
	return nil
}

func (s *fakeStore) GetStatusContext(ctx context.Context, applicationID string) (*models.StatusContext, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[applicationID]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	job := s.jobs[app.JobID]
	return &models.StatusContext{
		ApplicationID:  app.ID,
		JobID:          job.ID,
		JobTitle:       job.Title,
		EmployerID:     job.EmployerID,
		CompanyName:    job.CompanyName,
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		Status:         app.Status,
	}, nil
}

func (s *fakeStore) SetApplicationStatus(ctx context.Context, applicationID, employerID string, status models.ApplicationStatus) (models.ApplicationStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[applicationID]
	if !ok || s.jobs[app.JobID].EmployerID != employerID {
		return "", store.ErrApplicationNotFound
	}
	previous := app.Status
	app.Status = status
	return previous, nil
}

func (s *fakeStore) GetApplicationDetail(ctx context.Context, applicationID string) (*models.ApplicationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[applicationID]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	return &models.ApplicationDetail{
		Application:     *app,
		Job:             s.jobs[app.JobID],
		Score:           s.scores[app.ID],
		QuestionAnswers: s.answers[app.ID],
	}, nil
}

func (s *fakeStore) ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]*models.ApplicationDetail, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.ApplicationDetail, 0)
	for _, app := range s.apps {
		job := s.jobs[app.JobID]
		if filter.EmployerID != "" && job.EmployerID != filter.EmployerID {
			continue
		}
		if filter.JobID != "" && app.JobID != filter.JobID {
			continue
		}
		if filter.CandidateID != "" && (app.CandidateID == nil || *app.CandidateID != filter.CandidateID) {
			continue
		}
		out = append(out, &models.ApplicationDetail{Application: *app, Job: job, Score: s.scores[app.ID]})
	}
	return out, nil
}

func (s *fakeStore) ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Job, 0)
	for _, job := range s.jobs {
		if job.EmployerID == employerID {
			out = append(out, job)
		}
	}
	return out, nil
}

type stubEvaluator struct {
	result *models.EvaluationResult
	err    error
	calls  []models.EvaluationRequest
	// during runs inside Evaluate, before the result is returned
	during func()
}

func (e *stubEvaluator) Evaluate(ctx context.Context, req models.EvaluationRequest) (*models.EvaluationResult, error) {
	e.calls = append(e.calls, req)
	if e.during != nil {
		e.during()
	}
	if e.err != nil {
		return nil, e.err
	}
	copied := *e.result
	return &copied, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []models.StatusNotification
}

func (n *recordingNotifier) NotifyStatusChange(ctx context.Context, notification models.StatusNotification) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
	return true
}

// inlineDispatcher runs tasks synchronously so tests can observe their effects
type inlineDispatcher struct {
	tasks []background.TaskType
}

func (d *inlineDispatcher) Submit(task background.Task) error {
	d.tasks = append(d.tasks, task.Type)
	_ = task.Run(context.Background())
	return nil
}

type recordingPublisher struct {
	events []models.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, event models.Event) error {
	p.events = append(p.events, event)
	return nil
}
