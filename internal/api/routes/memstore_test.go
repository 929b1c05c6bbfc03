package routes

import (
	"context"
	"strings"
	"sync"
	"time"

	"hirescore/internal/store"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

// memStore backs the auth, jobs and applications services in router tests
type memStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
	jobs     map[string]*models.Job
	apps     map[string]*models.Application
	answers  map[string][]models.QuestionAnswer
	scores   map[string]*models.Score
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
		jobs:     make(map[string]*models.Job),
		apps:     make(map[string]*models.Application),
		answers:  make(map[string][]models.QuestionAnswer),
		scores:   make(map[string]*models.Score),
	}
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = utils.GenerateID()
	user.CreatedAt = time.Now()
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.Token] = &copied
	return nil
}

func (m *memStore) GetSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	sessionCopy := *session
	userCopy := *m.users[session.UserID]
	return &sessionCopy, &userCopy, nil
}

func (m *memStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

func (m *memStore) CreateJob(ctx context.Context, job *models.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job.ID = utils.GenerateID()
	for i := range job.Questions {
		job.Questions[i].ID = utils.GenerateID()
		job.Questions[i].JobID = job.ID
	}
	if owner, ok := m.users[job.EmployerID]; ok {
		job.CompanyName = owner.CompanyName
	}
	copied := *job
	m.jobs[job.ID] = &copied
	return nil
}

func (m *memStore) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	copied := *job
	return &copied, nil
}

func (m *memStore) GetActiveJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := m.GetJob(ctx, jobID)
	if err != nil || job.Status != models.JobStatusActive {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (m *memStore) ListActiveJobs(ctx context.Context) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Job{}
	for _, j := range m.jobs {
		if j.Status == models.JobStatusActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Job{}
	for _, j := range m.jobs {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memStore) UpdateJobStatus(ctx context.Context, jobID, employerID string, status models.JobStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok || job.EmployerID != employerID {
		return store.ErrJobNotFound
	}
	job.Status = status
	return nil
}

func (m *memStore) CreateApplication(ctx context.Context, app *models.Application, answers []models.QuestionAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[app.JobID]
	if !ok || job.Status != models.JobStatusActive {
		return store.ErrJobNotFound
	}
	for _, existing := range m.apps {
		if existing.JobID == app.JobID && strings.EqualFold(existing.CandidateEmail, app.CandidateEmail) {
			return store.ErrDuplicateApplication
		}
	}
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	copied := *app
	m.apps[app.ID] = &copied
	m.answers[app.ID] = append([]models.QuestionAnswer(nil), answers...)
	return nil
}

func (m *memStore) RecordScore(ctx context.Context, score *models.Score) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.scores[score.ApplicationID]; exists {
		return store.ErrDuplicateScore
	}
	m.scores[score.ApplicationID] = score
	return nil
}

func (m *memStore) GetStatusContext(ctx context.Context, applicationID string) (*models.StatusContext, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[applicationID]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	job := m.jobs[app.JobID]
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

func (m *memStore) SetApplicationStatus(ctx context.Context, applicationID, employerID string, status models.ApplicationStatus) (models.ApplicationStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[applicationID]
	if !ok || m.jobs[app.JobID].EmployerID != employerID {
		return "", store.ErrApplicationNotFound
	}
	previous := app.Status
	app.Status = status
	app.UpdatedAt = time.Now()
	return previous, nil
}

func (m *memStore) GetApplicationDetail(ctx context.Context, applicationID string) (*models.ApplicationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	app, ok := m.apps[applicationID]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	job := *m.jobs[app.JobID]
	return &models.ApplicationDetail{
		Application:     *app,
		Job:             &job,
		Score:           m.scores[app.ID],
		QuestionAnswers: m.answers[app.ID],
	}, nil
}

func (m *memStore) ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]*models.ApplicationDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.ApplicationDetail{}
	for _, app := range m.apps {
		job := *m.jobs[app.JobID]
		switch {
		case filter.EmployerID != "" && job.EmployerID != filter.EmployerID:
			continue
		case filter.JobID != "" && app.JobID != filter.JobID:
			continue
		case filter.CandidateID != "" && (app.CandidateID == nil || *app.CandidateID != filter.CandidateID):
			continue
		}
		out = append(out, &models.ApplicationDetail{Application: *app, Job: &job, Score: m.scores[app.ID]})
	}
	return out, nil
}

func (m *memStore) applicationStatus(id string) models.ApplicationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.apps[id].Status
}
