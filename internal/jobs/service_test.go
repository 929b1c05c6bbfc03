package jobs

import (
	"context"
	"errors"
	"testing"

	"hirescore/internal/logging"
	"hirescore/internal/store"
	"hirescore/pkg/models"
)

type memoryStore struct {
	jobs map[string]*models.Job
}

func (m *memoryStore) CreateJob(ctx context.Context, job *models.Job) error {
	job.ID = "job-1"
	m.jobs[job.ID] = job
	return nil
}

func (m *memoryStore) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (m *memoryStore) GetActiveJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := m.GetJob(ctx, jobID)
	if err != nil || job.Status != models.JobStatusActive {
		return nil, store.ErrJobNotFound
	}
	return job, nil
}

func (m *memoryStore) ListActiveJobs(ctx context.Context) ([]*models.Job, error) {
	var out []*models.Job
	for _, j := range m.jobs {
		if j.Status == models.JobStatusActive {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memoryStore) ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	var out []*models.Job
	for _, j := range m.jobs {
		if j.EmployerID == employerID {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *memoryStore) UpdateJobStatus(ctx context.Context, jobID, employerID string, status models.JobStatus) error {
	job, ok := m.jobs[jobID]
	if !ok || job.EmployerID != employerID {
		return store.ErrJobNotFound
	}
	job.Status = status
	return nil
}

func newService() (*Service, *memoryStore) {
	st := &memoryStore{jobs: make(map[string]*models.Job)}
	return NewService(st, logging.NewNopLogger()), st
}

func TestCreate(t *testing.T) {
	tests := []struct {
		name    string
		req     models.CreateJobRequest
		wantErr bool
	}{
		{
			name: "with questions",
			req: models.CreateJobRequest{
				Title:       "Senior Frontend Developer",
				Description: "React",
				CustomQuestions: []models.CreateQuestionRequest{
					{Question: "Years of React experience?", Type: "MULTIPLE_CHOICE", Required: true, Options: []string{"<1", "1-3", "3-5", "5+"}},
					{Question: "Portfolio highlights", Type: "TEXTAREA", Options: []string{"ignored"}},
				},
			},
		},
		{
			name:    "blank title",
			req:     models.CreateJobRequest{Title: " ", Description: "x"},
			wantErr: true,
		},
		{
			name: "choice without options",
			req: models.CreateJobRequest{
				Title:           "Designer",
				Description:     "Figma",
				CustomQuestions: []models.CreateQuestionRequest{{Question: "Pick one", Type: "MULTIPLE_CHOICE", Options: []string{" "}}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService()
			job, err := svc.Create(context.Background(), "employer-1", tt.req)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidJob) {
					t.Fatalf("expected ErrInvalidJob, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if job.Status != models.JobStatusActive || job.Type != models.JobTypeFullTime {
				t.Errorf("job = %+v", job)
			}
			if len(job.Questions) != 2 || job.Questions[1].Options != nil || job.Questions[1].Position != 1 {
				t.Errorf("questions = %+v", job.Questions)
			}
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "employer-1", models.CreateJobRequest{Title: "QA", Description: "Tests"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	job, err := svc.UpdateStatus(ctx, "job-1", "employer-1", "PAUSED")
	if err != nil || job.Status != models.JobStatusPaused {
		t.Fatalf("pause = %+v, %v", job, err)
	}
	if _, err := svc.GetActive(ctx, "job-1"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("paused job visible: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, "job-1", "employer-2", "CLOSED"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("foreign employer: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "job-1", "employer-1", "DELETED"); !errors.Is(err, ErrInvalidJob) {
		t.Errorf("bad status: %v", err)
	}
}
