package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

const jobColumns = `j.id, j.employer_id, j.title, j.description, j.requirements, j.location,
	j.salary, j.type, j.status, u.company_name, j.created_at, j.updated_at`

func scanJob(row pgx.Row) (*models.Job, error) {
	var j models.Job
	if err := row.Scan(
		&j.ID, &j.EmployerID, &j.Title, &j.Description, &j.Requirements, &j.Location,
		&j.Salary, &j.Type, &j.Status, &j.CompanyName, &j.CreatedAt, &j.UpdatedAt,
	); err != nil {
		return nil, err
	}
	j.Questions = []models.Question{}
	return &j, nil
}

// CreateJob inserts a job and its questions in one transaction
func (s *Store) CreateJob(ctx context.Context, job *models.Job) error {
	if job.ID == "" {
		job.ID = utils.GenerateID()
	}

	return s.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO jobs (id, employer_id, title, description, requirements, location, salary, type, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING created_at, updated_at`,
			job.ID, job.EmployerID, job.Title, job.Description, job.Requirements,
			job.Location, job.Salary, string(job.Type), string(job.Status),
		).Scan(&job.CreatedAt, &job.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert job: %w", err)
		}

		for i := range job.Questions {
			q := &job.Questions[i]
			if q.ID == "" {
				q.ID = utils.GenerateID()
			}
			q.JobID = job.ID
			options := q.Options
			if options == nil {
				options = []string{}
			}
			if _, err := tx.Exec(ctx,
				`INSERT INTO questions (id, job_id, text, type, required, position, options)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				q.ID, q.JobID, q.Text, string(q.Type), q.Required, q.Position, options,
			); err != nil {
				return fmt.Errorf("insert question %d: %w", i, err)
			}
		}
		return nil
	})
}

// GetJob returns a job with its questions regardless of status
func (s *Store) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := scanJob(s.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs j JOIN users u ON u.id = j.employer_id WHERE j.id = $1`, jobID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getJob: %w", err)
	}

	if err := s.loadQuestions(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

// GetActiveJob returns the job only while it accepts applications. Paused, closed
// and missing jobs all yield ErrJobNotFound.
func (s *Store) GetActiveJob(ctx context.Context, jobID string) (*models.Job, error) {
	job, err := s.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Status != models.JobStatusActive {
		return nil, ErrJobNotFound
	}
	return job, nil
}

// ListActiveJobs returns active jobs, newest first, with questions
func (s *Store) ListActiveJobs(ctx context.Context) ([]*models.Job, error) {
	return s.listJobs(ctx,
		`SELECT `+jobColumns+` FROM jobs j JOIN users u ON u.id = j.employer_id
		 WHERE j.status = 'ACTIVE' ORDER BY j.created_at DESC`)
}

// ListJobsByEmployer returns every job the employer owns, newest first
func (s *Store) ListJobsByEmployer(ctx context.Context, employerID string) ([]*models.Job, error) {
	return s.listJobs(ctx,
		`SELECT `+jobColumns+` FROM jobs j JOIN users u ON u.id = j.employer_id
		 WHERE j.employer_id = $1 ORDER BY j.created_at DESC`, employerID)
}

func (s *Store) listJobs(ctx context.Context, query string, args ...interface{}) ([]*models.Job, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listJobs query: %w", err)
	}
	defer rows.Close()

	jobs := make([]*models.Job, 0)
	byID := make(map[string]*models.Job)
	ids := make([]string, 0)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("listJobs scan: %w", err)
		}
		jobs = append(jobs, job)
		byID[job.ID] = job
		ids = append(ids, job.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listJobs rows: %w", err)
	}
	if len(ids) == 0 {
		return jobs, nil
	}

	qrows, err := s.pool.Query(ctx,
		`SELECT id, job_id, text, type, required, position, options
		 FROM questions WHERE job_id = ANY($1) ORDER BY position, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("listJobs questions: %w", err)
	}
	defer qrows.Close()

	for qrows.Next() {
		var q models.Question
		if err := qrows.Scan(&q.ID, &q.JobID, &q.Text, &q.Type, &q.Required, &q.Position, &q.Options); err != nil {
			return nil, fmt.Errorf("listJobs question scan: %w", err)
		}
		if job, ok := byID[q.JobID]; ok {
			job.Questions = append(job.Questions, q)
		}
	}
	return jobs, qrows.Err()
}

func (s *Store) loadQuestions(ctx context.Context, job *models.Job) error {
	rows, err := s.pool.Query(ctx,
		`SELECT id, job_id, text, type, required, position, options
		 FROM questions WHERE job_id = $1 ORDER BY position, id`, job.ID)
	if err != nil {
		return fmt.Errorf("loadQuestions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.JobID, &q.Text, &q.Type, &q.Required, &q.Position, &q.Options); err != nil {
			return fmt.Errorf("loadQuestions scan: %w", err)
		}
		job.Questions = append(job.Questions, q)
	}
	return rows.Err()
}

// UpdateJobStatus changes the status of a job owned by employerID.
// Returns ErrJobNotFound when the job is missing or owned by someone else.
func (s *Store) UpdateJobStatus(ctx context.Context, jobID, employerID string, status models.JobStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2 AND employer_id = $3`,
		string(status), jobID, employerID)
	if err != nil {
		return fmt.Errorf("updateJobStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrJobNotFound
	}
	return nil
}
