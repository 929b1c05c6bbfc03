package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

const applicationColumns = `a.id, a.job_id, a.candidate_id, a.candidate_name, a.candidate_email,
	a.candidate_phone, a.resume_text, a.resume_url, a.github_url, a.website_url,
	a.cover_letter, a.status, a.created_at, a.updated_at`

func scanApplication(row pgx.Row) (*models.Application, error) {
	var a models.Application
	if err := row.Scan(
		&a.ID, &a.JobID, &a.CandidateID, &a.CandidateName, &a.CandidateEmail,
		&a.CandidatePhone, &a.ResumeText, &a.ResumeURL, &a.GithubURL, &a.WebsiteURL,
		&a.CoverLetter, &a.Status, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateApplication writes the application row and all answer rows as one unit.
// Either every row exists afterwards or none does. The job must be ACTIVE at
// insert time, which is re-checked inside the transaction.
func (s *Store) CreateApplication(ctx context.Context, app *models.Application, answers []models.QuestionAnswer) error {
	if app.ID == "" {
		app.ID = utils.GenerateID()
	}
	if app.Status == "" {
		app.Status = models.StatusPending
	}

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var jobStatus string
		err := tx.QueryRow(ctx, `SELECT status FROM jobs WHERE id = $1 FOR SHARE`, app.JobID).Scan(&jobStatus)
		if errors.Is(err, pgx.ErrNoRows) || (err == nil && jobStatus != string(models.JobStatusActive)) {
			return ErrJobNotFound
		}
		if err != nil {
			return fmt.Errorf("lock job: %w", err)
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO applications (id, job_id, candidate_id, candidate_name, candidate_email,
			     candidate_phone, resume_text, resume_url, github_url, website_url, cover_letter, status)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			 RETURNING created_at, updated_at`,
			app.ID, app.JobID, nullableString(app.CandidateID), app.CandidateName, app.CandidateEmail,
			nullableString(app.CandidatePhone), app.ResumeText, app.ResumeURL,
			nullableString(app.GithubURL), nullableString(app.WebsiteURL), nullableString(app.CoverLetter),
			string(app.Status),
		).Scan(&app.CreatedAt, &app.UpdatedAt)
		if err != nil {
			if isUniqueViolation(err, "applications_job_email_key") {
				return ErrDuplicateApplication
			}
			return fmt.Errorf("insert application: %w", err)
		}

		if len(answers) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, ans := range answers {
			batch.Queue(
				`INSERT INTO question_answers (application_id, question_id, answer) VALUES ($1, $2, $3)`,
				app.ID, ans.QuestionID, ans.Answer)
		}
		results := tx.SendBatch(ctx, batch)
		for i := range answers {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("insert answer %s: %w", answers[i].QuestionID, err)
			}
		}
		return results.Close()
	})
	if err != nil {
		return err
	}

	for i := range answers {
		answers[i].ApplicationID = app.ID
	}
	return nil
}

// GetStatusContext loads what the status-update path needs: current status,
// owning employer and the names used by the notifier.
func (s *Store) GetStatusContext(ctx context.Context, applicationID string) (*models.StatusContext, error) {
	var sc models.StatusContext
	err := s.pool.QueryRow(ctx,
		`SELECT a.id, a.job_id, j.title, j.employer_id, u.company_name,
		        a.candidate_name, a.candidate_email, a.status
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = j.employer_id
		 WHERE a.id = $1`, applicationID,
	).Scan(&sc.ApplicationID, &sc.JobID, &sc.JobTitle, &sc.EmployerID, &sc.CompanyName,
		&sc.CandidateName, &sc.CandidateEmail, &sc.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getStatusContext: %w", err)
	}
	return &sc, nil
}

// SetApplicationStatus updates the status when the application's job belongs to
// employerID and returns the status it replaced. Concurrent updates are
// last-writer-wins; the previous status is read in the same statement.
func (s *Store) SetApplicationStatus(ctx context.Context, applicationID, employerID string, status models.ApplicationStatus) (models.ApplicationStatus, error) {
	var previous models.ApplicationStatus
	err := s.pool.QueryRow(ctx,
		`UPDATE applications a
		 SET status = $1, updated_at = NOW()
		 FROM applications prev, jobs j
		 WHERE a.id = $2 AND prev.id = a.id AND j.id = a.job_id AND j.employer_id = $3
		 RETURNING prev.status`,
		string(status), applicationID, employerID,
	).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrApplicationNotFound
	}
	if err != nil {
		return "", fmt.Errorf("setApplicationStatus: %w", err)
	}
	return previous, nil
}

// GetApplicationDetail returns the application with its job, decoded score and answers
func (s *Store) GetApplicationDetail(ctx context.Context, applicationID string) (*models.ApplicationDetail, error) {
	app, err := scanApplication(s.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, applicationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getApplicationDetail: %w", err)
	}

	job, err := s.GetJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}

	score, err := s.GetScore(ctx, app.ID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	answers, err := s.listAnswers(ctx, app.ID)
	if err != nil {
		return nil, err
	}

	return &models.ApplicationDetail{
		Application:     *app,
		Job:             job,
		Score:           score,
		QuestionAnswers: answers,
	}, nil
}

// ListApplications returns the applications matching the filter with their
// job summary and score. Employer-scoped lists put the best overall score
// first; a candidate's own list is newest first.
func (s *Store) ListApplications(ctx context.Context, filter models.ApplicationFilter) ([]*models.ApplicationDetail, error) {
	where := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	add := func(clause, value string) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}
	if filter.EmployerID != "" {
		add("j.employer_id = $%d", filter.EmployerID)
	}
	if filter.JobID != "" {
		add("a.job_id = $%d", filter.JobID)
	}
	if filter.CandidateID != "" {
		add("a.candidate_id = $%d", filter.CandidateID)
	}
	if len(where) == 0 {
		return nil, errors.New("listApplications: filter must not be empty")
	}

	order := "sc.overall_score DESC NULLS LAST, a.created_at DESC"
	if filter.CandidateID != "" && filter.EmployerID == "" {
		order = "a.created_at DESC"
	}

	rows, err := s.pool.Query(ctx,
		`SELECT `+applicationColumns+`,
		        j.title, j.employer_id, j.type, j.location, j.status, u.company_name,
		        sc.resume_score, sc.cover_letter_score, sc.overall_score, sc.strengths,
		        sc.improvements, sc.tips, sc.feedback, sc.source, sc.created_at
		 FROM applications a
		 JOIN jobs j ON j.id = a.job_id
		 JOIN users u ON u.id = j.employer_id
		 LEFT JOIN scores sc ON sc.application_id = a.id
		 WHERE `+strings.Join(where, " AND ")+`
		 ORDER BY `+order, args...)
	if err != nil {
		return nil, fmt.Errorf("listApplications query: %w", err)
	}
	defer rows.Close()

	out := make([]*models.ApplicationDetail, 0)
	for rows.Next() {
		var (
			a     models.Application
			job   models.Job
			score scoreRow
		)
		if err := rows.Scan(
			&a.ID, &a.JobID, &a.CandidateID, &a.CandidateName, &a.CandidateEmail,
			&a.CandidatePhone, &a.ResumeText, &a.ResumeURL, &a.GithubURL, &a.WebsiteURL,
			&a.CoverLetter, &a.Status, &a.CreatedAt, &a.UpdatedAt,
			&job.Title, &job.EmployerID, &job.Type, &job.Location, &job.Status, &job.CompanyName,
			&score.resume, &score.coverLetter, &score.overall, &score.strengths,
			&score.improvements, &score.tips, &score.feedback, &score.source, &score.createdAt,
		); err != nil {
			return nil, fmt.Errorf("listApplications scan: %w", err)
		}
		job.ID = a.JobID
		job.Questions = []models.Question{}
		out = append(out, &models.ApplicationDetail{
			Application:     a,
			Job:             &job,
			Score:           score.toModel(a.ID),
			QuestionAnswers: []models.QuestionAnswer{},
		})
	}
	return out, rows.Err()
}

func (s *Store) listAnswers(ctx context.Context, applicationID string) ([]models.QuestionAnswer, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT qa.question_id, q.text, q.type, q.required, qa.answer
		 FROM question_answers qa
		 JOIN questions q ON q.id = qa.question_id
		 WHERE qa.application_id = $1
		 ORDER BY q.position, q.id`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("listAnswers: %w", err)
	}
	defer rows.Close()

	answers := make([]models.QuestionAnswer, 0)
	for rows.Next() {
		qa := models.QuestionAnswer{ApplicationID: applicationID}
		if err := rows.Scan(&qa.QuestionID, &qa.Question, &qa.QuestionType, &qa.Required, &qa.Answer); err != nil {
			return nil, fmt.Errorf("listAnswers scan: %w", err)
		}
		answers = append(answers, qa)
	}
	return answers, rows.Err()
}

// CountApplications returns how many rows exist for the job and email; used by tests
// and duplicate checks.
func (s *Store) CountApplications(ctx context.Context, jobID, email string) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM applications WHERE job_id = $1 AND lower(candidate_email) = lower($2)`,
		jobID, email).Scan(&n)
	return n, err
}
