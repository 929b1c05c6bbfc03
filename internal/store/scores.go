package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hirescore/pkg/models"
)

// scoreRow mirrors a possibly absent scores row from a LEFT JOIN
type scoreRow struct {
	resume       *int
	coverLetter  *int
	overall      *int
	strengths    []string
	improvements []string
	tips         []string
	feedback     *string
	source       *string
	createdAt    *time.Time
}

func (r scoreRow) toModel(applicationID string) *models.Score {
	if r.resume == nil || r.overall == nil {
		return nil
	}
	score := &models.Score{
		ApplicationID:    applicationID,
		ResumeScore:      *r.resume,
		CoverLetterScore: r.coverLetter,
		OverallScore:     *r.overall,
		Strengths:        nonNil(r.strengths),
		Improvements:     nonNil(r.improvements),
		Tips:             nonNil(r.tips),
	}
	if r.feedback != nil {
		score.Feedback = *r.feedback
	}
	if r.source != nil {
		score.Source = models.ScoreSource(*r.source)
	}
	if r.createdAt != nil {
		score.CreatedAt = *r.createdAt
	}
	return score
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// RecordScore writes the single score row of an application. A second write
// for the same application returns ErrDuplicateScore and leaves the first intact.
func (s *Store) RecordScore(ctx context.Context, score *models.Score) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scores (application_id, resume_score, cover_letter_score, overall_score,
		     strengths, improvements, tips, feedback, source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		score.ApplicationID, score.ResumeScore, score.CoverLetterScore, score.OverallScore,
		nonNil(score.Strengths), nonNil(score.Improvements), nonNil(score.Tips),
		score.Feedback, string(score.Source),
	).Scan(&score.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "scores_application_id_key") {
			return ErrDuplicateScore
		}
		return fmt.Errorf("recordScore: %w", err)
	}
	return nil
}

// GetScore returns the application's score or ErrNotFound
func (s *Store) GetScore(ctx context.Context, applicationID string) (*models.Score, error) {
	var row scoreRow
	err := s.pool.QueryRow(ctx,
		`SELECT resume_score, cover_letter_score, overall_score, strengths, improvements,
		        tips, feedback, source, created_at
		 FROM scores WHERE application_id = $1`, applicationID,
	).Scan(&row.resume, &row.coverLetter, &row.overall, &row.strengths, &row.improvements,
		&row.tips, &row.feedback, &row.source, &row.createdAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getScore: %w", err)
	}
	return row.toModel(applicationID), nil
}
