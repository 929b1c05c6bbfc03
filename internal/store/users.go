package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

// CreateUser inserts an account; emails are unique case-insensitively
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = utils.GenerateID()
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, name, company_name, role)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash, user.Name, user.CompanyName, string(user.Role),
	).Scan(&user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("createUser: %w", err)
	}
	return nil
}

// GetUserByEmail looks a user up case-insensitively
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getUser(ctx, `WHERE lower(email) = lower($1)`, email)
}

func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.getUser(ctx, `WHERE id = $1`, id)
}

func (s *Store) getUser(ctx context.Context, where string, arg string) (*models.User, error) {
	var u models.User
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, name, company_name, role, created_at FROM users `+where, arg,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CompanyName, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getUser: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateSession(ctx context.Context, session *models.Session) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3) RETURNING created_at`,
		session.Token, session.UserID, session.ExpiresAt,
	).Scan(&session.CreatedAt)
	if err != nil {
		return fmt.Errorf("createSession: %w", err)
	}
	return nil
}

// GetSession returns the session with its user, or ErrNotFound
func (s *Store) GetSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	var (
		sess models.Session
		u    models.User
	)
	err := s.pool.QueryRow(ctx,
		`SELECT s.token, s.user_id, s.expires_at, s.created_at,
		        u.id, u.email, u.password_hash, u.name, u.company_name, u.role, u.created_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token = $1`, token,
	).Scan(&sess.Token, &sess.UserID, &sess.ExpiresAt, &sess.CreatedAt,
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.CompanyName, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("getSession: %w", err)
	}
	return &sess, &u, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("deleteSession: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired before now
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("deleteExpiredSessions: %w", err)
	}
	return tag.RowsAffected(), nil
}
