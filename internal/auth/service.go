// Package auth manages accounts and opaque database-backed sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/internal/store"
	"hirescore/pkg/models"
	"hirescore/pkg/utils"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrEmailTaken         = store.ErrDuplicateEmail
)

type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateSession(ctx context.Context, session *models.Session) error
	GetSession(ctx context.Context, token string) (*models.Session, *models.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Service struct {
	store      Store
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	logger     logging.Logger
}

func NewService(cfg *config.Config, st Store, logger logging.Logger) *Service {
	cost := cfg.Auth.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		store:      st,
		sessionTTL: cfg.Auth.SessionTTL,
		bcryptCost: cost,
		now:        time.Now,
		logger:     logger.WithField("component", "auth"),
	}
}

// SignUp creates an account and opens its first session. Role defaults to EMPLOYER.
func (s *Service) SignUp(ctx context.Context, req models.SignUpRequest) (*models.User, *models.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.Role(req.Role)
	if role == "" {
		role = models.RoleEmployer
	}

	user := &models.User{
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		CompanyName:  strings.TrimSpace(req.CompanyName),
		Role:         role,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User signed up", map[string]interface{}{
		"user_id": user.ID,
		"role":    string(user.Role),
	})
	return user, session, nil
}

// SignIn verifies the password and opens a new session
func (s *Service) SignIn(ctx context.Context, req models.SignInRequest) (*models.User, *models.Session, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(req.Email))
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, session, nil
}

// SignOut deletes the session. Unknown tokens are not an error.
func (s *Service) SignOut(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Authenticate resolves a session token to its user. An expired session is
// deleted and reported as ErrUnauthenticated.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}

	session, user, err := s.store.GetSession(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if session.Expired(s.now()) {
		if err := s.store.DeleteSession(ctx, token); err != nil {
			s.logger.Warn("Failed to delete expired session", map[string]interface{}{
				"user_id": user.ID,
				"error":   err.Error(),
			})
		}
		return nil, ErrUnauthenticated
	}

	return user, nil
}

// CleanupExpiredSessions removes every expired session; run periodically
func (s *Service) CleanupExpiredSessions(ctx context.Context) error {
	removed, err := s.store.DeleteExpiredSessions(ctx, s.now())
	if err != nil {
		return err
	}
	if removed > 0 {
		s.logger.Info("Expired sessions removed", map[string]interface{}{
			"count": removed,
		})
	}
	return nil
}

func (s *Service) openSession(ctx context.Context, userID string) (*models.Session, error) {
	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("generate session token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
