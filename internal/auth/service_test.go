package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"hirescore/internal/config"
	"hirescore/internal/logging"
	"hirescore/internal/store"
	"hirescore/pkg/models"
)

type memoryStore struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[string]*models.Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:    make(map[string]*models.User),
		sessions: make(map[string]*models.Session),
	}
}

func (m *memoryStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrDuplicateEmail
		}
	}
	user.ID = "user-" + user.Email
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
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

func (m *memoryStore) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.Token] = &copied
	return nil
}

func (m *memoryStore) GetSession(ctx context.Context, token string) (*models.Session, *models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[token]
	if !ok {
		return nil, nil, store.ErrNotFound
	}
	user := *m.users[session.UserID]
	copied := *session
	return &copied, &user, nil
}

func (m *memoryStore) DeleteSession(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *memoryStore) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for token, session := range m.sessions {
		if session.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	st := newMemoryStore()
	return NewService(cfg, st, logging.NewNopLogger()), st
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, models.SignUpRequest{
		Email:       "owner@acme.test",
		Password:    "hunter22",
		CompanyName: "Acme",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if user.Role != models.RoleEmployer {
		t.Errorf("default role = %s", user.Role)
	}
	if user.PasswordHash == "hunter22" || user.PasswordHash == "" {
		t.Error("password was not hashed")
	}
	if session.Token == "" || !session.ExpiresAt.After(time.Now().Add(6*24*time.Hour)) {
		t.Errorf("session = %+v", session)
	}

	if _, _, err := svc.SignUp(ctx, models.SignUpRequest{Email: "OWNER@acme.test", Password: "whatever"}); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate sign up: %v", err)
	}

	if _, _, err := svc.SignIn(ctx, models.SignInRequest{Email: "owner@acme.test", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: %v", err)
	}
	if _, _, err := svc.SignIn(ctx, models.SignInRequest{Email: "nobody@acme.test", Password: "hunter22"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: %v", err)
	}

	_, second, err := svc.SignIn(ctx, models.SignInRequest{Email: "owner@acme.test", Password: "hunter22"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if len(st.sessions) != 2 || second.Token == session.Token {
		t.Errorf("expected a second distinct session, have %d", len(st.sessions))
	}
}

func TestAuthenticate(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	user, session, err := svc.SignUp(ctx, models.SignUpRequest{Email: "c@x.test", Password: "secret1", Role: "CANDIDATE"})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}

	got, err := svc.Authenticate(ctx, session.Token)
	if err != nil || got.ID != user.ID || got.Role != models.RoleCandidate {
		t.Fatalf("authenticate = %+v, %v", got, err)
	}

	if _, err := svc.Authenticate(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty token: %v", err)
	}
	if _, err := svc.Authenticate(ctx, "forged"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("unknown token: %v", err)
	}

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	if _, err := svc.Authenticate(ctx, session.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("expired token: %v", err)
	}
	if _, ok := st.sessions[session.Token]; ok {
		t.Error("expired session was not deleted")
	}
}

func TestSignOutAndCleanup(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	_, first, _ := svc.SignUp(ctx, models.SignUpRequest{Email: "a@x.test", Password: "secret1"})
	_, second, _ := svc.SignUp(ctx, models.SignUpRequest{Email: "b@x.test", Password: "secret1"})

	if err := svc.SignOut(ctx, first.Token); err != nil {
		t.Fatalf("sign out: %v", err)
	}
	if _, err := svc.Authenticate(ctx, first.Token); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("signed out token still valid: %v", err)
	}

	svc.now = func() time.Time { return second.ExpiresAt.Add(time.Second) }
	if err := svc.CleanupExpiredSessions(ctx); err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if len(st.sessions) != 0 {
		t.Errorf("sessions left after cleanup: %d", len(st.sessions))
	}
}
