package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"hirescore/internal/api/handlers"
	"hirescore/internal/applications"
	"hirescore/internal/auth"
	"hirescore/internal/background"
	"hirescore/internal/config"
	"hirescore/internal/events"
	"hirescore/internal/jobs"
	"hirescore/internal/llm"
	"hirescore/internal/logging"
	"hirescore/internal/notify"
	"hirescore/pkg/models"
)

func TestMain(m *testing.M) {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	_ = logging.InitializeLogging(cfg)
	os.Exit(m.Run())
}

type scriptedProvider struct {
	output string
}

func (p *scriptedProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return p.output, nil
}
func (p *scriptedProvider) IsHealthy(context.Context) error { return nil }
func (p *scriptedProvider) GetProviderName() string         { return "scripted" }

type capturingSender struct {
	mu   sync.Mutex
	sent []*notify.Message
}

func (s *capturingSender) Send(ctx context.Context, msg *notify.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return "captured", nil
}

func (s *capturingSender) Name() string { return "capture" }

func (s *capturingSender) subjects() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, msg := range s.sent {
		out = append(out, msg.Subject)
	}
	return out
}

type testServer struct {
	echo   *echo.Echo
	store  *memStore
	sender *capturingSender
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := config.Default()
	cfg.Auth.BcryptCost = bcrypt.MinCost
	logger := logging.NewNopLogger()

	st := newMemStore()
	sender := &capturingSender{}

	taskManager := background.NewTaskManager(cfg, logger)
	if err := taskManager.Start(context.Background()); err != nil {
		t.Fatalf("start task manager: %v", err)
	}
	t.Cleanup(func() { _ = taskManager.Stop(context.Background()) })

	provider := &scriptedProvider{output: "```json\n" +
		`{"resumeScore": 8, "overallScore": 8, "strengths": ["React"], "improvements": ["Testing"], "tips": ["Quantify"], "feedback": "Good fit."}` +
		"\n```"}
	llmManager := llm.NewManagerWithProvider(cfg, provider, logger)

	authService := auth.NewService(cfg, st, logger)
	appService := applications.NewService(cfg, st, llmManager,
		notify.NewNotifier(cfg, sender, logger), taskManager, events.NopPublisher{}, logger)

	e := echo.New()
	SetupRoutes(e, Dependencies{
		Config:       cfg,
		Auth:         authService,
		Jobs:         jobs.NewService(st, logger),
		Applications: appService,
		ReadinessChecks: map[string]handlers.HealthCheck{
			"llm": llmManager.CheckHealth,
		},
	})

	return &testServer{echo: e, store: st, sender: sender}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func (s *testServer) signUp(t *testing.T, email, role, company string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/auth/signup", models.SignUpRequest{
		Email:       email,
		Password:    "secret123",
		Role:        role,
		CompanyName: company,
	}, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("sign up %s: %d %s", email, rec.Code, rec.Body.String())
	}
	var resp models.AuthResponse
	decode(t, rec, &resp)
	return resp.Token
}

func (s *testServer) createJob(t *testing.T, token string) *models.Job {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/jobs", models.CreateJobRequest{
		Title:       "Senior Frontend Developer",
		Description: "Lead our React front end.",
		CustomQuestions: []models.CreateQuestionRequest{{
			Question: "Years of React experience?",
			Type:     "MULTIPLE_CHOICE",
			Required: true,
			Options:  []string{"<1", "1-3", "3-5", "5+"},
		}},
	}, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create job: %d %s", rec.Code, rec.Body.String())
	}
	var job models.Job
	decode(t, rec, &job)
	return &job
}

func application(job *models.Job, answer string) map[string]interface{} {
	answers := map[string]string{}
	if answer != "" {
		answers[job.Questions[0].ID] = answer
	}
	return map[string]interface{}{
		"jobId":           job.ID,
		"candidateName":   "Ada Lovelace",
		"candidateEmail":  "ada@example.com",
		"resumeText":      strings.Repeat("Frontend engineer, React and TypeScript. ", 5),
		"questionAnswers": answers,
	}
}

func TestApplicationLifecycle(t *testing.T) {
	srv := newTestServer(t)

	owner := srv.signUp(t, "owner@acme.test", "EMPLOYER", "Acme")
	rival := srv.signUp(t, "owner@rival.test", "EMPLOYER", "Rival")
	candidate := srv.signUp(t, "cand@example.com", "CANDIDATE", "")

	if rec := srv.do(t, http.MethodPost, "/api/v1/jobs", models.CreateJobRequest{Title: "x", Description: "y"}, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous job create: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/v1/jobs", models.CreateJobRequest{Title: "x", Description: "y"}, candidate); rec.Code != http.StatusForbidden {
		t.Errorf("candidate job create: %d", rec.Code)
	}

	job := srv.createJob(t, owner)

	rec := srv.do(t, http.MethodGet, "/api/v1/jobs", nil, "")
	var listed []models.Job
	decode(t, rec, &listed)
	if rec.Code != http.StatusOK || len(listed) != 1 {
		t.Fatalf("list jobs: %d %d", rec.Code, len(listed))
	}

	// Required question gate
	rec = srv.do(t, http.MethodPost, "/api/v1/applications", application(job, ""), "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing answer: %d %s", rec.Code, rec.Body.String())
	}
	var errResp models.ErrorResponse
	decode(t, rec, &errResp)
	if errResp.Error != "Please answer required question: Years of React experience?" {
		t.Errorf("error = %q", errResp.Error)
	}
	if len(srv.store.apps) != 0 {
		t.Fatalf("rows created on validation failure: %d", len(srv.store.apps))
	}

	// Successful submission scored by the model
	rec = srv.do(t, http.MethodPost, "/api/v1/applications", application(job, "5+"), "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", rec.Code, rec.Body.String())
	}
	var submitted models.SubmitApplicationResponse
	decode(t, rec, &submitted)
	if !submitted.EvaluationCompleted || submitted.Scores == nil || submitted.Scores.OverallScore != 8 {
		t.Errorf("submit response = %+v", submitted)
	}
	appID := submitted.ApplicationID

	if rec := srv.do(t, http.MethodPost, "/api/v1/applications", application(job, "5+"), ""); rec.Code != http.StatusConflict {
		t.Errorf("duplicate submission: %d", rec.Code)
	}

	// Authorization boundary
	rec = srv.do(t, http.MethodPatch, "/api/v1/applications/"+appID, map[string]string{"status": "REVIEWING"}, rival)
	if rec.Code != http.StatusForbidden {
		t.Errorf("rival patch: %d", rec.Code)
	}
	if got := srv.store.applicationStatus(appID); got != models.StatusPending {
		t.Errorf("status changed by rival: %s", got)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/applications/"+appID, nil, rival); rec.Code != http.StatusForbidden {
		t.Errorf("rival get: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/applications/"+appID, nil, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous get: %d", rec.Code)
	}

	if rec := srv.do(t, http.MethodPatch, "/api/v1/applications/"+appID, map[string]string{"status": "ARCHIVED"}, owner); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid status: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPatch, "/api/v1/applications/missing", map[string]string{"status": "HIRED"}, owner); rec.Code != http.StatusNotFound {
		t.Errorf("missing application: %d", rec.Code)
	}

	// PENDING -> HIRED by the owner
	rec = srv.do(t, http.MethodPatch, "/api/v1/applications/"+appID, map[string]string{"status": "HIRED"}, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner patch: %d %s", rec.Code, rec.Body.String())
	}
	var updated models.UpdateApplicationStatusResponse
	decode(t, rec, &updated)
	if updated.Status != models.StatusHired {
		t.Errorf("status = %s", updated.Status)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(srv.sender.subjects()) == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if subjects := srv.sender.subjects(); len(subjects) != 1 || subjects[0] != "Congratulations - Job Offer!" {
		t.Errorf("notification subjects = %v", subjects)
	}

	// Terminal state
	if rec := srv.do(t, http.MethodPatch, "/api/v1/applications/"+appID, map[string]string{"status": "REJECTED"}, owner); rec.Code != http.StatusConflict {
		t.Errorf("leaving HIRED: %d", rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/applications/"+appID, nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get: %d", rec.Code)
	}
	var detail models.ApplicationDetail
	decode(t, rec, &detail)
	if detail.Score == nil || detail.Score.Source != models.ScoreSourceAI || len(detail.QuestionAnswers) != 1 {
		t.Errorf("detail = %+v", detail)
	}

	rec = srv.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID+"/applications", nil, owner)
	var applicants []models.ApplicationDetail
	decode(t, rec, &applicants)
	if rec.Code != http.StatusOK || len(applicants) != 1 {
		t.Errorf("job applications: %d %d", rec.Code, len(applicants))
	}
}

func TestApplicationListsAndDashboard(t *testing.T) {
	srv := newTestServer(t)

	owner := srv.signUp(t, "owner@acme.test", "EMPLOYER", "Acme")
	rival := srv.signUp(t, "owner@rival.test", "EMPLOYER", "Rival")
	candidate := srv.signUp(t, "cand@example.com", "CANDIDATE", "")
	job := srv.createJob(t, owner)

	linked := application(job, "5+")
	linked["candidateEmail"] = "cand@example.com"
	if rec := srv.do(t, http.MethodPost, "/api/v1/applications", linked, candidate); rec.Code != http.StatusCreated {
		t.Fatalf("candidate submit: %d %s", rec.Code, rec.Body.String())
	}
	if rec := srv.do(t, http.MethodPost, "/api/v1/applications", application(job, "3-5"), ""); rec.Code != http.StatusCreated {
		t.Fatalf("anonymous submit: %d %s", rec.Code, rec.Body.String())
	}

	lists := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantLen  int
	}{
		{"anonymous", "/api/v1/applications", "", http.StatusUnauthorized, 0},
		{"candidate sees own", "/api/v1/applications", candidate, http.StatusOK, 1},
		{"owner sees all", "/api/v1/applications", owner, http.StatusOK, 2},
		{"owner filtered by job", "/api/v1/applications?jobId=" + job.ID, owner, http.StatusOK, 2},
		{"owner filtered by unknown job", "/api/v1/applications?jobId=missing", owner, http.StatusOK, 0},
		{"rival sees none", "/api/v1/applications", rival, http.StatusOK, 0},
	}
	for _, tt := range lists {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodGet, tt.path, nil, tt.token)
			if rec.Code != tt.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if rec.Code != http.StatusOK {
				return
			}
			var list []models.ApplicationDetail
			decode(t, rec, &list)
			if len(list) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(list), tt.wantLen)
			}
			for _, item := range list {
				if item.Job == nil || item.Job.Title != "Senior Frontend Developer" || item.Score == nil {
					t.Errorf("item = %+v", item)
				}
			}
		})
	}

	if rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", nil, candidate); rec.Code != http.StatusForbidden {
		t.Errorf("candidate dashboard: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", nil, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous dashboard: %d", rec.Code)
	}

	rec := srv.do(t, http.MethodGet, "/api/v1/dashboard", nil, owner)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner dashboard: %d %s", rec.Code, rec.Body.String())
	}
	var dashboard models.Dashboard
	decode(t, rec, &dashboard)
	want := models.DashboardStats{ActiveJobs: 1, TotalApplications: 2, PendingApplications: 2}
	if dashboard.Stats != want {
		t.Errorf("stats = %+v, want %+v", dashboard.Stats, want)
	}
	if len(dashboard.Jobs) != 1 || dashboard.Jobs[0].ApplicationsCount != 2 {
		t.Errorf("jobs = %+v", dashboard.Jobs)
	}
	if len(dashboard.RecentApplications) != 2 || dashboard.RecentApplications[0].OverallScore == nil {
		t.Errorf("recent = %+v", dashboard.RecentApplications)
	}
}

func TestSubmitToClosedJob(t *testing.T) {
	srv := newTestServer(t)
	owner := srv.signUp(t, "owner@acme.test", "EMPLOYER", "Acme")
	job := srv.createJob(t, owner)

	if rec := srv.do(t, http.MethodPatch, "/api/v1/jobs/"+job.ID, map[string]string{"status": "CLOSED"}, owner); rec.Code != http.StatusOK {
		t.Fatalf("close job: %d %s", rec.Code, rec.Body.String())
	}

	if rec := srv.do(t, http.MethodPost, "/api/v1/applications", application(job, "5+"), ""); rec.Code != http.StatusNotFound {
		t.Errorf("closed job submission: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/jobs/"+job.ID, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("closed job lookup: %d", rec.Code)
	}
}

func TestAuthRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signUp(t, "owner@acme.test", "EMPLOYER", "Acme")

	if rec := srv.do(t, http.MethodPost, "/api/v1/auth/signup", models.SignUpRequest{Email: "owner@acme.test", Password: "secret123"}, ""); rec.Code != http.StatusConflict {
		t.Errorf("duplicate sign up: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/v1/auth/signup", models.SignUpRequest{Email: "not-an-email", Password: "secret123"}, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("invalid sign up: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/v1/auth/signin", models.SignInRequest{Email: "owner@acme.test", Password: "wrong"}, ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password: %d", rec.Code)
	}

	rec := srv.do(t, http.MethodPost, "/api/v1/auth/signin", models.SignInRequest{Email: "owner@acme.test", Password: "secret123"}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("sign in: %d", rec.Code)
	}
	if cookies := rec.Result().Cookies(); len(cookies) == 0 || cookies[0].Name != "auth-token" || !cookies[0].HttpOnly {
		t.Errorf("session cookie = %+v", cookies)
	}

	if rec := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, token); rec.Code != http.StatusOK {
		t.Errorf("me: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodPost, "/api/v1/auth/signout", nil, token); rec.Code != http.StatusOK {
		t.Errorf("sign out: %d", rec.Code)
	}
	if rec := srv.do(t, http.MethodGet, "/api/v1/auth/me", nil, token); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after sign out: %d", rec.Code)
	}
}

func TestSessionCookieAccepted(t *testing.T) {
	srv := newTestServer(t)
	token := srv.signUp(t, "owner@acme.test", "EMPLOYER", "Acme")

	for _, name := range []string{"auth-token", "session-token"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.AddCookie(&http.Cookie{Name: name, Value: token})
		rec := httptest.NewRecorder()
		srv.echo.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("cookie %s: %d", name, rec.Code)
		}
	}
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t)

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		rec := srv.do(t, http.MethodGet, path, nil, "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: %d %s", path, rec.Code, rec.Body.String())
		}
		if rec.Header().Get(echo.HeaderXRequestID) == "" {
			t.Errorf("%s: missing request id header", path)
		}
	}
}
