package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
	"github.com/mindcare/wellbeing-api/internal/core/service"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/db/sqlstore"
	"github.com/mindcare/wellbeing-api/internal/infrastructure/http/handlers"
)

const (
	testSecret   = "test-secret"
	summaryReply = "State: stable. Trend: improving. Advice: rest more."
	assistReply  = "Try a short walk after lunch."
)

// scriptedModel answers summary prompts and assistant prompts with fixed replies.
type scriptedModel struct {
	mu       sync.Mutex
	requests []ports.CompletionRequest
}

func (m *scriptedModel) Generate(_ context.Context, req ports.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if strings.Contains(req.Messages[len(req.Messages)-1].Content, "Notes:") {
		return summaryReply, nil
	}
	return assistReply, nil
}

type testServer struct {
	e     *echo.Echo
	store *sqlstore.Store
	model *scriptedModel
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := sqlstore.Open(context.Background(), sqlstore.Config{
		Driver:     sqlstore.DriverSQLite,
		SQLitePath: ":memory:",
		Logger:     zerolog.Nop(),
	})
	require.NoError(t, err)
	store := sqlstore.NewStore(db)
	t.Cleanup(func() { _ = store.Close() })

	model := &scriptedModel{}
	log := zerolog.Nop()
	aiCfg := service.AIConfig{Model: "test-model"}
	reg := prometheus.NewRegistry()

	e := NewRouter(Services{
		Auth:      service.NewAuthService(store.Users(), testSecret, 0),
		Journals:  service.NewJournalService(store, service.NoopScheduler{}, log),
		Questions: service.NewQuestionService(store, log),
		Tests:     service.NewTestService(store, service.NoopScheduler{}, log),
		Assistant: service.NewAssistantService(store, model, aiCfg, log),
		Summaries: service.NewSummaryService(store, model, aiCfg, log),
	}, Options{
		JWTSecret:  testSecret,
		Log:        log,
		Checks:     map[string]handlers.Check{"database": store.Ping},
		Registerer: reg,
		Gatherer:   reg,
	})

	return &testServer{e: e, store: store, model: model}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/auth/register", "",
		`{"full_name":"`+name+`","email":"`+email+`","password":"secret1","role":"`+role+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/auth/login", "", `{"email":"`+email+`","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func countRows(t *testing.T, s *sqlstore.Store, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, s.DB().Table(table).Count(&n).Error)
	return n
}

func TestEndToEnd_JournalTestAndSummary(t *testing.T) {
	srv := newTestServer(t)
	therapist := srv.register(t, "Tom Therapist", "tom@example.com", "therapist")
	worker := srv.register(t, "Wendy Worker", "wendy@example.com", "worker")

	rec := srv.do(t, http.MethodPost, "/test/add-question", therapist,
		`{"text":"How did you sleep?","options":[{"text":"bad","points":1},{"text":"good","points":5}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Question struct {
			ID uint `json:"id"`
		} `json:"question"`
	}](t, rec)
	qid := strconv.FormatUint(uint64(created.Question.ID), 10)

	rec = srv.do(t, http.MethodPost, "/journal", worker, `{"score":3,"note":"tired"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, "/test/submit", worker, `{"answers":{"`+qid+`":1}}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	submitted := decode[struct {
		Message    string `json:"message"`
		TotalScore int    `json:"total_score"`
	}](t, rec)
	assert.Equal(t, "Result saved", submitted.Message)
	assert.Equal(t, 5, submitted.TotalScore)

	rec = srv.do(t, http.MethodPost, "/ai/summary", worker, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, summaryReply, decode[struct {
		SummaryText string `json:"summary_text"`
	}](t, rec).SummaryText)
	assert.EqualValues(t, 1, countRows(t, srv.store, "ai_summaries"))

	require.Len(t, srv.model.requests, 1)
	prompt := srv.model.requests[0].Messages[1].Content
	assert.Contains(t, prompt, "tired (score: 3)")
	assert.Contains(t, prompt, "score 5")

	rec = srv.do(t, http.MethodGet, "/ai/summary", worker, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), summaryReply)

	rec = srv.do(t, http.MethodGet, "/test-results", worker, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	results := decode[struct {
		Results []struct {
			TotalScore int `json:"total_score"`
		} `json:"results"`
	}](t, rec)
	require.Len(t, results.Results, 1)
	assert.Equal(t, 5, results.Results[0].TotalScore)
}

func TestEndToEnd_AssistantLogsExchange(t *testing.T) {
	srv := newTestServer(t)
	worker := srv.register(t, "Wendy Worker", "wendy@example.com", "worker")

	rec := srv.do(t, http.MethodPost, "/ai/ask", worker, `{"prompt":"How can I relax?"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, assistReply, decode[struct {
		Response string `json:"response"`
	}](t, rec).Response)
	assert.EqualValues(t, 1, countRows(t, srv.store, "ai_logs"))

	// Without a stored summary the assistant runs without user context.
	require.Len(t, srv.model.requests, 1)
	assert.NotContains(t, srv.model.requests[0].Messages[0].Content, "Context about the user")
}

func TestEndToEnd_AccessRules(t *testing.T) {
	srv := newTestServer(t)
	therapist := srv.register(t, "Tom Therapist", "tom@example.com", "therapist")
	worker := srv.register(t, "Wendy Worker", "wendy@example.com", "worker")

	rec := srv.do(t, http.MethodGet, "/journal", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = srv.do(t, http.MethodPost, "/test/add-question", worker, `{"text":"q","options":[{"text":"a","points":1}]}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/test/submit", therapist, `{"answers":{}}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = srv.do(t, http.MethodPost, "/journal", worker, `{"score":4,"note":"fine"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = srv.do(t, http.MethodGet, "/journal", worker, "")
	require.Equal(t, http.StatusOK, rec.Code)
	journals := decode[struct {
		Journals []struct {
			ID uint `json:"id"`
		} `json:"journals"`
	}](t, rec)
	require.Len(t, journals.Journals, 1)
	path := "/journal/" + strconv.FormatUint(uint64(journals.Journals[0].ID), 10)

	rec = srv.do(t, http.MethodDelete, path, therapist, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = srv.do(t, http.MethodDelete, path, worker, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = srv.do(t, http.MethodDelete, path, worker, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/test/submit", worker, `{"answers":{"999":0}}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodPost, "/ai/summary", worker, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "deleted journal leaves nothing to summarize")
	assert.Empty(t, srv.model.requests)

	rec = srv.do(t, http.MethodGet, "/ai/summary", worker, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndToEnd_RegisterConflictsAndTokenForm(t *testing.T) {
	srv := newTestServer(t)
	srv.register(t, "Wendy Worker", "wendy@example.com", "worker")

	rec := srv.do(t, http.MethodPost, "/auth/register", "",
		`{"full_name":"Other","email":"wendy@example.com","password":"secret1","role":"worker"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	form := url.Values{"username": {"wendy@example.com"}, "password": {"secret1"}}
	req := httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token_type":"bearer"`)

	form.Set("password", "wrong")
	req = httptest.NewRequest(http.MethodPost, "/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec = httptest.NewRecorder()
	srv.e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "wellbeing_http_requests_total")
}
