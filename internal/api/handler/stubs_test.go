package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
	meFn       func(ctx context.Context, userID uint) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Me(ctx context.Context, userID uint) (*domain.User, error) {
	return s.meFn(ctx, userID)
}

type stubJournalService struct {
	createFn func(ctx context.Context, userID uint, score int, note string) (*domain.Journal, error)
	listFn   func(ctx context.Context, userID uint) ([]domain.Journal, error)
	deleteFn func(ctx context.Context, userID, journalID uint) error
}

func (s *stubJournalService) Create(ctx context.Context, userID uint, score int, note string) (*domain.Journal, error) {
	return s.createFn(ctx, userID, score, note)
}

func (s *stubJournalService) ListRecent(ctx context.Context, userID uint) ([]domain.Journal, error) {
	return s.listFn(ctx, userID)
}

func (s *stubJournalService) Delete(ctx context.Context, userID, journalID uint) error {
	return s.deleteFn(ctx, userID, journalID)
}

type stubQuestionService struct {
	addFn    func(ctx context.Context, in ports.AddQuestionInput) (*domain.Question, error)
	listFn   func(ctx context.Context) ([]domain.Question, error)
	deleteFn func(ctx context.Context, role string, id uint) error
}

func (s *stubQuestionService) Add(ctx context.Context, in ports.AddQuestionInput) (*domain.Question, error) {
	return s.addFn(ctx, in)
}

func (s *stubQuestionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.listFn(ctx)
}

func (s *stubQuestionService) Delete(ctx context.Context, role string, id uint) error {
	return s.deleteFn(ctx, role, id)
}

type stubTestService struct {
	submitFn  func(ctx context.Context, in ports.SubmitTestInput) (*domain.TestResult, error)
	resultsFn func(ctx context.Context, userID uint, role string) ([]domain.TestResult, error)
}

func (s *stubTestService) Submit(ctx context.Context, in ports.SubmitTestInput) (*domain.TestResult, error) {
	return s.submitFn(ctx, in)
}

func (s *stubTestService) Results(ctx context.Context, userID uint, role string) ([]domain.TestResult, error) {
	return s.resultsFn(ctx, userID, role)
}

type stubAssistant struct {
	askFn    func(ctx context.Context, userID uint, prompt string) ports.AssistantResult
	recordFn func(ctx context.Context, userID uint, prompt, reply string) (*domain.AILog, error)
}

func (s *stubAssistant) Ask(ctx context.Context, userID uint, prompt string) ports.AssistantResult {
	return s.askFn(ctx, userID, prompt)
}

func (s *stubAssistant) RecordExchange(ctx context.Context, userID uint, prompt, reply string) (*domain.AILog, error) {
	return s.recordFn(ctx, userID, prompt, reply)
}

type stubSummaries struct {
	generateFn func(ctx context.Context, userID uint) ports.SummaryResult
	latestFn   func(ctx context.Context, userID uint) (*domain.AISummary, error)
}

func (s *stubSummaries) Generate(ctx context.Context, userID uint) ports.SummaryResult {
	return s.generateFn(ctx, userID)
}

func (s *stubSummaries) Latest(ctx context.Context, userID uint) (*domain.AISummary, error) {
	return s.latestFn(ctx, userID)
}

// newRequestContext builds an echo context with the validator installed and,
// when userID is non-zero, the identity the Auth middleware would inject.
func newRequestContext(method, target, body string, userID uint, role string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if userID != 0 {
		c.Set(CtxUserID, userID)
		c.Set(CtxRole, role)
	}
	return c, rec
}

func assertHTTPError(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected status %d, got %d (%v)", code, he.Code, he.Message)
	}
}
