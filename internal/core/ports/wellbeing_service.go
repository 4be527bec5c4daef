package ports

import (
	"context"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

type JournalService interface {
	Create(ctx context.Context, userID uint, score int, note string) (*domain.Journal, error)
	ListRecent(ctx context.Context, userID uint) ([]domain.Journal, error)
	Delete(ctx context.Context, userID, journalID uint) error
}

// AddQuestionInput carries a new question. Role is the caller's role and is
// checked again by the service.
type AddQuestionInput struct {
	Role    string
	Text    string
	Options []domain.Option
}

type QuestionService interface {
	Add(ctx context.Context, input AddQuestionInput) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Delete(ctx context.Context, role string, questionID uint) error
}

// SubmitTestInput carries one test submission. Answers keep request order.
type SubmitTestInput struct {
	UserID  uint
	Role    string
	Answers []domain.Answer
}

type TestService interface {
	Submit(ctx context.Context, input SubmitTestInput) (*domain.TestResult, error)
	Results(ctx context.Context, userID uint, role string) ([]domain.TestResult, error)
}
