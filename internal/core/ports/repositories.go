package ports

import (
	"context"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

// Create methods fill in the generated ID and CreatedAt of the passed entity.
// ListRecent methods order by created_at descending; a limit <= 0 means no limit.

type JournalRepository interface {
	Create(ctx context.Context, j *domain.Journal) error
	FindByID(ctx context.Context, id uint) (*domain.Journal, error)
	ListRecent(ctx context.Context, userID uint, limit int) ([]domain.Journal, error)
	Delete(ctx context.Context, id uint) error
}

type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	FindByID(ctx context.Context, id uint) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	Delete(ctx context.Context, id uint) error
}

type TestResultRepository interface {
	Create(ctx context.Context, r *domain.TestResult) error
	ListRecent(ctx context.Context, userID uint, limit int) ([]domain.TestResult, error)
}

type SummaryRepository interface {
	Create(ctx context.Context, s *domain.AISummary) error
	// Latest returns the newest summary of the user or domain.ErrSummaryNotFound.
	Latest(ctx context.Context, userID uint) (*domain.AISummary, error)
}

type AILogRepository interface {
	Create(ctx context.Context, l *domain.AILog) error
	ListRecent(ctx context.Context, userID uint, limit int) ([]domain.AILog, error)
}
