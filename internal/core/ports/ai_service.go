package ports

import (
	"context"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

// SummaryResult is the outcome of one summary run. Err is nil on success and
// otherwise wraps one of domain.ErrNoData, domain.ErrInvalidModelResponse,
// domain.ErrExternalService, or a storage error.
type SummaryResult struct {
	Succeeded bool
	Summary   *domain.AISummary
	Err       error
}

// ErrorMessage returns the failure description, or "" on success.
func (r SummaryResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// AssistantResult is the outcome of one assistant call.
type AssistantResult struct {
	Succeeded bool
	Reply     string
	Err       error
}

func (r AssistantResult) ErrorMessage() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// SummaryService produces and persists AI summaries. Generate never panics
// and never returns a bare error; every failure is folded into the result.
type SummaryService interface {
	Generate(ctx context.Context, userID uint) SummaryResult
	Latest(ctx context.Context, userID uint) (*domain.AISummary, error)
}

// AssistantService answers free-form prompts. Ask performs no writes;
// RecordExchange is the caller-side persistence of the resulting log.
type AssistantService interface {
	Ask(ctx context.Context, userID uint, prompt string) AssistantResult
	RecordExchange(ctx context.Context, userID uint, prompt, reply string) (*domain.AILog, error)
}
