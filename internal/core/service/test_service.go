package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/api/metrics"
	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

type TestService struct {
	store     ports.Store
	scheduler SummaryScheduler
	log       zerolog.Logger
}

func NewTestService(store ports.Store, scheduler SummaryScheduler, log zerolog.Logger) *TestService {
	if scheduler == nil {
		scheduler = NoopScheduler{}
	}
	return &TestService{store: store, scheduler: scheduler, log: log}
}

// Submit scores the answers, stores the result and schedules a background
// summary refresh. Only workers may submit tests.
func (s *TestService) Submit(ctx context.Context, in ports.SubmitTestInput) (*domain.TestResult, error) {
	if in.Role != domain.RoleWorker {
		return nil, domain.ErrForbidden
	}

	total, err := ScoreAnswers(ctx, s.store.Questions(), in.Answers)
	if err != nil {
		return nil, err
	}

	result := &domain.TestResult{
		UserID:     in.UserID,
		TotalScore: total,
		CreatedAt:  time.Now().UTC(),
	}
	err = withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.TestResults().Create(ctx, result)
	})
	if err != nil {
		return nil, fmt.Errorf("save test result: %w", err)
	}

	metrics.TestsSubmittedTotal.Inc()
	s.log.Info().
		Uint("user_id", in.UserID).
		Int("answers", len(in.Answers)).
		Int("total_score", total).
		Msg("test submitted")

	s.scheduler.Schedule(in.UserID)
	return result, nil
}

// Results lists every result of the worker, newest first.
func (s *TestService) Results(ctx context.Context, userID uint, role string) ([]domain.TestResult, error) {
	if role != domain.RoleWorker {
		return nil, domain.ErrForbidden
	}
	return s.store.TestResults().ListRecent(ctx, userID, 0)
}
