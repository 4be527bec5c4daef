package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/api/metrics"
	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// recentJournalsLimit is the page size of the journal history endpoint.
const recentJournalsLimit = 5

type JournalService struct {
	store     ports.Store
	scheduler SummaryScheduler
	log       zerolog.Logger
}

func NewJournalService(store ports.Store, scheduler SummaryScheduler, log zerolog.Logger) *JournalService {
	if scheduler == nil {
		scheduler = NoopScheduler{}
	}
	return &JournalService{store: store, scheduler: scheduler, log: log}
}

// Create stores a new entry and schedules a background summary refresh.
func (s *JournalService) Create(ctx context.Context, userID uint, score int, note string) (*domain.Journal, error) {
	if err := domain.ValidateWellbeingScore(score); err != nil {
		return nil, err
	}

	j := &domain.Journal{
		UserID:         userID,
		WellbeingScore: score,
		Note:           strings.TrimSpace(note),
		CreatedAt:      time.Now().UTC(),
	}
	err := withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.Journals().Create(ctx, j)
	})
	if err != nil {
		return nil, fmt.Errorf("create journal: %w", err)
	}

	metrics.JournalsCreatedTotal.WithLabelValues(strconv.Itoa(score)).Inc()
	s.log.Info().Uint("user_id", userID).Uint("journal_id", j.ID).Int("score", score).Msg("journal created")

	s.scheduler.Schedule(userID)
	return j, nil
}

func (s *JournalService) ListRecent(ctx context.Context, userID uint) ([]domain.Journal, error) {
	return s.store.Journals().ListRecent(ctx, userID, recentJournalsLimit)
}

// Delete removes an entry owned by userID.
func (s *JournalService) Delete(ctx context.Context, userID, journalID uint) error {
	j, err := s.store.Journals().FindByID(ctx, journalID)
	if err != nil {
		return err
	}
	if j.UserID != userID {
		return domain.ErrForbidden
	}

	err = withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.Journals().Delete(ctx, journalID)
	})
	if err != nil {
		return fmt.Errorf("delete journal: %w", err)
	}

	s.log.Info().Uint("user_id", userID).Uint("journal_id", journalID).Msg("journal deleted")
	return nil
}
