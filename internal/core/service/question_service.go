package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

type QuestionService struct {
	store ports.Store
	log   zerolog.Logger
}

func NewQuestionService(store ports.Store, log zerolog.Logger) *QuestionService {
	return &QuestionService{store: store, log: log}
}

// Add stores a new question. Only therapists may add questions.
func (s *QuestionService) Add(ctx context.Context, in ports.AddQuestionInput) (*domain.Question, error) {
	if in.Role != domain.RoleTherapist {
		return nil, domain.ErrForbidden
	}

	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.ErrEmptyText
	}
	if len(in.Options) == 0 {
		return nil, domain.ErrEmptyOptions
	}

	options := make([]domain.Option, len(in.Options))
	for i, o := range in.Options {
		options[i] = domain.Option{Text: strings.TrimSpace(o.Text), Points: o.Points}
		if options[i].Text == "" {
			return nil, fmt.Errorf("option %d: %w", i, domain.ErrEmptyText)
		}
	}

	q := &domain.Question{Text: text, Options: options, CreatedAt: time.Now().UTC()}
	err := withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.Questions().Create(ctx, q)
	})
	if err != nil {
		return nil, fmt.Errorf("add question: %w", err)
	}

	s.log.Info().Uint("question_id", q.ID).Int("options", len(options)).Msg("question added")
	return q, nil
}

func (s *QuestionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.store.Questions().List(ctx)
}

// Delete removes a question. Only therapists may delete questions.
func (s *QuestionService) Delete(ctx context.Context, role string, questionID uint) error {
	if role != domain.RoleTherapist {
		return domain.ErrForbidden
	}

	err := withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.Questions().Delete(ctx, questionID)
	})
	if err != nil {
		return fmt.Errorf("delete question %d: %w", questionID, err)
	}

	s.log.Info().Uint("question_id", questionID).Msg("question deleted")
	return nil
}
