package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/mindcare/wellbeing-api/internal/api/metrics"
	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

const (
	assistantMaxTokens   = 800
	assistantTemperature = 0.8
)

const assistantSystemPrompt = `You are a professional psychological assistant.
Your job is to help users with their psychological state and to give advice and support.
Answer in the language the user writes in. Be empathetic and professional.`

// AssistantService answers free-form prompts, using the latest summary of the
// user as context when one exists.
type AssistantService struct {
	store ports.Store
	llm   ports.TextGenerator
	cfg   AIConfig
	log   zerolog.Logger
}

func NewAssistantService(store ports.Store, llm ports.TextGenerator, cfg AIConfig, log zerolog.Logger) *AssistantService {
	return &AssistantService{store: store, llm: llm, cfg: cfg.withDefaults(), log: log}
}

// Ask performs no writes.
func (s *AssistantService) Ask(ctx context.Context, userID uint, prompt string) (res ports.AssistantResult) {
	log := s.log.With().Uint("user_id", userID).Str("operation", metrics.OperationAssistant).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("assistant panicked")
			res = ports.AssistantResult{Err: fmt.Errorf("assistant panicked: %v", r)}
		}
		metrics.AIRequestsTotal.WithLabelValues(metrics.OperationAssistant, aiOutcome(res.Err)).Inc()
	}()

	reply, err := s.ask(ctx, log, userID, prompt)
	if err != nil {
		log.Error().Err(err).Msg("assistant failed")
		return ports.AssistantResult{Err: err}
	}

	log.Info().Msg("assistant responded")
	return ports.AssistantResult{Succeeded: true, Reply: reply}
}

func (s *AssistantService) ask(ctx context.Context, log zerolog.Logger, userID uint, prompt string) (string, error) {
	log.Debug().Str("stage", "fetching").Send()
	var userContext string
	latest, err := s.store.Summaries().Latest(ctx, userID)
	switch {
	case err == nil:
		userContext = latest.Text
	case errors.Is(err, domain.ErrSummaryNotFound):
	default:
		return "", fmt.Errorf("latest summary: %w", err)
	}

	log.Debug().Str("stage", "composing").Bool("has_context", userContext != "").Send()
	req := ports.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []ports.Message{
			{Role: ports.RoleSystem, Content: BuildAssistantSystemPrompt(userContext)},
			{Role: ports.RoleUser, Content: prompt},
		},
		MaxTokens:   assistantMaxTokens,
		Temperature: assistantTemperature,
	}

	log.Debug().Str("stage", "calling").Str("model", s.cfg.Model).Send()
	reply, err := callModel(ctx, s.llm, s.cfg.Timeout, metrics.OperationAssistant, req)
	if err != nil {
		return "", err
	}

	log.Debug().Str("stage", "validating").Send()
	if utf8.RuneCountInString(strings.TrimSpace(reply)) < domain.MinAssistantReplyLength {
		return "", fmt.Errorf("%w: reply shorter than %d characters", domain.ErrInvalidModelResponse, domain.MinAssistantReplyLength)
	}
	return reply, nil
}

// RecordExchange stores the prompt and reply as an AILog.
func (s *AssistantService) RecordExchange(ctx context.Context, userID uint, prompt, reply string) (*domain.AILog, error) {
	entry := &domain.AILog{UserID: userID, Request: prompt, Response: reply, CreatedAt: time.Now().UTC()}
	err := withinTx(ctx, s.store, s.log, func(tx ports.Tx) error {
		return tx.AILogs().Create(ctx, entry)
	})
	if err != nil {
		return nil, fmt.Errorf("save ai log: %w", err)
	}
	return entry, nil
}

// BuildAssistantSystemPrompt returns the assistant persona, followed by the
// user's latest summary when there is one.
func BuildAssistantSystemPrompt(summary string) string {
	if summary == "" {
		return assistantSystemPrompt
	}
	return assistantSystemPrompt + "\n\nContext about the user:\n" + summary
}
