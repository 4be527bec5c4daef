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
	summaryJournalLimit = 10
	summaryTestLimit    = 5

	summaryMaxTokens   = 500
	summaryTemperature = 0.7

	noDataPlaceholder = "No data"
	summaryDateLayout = "2006-01-02"
)

const summarySystemPrompt = "You are a psychological assistant who analyzes a user's self-reported data."

const summaryPromptTemplate = `You are a psychological assistant.
Write a short digest of the user's state.

Tests:
%s

Notes:
%s

Describe:
- overall state
- trends
- brief advice`

// AIConfig holds the model settings shared by the AI services.
type AIConfig struct {
	Model   string
	Timeout time.Duration
}

func (c AIConfig) withDefaults() AIConfig {
	if c.Model == "" {
		c.Model = "gpt-4o-mini"
	}
	if c.Timeout <= 0 {
		c.Timeout = 60 * time.Second
	}
	return c
}

// SummaryService builds a digest of a user's recent journals and test results
// with the language model and stores it as an AISummary.
type SummaryService struct {
	store ports.Store
	llm   ports.TextGenerator
	cfg   AIConfig
	log   zerolog.Logger
}

func NewSummaryService(store ports.Store, llm ports.TextGenerator, cfg AIConfig, log zerolog.Logger) *SummaryService {
	return &SummaryService{store: store, llm: llm, cfg: cfg.withDefaults(), log: log}
}

// Generate runs one summary. Every failure, including a panic in a
// dependency, is reported through the result.
func (s *SummaryService) Generate(ctx context.Context, userID uint) (res ports.SummaryResult) {
	log := s.log.With().Uint("user_id", userID).Str("operation", metrics.OperationSummary).Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("summary generation panicked")
			res = ports.SummaryResult{Err: fmt.Errorf("summary generation panicked: %v", r)}
		}
		metrics.AIRequestsTotal.WithLabelValues(metrics.OperationSummary, aiOutcome(res.Err)).Inc()
	}()

	summary, err := s.generate(ctx, log, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNoData) {
			log.Info().Msg("no data available, skipping summary")
		} else {
			log.Error().Err(err).Msg("summary generation failed")
		}
		return ports.SummaryResult{Err: err}
	}

	log.Info().Uint("summary_id", summary.ID).Int("length", utf8.RuneCountInString(summary.Text)).Msg("summary generated")
	return ports.SummaryResult{Succeeded: true, Summary: summary}
}

func (s *SummaryService) generate(ctx context.Context, log zerolog.Logger, userID uint) (*domain.AISummary, error) {
	log.Debug().Str("stage", "fetching").Send()
	journals, err := s.store.Journals().ListRecent(ctx, userID, summaryJournalLimit)
	if err != nil {
		return nil, fmt.Errorf("list journals: %w", err)
	}
	tests, err := s.store.TestResults().ListRecent(ctx, userID, summaryTestLimit)
	if err != nil {
		return nil, fmt.Errorf("list test results: %w", err)
	}
	if len(journals) == 0 && len(tests) == 0 {
		return nil, domain.ErrNoData
	}

	log.Debug().Str("stage", "composing").Int("journals", len(journals)).Int("tests", len(tests)).Send()
	req := ports.CompletionRequest{
		Model: s.cfg.Model,
		Messages: []ports.Message{
			{Role: ports.RoleSystem, Content: summarySystemPrompt},
			{Role: ports.RoleUser, Content: BuildSummaryPrompt(journals, tests)},
		},
		MaxTokens:   summaryMaxTokens,
		Temperature: summaryTemperature,
	}

	log.Debug().Str("stage", "calling").Str("model", s.cfg.Model).Send()
	reply, err := callModel(ctx, s.llm, s.cfg.Timeout, metrics.OperationSummary, req)
	if err != nil {
		return nil, err
	}

	log.Debug().Str("stage", "validating").Send()
	if utf8.RuneCountInString(strings.TrimSpace(reply)) < domain.MinSummaryLength {
		return nil, fmt.Errorf("%w: summary shorter than %d characters", domain.ErrInvalidModelResponse, domain.MinSummaryLength)
	}
	if utf8.RuneCountInString(reply) > domain.MaxSummaryLength {
		log.Warn().Msg("model reply too long, truncating")
		reply = truncateRunes(reply, domain.MaxSummaryLength)
	}

	log.Debug().Str("stage", "persisting").Send()
	summary := &domain.AISummary{UserID: userID, Text: reply, CreatedAt: time.Now().UTC()}
	err = withinTx(ctx, s.store, log, func(tx ports.Tx) error {
		return tx.Summaries().Create(ctx, summary)
	})
	if err != nil {
		return nil, fmt.Errorf("save summary: %w", err)
	}
	return summary, nil
}

func (s *SummaryService) Latest(ctx context.Context, userID uint) (*domain.AISummary, error) {
	return s.store.Summaries().Latest(ctx, userID)
}

// BuildSummaryPrompt renders the user prompt for a summary. Journals without a
// note are left out; an empty block reads "No data".
func BuildSummaryPrompt(journals []domain.Journal, tests []domain.TestResult) string {
	var jb strings.Builder
	for _, j := range journals {
		if !j.HasNote() {
			continue
		}
		if jb.Len() > 0 {
			jb.WriteByte('\n')
		}
		fmt.Fprintf(&jb, "- %s: %s (score: %d)", j.CreatedAt.UTC().Format(summaryDateLayout), j.Note, j.WellbeingScore)
	}

	var tb strings.Builder
	for _, t := range tests {
		if tb.Len() > 0 {
			tb.WriteByte('\n')
		}
		fmt.Fprintf(&tb, "- %s: score %d", t.CreatedAt.UTC().Format(summaryDateLayout), t.TotalScore)
	}

	return fmt.Sprintf(summaryPromptTemplate, orPlaceholder(tb.String()), orPlaceholder(jb.String()))
}

func orPlaceholder(block string) string {
	if block == "" {
		return noDataPlaceholder
	}
	return block
}

// callModel runs one bounded model call. It never retries.
func callModel(ctx context.Context, llm ports.TextGenerator, timeout time.Duration, operation string, req ports.CompletionRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	reply, err := llm.Generate(callCtx, req)
	metrics.AIModelCallDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrExternalService, err)
	}
	return reply, nil
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

func aiOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, domain.ErrNoData):
		return metrics.OutcomeNoData
	case errors.Is(err, domain.ErrInvalidModelResponse):
		return metrics.OutcomeInvalidResponse
	case errors.Is(err, domain.ErrExternalService):
		return metrics.OutcomeExternalError
	default:
		return metrics.OutcomeStorageError
	}
}
