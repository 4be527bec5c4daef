// Package llm adapts hosted language models to ports.TextGenerator.
package llm

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// ErrEmptyChoices is returned when the API answers without any choice.
var ErrEmptyChoices = errors.New("llm: response has no choices")

// Config selects the endpoint and credentials of the chat completion API.
type Config struct {
	APIKey string
	// BaseURL overrides the default https://api.openai.com/v1 endpoint,
	// e.g. for a compatible proxy.
	BaseURL string
}

// OpenAIGenerator calls the chat completions endpoint once per request.
type OpenAIGenerator struct {
	client *openai.Client
}

func NewOpenAIGenerator(cfg Config) *OpenAIGenerator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &OpenAIGenerator{client: openai.NewClientWithConfig(clientCfg)}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req ports.CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{Role: chatRole(m.Role), Content: m.Content}
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyChoices
	}
	return resp.Choices[0].Message.Content, nil
}

func chatRole(role ports.MessageRole) string {
	switch role {
	case ports.RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}

// Unavailable is used when no API key is configured. Every call fails, which
// the AI services report as an external service failure.
type Unavailable struct{}

var errNotConfigured = errors.New("llm: OPENAI_API_KEY is not configured")

func (Unavailable) Generate(context.Context, ports.CompletionRequest) (string, error) {
	return "", errNotConfigured
}
