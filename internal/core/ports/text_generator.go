package ports

import "context"

// MessageRole is the author of a chat message sent to the model.
type MessageRole string

const (
	RoleSystem MessageRole = "system"
	RoleUser   MessageRole = "user"
)

type Message struct {
	Role    MessageRole
	Content string
}

// CompletionRequest is a single chat completion call.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	MaxTokens   int
	Temperature float32
}

// TextGenerator is the external language model. Implementations must honour
// ctx cancellation; they never retry.
type TextGenerator interface {
	Generate(ctx context.Context, req CompletionRequest) (string, error)
}
