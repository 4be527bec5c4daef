package domain

import "time"

const (
	// MaxSummaryLength caps stored summary text, in characters.
	MaxSummaryLength = 2000
	// MinSummaryLength is the shortest model reply accepted as a summary.
	MinSummaryLength = 10
	// MinAssistantReplyLength is the shortest model reply accepted from the assistant.
	MinAssistantReplyLength = 5
)

// AISummary is a generated digest of a user's recent journals and tests.
// The latest one per user is resolved at read time by created_at.
type AISummary struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Text      string    `json:"summary_text"`
	CreatedAt time.Time `json:"created_at"`
}

// AILog records one assistant exchange.
type AILog struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	Request   string    `json:"request"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
}
