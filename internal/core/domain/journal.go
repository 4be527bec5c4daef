package domain

import "time"

const (
	MinWellbeingScore = 0
	MaxWellbeingScore = 5
)

// Journal is a timestamped self-report of wellbeing. Entries are never
// mutated; only their owner may delete them.
type Journal struct {
	ID             uint      `json:"id"`
	UserID         uint      `json:"user_id"`
	WellbeingScore int       `json:"wellbeing_score"`
	Note           string    `json:"note_text,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// HasNote reports whether the entry carries free text.
func (j Journal) HasNote() bool {
	return j.Note != ""
}

// ValidateWellbeingScore rejects scores outside [MinWellbeingScore, MaxWellbeingScore].
func ValidateWellbeingScore(score int) error {
	if score < MinWellbeingScore || score > MaxWellbeingScore {
		return ErrScoreOutOfRange
	}
	return nil
}
