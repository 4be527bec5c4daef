package domain

import (
	"fmt"
	"time"
)

// Option is one selectable answer of a question. Options are addressed by
// their position, so their order must not change once a test is in use.
type Option struct {
	Text   string `json:"text" bson:"text"`
	Points int    `json:"points" bson:"points"`
}

// Question is a multiple-choice item managed by therapists.
type Question struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	Options   []Option  `json:"options"`
	CreatedAt time.Time `json:"created_at"`
}

// OptionAt returns the option at index or ErrOptionOutOfRange.
func (q Question) OptionAt(index int) (Option, error) {
	if index < 0 || index >= len(q.Options) {
		return Option{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOptionOutOfRange, index, len(q.Options))
	}
	return q.Options[index], nil
}
