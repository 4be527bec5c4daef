package domain

import "time"

// Answer selects one option of one question.
type Answer struct {
	QuestionID  uint
	OptionIndex int
}

// TestResult stores the points-sum of one test submission.
type TestResult struct {
	ID         uint      `json:"id"`
	UserID     uint      `json:"user_id"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}
