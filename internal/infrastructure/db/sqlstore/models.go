package sqlstore

import (
	"time"

	"gorm.io/datatypes"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

type userModel struct {
	ID           uint   `gorm:"primaryKey"`
	FullName     string `gorm:"not null;default:''"`
	Email        string `gorm:"uniqueIndex:idx_users_email;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"size:16;not null"`
	CreatedAt    time.Time
}

func (userModel) TableName() string { return "users" }

func (m userModel) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID,
		FullName:     m.FullName,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         m.Role,
		CreatedAt:    m.CreatedAt,
	}
}

type journalModel struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index:idx_journals_user_created,priority:1;not null"`
	WellbeingScore int       `gorm:"not null"`
	Note           string    `gorm:"column:note_text;not null;default:''"`
	CreatedAt      time.Time `gorm:"index:idx_journals_user_created,priority:2,sort:desc"`
}

func (journalModel) TableName() string { return "journals" }

func (m journalModel) toDomain() domain.Journal {
	return domain.Journal{
		ID:             m.ID,
		UserID:         m.UserID,
		WellbeingScore: m.WellbeingScore,
		Note:           m.Note,
		CreatedAt:      m.CreatedAt,
	}
}

// questionModel stores the options inline as a JSON array; their position is
// the index answers refer to.
type questionModel struct {
	ID        uint                            `gorm:"primaryKey"`
	Text      string                          `gorm:"not null"`
	Options   datatypes.JSONSlice[optionJSON] `gorm:"not null"`
	CreatedAt time.Time
}

type optionJSON struct {
	Text   string `json:"text"`
	Points int    `json:"points"`
}

func (questionModel) TableName() string { return "questions" }

func (m questionModel) toDomain() domain.Question {
	options := make([]domain.Option, len(m.Options))
	for i, o := range m.Options {
		options[i] = domain.Option{Text: o.Text, Points: o.Points}
	}
	return domain.Question{ID: m.ID, Text: m.Text, Options: options, CreatedAt: m.CreatedAt}
}

func newQuestionModel(q *domain.Question) questionModel {
	options := make([]optionJSON, len(q.Options))
	for i, o := range q.Options {
		options[i] = optionJSON{Text: o.Text, Points: o.Points}
	}
	return questionModel{Text: q.Text, Options: datatypes.NewJSONSlice(options), CreatedAt: q.CreatedAt}
}

type testResultModel struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     uint      `gorm:"index:idx_test_results_user_created,priority:1;not null"`
	TotalScore int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"index:idx_test_results_user_created,priority:2,sort:desc"`
}

func (testResultModel) TableName() string { return "test_results" }

func (m testResultModel) toDomain() domain.TestResult {
	return domain.TestResult{ID: m.ID, UserID: m.UserID, TotalScore: m.TotalScore, CreatedAt: m.CreatedAt}
}

type summaryModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_ai_summaries_user_created,priority:1;not null"`
	Text      string    `gorm:"column:summary_text;not null"`
	CreatedAt time.Time `gorm:"index:idx_ai_summaries_user_created,priority:2,sort:desc"`
}

func (summaryModel) TableName() string { return "ai_summaries" }

func (m summaryModel) toDomain() *domain.AISummary {
	return &domain.AISummary{ID: m.ID, UserID: m.UserID, Text: m.Text, CreatedAt: m.CreatedAt}
}

type aiLogModel struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"index:idx_ai_logs_user_created,priority:1;not null"`
	Request   string    `gorm:"not null"`
	Response  string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index:idx_ai_logs_user_created,priority:2,sort:desc"`
}

func (aiLogModel) TableName() string { return "ai_logs" }

func (m aiLogModel) toDomain() domain.AILog {
	return domain.AILog{ID: m.ID, UserID: m.UserID, Request: m.Request, Response: m.Response, CreatedAt: m.CreatedAt}
}

func allModels() []any {
	return []any{&userModel{}, &journalModel{}, &questionModel{}, &testResultModel{}, &summaryModel{}, &aiLogModel{}}
}
