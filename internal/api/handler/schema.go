package handler

import (
	"time"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=6"`
	Role     string `json:"role"      validate:"required,oneof=worker therapist admin"`
}

// loginRequest accepts JSON {email, password} as well as the OAuth2
// password form where the email travels as username.
type loginRequest struct {
	Email    string `json:"email"    form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (r loginRequest) login() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type userResponse struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        userResponse `json:"user"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role, FullName: u.FullName}
}

// --- Journal ---

type journalRequest struct {
	Score *int   `json:"score" validate:"required,min=0,max=5"`
	Note  string `json:"note"  validate:"max=5000"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type journalItem struct {
	ID             uint      `json:"id"`
	WellbeingScore int       `json:"wellbeing_score"`
	NoteText       string    `json:"note_text"`
	CreatedAt      time.Time `json:"created_at"`
}

type journalsResponse struct {
	Message  string        `json:"message"`
	Journals []journalItem `json:"journals"`
}

func toJournalItems(js []domain.Journal) []journalItem {
	items := make([]journalItem, 0, len(js))
	for _, j := range js {
		items = append(items, journalItem{
			ID:             j.ID,
			WellbeingScore: j.WellbeingScore,
			NoteText:       j.Note,
			CreatedAt:      j.CreatedAt,
		})
	}
	return items
}

// --- Questions & tests ---

type optionRequest struct {
	Text   string `json:"text"   validate:"required"`
	Points int    `json:"points"`
}

type questionRequest struct {
	Text    string          `json:"text"    validate:"required"`
	Options []optionRequest `json:"options" validate:"min=1,dive"`
}

type questionItem struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Options []domain.Option `json:"options"`
}

type questionsResponse struct {
	Message   string         `json:"message"`
	Questions []questionItem `json:"questions"`
}

type questionCreatedResponse struct {
	Message  string       `json:"message"`
	Question questionItem `json:"question"`
}

func toQuestionItem(q domain.Question) questionItem {
	opts := q.Options
	if opts == nil {
		opts = []domain.Option{}
	}
	return questionItem{ID: q.ID, Text: q.Text, Options: opts}
}

type submitRequest struct {
	Answers answerSheet `json:"answers"`
}

type submitResponse struct {
	Message    string `json:"message"`
	TotalScore int    `json:"total_score"`
}

type resultItem struct {
	ID         uint      `json:"id"`
	TotalScore int       `json:"total_score"`
	CreatedAt  time.Time `json:"created_at"`
}

type resultsResponse struct {
	Message string       `json:"message"`
	Results []resultItem `json:"results"`
}

func toResultItems(rs []domain.TestResult) []resultItem {
	items := make([]resultItem, 0, len(rs))
	for _, r := range rs {
		items = append(items, resultItem{ID: r.ID, TotalScore: r.TotalScore, CreatedAt: r.CreatedAt})
	}
	return items
}

// --- AI ---

type askRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type askResponse struct {
	Response string `json:"response"`
}

type summaryResponse struct {
	ID          uint      `json:"id"`
	SummaryText string    `json:"summary_text"`
	CreatedAt   time.Time `json:"created_at"`
}

func toSummaryResponse(s *domain.AISummary) summaryResponse {
	return summaryResponse{ID: s.ID, SummaryText: s.Text, CreatedAt: s.CreatedAt}
}
