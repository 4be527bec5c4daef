package sqlstore

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

func notFound(err error, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

// recent applies the newest-first order and an optional limit.
func recent(db *gorm.DB, userID uint, limit int) *gorm.DB {
	q := db.Where("user_id = ?", userID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

type userRepo struct{ db *gorm.DB }

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	m := userModel{FullName: u.FullName, Email: u.Email, PasswordHash: u.PasswordHash, Role: u.Role, CreatedAt: u.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrUserExists
		}
		return err
	}
	u.ID, u.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

func (r userRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var m userModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrUserNotFound)
	}
	return m.toDomain(), nil
}

type journalRepo struct{ db *gorm.DB }

func (r journalRepo) Create(ctx context.Context, j *domain.Journal) error {
	m := journalModel{UserID: j.UserID, WellbeingScore: j.WellbeingScore, Note: j.Note, CreatedAt: j.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	j.ID, j.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r journalRepo) FindByID(ctx context.Context, id uint) (*domain.Journal, error) {
	var m journalModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrJournalNotFound)
	}
	j := m.toDomain()
	return &j, nil
}

func (r journalRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.Journal, error) {
	var rows []journalModel
	if err := recent(r.db.WithContext(ctx), userID, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Journal, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

func (r journalRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&journalModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrJournalNotFound
	}
	return nil
}

type questionRepo struct{ db *gorm.DB }

func (r questionRepo) Create(ctx context.Context, q *domain.Question) error {
	m := newQuestionModel(q)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	q.ID, q.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r questionRepo) FindByID(ctx context.Context, id uint) (*domain.Question, error) {
	var m questionModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, notFound(err, domain.ErrQuestionNotFound)
	}
	q := m.toDomain()
	return &q, nil
}

func (r questionRepo) List(ctx context.Context) ([]domain.Question, error) {
	var rows []questionModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Question, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

func (r questionRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&questionModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

type testResultRepo struct{ db *gorm.DB }

func (r testResultRepo) Create(ctx context.Context, tr *domain.TestResult) error {
	m := testResultModel{UserID: tr.UserID, TotalScore: tr.TotalScore, CreatedAt: tr.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	tr.ID, tr.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r testResultRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.TestResult, error) {
	var rows []testResultModel
	if err := recent(r.db.WithContext(ctx), userID, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.TestResult, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}

type summaryRepo struct{ db *gorm.DB }

func (r summaryRepo) Create(ctx context.Context, s *domain.AISummary) error {
	m := summaryModel{UserID: s.UserID, Text: s.Text, CreatedAt: s.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	s.ID, s.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r summaryRepo) Latest(ctx context.Context, userID uint) (*domain.AISummary, error) {
	var m summaryModel
	if err := recent(r.db.WithContext(ctx), userID, 1).Take(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrSummaryNotFound)
	}
	return m.toDomain(), nil
}

type aiLogRepo struct{ db *gorm.DB }

func (r aiLogRepo) Create(ctx context.Context, l *domain.AILog) error {
	m := aiLogModel{UserID: l.UserID, Request: l.Request, Response: l.Response, CreatedAt: l.CreatedAt}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	l.ID, l.CreatedAt = m.ID, m.CreatedAt
	return nil
}

func (r aiLogRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.AILog, error) {
	var rows []aiLogModel
	if err := recent(r.db.WithContext(ctx), userID, limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.AILog, len(rows))
	for i, m := range rows {
		out[i] = m.toDomain()
	}
	return out, nil
}
