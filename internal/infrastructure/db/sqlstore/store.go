package sqlstore

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// repos binds every repository to one gorm handle, either the pool or an
// open transaction.
type repos struct {
	db *gorm.DB
}

func (r repos) Users() ports.UserRepository             { return userRepo{db: r.db} }
func (r repos) Journals() ports.JournalRepository       { return journalRepo{db: r.db} }
func (r repos) Questions() ports.QuestionRepository     { return questionRepo{db: r.db} }
func (r repos) TestResults() ports.TestResultRepository { return testResultRepo{db: r.db} }
func (r repos) Summaries() ports.SummaryRepository      { return summaryRepo{db: r.db} }
func (r repos) AILogs() ports.AILogRepository           { return aiLogRepo{db: r.db} }

// Store is a ports.Store backed by gorm.
type Store struct {
	repos
}

func NewStore(db *gorm.DB) *Store {
	return &Store{repos: repos{db: db}}
}

// DB exposes the underlying handle, e.g. for closing the pool on shutdown.
func (s *Store) DB() *gorm.DB { return s.db }

func (s *Store) Begin(ctx context.Context) (ports.Tx, error) {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return &Tx{repos: repos{db: tx}}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type Tx struct {
	repos
}

func (t *Tx) Commit(context.Context) error {
	if err := t.db.Commit().Error; err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (t *Tx) Rollback(context.Context) error {
	return t.db.Rollback().Error
}
