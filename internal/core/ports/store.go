package ports

import "context"

// Repositories groups the per-entity repositories of one data-access handle.
type Repositories interface {
	Users() UserRepository
	Journals() JournalRepository
	Questions() QuestionRepository
	TestResults() TestResultRepository
	Summaries() SummaryRepository
	AILogs() AILogRepository
}

// Store is the data-access handle handed to services. Reads may go straight
// through its repositories; writes go through a Tx.
type Store interface {
	Repositories
	Begin(ctx context.Context) (Tx, error)
	Ping(ctx context.Context) error
}

// Tx is a unit of work. Exactly one of Commit or Rollback must be called.
type Tx interface {
	Repositories
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
