package service

// SummaryScheduler queues a background summary for a user. Implementations
// must not block the caller and never report the summary outcome.
type SummaryScheduler interface {
	Schedule(userID uint)
}

// NoopScheduler drops every request. Useful when background summaries are
// disabled and in tests.
type NoopScheduler struct{}

func (NoopScheduler) Schedule(uint) {}
