package service

import (
	"context"
	"sort"
	"sync"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub store. Writes made through a Tx are applied on Commit and
// discarded on Rollback.
// ---------------------------------------------------------------------------

type stubStore struct {
	mu     sync.Mutex
	nextID uint

	users     []domain.User
	journals  []domain.Journal
	questions []domain.Question
	results   []domain.TestResult
	summaries []domain.AISummary
	logs      []domain.AILog

	beginErr  error // if set, Begin returns this error
	writeErr  error // if set, every write inside a Tx returns this error
	commitErr error // if set, Commit returns this error
	readErr   error // if set, ListRecent and Latest return this error

	commits   int
	rollbacks int
}

func newStubStore() *stubStore {
	return &stubStore{}
}

func (s *stubStore) id() uint {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	return s.nextID
}

func (s *stubStore) Users() ports.UserRepository             { return stubUsers{s: s} }
func (s *stubStore) Journals() ports.JournalRepository       { return stubJournals{s: s} }
func (s *stubStore) Questions() ports.QuestionRepository     { return stubQuestions{s: s} }
func (s *stubStore) TestResults() ports.TestResultRepository { return stubResults{s: s} }
func (s *stubStore) Summaries() ports.SummaryRepository      { return stubSummaries{s: s} }
func (s *stubStore) AILogs() ports.AILogRepository           { return stubLogs{s: s} }
func (s *stubStore) Ping(context.Context) error              { return nil }

func (s *stubStore) Begin(context.Context) (ports.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &stubTx{s: s}, nil
}

// write applies fn directly, or defers it to commit when running in tx.
func (s *stubStore) write(tx *stubTx, fn func()) error {
	if tx != nil {
		if s.writeErr != nil {
			return s.writeErr
		}
		tx.pending = append(tx.pending, fn)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	fn()
	return nil
}

type stubTx struct {
	s       *stubStore
	pending []func()
	done    bool
}

func (t *stubTx) Users() ports.UserRepository             { return stubUsers{s: t.s, tx: t} }
func (t *stubTx) Journals() ports.JournalRepository       { return stubJournals{s: t.s, tx: t} }
func (t *stubTx) Questions() ports.QuestionRepository     { return stubQuestions{s: t.s, tx: t} }
func (t *stubTx) TestResults() ports.TestResultRepository { return stubResults{s: t.s, tx: t} }
func (t *stubTx) Summaries() ports.SummaryRepository      { return stubSummaries{s: t.s, tx: t} }
func (t *stubTx) AILogs() ports.AILogRepository           { return stubLogs{s: t.s, tx: t} }

func (t *stubTx) Commit(context.Context) error {
	if t.s.commitErr != nil {
		return t.s.commitErr
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, fn := range t.pending {
		fn()
	}
	t.done = true
	t.s.commits++
	return nil
}

func (t *stubTx) Rollback(context.Context) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.pending = nil
	t.done = true
	t.s.rollbacks++
	return nil
}

// ---------------------------------------------------------------------------
// Repositories
// ---------------------------------------------------------------------------

type stubUsers struct {
	s  *stubStore
	tx *stubTx
}

func (r stubUsers) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			r.s.mu.Unlock()
			return domain.ErrUserExists
		}
	}
	r.s.mu.Unlock()
	u.ID = r.s.id()
	clone := *u
	return r.s.write(r.tx, func() { r.s.users = append(r.s.users, clone) })
}

func (r stubUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r stubUsers) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.ID == id {
			clone := u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubJournals struct {
	s  *stubStore
	tx *stubTx
}

func (r stubJournals) Create(_ context.Context, j *domain.Journal) error {
	j.ID = r.s.id()
	clone := *j
	return r.s.write(r.tx, func() { r.s.journals = append(r.s.journals, clone) })
}

func (r stubJournals) FindByID(_ context.Context, id uint) (*domain.Journal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, j := range r.s.journals {
		if j.ID == id {
			clone := j
			return &clone, nil
		}
	}
	return nil, domain.ErrJournalNotFound
}

func (r stubJournals) ListRecent(_ context.Context, userID uint, limit int) ([]domain.Journal, error) {
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Journal
	for _, j := range r.s.journals {
		if j.UserID == userID {
			out = append(out, j)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return limitSlice(out, limit), nil
}

func (r stubJournals) Delete(_ context.Context, id uint) error {
	return r.s.write(r.tx, func() {
		for i, j := range r.s.journals {
			if j.ID == id {
				r.s.journals = append(r.s.journals[:i], r.s.journals[i+1:]...)
				return
			}
		}
	})
}

type stubQuestions struct {
	s  *stubStore
	tx *stubTx
}

func (r stubQuestions) Create(_ context.Context, q *domain.Question) error {
	q.ID = r.s.id()
	clone := *q
	return r.s.write(r.tx, func() { r.s.questions = append(r.s.questions, clone) })
}

func (r stubQuestions) FindByID(_ context.Context, id uint) (*domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, q := range r.s.questions {
		if q.ID == id {
			clone := q
			return &clone, nil
		}
	}
	return nil, domain.ErrQuestionNotFound
}

func (r stubQuestions) List(context.Context) ([]domain.Question, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]domain.Question(nil), r.s.questions...), nil
}

func (r stubQuestions) Delete(ctx context.Context, id uint) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return r.s.write(r.tx, func() {
		for i, q := range r.s.questions {
			if q.ID == id {
				r.s.questions = append(r.s.questions[:i], r.s.questions[i+1:]...)
				return
			}
		}
	})
}

type stubResults struct {
	s  *stubStore
	tx *stubTx
}

func (r stubResults) Create(_ context.Context, tr *domain.TestResult) error {
	tr.ID = r.s.id()
	clone := *tr
	return r.s.write(r.tx, func() { r.s.results = append(r.s.results, clone) })
}

func (r stubResults) ListRecent(_ context.Context, userID uint, limit int) ([]domain.TestResult, error) {
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.TestResult
	for _, tr := range r.s.results {
		if tr.UserID == userID {
			out = append(out, tr)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return limitSlice(out, limit), nil
}

type stubSummaries struct {
	s  *stubStore
	tx *stubTx
}

func (r stubSummaries) Create(_ context.Context, sm *domain.AISummary) error {
	sm.ID = r.s.id()
	clone := *sm
	return r.s.write(r.tx, func() { r.s.summaries = append(r.s.summaries, clone) })
}

func (r stubSummaries) Latest(_ context.Context, userID uint) (*domain.AISummary, error) {
	if r.s.readErr != nil {
		return nil, r.s.readErr
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var latest *domain.AISummary
	for i := range r.s.summaries {
		sm := r.s.summaries[i]
		if sm.UserID != userID {
			continue
		}
		if latest == nil || sm.CreatedAt.After(latest.CreatedAt) ||
			(sm.CreatedAt.Equal(latest.CreatedAt) && sm.ID > latest.ID) {
			clone := sm
			latest = &clone
		}
	}
	if latest == nil {
		return nil, domain.ErrSummaryNotFound
	}
	return latest, nil
}

type stubLogs struct {
	s  *stubStore
	tx *stubTx
}

func (r stubLogs) Create(_ context.Context, l *domain.AILog) error {
	l.ID = r.s.id()
	clone := *l
	return r.s.write(r.tx, func() { r.s.logs = append(r.s.logs, clone) })
}

func (r stubLogs) ListRecent(_ context.Context, userID uint, limit int) ([]domain.AILog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.AILog
	for i := len(r.s.logs) - 1; i >= 0; i-- {
		if r.s.logs[i].UserID == userID {
			out = append(out, r.s.logs[i])
		}
	}
	return limitSlice(out, limit), nil
}

func limitSlice[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// ---------------------------------------------------------------------------
// Other stubs
// ---------------------------------------------------------------------------

// stubGenerator returns reply/err and records every request.
type stubGenerator struct {
	mu       sync.Mutex
	reply    string
	err      error
	panicMsg string
	requests []ports.CompletionRequest
}

func (g *stubGenerator) Generate(_ context.Context, req ports.CompletionRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.panicMsg != "" {
		panic(g.panicMsg)
	}
	return g.reply, g.err
}

func (g *stubGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.requests)
}

type recordingScheduler struct {
	mu    sync.Mutex
	users []uint
}

func (r *recordingScheduler) Schedule(userID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, userID)
}

func (r *recordingScheduler) scheduled() []uint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]uint(nil), r.users...)
}
