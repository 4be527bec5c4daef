package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindcare/wellbeing-api/internal/core/domain"
)

func stamp(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}

// insert assigns the next id of collection, stores doc built from it and
// returns the id.
func (r repos) insert(ctx context.Context, collection string, build func(id uint) any) (uint, error) {
	id, err := r.nextID(ctx, collection)
	if err != nil {
		return 0, err
	}
	ctx, cancel := r.bind(ctx)
	defer cancel()
	if _, err := r.col(collection).InsertOne(ctx, build(id)); err != nil {
		return 0, fmt.Errorf("insert into %s: %w", collection, err)
	}
	return id, nil
}

func (r repos) findByID(ctx context.Context, collection string, id uint, out any, notFound error) error {
	ctx, cancel := r.bind(ctx)
	defer cancel()
	if err := r.col(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return notFound
		}
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	return nil
}

func (r repos) findAll(ctx context.Context, collection string, filter bson.M, opts *options.FindOptions, out any) error {
	ctx, cancel := r.bind(ctx)
	defer cancel()
	cur, err := r.col(collection).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", collection, err)
	}
	return cur.All(ctx, out)
}

func (r repos) deleteByID(ctx context.Context, collection string, id uint, notFound error) error {
	ctx, cancel := r.bind(ctx)
	defer cancel()
	res, err := r.col(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}
	if res.DeletedCount == 0 {
		return notFound
	}
	return nil
}

// ── Journals ──────────────────────────────────────────────────────────────────

type journalDoc struct {
	ID             uint      `bson:"_id"`
	UserID         uint      `bson:"user_id"`
	WellbeingScore int       `bson:"wellbeing_score"`
	Note           string    `bson:"note_text"`
	CreatedAt      time.Time `bson:"created_at"`
}

func (d journalDoc) toDomain() domain.Journal {
	return domain.Journal{ID: d.ID, UserID: d.UserID, WellbeingScore: d.WellbeingScore, Note: d.Note, CreatedAt: d.CreatedAt.UTC()}
}

type journalRepo struct{ repos }

func (r journalRepo) Create(ctx context.Context, j *domain.Journal) error {
	j.CreatedAt = stamp(j.CreatedAt)
	id, err := r.insert(ctx, collectionJournals, func(id uint) any {
		return journalDoc{ID: id, UserID: j.UserID, WellbeingScore: j.WellbeingScore, Note: j.Note, CreatedAt: j.CreatedAt}
	})
	if err != nil {
		return err
	}
	j.ID = id
	return nil
}

func (r journalRepo) FindByID(ctx context.Context, id uint) (*domain.Journal, error) {
	var doc journalDoc
	if err := r.findByID(ctx, collectionJournals, id, &doc, domain.ErrJournalNotFound); err != nil {
		return nil, err
	}
	j := doc.toDomain()
	return &j, nil
}

func (r journalRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.Journal, error) {
	var docs []journalDoc
	if err := r.findAll(ctx, collectionJournals, bson.M{"user_id": userID}, recentOptions(limit), &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Journal, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r journalRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, collectionJournals, id, domain.ErrJournalNotFound)
}

// ── Questions ─────────────────────────────────────────────────────────────────

type questionDoc struct {
	ID        uint            `bson:"_id"`
	Text      string          `bson:"text"`
	Options   []domain.Option `bson:"options"`
	CreatedAt time.Time       `bson:"created_at"`
}

func (d questionDoc) toDomain() domain.Question {
	return domain.Question{ID: d.ID, Text: d.Text, Options: d.Options, CreatedAt: d.CreatedAt.UTC()}
}

type questionRepo struct{ repos }

func (r questionRepo) Create(ctx context.Context, q *domain.Question) error {
	q.CreatedAt = stamp(q.CreatedAt)
	id, err := r.insert(ctx, collectionQuestions, func(id uint) any {
		return questionDoc{ID: id, Text: q.Text, Options: q.Options, CreatedAt: q.CreatedAt}
	})
	if err != nil {
		return err
	}
	q.ID = id
	return nil
}

func (r questionRepo) FindByID(ctx context.Context, id uint) (*domain.Question, error) {
	var doc questionDoc
	if err := r.findByID(ctx, collectionQuestions, id, &doc, domain.ErrQuestionNotFound); err != nil {
		return nil, err
	}
	q := doc.toDomain()
	return &q, nil
}

func (r questionRepo) List(ctx context.Context) ([]domain.Question, error) {
	var docs []questionDoc
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	if err := r.findAll(ctx, collectionQuestions, bson.M{}, opts, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Question, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}
	return out, nil
}

func (r questionRepo) Delete(ctx context.Context, id uint) error {
	return r.deleteByID(ctx, collectionQuestions, id, domain.ErrQuestionNotFound)
}

// ── Test results ──────────────────────────────────────────────────────────────

type testResultDoc struct {
	ID         uint      `bson:"_id"`
	UserID     uint      `bson:"user_id"`
	TotalScore int       `bson:"total_score"`
	CreatedAt  time.Time `bson:"created_at"`
}

type testResultRepo struct{ repos }

func (r testResultRepo) Create(ctx context.Context, tr *domain.TestResult) error {
	tr.CreatedAt = stamp(tr.CreatedAt)
	id, err := r.insert(ctx, collectionTestResults, func(id uint) any {
		return testResultDoc{ID: id, UserID: tr.UserID, TotalScore: tr.TotalScore, CreatedAt: tr.CreatedAt}
	})
	if err != nil {
		return err
	}
	tr.ID = id
	return nil
}

func (r testResultRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.TestResult, error) {
	var docs []testResultDoc
	if err := r.findAll(ctx, collectionTestResults, bson.M{"user_id": userID}, recentOptions(limit), &docs); err != nil {
		return nil, err
	}
	out := make([]domain.TestResult, len(docs))
	for i, d := range docs {
		out[i] = domain.TestResult{ID: d.ID, UserID: d.UserID, TotalScore: d.TotalScore, CreatedAt: d.CreatedAt.UTC()}
	}
	return out, nil
}

// ── AI summaries and logs ─────────────────────────────────────────────────────

type summaryDoc struct {
	ID        uint      `bson:"_id"`
	UserID    uint      `bson:"user_id"`
	Text      string    `bson:"summary_text"`
	CreatedAt time.Time `bson:"created_at"`
}

type summaryRepo struct{ repos }

func (r summaryRepo) Create(ctx context.Context, s *domain.AISummary) error {
	s.CreatedAt = stamp(s.CreatedAt)
	id, err := r.insert(ctx, collectionSummaries, func(id uint) any {
		return summaryDoc{ID: id, UserID: s.UserID, Text: s.Text, CreatedAt: s.CreatedAt}
	})
	if err != nil {
		return err
	}
	s.ID = id
	return nil
}

func (r summaryRepo) Latest(ctx context.Context, userID uint) (*domain.AISummary, error) {
	var docs []summaryDoc
	if err := r.findAll(ctx, collectionSummaries, bson.M{"user_id": userID}, recentOptions(1), &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, domain.ErrSummaryNotFound
	}
	d := docs[0]
	return &domain.AISummary{ID: d.ID, UserID: d.UserID, Text: d.Text, CreatedAt: d.CreatedAt.UTC()}, nil
}

type aiLogDoc struct {
	ID        uint      `bson:"_id"`
	UserID    uint      `bson:"user_id"`
	Request   string    `bson:"request"`
	Response  string    `bson:"response"`
	CreatedAt time.Time `bson:"created_at"`
}

type aiLogRepo struct{ repos }

func (r aiLogRepo) Create(ctx context.Context, l *domain.AILog) error {
	l.CreatedAt = stamp(l.CreatedAt)
	id, err := r.insert(ctx, collectionAILogs, func(id uint) any {
		return aiLogDoc{ID: id, UserID: l.UserID, Request: l.Request, Response: l.Response, CreatedAt: l.CreatedAt}
	})
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}

func (r aiLogRepo) ListRecent(ctx context.Context, userID uint, limit int) ([]domain.AILog, error) {
	var docs []aiLogDoc
	if err := r.findAll(ctx, collectionAILogs, bson.M{"user_id": userID}, recentOptions(limit), &docs); err != nil {
		return nil, err
	}
	out := make([]domain.AILog, len(docs))
	for i, d := range docs {
		out[i] = domain.AILog{ID: d.ID, UserID: d.UserID, Request: d.Request, Response: d.Response, CreatedAt: d.CreatedAt.UTC()}
	}
	return out, nil
}
