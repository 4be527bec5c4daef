package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindcare/wellbeing-api/internal/core/ports"
)

const (
	collectionUsers       = "users"
	collectionJournals    = "journals"
	collectionQuestions   = "questions"
	collectionTestResults = "test_results"
	collectionSummaries   = "ai_summaries"
	collectionAILogs      = "ai_logs"
	collectionCounters    = "counters"
)

// repos binds every repository to the database and, inside a transaction,
// to the session that owns it.
type repos struct {
	db   *mongo.Database
	sess mongo.Session
}

func (r repos) Users() ports.UserRepository             { return userRepo{repos: r} }
func (r repos) Journals() ports.JournalRepository       { return journalRepo{repos: r} }
func (r repos) Questions() ports.QuestionRepository     { return questionRepo{repos: r} }
func (r repos) TestResults() ports.TestResultRepository { return testResultRepo{repos: r} }
func (r repos) Summaries() ports.SummaryRepository      { return summaryRepo{repos: r} }
func (r repos) AILogs() ports.AILogRepository           { return aiLogRepo{repos: r} }

// bind attaches the transaction session to ctx so the driver runs the
// operation inside it.
func (r repos) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	if r.sess != nil {
		return mongo.NewSessionContext(ctx, r.sess), cancel
	}
	return ctx, cancel
}

func (r repos) col(name string) *mongo.Collection {
	return r.db.Collection(name)
}

// nextID returns the next integer id of a collection. It runs outside any
// transaction, so an aborted transaction leaves a gap in the sequence.
func (r repos) nextID(ctx context.Context, collection string) (uint, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	err := r.col(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": collection},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", collection, err)
	}
	return uint(counter.Seq), nil
}

// Store is a ports.Store backed by MongoDB.
type Store struct {
	repos
	client *mongo.Client
}

func NewStore(client *mongo.Client, db *mongo.Database) *Store {
	return &Store{repos: repos{db: db}, client: client}
}

func (s *Store) Begin(ctx context.Context) (ports.Tx, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	if err := sess.StartTransaction(); err != nil {
		sess.EndSession(ctx)
		return nil, fmt.Errorf("start transaction: %w", err)
	}
	return &Tx{repos: repos{db: s.db, sess: sess}}, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique and newest-first indexes every query relies on.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := s.col(collectionUsers).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	recent := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}
	for _, name := range []string{collectionJournals, collectionTestResults, collectionSummaries, collectionAILogs} {
		if _, err := s.col(name).Indexes().CreateOne(ctx, recent); err != nil {
			return fmt.Errorf("%s indexes: %w", name, err)
		}
	}
	return nil
}

type Tx struct {
	repos
}

func (t *Tx) Commit(ctx context.Context) error {
	defer t.sess.EndSession(ctx)
	if err := t.sess.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (t *Tx) Rollback(ctx context.Context) error {
	defer t.sess.EndSession(ctx)
	return t.sess.AbortTransaction(ctx)
}

// recentOptions sorts newest first and applies an optional limit.
func recentOptions(limit int) *options.FindOptions {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}
