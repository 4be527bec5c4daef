// Package mongo implements ports.Store on MongoDB. Transactions need a
// replica set or sharded cluster.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	defaultTimeout = 10 * time.Second
	appName        = "wellbeing-api"
)

// Config selects the deployment and database holding the wellbeing collections.
type Config struct {
	URI      string
	Database string
	// ConnectTimeout bounds dialing, the first ping and index creation.
	// Zero uses defaultTimeout.
	ConnectTimeout time.Duration
}

// Open connects to cfg.URI and returns a Store whose indexes are in place.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	client, db, err := connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := NewStore(client, db)
	if err := s.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	if cfg.Database == "" {
		return nil, nil, fmt.Errorf("mongo: database name is required")
	}
	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(cfg.URI).
		SetAppName(appName).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("mongo ping %s: %w", cfg.Database, err)
	}
	return client, client.Database(cfg.Database), nil
}
