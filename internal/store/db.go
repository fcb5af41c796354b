package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotConfigured = errors.New("document store not configured")

// Accessor owns the process-wide MongoDB handle. The client is created on
// first use and shared by every caller afterwards; a failed connect is
// attempted again on the next call. The lock is not held while dialing, so
// each caller waits at most as long as its own ctx allows.
type Accessor struct {
	uri      string
	database string

	mu     sync.Mutex
	client *mongo.Client
	db     *mongo.Database
}

func NewAccessor(uri, database string) *Accessor {
	return &Accessor{uri: uri, database: database}
}

func (a *Accessor) Database(ctx context.Context) (*mongo.Database, error) {
	if a.uri == "" || a.database == "" {
		return nil, ErrNotConfigured
	}
	a.mu.Lock()
	db := a.db
	a.mu.Unlock()
	if db != nil {
		return db, nil
	}

	client, err := a.connect(ctx)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.db != nil {
		// Another caller connected first.
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return a.db, nil
	}
	a.client = client
	a.db = client.Database(a.database)
	return a.db, nil
}

func (a *Accessor) connect(ctx context.Context) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(a.uri).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(5 * time.Minute).
		SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Close disconnects the client if one was opened.
func (a *Accessor) Close(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		return nil
	}
	err := a.client.Disconnect(ctx)
	a.client = nil
	a.db = nil
	if err != nil {
		return fmt.Errorf("disconnect mongo: %w", err)
	}
	return nil
}
