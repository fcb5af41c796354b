package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

func getTestMongo(t *testing.T) (*Mongo, *Accessor) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	accessor := NewAccessor(uri, fmt.Sprintf("webspace_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		ctx := context.Background()
		if db, err := accessor.Database(ctx); err == nil {
			_ = db.Drop(ctx)
		}
		_ = accessor.Close(ctx)
	})
	return NewMongo(accessor), accessor
}

func TestMongoSingletonRoundTrip(t *testing.T) {
	m, _ := getTestMongo(t)
	ctx := context.Background()

	doc, err := m.FindSingleton(ctx, "profile")
	if err != nil {
		t.Fatalf("FindSingleton() error = %v", err)
	}
	if doc != nil {
		t.Fatalf("expected nil before any write, got %v", doc)
	}

	if err := m.ReplaceSingleton(ctx, "profile", Document{"name": "Minh"}); err != nil {
		t.Fatalf("ReplaceSingleton() error = %v", err)
	}
	if err := m.ReplaceSingleton(ctx, "profile", Document{"name": "Minh Nguyen"}); err != nil {
		t.Fatalf("ReplaceSingleton() second error = %v", err)
	}
	doc, err = m.FindSingleton(ctx, "profile")
	if err != nil {
		t.Fatalf("FindSingleton() error = %v", err)
	}
	if doc["name"] != "Minh Nguyen" {
		t.Fatalf("unexpected profile: %v", doc)
	}
	if _, ok := doc["_id"]; ok {
		t.Fatal("expected _id to be stripped")
	}

	if err := m.DeleteSingleton(ctx, "profile"); err != nil {
		t.Fatalf("DeleteSingleton() error = %v", err)
	}
	if doc, err = m.FindSingleton(ctx, "profile"); err != nil || doc != nil {
		t.Fatalf("expected nil after delete, got %v, %v", doc, err)
	}
}

func TestMongoCollectionReadsAndLimits(t *testing.T) {
	m, _ := getTestMongo(t)
	ctx := context.Background()

	empty, err := m.FindAll(ctx, "languages", FindOptions{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", empty)
	}

	docs := []Document{{"title": "one"}, {"title": "two"}, {"title": "three"}}
	if err := m.ReplaceCollection(ctx, "techNews", docs); err != nil {
		t.Fatalf("ReplaceCollection() error = %v", err)
	}
	recent, err := m.FindAll(ctx, "techNews", FindOptions{Limit: 2, NewestFirst: true})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(recent))
	}
}

func TestAccessorWithoutURI(t *testing.T) {
	accessor := NewAccessor("", "webspace")
	if _, err := accessor.Database(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if err := accessor.Close(context.Background()); err != nil {
		t.Fatalf("Close() on unopened accessor error = %v", err)
	}
}
