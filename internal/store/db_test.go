package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAccessorCallersDoNotQueueBehindSlowConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("dials an unreachable address")
	}
	// Nothing listens on port 1, so every connect runs until its ctx ends.
	accessor := NewAccessor("mongodb://127.0.0.1:1/?connectTimeoutMS=200", "webspace")

	slowCtx, cancelSlow := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelSlow()
	slowDone := make(chan error, 1)
	go func() {
		_, err := accessor.Database(slowCtx)
		slowDone <- err
	}()
	time.Sleep(100 * time.Millisecond)

	fastCtx, cancelFast := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancelFast()
	started := time.Now()
	_, err := accessor.Database(fastCtx)
	if err == nil {
		t.Fatal("expected connect to fail")
	}
	if elapsed := time.Since(started); elapsed > 2*time.Second {
		t.Fatalf("second caller waited %s for the first connect", elapsed)
	}

	if err := <-slowDone; err == nil {
		t.Fatal("expected slow connect to fail")
	}
}

func TestAccessorNotConfiguredWithoutDatabaseName(t *testing.T) {
	accessor := NewAccessor("mongodb://127.0.0.1:27017", "")
	if _, err := accessor.Database(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
