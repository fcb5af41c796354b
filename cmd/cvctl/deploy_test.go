package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/captainminh1999/my-webspace-sub000/internal/app"
	"github.com/captainminh1999/my-webspace-sub000/internal/config"
	"github.com/captainminh1999/my-webspace-sub000/internal/logging"
	"github.com/captainminh1999/my-webspace-sub000/internal/poller"
)

func TestPostUpload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in app.UploadInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if in.SecretKey != "ok" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"code":"FORBIDDEN","error":"Invalid secret key"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(app.UploadResult{Message: "skills data updated from skills.csv", CommitSHA: "abc"})
	}))
	defer server.Close()

	body, _ := json.Marshal(app.UploadInput{SectionIdentifier: "skills", SecretKey: "ok"})
	result, err := postUpload(context.Background(), server.URL, body)
	if err != nil {
		t.Fatalf("postUpload() error = %v", err)
	}
	if result.CommitSHA != "abc" {
		t.Fatalf("unexpected result %+v", result)
	}

	body, _ = json.Marshal(app.UploadInput{SectionIdentifier: "skills", SecretKey: "nope"})
	_, err = postUpload(context.Background(), server.URL, body)
	if err == nil || !strings.Contains(err.Error(), "FORBIDDEN") {
		t.Fatalf("expected forbidden error, got %v", err)
	}
}

func TestWatchDeploy(t *testing.T) {
	cfg := config.Config{PollInterval: time.Millisecond}
	statuses := []string{"building", "ready"}
	calls := 0
	source := poller.StatusFunc(func(context.Context) (string, error) {
		s := statuses[calls]
		calls++
		return s, nil
	})
	if err := watchDeploy(context.Background(), cfg, logging.Discard(), source); err != nil {
		t.Fatalf("watchDeploy() error = %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 polls, got %d", calls)
	}

	failing := poller.StatusFunc(func(context.Context) (string, error) {
		return "", errors.New("connection refused")
	})
	if err := watchDeploy(context.Background(), cfg, logging.Discard(), failing); err == nil {
		t.Fatal("expected error")
	}
}

func TestWatchDeployCancelled(t *testing.T) {
	cfg := config.Config{PollInterval: time.Hour}
	ctx, cancel := context.WithCancel(context.Background())
	source := poller.StatusFunc(func(context.Context) (string, error) {
		cancel()
		return "building", nil
	})
	err := watchDeploy(ctx, cfg, logging.Discard(), source)
	if err == nil || !strings.Contains(err.Error(), "cancelled") {
		t.Fatalf("expected cancellation, got %v", err)
	}
}
