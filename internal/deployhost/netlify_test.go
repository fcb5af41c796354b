package deployhost

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLatestDeploy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sites/site-1/deploys" || r.URL.Query().Get("per_page") != "1" {
			t.Errorf("unexpected request %s", r.URL.String())
		}
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("missing bearer token")
		}
		_, _ = w.Write([]byte(`[{"id":"d1","state":"building","created_at":"2024-05-01T10:00:00Z","published_at":null,"commit_ref":"abc123","context":"production"}]`))
	}))
	defer srv.Close()

	d, err := NewNetlify(srv.URL+"/", "tok", "site-1").LatestDeploy(context.Background())
	if err != nil {
		t.Fatalf("LatestDeploy() error = %v", err)
	}
	want := Deploy{DeployID: "d1", Status: "building", CreatedAt: "2024-05-01T10:00:00Z", CommitRef: "abc123", Context: "production"}
	if d != want {
		t.Fatalf("got %+v want %+v", d, want)
	}
}

func TestLatestDeployEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := NewNetlify(srv.URL, "tok", "site").LatestDeploy(context.Background()); !errors.Is(err, ErrNoDeploys) {
		t.Fatalf("expected ErrNoDeploys, got %v", err)
	}
}

func TestLatestDeployUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"message":"Access Denied"}`))
	}))
	defer srv.Close()

	_, err := NewNetlify(srv.URL, "bad", "site").LatestDeploy(context.Background())
	var upErr *UpstreamError
	if !errors.As(err, &upErr) {
		t.Fatalf("expected UpstreamError, got %v", err)
	}
	if upErr.Status != http.StatusUnauthorized || upErr.Message != "Access Denied" {
		t.Fatalf("unexpected upstream error %+v", upErr)
	}
}

func TestLatestDeployNotConfigured(t *testing.T) {
	if _, err := NewNetlify("", "", "site").LatestDeploy(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
