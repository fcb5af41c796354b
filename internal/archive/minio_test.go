package archive

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 45, 0, time.FixedZone("AEST", 10*3600))
	cases := map[string]string{
		"languages.csv":           "uploads/languages/20240501T023045Z-languages.csv",
		"../../etc/passwd":        "uploads/languages/20240501T023045Z-passwd",
		`C:\Users\me\my file.csv`: "uploads/languages/20240501T023045Z-my_file.csv",
		"":                        "uploads/languages/20240501T023045Z-upload.csv",
	}
	for in, want := range cases {
		if got := ObjectKey("languages", in, at); got != want {
			t.Errorf("ObjectKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewRequiresEndpointAndBucket(t *testing.T) {
	if _, err := New(Config{Bucket: "b"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if _, err := New(Config{Endpoint: "localhost:9000"}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestStoreIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	endpoint := os.Getenv("ARCHIVE_TEST_ENDPOINT")
	if endpoint == "" {
		t.Skip("ARCHIVE_TEST_ENDPOINT not set")
	}
	cfg := Config{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("ARCHIVE_TEST_ACCESS_KEY"),
		SecretKey: os.Getenv("ARCHIVE_TEST_SECRET_KEY"),
		Bucket:    "cv-uploads-test",
	}
	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx := context.Background()
	key, err := a.Store(ctx, "skills", "skills.csv", []byte("Name\nGo\n"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasPrefix(key, "uploads/skills/") {
		t.Fatalf("unexpected key %s", key)
	}

	obj, err := a.client.GetObject(ctx, cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	defer obj.Close()
	data, err := io.ReadAll(obj)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if string(data) != "Name\nGo\n" {
		t.Fatalf("unexpected object content %q", data)
	}
}
