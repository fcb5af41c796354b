// Package archive keeps a copy of every raw CSV upload in object storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var ErrNotConfigured = errors.New("archive not configured")

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type MinIO struct {
	client *minio.Client
	bucket string
	now    func() time.Time

	mu          sync.Mutex
	bucketReady bool
}

func New(cfg Config) (*MinIO, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIO{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

// ObjectKey names the archived copy of an upload:
// uploads/<section>/<UTC timestamp>-<file name>.
func ObjectKey(section, fileName string, at time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "upload.csv"
	}
	name = strings.ReplaceAll(name, " ", "_")
	return fmt.Sprintf("uploads/%s/%s-%s", section, at.UTC().Format("20060102T150405Z"), name)
}

// Store uploads data and returns the object key.
func (m *MinIO) Store(ctx context.Context, section, fileName string, data []byte) (string, error) {
	if err := m.ensureBucket(ctx); err != nil {
		return "", err
	}
	key := ObjectKey(section, fileName, m.now())
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

func (m *MinIO) ensureBucket(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bucketReady {
		return nil
	}
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if !exists {
		if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", m.bucket, err)
		}
	}
	m.bucketReady = true
	return nil
}
