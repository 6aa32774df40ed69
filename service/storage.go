package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"cloud.google.com/go/storage"
)

// ObjectStore is where successful conversion artifacts end up. An empty
// bucket argument selects the store's default bucket.
type ObjectStore interface {
	Upload(ctx context.Context, bucket, localPath, objectPath string) (string, error)
	SignedURL(bucket, objectPath string, expiration time.Duration) (string, error)
}

// GCSStore uploads artifacts to Google Cloud Storage and issues V4 signed
// URLs for time-limited access.
type GCSStore struct {
	client        *storage.Client
	defaultBucket string
}

func NewGCSStore(ctx context.Context, defaultBucket string) (*GCSStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCSStore{client: client, defaultBucket: defaultBucket}, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func (s *GCSStore) bucketName(bucket string) string {
	if bucket == "" {
		return s.defaultBucket
	}
	return bucket
}

// Upload copies a local file into the bucket and returns its gs:// path.
func (s *GCSStore) Upload(ctx context.Context, bucket, localPath, objectPath string) (string, error) {
	bucket = s.bucketName(bucket)

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	w := s.client.Bucket(bucket).Object(objectPath).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", fmt.Errorf("failed to upload to gs://%s/%s: %w", bucket, objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("failed to upload to gs://%s/%s: %w", bucket, objectPath, err)
	}

	gsPath := fmt.Sprintf("gs://%s/%s", bucket, objectPath)
	log.Printf("[STORAGE] Uploaded %s to %s", localPath, gsPath)
	return gsPath, nil
}

// SignedURL issues a V4 GET URL valid for the given duration.
func (s *GCSStore) SignedURL(bucket, objectPath string, expiration time.Duration) (string, error) {
	bucket = s.bucketName(bucket)

	url, err := s.client.Bucket(bucket).SignedURL(objectPath, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(expiration),
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL for gs://%s/%s: %w", bucket, objectPath, err)
	}
	return url, nil
}
