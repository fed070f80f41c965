package adapters

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/platform/apperr"
)

type stubStorage struct {
	bucket string
	key    string
	err    error
}

func (s *stubStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	s.bucket, s.key = bucket, fileKey
	if s.err != nil {
		return nil, s.err
	}
	return &storage.PresignedURL{
		URL:       "https://cdn.example.com/" + bucket + "/" + fileKey,
		FileKey:   fileKey,
		ExpiresAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (s *stubStorage) UploadFile(context.Context, string, string, string, string, io.Reader, int64) (string, error) {
	return "", nil
}
func (s *stubStorage) EnsureBucketExists(context.Context, string) error { return nil }
func (s *stubStorage) ValidateContentType(string) error                 { return nil }
func (s *stubStorage) ValidateFileSize(int64) error                     { return nil }

func TestJobLogoPresignerUsesConfiguredBucket(t *testing.T) {
	store := &stubStorage{}
	presigner := NewJobLogoPresigner(store, "job-logos")

	logo, err := presigner.GenerateLogoURL(context.Background(), "acme/logo.png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.bucket != "job-logos" || store.key != "acme/logo.png" {
		t.Fatalf("unexpected storage call %q %q", store.bucket, store.key)
	}
	if logo.URL != "https://cdn.example.com/job-logos/acme/logo.png" {
		t.Fatalf("unexpected url %q", logo.URL)
	}
	if logo.ExpiresAt.Year() != 2026 {
		t.Fatalf("unexpected expiry %v", logo.ExpiresAt)
	}
}

func TestJobLogoPresignerRejectsBadKeys(t *testing.T) {
	store := &stubStorage{}
	presigner := NewJobLogoPresigner(store, "job-logos")

	_, err := presigner.GenerateLogoURL(context.Background(), "../../etc/passwd")
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if store.key != "" {
		t.Fatal("storage should not be called for invalid keys")
	}
}

func TestJobLogoPresignerPropagatesStorageErrors(t *testing.T) {
	cause := errors.New("signing failed")
	presigner := NewJobLogoPresigner(&stubStorage{err: cause}, "job-logos")

	if _, err := presigner.GenerateLogoURL(context.Background(), "acme/logo.png"); !errors.Is(err, cause) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
