package adapters

import (
	"context"

	"jobboard_backend/internal/adapters/storage"
	jobsvc "jobboard_backend/internal/jobs/service"
	"jobboard_backend/platform/apperr"
)

// JobLogoPresigner generates presigned download URLs for company logos.
type JobLogoPresigner struct {
	storage storage.StorageService
	bucket  string
}

// NewJobLogoPresigner creates a new logo presigner adapter.
func NewJobLogoPresigner(storageSvc storage.StorageService, bucket string) *JobLogoPresigner {
	return &JobLogoPresigner{storage: storageSvc, bucket: bucket}
}

// GenerateLogoURL generates a presigned download URL for the given logo file key.
// Malformed keys are reported as validation errors.
func (p *JobLogoPresigner) GenerateLogoURL(ctx context.Context, fileKey string) (jobsvc.LogoURL, error) {
	if err := storage.ValidateFileKey(fileKey); err != nil {
		return jobsvc.LogoURL{}, apperr.Wrap(apperr.KindValidation, "invalid logo key", err)
	}
	presigned, err := p.storage.GenerateDownloadURL(ctx, p.bucket, fileKey)
	if err != nil {
		return jobsvc.LogoURL{}, err
	}
	return jobsvc.LogoURL{URL: presigned.URL, ExpiresAt: presigned.ExpiresAt}, nil
}

// Compile-time check that JobLogoPresigner implements jobs/service.LogoPresigner.
var _ jobsvc.LogoPresigner = (*JobLogoPresigner)(nil)
