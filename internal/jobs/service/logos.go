package service

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"jobboard_backend/internal/jobs/repository"
)

const logoResolveConcurrency = 8

// resolveLogos presigns each distinct logo key once. A failed key is logged
// and left out of the result so the job is returned without a logo URL.
func (s *Service) resolveLogos(ctx context.Context, jobs []repository.Job) map[string]string {
	if s.logos == nil {
		return nil
	}

	keys := make([]string, 0, len(jobs))
	seen := make(map[string]struct{}, len(jobs))
	for _, job := range jobs {
		if job.CompanyLogoKey == nil || *job.CompanyLogoKey == "" {
			continue
		}
		key := *job.CompanyLogoKey
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}

	var mu sync.Mutex
	urls := make(map[string]string, len(keys))

	var g errgroup.Group
	g.SetLimit(logoResolveConcurrency)
	for _, key := range keys {
		g.Go(func() error {
			logo, err := s.logos.GenerateLogoURL(ctx, key)
			if err != nil {
				s.log.WithContext(ctx).Warn("logo presign failed", "key", key, "error", err)
				return nil
			}
			mu.Lock()
			urls[key] = logo.URL
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return urls
}
