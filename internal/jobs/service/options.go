package service

import (
	"context"
	"encoding/json"
	"errors"

	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/cache"
)

// FilterOptionsCacheKey is where the encoded filter options response lives.
const FilterOptionsCacheKey = "filter-options"

// FilterOptions returns the encoded filter options response. Cached bytes
// are returned as stored, so repeated calls are byte-identical until the
// entry expires or is refreshed. Concurrent misses share one computation.
func (s *Service) FilterOptions(ctx context.Context) ([]byte, error) {
	if s.options != nil {
		payload, err := s.options.Get(ctx, FilterOptionsCacheKey)
		if err == nil {
			return payload, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WithContext(ctx).CacheError("get", FilterOptionsCacheKey, err)
		}
	}

	// The shared computation must not fail for everyone when the caller
	// that started it disconnects.
	result, err, _ := s.group.Do(FilterOptionsCacheKey, func() (any, error) {
		return s.rebuildFilterOptions(context.WithoutCancel(ctx))
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// RefreshFilterOptions recomputes the options and overwrites the cache entry.
func (s *Service) RefreshFilterOptions(ctx context.Context) error {
	if s.options == nil {
		return nil
	}
	payload, err := s.buildFilterOptions(ctx)
	if err != nil {
		return err
	}
	return s.options.Set(ctx, FilterOptionsCacheKey, payload, s.optionsTTL)
}

func (s *Service) rebuildFilterOptions(ctx context.Context) ([]byte, error) {
	payload, err := s.buildFilterOptions(ctx)
	if err != nil {
		return nil, err
	}
	if s.options != nil {
		if err := s.options.Set(ctx, FilterOptionsCacheKey, payload, s.optionsTTL); err != nil {
			s.log.WithContext(ctx).CacheError("set", FilterOptionsCacheKey, err)
		}
	}
	return payload, nil
}

func (s *Service) buildFilterOptions(ctx context.Context) ([]byte, error) {
	opts, err := s.repo.FilterOptions(ctx)
	if err != nil {
		return nil, s.storeError(ctx, "jobs.FilterOptions", "failed to load filter options", err)
	}

	payload, err := json.Marshal(transport.FilterOptionsResponse{
		Success: true,
		Options: transport.FilterOptions{
			Categories:       nonNil(opts.Categories),
			JobTypes:         nonNil(opts.JobTypes),
			ExperienceLevels: nonNil(opts.ExperienceLevels),
			Currencies:       nonNil(opts.Currencies),
			Countries:        nonNil(opts.Countries),
		},
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to encode filter options", err).WithOp("jobs.FilterOptions")
	}
	return payload, nil
}
