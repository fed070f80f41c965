// Package service orchestrates job queries: parameter parsing, the
// concurrent count and page fetch, logo resolution and response shaping.
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"jobboard_backend/internal/jobs/query"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/apperr"
	"jobboard_backend/platform/cache"
	"jobboard_backend/platform/logger"
)

// Reader is the store access the service needs.
type Reader interface {
	repository.JobReader
	repository.OptionsReader
}

// LogoURL is a resolved, time-limited logo link.
type LogoURL struct {
	URL       string
	ExpiresAt time.Time
}

// LogoPresigner resolves a stored logo key to a downloadable URL.
type LogoPresigner interface {
	GenerateLogoURL(ctx context.Context, fileKey string) (LogoURL, error)
}

// Service provides the job search use cases.
type Service struct {
	repo  Reader
	log   *logger.Logger
	logos LogoPresigner

	options    cache.Store
	optionsTTL time.Duration
	group      singleflight.Group
}

// New creates a new jobs service.
func New(repo Reader, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// SetLogoPresigner enables companyLogoUrl resolution and the logo URL endpoint.
func (s *Service) SetLogoPresigner(p LogoPresigner) {
	s.logos = p
}

// SetOptionsCache serves filter options through store for ttl.
func (s *Service) SetOptionsCache(store cache.Store, ttl time.Duration) {
	s.options = store
	s.optionsTTL = ttl
}

// FilterJobs runs the full filter search.
func (s *Service) FilterJobs(ctx context.Context, raw url.Values) (transport.JobFilterResponse, error) {
	spec, err := query.ParseFilter(raw)
	if err != nil {
		return transport.JobFilterResponse{}, err
	}

	jobs, total, err := s.fetchPage(ctx, "jobs.FilterJobs", spec.Where(), spec.Sort, spec.Page)
	if err != nil {
		return transport.JobFilterResponse{}, err
	}

	return transport.JobFilterResponse{
		Success:         true,
		Jobs:            s.toJobResponses(ctx, jobs),
		Total:           total,
		Page:            spec.Page.Page,
		Limit:           spec.Page.Limit,
		TotalPages:      spec.Page.TotalPages(total),
		HasNextPage:     spec.Page.HasNext(total),
		HasPreviousPage: spec.Page.HasPrevious(),
	}, nil
}

// JobsByCategory lists jobs of exactly one category.
func (s *Service) JobsByCategory(ctx context.Context, raw url.Values) (transport.JobListResponse, error) {
	spec, err := query.ParseCategory(raw)
	if err != nil {
		return transport.JobListResponse{}, err
	}

	jobs, total, err := s.fetchPage(ctx, "jobs.JobsByCategory", spec.Where(), spec.Sort, spec.Page)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	return s.toJobListResponse(ctx, jobs, total, spec.Page), nil
}

// ListJobs serves the general job feed.
func (s *Service) ListJobs(ctx context.Context, raw url.Values) (transport.JobListResponse, error) {
	spec, err := query.ParseList(raw)
	if err != nil {
		return transport.JobListResponse{}, err
	}

	jobs, total, err := s.fetchPage(ctx, "jobs.ListJobs", spec.Where(), spec.Sort, spec.Page)
	if err != nil {
		return transport.JobListResponse{}, err
	}
	return s.toJobListResponse(ctx, jobs, total, spec.Page), nil
}

// JobsInRadius finds jobs around an origin, nearest first.
func (s *Service) JobsInRadius(ctx context.Context, raw url.Values) (transport.NearbyJobListResponse, error) {
	spec, err := query.ParseGeo(raw)
	if err != nil {
		return transport.NearbyJobListResponse{}, err
	}

	var (
		jobs  []repository.NearbyJob
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountNearby(gctx, spec)
		total = n
		return err
	})
	g.Go(func() error {
		items, err := s.repo.ListNearby(gctx, spec)
		jobs = items
		return err
	})
	if err := g.Wait(); err != nil {
		return transport.NearbyJobListResponse{}, s.storeError(ctx, "jobs.JobsInRadius", "failed to search jobs by radius", err)
	}

	items := make([]transport.NearbyJobResponse, 0, len(jobs))
	for _, job := range jobs {
		items = append(items, toNearbyJobResponse(job))
	}

	return transport.NearbyJobListResponse{
		Success: true,
		Jobs:    items,
		Total:   total,
		Page:    spec.Page.Page,
		Limit:   spec.Page.Limit,
		SearchLocation: transport.SearchLocationResponse{
			Latitude:  spec.Latitude,
			Longitude: spec.Longitude,
			Radius:    spec.RadiusKm,
		},
	}, nil
}

// GetJob returns a job with its employer.
func (s *Service) GetJob(ctx context.Context, rawID string) (transport.JobDetailResponse, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return transport.JobDetailResponse{}, apperr.BadRequest("invalid job id")
	}

	detail, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return transport.JobDetailResponse{}, err
		}
		return transport.JobDetailResponse{}, s.storeError(ctx, "jobs.GetJob", "failed to load job", err)
	}

	jobs := s.toJobResponses(ctx, []repository.Job{detail.Job})
	return transport.JobDetailResponse{
		Success: true,
		Job:     jobs[0],
		Employer: transport.EmployerResponse{
			ID:    detail.Employer.ID,
			Name:  detail.Employer.Name,
			Email: detail.Employer.Email,
		},
	}, nil
}

// LogoDownloadURL presigns a single logo key.
func (s *Service) LogoDownloadURL(ctx context.Context, req transport.LogoDownloadURLRequest) (transport.LogoDownloadURLResponse, error) {
	if s.logos == nil {
		return transport.LogoDownloadURLResponse{}, apperr.Unavailable("file storage is not configured")
	}

	logo, err := s.logos.GenerateLogoURL(ctx, req.Key)
	if err != nil {
		if apperr.GetKind(err) != apperr.KindUnknown {
			return transport.LogoDownloadURLResponse{}, err
		}
		return transport.LogoDownloadURLResponse{}, apperr.Wrap(apperr.KindInternal, "failed to generate download url", err).
			WithOp("jobs.LogoDownloadURL")
	}

	return transport.LogoDownloadURLResponse{
		PresignedURL: logo.URL,
		ExpiresAt:    logo.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// fetchPage runs the count and the page fetch concurrently; both must
// succeed. Cancelling ctx abandons both queries.
func (s *Service) fetchPage(ctx context.Context, op string, where query.Where, sort query.Sort, page query.Pagination) ([]repository.Job, int, error) {
	var (
		jobs  []repository.Job
		total int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.repo.CountJobs(gctx, where)
		total = n
		return err
	})
	g.Go(func() error {
		items, err := s.repo.ListJobs(gctx, where, sort, page)
		jobs = items
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, s.storeError(ctx, op, "failed to load jobs", err)
	}
	return jobs, total, nil
}

// storeError converts a repository failure into an internal error. Client
// disconnects are not logged as database errors.
func (s *Service) storeError(ctx context.Context, op, message string, err error) error {
	if ctx.Err() == nil && !errors.Is(err, context.Canceled) {
		s.log.WithContext(ctx).DatabaseError(op, err)
	}
	return apperr.Wrap(apperr.KindInternal, message, err).WithOp(op)
}

func (s *Service) toJobListResponse(ctx context.Context, jobs []repository.Job, total int, page query.Pagination) transport.JobListResponse {
	return transport.JobListResponse{
		Success: true,
		Jobs:    s.toJobResponses(ctx, jobs),
		Total:   total,
		Page:    page.Page,
		Limit:   page.Limit,
	}
}

func (s *Service) toJobResponses(ctx context.Context, jobs []repository.Job) []transport.JobResponse {
	logos := s.resolveLogos(ctx, jobs)

	items := make([]transport.JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp := toJobResponse(job)
		if resp.CompanyLogoKey != "" {
			resp.CompanyLogoURL = logos[resp.CompanyLogoKey]
		}
		items = append(items, resp)
	}
	return items
}
