// Package jobs provides the job search bounded context module.
package jobs

import (
	"time"

	apphttp "jobboard_backend/internal/http"
	"jobboard_backend/internal/jobs/handler"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/service"
	"jobboard_backend/platform/cache"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the jobs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the jobs module. presigner and options
// may be nil; logos and caching are then disabled.
func NewModule(pool *pgxpool.Pool, presigner service.LogoPresigner, options cache.Store, optionsTTL time.Duration, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(repository.New(pool), log)
	if presigner != nil {
		svc.SetLogoPresigner(presigner)
	}
	if options != nil {
		svc.SetOptionsCache(options, optionsTTL)
	}

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "jobs"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts job routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	jobs := ctx.V1.Group("/jobs")
	jobs.GET("", m.handler.ListJobs)
	jobs.GET("/filter", m.handler.FilterJobs)
	jobs.GET("/by-category", m.handler.JobsByCategory)
	jobs.GET("/near", m.handler.JobsInRadius)
	jobs.GET("/filter-options", m.handler.FilterOptions)
	jobs.GET("/logo-download-url", m.handler.LogoDownloadURL)
	jobs.GET("/:id", m.handler.GetJob)

	// Paths used by released mobile clients
	legacy := ctx.V1.Group("/job")
	legacy.GET("/get-all-jobs", m.handler.ListJobs)
	legacy.GET("/filter-jobs", m.handler.FilterJobs)
	legacy.GET("/get-job-by-category", m.handler.JobsByCategory)
	legacy.GET("/get-job-in-radius", m.handler.JobsInRadius)
	legacy.GET("/filter-options", m.handler.FilterOptions)
	legacy.GET("/logo-download-url", m.handler.LogoDownloadURL)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
