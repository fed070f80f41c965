package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard_backend/internal/jobs/service"
	"jobboard_backend/internal/jobs/transport"
	"jobboard_backend/platform/httpkit"
	"jobboard_backend/platform/validator"
)

// Handler handles HTTP requests for job search.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new jobs handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListJobs serves the job feed.
// GET /api/v1/jobs
func (h *Handler) ListJobs(c *gin.Context) {
	result, err := h.svc.ListJobs(c.Request.Context(), c.Request.URL.Query())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// FilterJobs runs the full filter search.
// GET /api/v1/jobs/filter
func (h *Handler) FilterJobs(c *gin.Context) {
	result, err := h.svc.FilterJobs(c.Request.Context(), c.Request.URL.Query())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// JobsByCategory lists one category.
// GET /api/v1/jobs/by-category
func (h *Handler) JobsByCategory(c *gin.Context) {
	result, err := h.svc.JobsByCategory(c.Request.Context(), c.Request.URL.Query())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// JobsInRadius searches around a coordinate.
// GET /api/v1/jobs/near
func (h *Handler) JobsInRadius(c *gin.Context) {
	result, err := h.svc.JobsInRadius(c.Request.Context(), c.Request.URL.Query())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// FilterOptions returns the cached filter screen values.
// GET /api/v1/jobs/filter-options
func (h *Handler) FilterOptions(c *gin.Context) {
	payload, err := h.svc.FilterOptions(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.RawJSON(c, http.StatusOK, payload)
}

// GetJob returns a single job with its employer.
// GET /api/v1/jobs/:id
func (h *Handler) GetJob(c *gin.Context) {
	result, err := h.svc.GetJob(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// LogoDownloadURL presigns a company logo.
// GET /api/v1/jobs/logo-download-url
func (h *Handler) LogoDownloadURL(c *gin.Context) {
	var req transport.LogoDownloadURLRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.LogoDownloadURL(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
