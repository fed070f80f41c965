package service

import (
	"fmt"
	"time"

	"jobboard_backend/internal/jobs/query"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/jobs/transport"
)

func toJobResponse(job repository.Job) transport.JobResponse {
	resp := transport.JobResponse{
		ID:               job.ID,
		Title:            job.Title,
		Company:          job.Company,
		Description:      job.Description,
		Requirements:     nonNil(job.Requirements),
		Responsibilities: nonNil(job.Responsibilities),
		Salary:           toSalaryResponse(job),
		Location: transport.LocationResponse{
			City:    deref(job.City),
			State:   deref(job.State),
			Country: deref(job.Country),
			Remote:  job.Remote,
		},
		JobType:         job.JobType,
		Category:        job.Category,
		PostedDate:      job.PostedDate.UTC().Format(time.RFC3339),
		Skills:          nonNil(job.Skills),
		ExperienceLevel: deref(job.ExperienceLevel),
		EmployerID:      job.EmployerID,
		CompanyLogoKey:  deref(job.CompanyLogoKey),
	}

	if job.Latitude != nil && job.Longitude != nil {
		resp.Location.Coordinates = &transport.CoordinateResponse{
			Latitude:  *job.Latitude,
			Longitude: *job.Longitude,
		}
	}
	if job.ApplicationDeadline != nil {
		deadline := job.ApplicationDeadline.UTC().Format(time.RFC3339)
		resp.ApplicationDeadline = &deadline
	}
	return resp
}

func toNearbyJobResponse(job repository.NearbyJob) transport.NearbyJobResponse {
	resp := transport.NearbyJobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		Distance:     job.DistanceKm,
		DistanceText: formatDistance(job.DistanceKm),
		Salary:       toSalaryResponse(job.Job),
	}
	if job.Latitude != nil && job.Longitude != nil {
		resp.Coordinate = transport.CoordinateResponse{Latitude: *job.Latitude, Longitude: *job.Longitude}
	}
	return resp
}

func toSalaryResponse(job repository.Job) transport.SalaryResponse {
	return transport.SalaryResponse{
		Min:      job.SalaryMin,
		Max:      job.SalaryMax,
		Currency: job.SalaryCurrency,
	}
}

// formatDistance renders "3.7 km away"; the value is truncated, not rounded.
func formatDistance(km float64) string {
	return fmt.Sprintf("%.1f km away", query.TruncateDistance(km))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
