package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"jobboard_backend/internal/jobs/query"
)

// Job is the stored job posting.
type Job struct {
	ID                  uuid.UUID  `db:"id"`
	Title               string     `db:"title"`
	Company             string     `db:"company"`
	Description         string     `db:"description"`
	Requirements        []string   `db:"requirements"`
	Responsibilities    []string   `db:"responsibilities"`
	SalaryMin           *float64   `db:"salary_min"`
	SalaryMax           *float64   `db:"salary_max"`
	SalaryCurrency      string     `db:"salary_currency"`
	City                *string    `db:"location_city"`
	State               *string    `db:"location_state"`
	Country             *string    `db:"location_country"`
	Remote              bool       `db:"location_remote"`
	Latitude            *float64   `db:"latitude"`
	Longitude           *float64   `db:"longitude"`
	JobType             string     `db:"job_type"`
	Category            string     `db:"category"`
	PostedDate          time.Time  `db:"posted_date"`
	ApplicationDeadline *time.Time `db:"application_deadline"`
	Skills              []string   `db:"skills"`
	ExperienceLevel     *string    `db:"experience_level"`
	EmployerID          uuid.UUID  `db:"employer_id"`
	CompanyLogoKey      *string    `db:"company_logo_key"`
}

// NearbyJob is a job matched by a radius search.
type NearbyJob struct {
	Job
	DistanceKm float64 `db:"distance_km"`
}

// Employer is the company account that posted a job.
type Employer struct {
	ID      uuid.UUID `db:"id"`
	Name    string    `db:"name"`
	Email   string    `db:"email"`
	Phone   *string   `db:"phone"`
	Website *string   `db:"website"`
}

// JobDetail is a job together with its employer.
type JobDetail struct {
	Job
	Employer Employer
}

// FilterOptions holds the distinct values offered by the filter screen.
type FilterOptions struct {
	Categories       []string
	JobTypes         []string
	ExperienceLevels []string
	Currencies       []string
	Countries        []string
}

// UpsertEmployerParams identifies an employer by email.
type UpsertEmployerParams struct {
	Name    string
	Email   string
	Phone   *string
	Website *string
}

// UpsertJobParams contains data for creating or replacing a job.
type UpsertJobParams struct {
	ID                  uuid.UUID
	EmployerID          uuid.UUID
	Title               string
	Company             string
	Description         string
	Requirements        []string
	Responsibilities    []string
	SalaryMin           *float64
	SalaryMax           *float64
	SalaryCurrency      string
	City                *string
	State               *string
	Country             *string
	Remote              bool
	Latitude            *float64
	Longitude           *float64
	JobType             string
	Category            string
	PostedDate          *time.Time
	ApplicationDeadline *time.Time
	Skills              []string
	ExperienceLevel     *string
	CompanyLogoKey      *string
}

// JobReader is the read side used by the HTTP service.
type JobReader interface {
	ListJobs(ctx context.Context, where query.Where, sort query.Sort, page query.Pagination) ([]Job, error)
	CountJobs(ctx context.Context, where query.Where) (int, error)
	ListNearby(ctx context.Context, geo query.GeoSpec) ([]NearbyJob, error)
	CountNearby(ctx context.Context, geo query.GeoSpec) (int, error)
	GetByID(ctx context.Context, id uuid.UUID) (JobDetail, error)
}

// OptionsReader computes the filter screen values.
type OptionsReader interface {
	FilterOptions(ctx context.Context) (FilterOptions, error)
}

// Importer writes jobs loaded from an external source.
type Importer interface {
	UpsertEmployer(ctx context.Context, params UpsertEmployerParams) (uuid.UUID, error)
	UpsertJob(ctx context.Context, params UpsertJobParams) (uuid.UUID, error)
}

// Repository is the full jobs store.
type Repository interface {
	JobReader
	OptionsReader
	Importer
}
