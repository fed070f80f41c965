package transport

import "github.com/google/uuid"

// Jobs

type SalaryResponse struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
}

type LocationResponse struct {
	City        string              `json:"city,omitempty"`
	State       string              `json:"state,omitempty"`
	Country     string              `json:"country,omitempty"`
	Remote      bool                `json:"remote"`
	Coordinates *CoordinateResponse `json:"coordinates,omitempty"`
}

type CoordinateResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type JobResponse struct {
	ID                  uuid.UUID        `json:"id"`
	Title               string           `json:"title"`
	Company             string           `json:"company"`
	Description         string           `json:"description"`
	Requirements        []string         `json:"requirements"`
	Responsibilities    []string         `json:"responsibilities"`
	Salary              SalaryResponse   `json:"salary"`
	Location            LocationResponse `json:"location"`
	JobType             string           `json:"jobType"`
	Category            string           `json:"category"`
	PostedDate          string           `json:"postedDate"`
	ApplicationDeadline *string          `json:"applicationDeadline,omitempty"`
	Skills              []string         `json:"skills"`
	ExperienceLevel     string           `json:"experienceLevel,omitempty"`
	EmployerID          uuid.UUID        `json:"employerId"`
	CompanyLogoKey      string           `json:"companyLogo,omitempty"`
	CompanyLogoURL      string           `json:"companyLogoUrl,omitempty"`
}

type EmployerResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type JobDetailResponse struct {
	Success  bool             `json:"success"`
	Job      JobResponse      `json:"job"`
	Employer EmployerResponse `json:"employer"`
}

type JobListResponse struct {
	Success bool          `json:"success"`
	Jobs    []JobResponse `json:"jobs"`
	Total   int           `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
}

type JobFilterResponse struct {
	Success         bool          `json:"success"`
	Jobs            []JobResponse `json:"jobs"`
	Total           int           `json:"total"`
	Page            int           `json:"page"`
	Limit           int           `json:"limit"`
	TotalPages      int           `json:"totalPages"`
	HasNextPage     bool          `json:"hasNextPage"`
	HasPreviousPage bool          `json:"hasPreviousPage"`
}

// Radius search

type NearbyJobResponse struct {
	ID           uuid.UUID          `json:"id"`
	Title        string             `json:"title"`
	Company      string             `json:"company"`
	Coordinate   CoordinateResponse `json:"coordinate"`
	Distance     float64            `json:"distance"`
	DistanceText string             `json:"distanceText"`
	Salary       SalaryResponse     `json:"salary"`
}

type SearchLocationResponse struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

type NearbyJobListResponse struct {
	Success        bool                   `json:"success"`
	Jobs           []NearbyJobResponse    `json:"jobs"`
	Total          int                    `json:"total"`
	Page           int                    `json:"page"`
	Limit          int                    `json:"limit"`
	SearchLocation SearchLocationResponse `json:"searchLocation"`
}

// Filter options

type FilterOptions struct {
	Categories       []string `json:"categories"`
	JobTypes         []string `json:"jobTypes"`
	ExperienceLevels []string `json:"experienceLevels"`
	Currencies       []string `json:"currencies"`
	Countries        []string `json:"countries"`
}

type FilterOptionsResponse struct {
	Success bool          `json:"success"`
	Options FilterOptions `json:"options"`
}

// Logos

type LogoDownloadURLRequest struct {
	Key      string `form:"key" validate:"required,notblank,max=512"`
	FileType string `form:"fileType" validate:"required,oneof=job-logo"`
}

type LogoDownloadURLResponse struct {
	PresignedURL string `json:"presignedUrl"`
	ExpiresAt    string `json:"expiresAt"`
}
