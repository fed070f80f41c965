// Package query turns raw job-search query parameters into validated
// typed search specs and folds them into parameterized SQL predicates.
//
// Only pagination numerics, sort field and sort order reject a request.
// Every other malformed filter is dropped as if it had not been supplied.
package query

import (
	"math"
	"time"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	DefaultRadiusKm = 50.0
)

// Sort fields accepted by the sortBy parameter.
const (
	SortPostedDate = "postedDate"
	SortSalaryMin  = "salary.min"
	SortTitle      = "title"
	SortCompany    = "company"
)

var sortColumns = map[string]string{
	SortPostedDate: "posted_date",
	SortSalaryMin:  "salary_min",
	SortTitle:      "title",
	SortCompany:    "company",
}

// JobTypes lists the accepted jobType values.
var JobTypes = []string{"Full-time", "Part-time", "Contract", "Temporary", "Internship"}

// ExperienceLevels lists the accepted experienceLevel values.
var ExperienceLevels = []string{"Entry", "Mid", "Senior"}

// Pagination is a 1-based page window. Page and Limit are always >= 1.
type Pagination struct {
	Page  int
	Limit int
}

// Offset is the number of rows skipped before the page starts.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages returns ceil(total/limit).
func (p Pagination) TotalPages(total int) int {
	if total <= 0 || p.Limit <= 0 {
		return 0
	}
	return (total + p.Limit - 1) / p.Limit
}

// HasNext reports whether another page follows this one.
func (p Pagination) HasNext(total int) bool {
	return p.Page < p.TotalPages(total)
}

// HasPrevious reports whether this page is past the first.
func (p Pagination) HasPrevious() bool {
	return p.Page > 1
}

// Sort is a validated ordering.
type Sort struct {
	Field string
	Desc  bool
}

// DefaultSort orders newest postings first.
var DefaultSort = Sort{Field: SortPostedDate, Desc: true}

// OrderBy renders the ORDER BY list. id breaks ties so pages are stable.
func (s Sort) OrderBy() string {
	column, ok := sortColumns[s.Field]
	if !ok {
		column = sortColumns[SortPostedDate]
	}
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return column + " " + direction + " NULLS LAST, id " + direction
}

// SalaryRange bounds the accepted salaries. Either bound may be nil.
type SalaryRange struct {
	Min      *float64
	Max      *float64
	Currency string
}

// Location narrows by place. Empty strings and a nil Remote mean "any".
type Location struct {
	City    string
	State   string
	Country string
	Remote  *bool
}

// PostedWindow restricts posted_date. Either side may be open.
type PostedWindow struct {
	After  *time.Time
	Before *time.Time
}

// FilterSpec is the normalized search intent of the filter endpoint.
// The zero value (plus pagination) matches every job.
type FilterSpec struct {
	SearchText      string
	Category        string
	JobType         string
	ExperienceLevel string
	Salary          SalaryRange
	Location        Location
	Skills          []string
	Posted          PostedWindow
	Sort            Sort
	Page            Pagination
}

// CategorySpec is the single exact-match category listing.
type CategorySpec struct {
	Category string
	Sort     Sort
	Page     Pagination
}

// ListSpec is the general listing used by the job feed.
type ListSpec struct {
	Search          string
	Category        string
	JobType         string
	ExperienceLevel string
	Location        string
	Sort            Sort
	Page            Pagination
}

// GeoSpec is a proximity search around an origin.
type GeoSpec struct {
	Latitude  float64
	Longitude float64
	RadiusKm  float64
	Page      Pagination
}

// RadiusMeters is the radius in the unit earth_distance works in.
func (g GeoSpec) RadiusMeters() float64 {
	return g.RadiusKm * 1000
}

// TruncateDistance cuts a distance in km to one decimal without rounding.
func TruncateDistance(km float64) float64 {
	return math.Trunc(km*10) / 10
}
