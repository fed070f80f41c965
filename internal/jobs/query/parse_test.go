package query

import (
	"net/url"
	"slices"
	"testing"

	"jobboard_backend/platform/apperr"
)

func TestParseFilterDefaults(t *testing.T) {
	spec, err := ParseFilter(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Page.Page != 1 || spec.Page.Limit != 10 {
		t.Fatalf("expected page 1 limit 10, got %+v", spec.Page)
	}
	if spec.Sort != DefaultSort {
		t.Fatalf("expected default sort, got %+v", spec.Sort)
	}
	if len(spec.Where().Clauses()) != 0 {
		t.Fatalf("expected no predicates, got %v", spec.Where().Clauses())
	}
}

func TestParseFilterRejectsUnknownSortField(t *testing.T) {
	_, err := ParseFilter(url.Values{"sortBy": {"salary_min; DROP TABLE jobs"}})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseFilterRejectsUnknownSortOrder(t *testing.T) {
	_, err := ParseFilter(url.Values{"sortOrder": {"sideways"}})
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestParseFilterSortOrderIsCaseInsensitive(t *testing.T) {
	spec, err := ParseFilter(url.Values{"sortBy": {"salary.min"}, "sortOrder": {"ASC"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Sort.Field != SortSalaryMin || spec.Sort.Desc {
		t.Fatalf("unexpected sort %+v", spec.Sort)
	}
	if got := spec.Sort.OrderBy(); got != "salary_min ASC NULLS LAST, id ASC" {
		t.Fatalf("unexpected order by %q", got)
	}
}

func TestParsePaginationBounds(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"0", "10", 1, 10},
		{"-3", "10", 1, 10},
		{"2", "500", 2, 100},
		{"1", "0", 1, 1},
		{"4", "25", 4, 25},
	}
	for _, tc := range cases {
		spec, err := ParseFilter(url.Values{"page": {tc.page}, "limit": {tc.limit}})
		if err != nil {
			t.Fatalf("page=%s limit=%s: unexpected error %v", tc.page, tc.limit, err)
		}
		if spec.Page.Page != tc.wantPage || spec.Page.Limit != tc.wantLimit {
			t.Fatalf("page=%s limit=%s: got %+v", tc.page, tc.limit, spec.Page)
		}
	}
}

func TestParsePaginationRejectsNonInteger(t *testing.T) {
	for _, raw := range []url.Values{{"page": {"two"}}, {"limit": {"1.5"}}} {
		if _, err := ParseFilter(raw); !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("%v: expected validation error, got %v", raw, err)
		}
	}
}

func TestParseFilterDropsInvalidOptionalValues(t *testing.T) {
	spec, err := ParseFilter(url.Values{
		"jobType":         {"Freelance"},
		"experienceLevel": {"Principal"},
		"minSalary":       {"lots"},
		"isRemote":        {"maybe"},
		"postedAfter":     {"last tuesday"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.JobType != "" || spec.ExperienceLevel != "" {
		t.Fatalf("expected enums dropped, got %q %q", spec.JobType, spec.ExperienceLevel)
	}
	if spec.Salary.Min != nil || spec.Location.Remote != nil || spec.Posted.After != nil {
		t.Fatalf("expected invalid optionals dropped, got %+v", spec)
	}
}

func TestParseFilterSkillsForms(t *testing.T) {
	spec, err := ParseFilter(url.Values{
		"skills":   {"go, postgres", "go"},
		"skills[]": {"redis", " "},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"go", "postgres", "redis"}
	if !slices.Equal(spec.Skills, want) {
		t.Fatalf("expected %v, got %v", want, spec.Skills)
	}
}

func TestParseFilterDates(t *testing.T) {
	spec, err := ParseFilter(url.Values{
		"postedAfter":  {"2024-01-15"},
		"postedBefore": {"2024-02-01T10:00:00Z"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Posted.After == nil || spec.Posted.After.Day() != 15 {
		t.Fatalf("expected postedAfter parsed, got %v", spec.Posted.After)
	}
	if spec.Posted.Before == nil || spec.Posted.Before.Hour() != 10 {
		t.Fatalf("expected postedBefore parsed, got %v", spec.Posted.Before)
	}
}

func TestParseCategoryRequiresCategory(t *testing.T) {
	_, err := ParseCategory(url.Values{"category": {"  "}})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}

	spec, err := ParseCategory(url.Values{"category": {"Engineering"}, "page": {"0"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.Category != "Engineering" || spec.Page.Page != 1 {
		t.Fatalf("unexpected spec %+v", spec)
	}
}

func TestParseGeo(t *testing.T) {
	if _, err := ParseGeo(url.Values{"latitude": {"40.7"}}); !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for missing longitude, got %v", err)
	}
	if _, err := ParseGeo(url.Values{"latitude": {"91"}, "longitude": {"0"}}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for latitude 91, got %v", err)
	}
	if _, err := ParseGeo(url.Values{"latitude": {"0"}, "longitude": {"east"}}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error for longitude, got %v", err)
	}

	spec, err := ParseGeo(url.Values{"latitude": {"40.7128"}, "longitude": {"-74.006"}, "radius": {"-5"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.RadiusKm != DefaultRadiusKm {
		t.Fatalf("expected default radius, got %v", spec.RadiusKm)
	}
	if spec.RadiusMeters() != 50000 {
		t.Fatalf("expected 50000m, got %v", spec.RadiusMeters())
	}

	spec, err = ParseGeo(url.Values{"latitude": {"40.7128"}, "longitude": {"-74.006"}, "radius": {"12.5"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if spec.RadiusKm != 12.5 {
		t.Fatalf("expected radius 12.5, got %v", spec.RadiusKm)
	}
}

func TestPaginationMath(t *testing.T) {
	p := Pagination{Page: 2, Limit: 10}
	if p.Offset() != 10 {
		t.Fatalf("expected offset 10, got %d", p.Offset())
	}
	if p.TotalPages(25) != 3 || !p.HasNext(25) {
		t.Fatalf("expected 3 pages with a next page")
	}
	if p.HasNext(20) {
		t.Fatal("page 2 of 20 rows should be the last")
	}
	if !p.HasPrevious() || (Pagination{Page: 1, Limit: 10}).HasPrevious() {
		t.Fatal("unexpected HasPrevious")
	}
	if p.TotalPages(0) != 0 {
		t.Fatal("expected zero pages for zero rows")
	}
}

func TestTruncateDistance(t *testing.T) {
	cases := map[float64]float64{
		3.79:  3.7,
		0.04:  0,
		12.0:  12.0,
		49.99: 49.9,
	}
	for in, want := range cases {
		if got := TruncateDistance(in); got != want {
			t.Fatalf("TruncateDistance(%v) = %v, want %v", in, got, want)
		}
	}
}
