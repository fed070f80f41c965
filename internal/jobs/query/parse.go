package query

import (
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"jobboard_backend/platform/apperr"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseFilter validates the filter endpoint parameters.
func ParseFilter(raw url.Values) (FilterSpec, error) {
	page, err := parsePagination(raw)
	if err != nil {
		return FilterSpec{}, err
	}
	sort, err := parseSort(raw)
	if err != nil {
		return FilterSpec{}, err
	}

	spec := FilterSpec{
		SearchText:      value(raw, "search"),
		Category:        value(raw, "category"),
		JobType:         enumValue(raw, "jobType", JobTypes),
		ExperienceLevel: enumValue(raw, "experienceLevel", ExperienceLevels),
		Salary: SalaryRange{
			Min:      floatValue(raw, "minSalary"),
			Max:      floatValue(raw, "maxSalary"),
			Currency: strings.ToUpper(value(raw, "currency")),
		},
		Location: Location{
			City:    value(raw, "city"),
			State:   value(raw, "state"),
			Country: value(raw, "country"),
			Remote:  boolValue(raw, "isRemote"),
		},
		Skills: skillsValue(raw),
		Posted: PostedWindow{
			After:  dateValue(raw, "postedAfter"),
			Before: dateValue(raw, "postedBefore"),
		},
		Sort: sort,
		Page: page,
	}
	return spec, nil
}

// ParseCategory validates the category listing parameters.
// The category itself is matched exactly and is not checked against any list.
func ParseCategory(raw url.Values) (CategorySpec, error) {
	category := value(raw, "category")
	if category == "" {
		return CategorySpec{}, apperr.BadRequest("category is required")
	}
	page, err := parsePagination(raw)
	if err != nil {
		return CategorySpec{}, err
	}
	sort, err := parseSort(raw)
	if err != nil {
		return CategorySpec{}, err
	}
	return CategorySpec{Category: category, Sort: sort, Page: page}, nil
}

// ParseList validates the job feed parameters.
func ParseList(raw url.Values) (ListSpec, error) {
	page, err := parsePagination(raw)
	if err != nil {
		return ListSpec{}, err
	}
	sort, err := parseSort(raw)
	if err != nil {
		return ListSpec{}, err
	}
	return ListSpec{
		Search:          value(raw, "search"),
		Category:        value(raw, "category"),
		JobType:         value(raw, "jobType"),
		ExperienceLevel: value(raw, "experienceLevel"),
		Location:        value(raw, "location"),
		Sort:            sort,
		Page:            page,
	}, nil
}

// ParseGeo validates the radius search parameters. Latitude and longitude
// are required; a missing or unusable radius falls back to DefaultRadiusKm.
func ParseGeo(raw url.Values) (GeoSpec, error) {
	latRaw, lngRaw := value(raw, "latitude"), value(raw, "longitude")
	if latRaw == "" || lngRaw == "" {
		return GeoSpec{}, apperr.BadRequest("latitude and longitude are required")
	}

	lat, err := strconv.ParseFloat(latRaw, 64)
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return GeoSpec{}, apperr.Validation("latitude must be a number between -90 and 90")
	}
	lng, err := strconv.ParseFloat(lngRaw, 64)
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return GeoSpec{}, apperr.Validation("longitude must be a number between -180 and 180")
	}

	page, err := parsePagination(raw)
	if err != nil {
		return GeoSpec{}, err
	}

	radius := DefaultRadiusKm
	if r := floatValue(raw, "radius"); r != nil && *r > 0 {
		radius = *r
	}

	return GeoSpec{Latitude: lat, Longitude: lng, RadiusKm: radius, Page: page}, nil
}

func parsePagination(raw url.Values) (Pagination, error) {
	page, err := intValue(raw, "page", DefaultPage)
	if err != nil {
		return Pagination{}, err
	}
	limit, err := intValue(raw, "limit", DefaultLimit)
	if err != nil {
		return Pagination{}, err
	}
	return Pagination{Page: max(page, 1), Limit: min(max(limit, 1), MaxLimit)}, nil
}

func parseSort(raw url.Values) (Sort, error) {
	sort := DefaultSort

	if field := value(raw, "sortBy"); field != "" {
		if _, ok := sortColumns[field]; !ok {
			return Sort{}, apperr.Validation("invalid sortBy: must be one of postedDate, salary.min, title, company").
				WithDetails(map[string]string{"sortBy": field})
		}
		sort.Field = field
	}

	if order := value(raw, "sortOrder"); order != "" {
		switch strings.ToLower(order) {
		case "asc":
			sort.Desc = false
		case "desc":
			sort.Desc = true
		default:
			return Sort{}, apperr.Validation("invalid sortOrder: must be asc or desc").
				WithDetails(map[string]string{"sortOrder": order})
		}
	}

	return sort, nil
}

// value returns the first trimmed value for key, or "".
func value(raw url.Values, key string) string {
	return strings.TrimSpace(raw.Get(key))
}

func intValue(raw url.Values, key string, fallback int) (int, error) {
	s := value(raw, key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Validation(key + " must be an integer").WithDetails(map[string]string{key: s})
	}
	return n, nil
}

func enumValue(raw url.Values, key string, allowed []string) string {
	v := value(raw, key)
	if slices.Contains(allowed, v) {
		return v
	}
	return ""
}

func floatValue(raw url.Values, key string) *float64 {
	s := value(raw, key)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func boolValue(raw url.Values, key string) *bool {
	switch strings.ToLower(value(raw, key)) {
	case "true":
		b := true
		return &b
	case "false":
		b := false
		return &b
	default:
		return nil
	}
}

func dateValue(raw url.Values, key string) *time.Time {
	s := value(raw, key)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// skillsValue accepts repeated keys (skills=a&skills=b, skills[]=a) as well
// as comma separated values, trims, drops empties and de-duplicates.
func skillsValue(raw url.Values) []string {
	var skills []string
	for _, key := range []string{"skills", "skills[]"} {
		for _, entry := range raw[key] {
			for _, part := range strings.Split(entry, ",") {
				skill := strings.TrimSpace(part)
				if skill != "" && !slices.Contains(skills, skill) {
					skills = append(skills, skill)
				}
			}
		}
	}
	return skills
}
