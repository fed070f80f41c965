package query

import (
	"net/url"
	"strings"
	"testing"
)

func mustFilter(t *testing.T, raw url.Values) FilterSpec {
	t.Helper()
	spec, err := ParseFilter(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return spec
}

func TestFilterWhereSalaryOverlap(t *testing.T) {
	w := mustFilter(t, url.Values{"minSalary": {"50000"}, "maxSalary": {"90000"}}).Where()

	clauses := w.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected two salary clauses, got %v", clauses)
	}
	if clauses[0] != "salary_min <= $1" || clauses[1] != "salary_max >= $2" {
		t.Fatalf("unexpected overlap clauses %v", clauses)
	}
	args := w.Args()
	if args[0] != 90000.0 || args[1] != 50000.0 {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestFilterWhereSkillsContainment(t *testing.T) {
	w := mustFilter(t, url.Values{"skills": {"go,sql"}}).Where()

	if !strings.Contains(w.SQL(), "skills @> $1::text[]") {
		t.Fatalf("expected containment predicate, got %q", w.SQL())
	}
	skills, ok := w.Args()[0].([]string)
	if !ok || len(skills) != 2 {
		t.Fatalf("expected skills slice arg, got %#v", w.Args()[0])
	}
}

func TestFilterWhereRemoteOnlyWhenPresent(t *testing.T) {
	if sql := mustFilter(t, url.Values{}).Where().SQL(); sql != "" {
		t.Fatalf("expected no predicates, got %q", sql)
	}

	w := mustFilter(t, url.Values{"isRemote": {"false"}}).Where()
	if w.SQL() != "WHERE location_remote = $1" {
		t.Fatalf("unexpected sql %q", w.SQL())
	}
	if w.Args()[0] != false {
		t.Fatalf("expected false arg, got %v", w.Args()[0])
	}
}

func TestFilterWhereLocationEscapesWildcards(t *testing.T) {
	w := mustFilter(t, url.Values{"city": {"100%_new"}}).Where()

	if w.SQL() != "WHERE location_city ILIKE $1" {
		t.Fatalf("unexpected sql %q", w.SQL())
	}
	if got := w.Args()[0]; got != `%100\%\_new%` {
		t.Fatalf("unexpected pattern %v", got)
	}
}

func TestFilterWhereCombinesInOrder(t *testing.T) {
	w := mustFilter(t, url.Values{
		"search":      {"backend engineer"},
		"category":    {"Engineering"},
		"jobType":     {"Full-time"},
		"currency":    {"usd"},
		"postedAfter": {"2024-01-01"},
	}).Where()

	sql := w.SQL()
	for _, want := range []string{
		"search_vector @@ websearch_to_tsquery('english', $1)",
		"category = $2",
		"job_type = $3",
		"salary_currency = $4",
		"posted_date >= $5",
	} {
		if !strings.Contains(sql, want) {
			t.Fatalf("expected %q in %q", want, sql)
		}
	}
	if w.Args()[3] != "USD" {
		t.Fatalf("expected currency upper-cased, got %v", w.Args()[3])
	}
	if w.NextPlaceholder() != 6 {
		t.Fatalf("expected next placeholder 6, got %d", w.NextPlaceholder())
	}
}

func TestListWhereANDsSearchAndLocation(t *testing.T) {
	w := ListSpec{Search: "go", Location: "Remote"}.Where()

	clauses := w.Clauses()
	if len(clauses) != 2 {
		t.Fatalf("expected search and location to be AND-ed, got %v", clauses)
	}
	if !strings.HasPrefix(clauses[0], "(title ILIKE $1") {
		t.Fatalf("unexpected search clause %q", clauses[0])
	}
	if !strings.HasSuffix(clauses[1], "OR location_remote = true)") {
		t.Fatalf("unexpected location clause %q", clauses[1])
	}
	if len(w.Args()) != 2 {
		t.Fatalf("expected search and location patterns only, got %v", w.Args())
	}
}

func TestListWhereCityHasNoRemoteDisjunct(t *testing.T) {
	spec, err := ParseList(url.Values{"location": {"Paris"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	w := spec.Where()

	want := "WHERE (location_city ILIKE $1 OR location_state ILIKE $1 OR location_country ILIKE $1)"
	if w.SQL() != want {
		t.Fatalf("expected %q, got %q", want, w.SQL())
	}
	args := w.Args()
	if len(args) != 1 || args[0] != "%Paris%" {
		t.Fatalf("unexpected args %v", args)
	}
}

func TestGeoWhereUsesOriginPlaceholders(t *testing.T) {
	w := GeoSpec{Latitude: 40.7, Longitude: -74, RadiusKm: 10}.Where()

	sql := w.SQL()
	if !strings.Contains(sql, "earth_box(ll_to_earth($1, $2), $3)") {
		t.Fatalf("expected earth_box prefilter, got %q", sql)
	}
	if !strings.Contains(sql, "earth_distance(ll_to_earth($1, $2), ll_to_earth(latitude, longitude)) <= $3") {
		t.Fatalf("expected exact distance check, got %q", sql)
	}
	if !strings.HasPrefix(DistanceExpr, "earth_distance(ll_to_earth($1, $2)") {
		t.Fatalf("distance expression must share the origin placeholders")
	}
	if w.Args()[2] != 10000.0 {
		t.Fatalf("expected radius in meters, got %v", w.Args()[2])
	}
}
