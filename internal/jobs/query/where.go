package query

import (
	"fmt"
	"strconv"
	"strings"
)

// Where accumulates AND-ed SQL predicates with positional ($n) arguments.
type Where struct {
	clauses []string
	args    []any
}

// Arg registers v and returns its placeholder.
func (w *Where) Arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// And appends a predicate. Placeholders in clause must come from Arg.
func (w *Where) And(clause string) {
	w.clauses = append(w.clauses, clause)
}

// Clauses returns a copy of the predicates in insertion order.
func (w Where) Clauses() []string {
	return append([]string(nil), w.clauses...)
}

// Args returns a copy of the arguments; callers may append paging args to it.
func (w Where) Args() []any {
	return append([]any(nil), w.args...)
}

// NextPlaceholder is the placeholder the next appended argument will take.
func (w Where) NextPlaceholder() int {
	return len(w.args) + 1
}

// SQL renders "WHERE a AND b", or "" when there is nothing to filter on.
func (w Where) SQL() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return "WHERE " + strings.Join(w.clauses, " AND ")
}

type filterPredicate func(FilterSpec, *Where)

// filterPredicates run in order over an empty Where; each one is a no-op
// when its FilterSpec field is unset.
var filterPredicates = []filterPredicate{
	searchPredicate,
	categoryPredicate,
	jobTypePredicate,
	experienceLevelPredicate,
	salaryPredicate,
	currencyPredicate,
	placePredicate,
	remotePredicate,
	skillsPredicate,
	postedPredicate,
}

// Where folds the filter predicates into a SQL condition.
func (f FilterSpec) Where() Where {
	var w Where
	for _, p := range filterPredicates {
		p(f, &w)
	}
	return w
}

func searchPredicate(f FilterSpec, w *Where) {
	if f.SearchText == "" {
		return
	}
	w.And(fmt.Sprintf("search_vector @@ websearch_to_tsquery('english', %s)", w.Arg(f.SearchText)))
}

func categoryPredicate(f FilterSpec, w *Where) {
	if f.Category == "" {
		return
	}
	w.And("category = " + w.Arg(f.Category))
}

func jobTypePredicate(f FilterSpec, w *Where) {
	if f.JobType == "" {
		return
	}
	w.And("job_type = " + w.Arg(f.JobType))
}

func experienceLevelPredicate(f FilterSpec, w *Where) {
	if f.ExperienceLevel == "" {
		return
	}
	w.And("experience_level = " + w.Arg(f.ExperienceLevel))
}

// salaryPredicate uses overlap semantics: a job matches when its range
// intersects the requested one.
func salaryPredicate(f FilterSpec, w *Where) {
	if f.Salary.Max != nil {
		w.And("salary_min <= " + w.Arg(*f.Salary.Max))
	}
	if f.Salary.Min != nil {
		w.And("salary_max >= " + w.Arg(*f.Salary.Min))
	}
}

func currencyPredicate(f FilterSpec, w *Where) {
	if f.Salary.Currency == "" {
		return
	}
	w.And("salary_currency = " + w.Arg(f.Salary.Currency))
}

func placePredicate(f FilterSpec, w *Where) {
	for _, field := range []struct{ column, value string }{
		{"location_city", f.Location.City},
		{"location_state", f.Location.State},
		{"location_country", f.Location.Country},
	} {
		if field.value == "" {
			continue
		}
		w.And(field.column + " ILIKE " + w.Arg(containsPattern(field.value)))
	}
}

func remotePredicate(f FilterSpec, w *Where) {
	if f.Location.Remote == nil {
		return
	}
	w.And("location_remote = " + w.Arg(*f.Location.Remote))
}

func skillsPredicate(f FilterSpec, w *Where) {
	if len(f.Skills) == 0 {
		return
	}
	w.And("skills @> " + w.Arg(f.Skills) + "::text[]")
}

func postedPredicate(f FilterSpec, w *Where) {
	if f.Posted.After != nil {
		w.And("posted_date >= " + w.Arg(*f.Posted.After))
	}
	if f.Posted.Before != nil {
		w.And("posted_date <= " + w.Arg(*f.Posted.Before))
	}
}

// Where matches the category exactly.
func (c CategorySpec) Where() Where {
	var w Where
	w.And("category = " + w.Arg(c.Category))
	return w
}

// Where builds the job feed condition. search and location are
// case-insensitive substrings; location "remote" selects remote jobs too.
func (l ListSpec) Where() Where {
	var w Where
	if l.Search != "" {
		p := w.Arg(containsPattern(l.Search))
		w.And(fmt.Sprintf("(title ILIKE %s OR description ILIKE %s)", p, p))
	}
	if l.Category != "" {
		w.And("category = " + w.Arg(l.Category))
	}
	if l.JobType != "" {
		w.And("job_type = " + w.Arg(l.JobType))
	}
	if l.ExperienceLevel != "" {
		w.And("experience_level = " + w.Arg(l.ExperienceLevel))
	}
	if l.Location != "" {
		p := w.Arg(containsPattern(l.Location))
		clause := fmt.Sprintf("location_city ILIKE %s OR location_state ILIKE %s OR location_country ILIKE %s", p, p, p)
		if strings.EqualFold(l.Location, "remote") {
			clause += " OR location_remote = true"
		}
		w.And("(" + clause + ")")
	}
	return w
}

// Where restricts to jobs within the radius. earth_box narrows through the
// GiST index, earth_distance trims the box corners. Rows without coordinates
// yield NULL and never match.
func (g GeoSpec) Where() Where {
	var w Where
	origin := fmt.Sprintf("ll_to_earth(%s, %s)", w.Arg(g.Latitude), w.Arg(g.Longitude))
	radius := w.Arg(g.RadiusMeters())
	w.And(fmt.Sprintf("earth_box(%s, %s) @> ll_to_earth(latitude, longitude)", origin, radius))
	w.And(fmt.Sprintf("earth_distance(%s, ll_to_earth(latitude, longitude)) <= %s", origin, radius))
	return w
}

// DistanceExpr is the distance in km from the origin registered by GeoSpec.Where.
const DistanceExpr = "earth_distance(ll_to_earth($1, $2), ll_to_earth(latitude, longitude)) / 1000.0"

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an unanchored ILIKE pattern matching s literally.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
