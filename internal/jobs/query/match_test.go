package query

import (
	"math"
	"net/url"
	"regexp"
	"slices"
	"sort"
	"strconv"
	"testing"
)

// fixtureJob carries the columns the simple comparison clauses touch.
type fixtureJob struct {
	id        string
	salaryMin float64
	salaryMax float64
	skills    []string
	latitude  float64
	longitude float64
}

var simpleClause = regexp.MustCompile(`^(\w+) (<=|>=|=|@>) \$(\d+)(::text\[\])?$`)

// matches evaluates each "column op $n" clause of w against job.
func matches(t *testing.T, w Where, job fixtureJob) bool {
	t.Helper()
	args := w.Args()
	for _, clause := range w.Clauses() {
		m := simpleClause.FindStringSubmatch(clause)
		if m == nil {
			t.Fatalf("cannot evaluate clause %q", clause)
		}
		n, _ := strconv.Atoi(m[3])
		arg := args[n-1]
		switch m[1] {
		case "salary_min", "salary_max":
			col := job.salaryMin
			if m[1] == "salary_max" {
				col = job.salaryMax
			}
			v := arg.(float64)
			if (m[2] == "<=" && col > v) || (m[2] == ">=" && col < v) {
				return false
			}
		case "skills":
			for _, s := range arg.([]string) {
				if !slices.Contains(job.skills, s) {
					return false
				}
			}
		default:
			t.Fatalf("no fixture column for %q", m[1])
		}
	}
	return true
}

func matchingIDs(t *testing.T, w Where, jobs []fixtureJob) []string {
	t.Helper()
	var ids []string
	for _, job := range jobs {
		if matches(t, w, job) {
			ids = append(ids, job.id)
		}
	}
	return ids
}

func TestFilterWhereSelectsFixtureJobs(t *testing.T) {
	jobs := []fixtureJob{
		{id: "low-overlap", salaryMin: 500, salaryMax: 1500, skills: []string{"React"}},
		{id: "above", salaryMin: 2100, salaryMax: 3000, skills: []string{"React", "Node", "SQL"}},
		{id: "inside", salaryMin: 1200, salaryMax: 1800, skills: []string{"Go"}},
		{id: "wider", salaryMin: 100, salaryMax: 5000, skills: []string{"Node", "React"}},
	}

	cases := []struct {
		name string
		raw  url.Values
		want []string
	}{
		{
			name: "salary ranges overlap",
			raw:  url.Values{"minSalary": {"1000"}, "maxSalary": {"2000"}},
			want: []string{"low-overlap", "inside", "wider"},
		},
		{
			name: "minimum only",
			raw:  url.Values{"minSalary": {"2000"}},
			want: []string{"above", "wider"},
		},
		{
			name: "every skill required",
			raw:  url.Values{"skills": {"React,Node"}},
			want: []string{"above", "wider"},
		},
		{
			name: "skills and salary combine",
			raw:  url.Values{"skills": {"React"}, "maxSalary": {"2000"}},
			want: []string{"low-overlap", "wider"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := matchingIDs(t, mustFilter(t, tc.raw).Where(), jobs)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

// earthRadiusMeters matches the sphere the earthdistance extension assumes.
const earthRadiusMeters = 6378168.0

func greatCircleMeters(lat1, lng1, lat2, lng2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLng := (lng2 - lng1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}

// northOf places a point km kilometres due north of lat.
func northOf(lat, km float64) float64 {
	return lat + km*1000/earthRadiusMeters*180/math.Pi
}

func TestGeoWhereKeepsJobsInsideRadiusNearestFirst(t *testing.T) {
	const originLat, originLng = 40.7128, -74.0060
	jobs := []fixtureJob{
		{id: "15km", latitude: northOf(originLat, 15), longitude: originLng},
		{id: "8km", latitude: northOf(originLat, 8), longitude: originLng},
		{id: "2km", latitude: northOf(originLat, 2), longitude: originLng},
	}

	spec, err := ParseGeo(url.Values{"latitude": {"40.7128"}, "longitude": {"-74.0060"}, "radius": {"10"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	args := spec.Where().Args()
	lat, lng, radius := args[0].(float64), args[1].(float64), args[2].(float64)

	type hit struct {
		id string
		km float64
	}
	var hits []hit
	for _, job := range jobs {
		d := greatCircleMeters(lat, lng, job.latitude, job.longitude)
		if d <= radius {
			hits = append(hits, hit{job.id, d / 1000})
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].km < hits[j].km })

	if len(hits) != 2 || hits[0].id != "2km" || hits[1].id != "8km" {
		t.Fatalf("expected [2km 8km], got %v", hits)
	}
	if math.Abs(hits[0].km-2) > 0.01 || math.Abs(hits[1].km-8) > 0.01 {
		t.Fatalf("unexpected distances %v", hits)
	}
}
