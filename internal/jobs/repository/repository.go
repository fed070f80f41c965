package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobboard_backend/internal/jobs/query"
	"jobboard_backend/platform/apperr"
)

const jobNotFoundMessage = "job not found"

const jobColumns = `
	id, title, company, description, requirements, responsibilities,
	salary_min, salary_max, salary_currency,
	location_city, location_state, location_country, location_remote,
	latitude, longitude, job_type, category, posted_date, application_deadline,
	skills, experience_level, employer_id, company_logo_key`

const getJobByIDQuery = `
	SELECT j.id, j.title, j.company, j.description, j.requirements, j.responsibilities,
		j.salary_min, j.salary_max, j.salary_currency,
		j.location_city, j.location_state, j.location_country, j.location_remote,
		j.latitude, j.longitude, j.job_type, j.category, j.posted_date, j.application_deadline,
		j.skills, j.experience_level, j.employer_id, j.company_logo_key,
		e.id, e.name, e.email, e.phone, e.website
	FROM jobs j
	JOIN employers e ON e.id = j.employer_id
	WHERE j.id = $1`

// Distinct values are sorted by byte order so the cached payload is stable
// regardless of the database collation.
const filterOptionsQuery = `
	SELECT
		ARRAY(SELECT DISTINCT category FROM jobs WHERE category <> '' ORDER BY category COLLATE "C"),
		ARRAY(SELECT DISTINCT job_type FROM jobs WHERE job_type <> '' ORDER BY job_type COLLATE "C"),
		ARRAY(SELECT DISTINCT experience_level FROM jobs
			WHERE experience_level IS NOT NULL AND experience_level <> ''
			ORDER BY experience_level COLLATE "C"),
		ARRAY(SELECT DISTINCT salary_currency FROM jobs WHERE salary_currency <> '' ORDER BY salary_currency COLLATE "C"),
		ARRAY(SELECT DISTINCT location_country FROM jobs
			WHERE location_country IS NOT NULL AND location_country <> ''
			ORDER BY location_country COLLATE "C")`

const upsertEmployerQuery = `
	INSERT INTO employers (name, email, phone, website)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (email) DO UPDATE
	SET name = EXCLUDED.name,
		phone = COALESCE(EXCLUDED.phone, employers.phone),
		website = COALESCE(EXCLUDED.website, employers.website)
	RETURNING id`

const upsertJobQuery = `
	INSERT INTO jobs (
		id, employer_id, title, company, description, requirements, responsibilities,
		salary_min, salary_max, salary_currency,
		location_city, location_state, location_country, location_remote,
		latitude, longitude, job_type, category, posted_date, application_deadline,
		skills, experience_level, company_logo_key
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10,
		$11, $12, $13, $14,
		$15, $16, $17, $18, COALESCE($19, now()), $20,
		$21, $22, $23
	)
	ON CONFLICT (id) DO UPDATE
	SET employer_id = EXCLUDED.employer_id,
		title = EXCLUDED.title,
		company = EXCLUDED.company,
		description = EXCLUDED.description,
		requirements = EXCLUDED.requirements,
		responsibilities = EXCLUDED.responsibilities,
		salary_min = EXCLUDED.salary_min,
		salary_max = EXCLUDED.salary_max,
		salary_currency = EXCLUDED.salary_currency,
		location_city = EXCLUDED.location_city,
		location_state = EXCLUDED.location_state,
		location_country = EXCLUDED.location_country,
		location_remote = EXCLUDED.location_remote,
		latitude = EXCLUDED.latitude,
		longitude = EXCLUDED.longitude,
		job_type = EXCLUDED.job_type,
		category = EXCLUDED.category,
		posted_date = EXCLUDED.posted_date,
		application_deadline = EXCLUDED.application_deadline,
		skills = EXCLUDED.skills,
		experience_level = EXCLUDED.experience_level,
		company_logo_key = EXCLUDED.company_logo_key
	RETURNING id`

// Repo implements the jobs repository on PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new jobs repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListJobs returns one sorted page of jobs matching where.
func (r *Repo) ListJobs(ctx context.Context, where query.Where, sort query.Sort, page query.Pagination) ([]Job, error) {
	sql, args := buildListQuery(where, sort, page)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	items := make([]Job, 0, page.Limit)
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		items = append(items, job)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate jobs: %w", rows.Err())
	}
	return items, nil
}

// CountJobs counts every job matching where, ignoring pagination.
func (r *Repo) CountJobs(ctx context.Context, where query.Where) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, buildCountQuery(where), where.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return total, nil
}

// ListNearby returns one page of jobs within the radius, nearest first.
func (r *Repo) ListNearby(ctx context.Context, geo query.GeoSpec) ([]NearbyJob, error) {
	sql, args := buildNearbyQuery(geo)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list nearby jobs: %w", err)
	}
	defer rows.Close()

	items := make([]NearbyJob, 0, geo.Page.Limit)
	for rows.Next() {
		var item NearbyJob
		dest := append(jobDest(&item.Job), &item.DistanceKm)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan nearby job: %w", err)
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate nearby jobs: %w", rows.Err())
	}
	return items, nil
}

// CountNearby counts jobs within the radius.
func (r *Repo) CountNearby(ctx context.Context, geo query.GeoSpec) (int, error) {
	where := geo.Where()
	var total int
	if err := r.pool.QueryRow(ctx, buildCountQuery(where), where.Args()...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count nearby jobs: %w", err)
	}
	return total, nil
}

// GetByID loads a job and its employer.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (JobDetail, error) {
	var detail JobDetail
	dest := append(jobDest(&detail.Job),
		&detail.Employer.ID, &detail.Employer.Name, &detail.Employer.Email,
		&detail.Employer.Phone, &detail.Employer.Website,
	)
	if err := r.pool.QueryRow(ctx, getJobByIDQuery, id).Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JobDetail{}, apperr.NotFound(jobNotFoundMessage)
		}
		return JobDetail{}, fmt.Errorf("get job: %w", err)
	}
	return detail, nil
}

// FilterOptions returns the distinct non-empty values of each filterable field.
func (r *Repo) FilterOptions(ctx context.Context) (FilterOptions, error) {
	var opts FilterOptions
	if err := r.pool.QueryRow(ctx, filterOptionsQuery).Scan(
		&opts.Categories, &opts.JobTypes, &opts.ExperienceLevels, &opts.Currencies, &opts.Countries,
	); err != nil {
		return FilterOptions{}, fmt.Errorf("filter options: %w", err)
	}
	return opts, nil
}

// UpsertEmployer creates the employer or refreshes it by email.
func (r *Repo) UpsertEmployer(ctx context.Context, params UpsertEmployerParams) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, upsertEmployerQuery,
		params.Name, params.Email, params.Phone, params.Website,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("upsert employer: %w", err)
	}
	return id, nil
}

// UpsertJob creates the job or replaces it by id.
func (r *Repo) UpsertJob(ctx context.Context, p UpsertJobParams) (uuid.UUID, error) {
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, upsertJobQuery,
		p.ID, p.EmployerID, p.Title, p.Company, p.Description, nonNil(p.Requirements), nonNil(p.Responsibilities),
		p.SalaryMin, p.SalaryMax, p.SalaryCurrency,
		p.City, p.State, p.Country, p.Remote,
		p.Latitude, p.Longitude, p.JobType, p.Category, p.PostedDate, p.ApplicationDeadline,
		nonNil(p.Skills), p.ExperienceLevel, p.CompanyLogoKey,
	).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("upsert job: %w", err)
	}
	return id, nil
}

func buildListQuery(where query.Where, sort query.Sort, page query.Pagination) (string, []any) {
	args := append(where.Args(), page.Limit, page.Offset())
	next := where.NextPlaceholder()
	sql := fmt.Sprintf(`
		SELECT %s
		FROM jobs
		%s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`, jobColumns, where.SQL(), sort.OrderBy(), next, next+1)
	return sql, args
}

func buildCountQuery(where query.Where) string {
	return fmt.Sprintf("SELECT COUNT(*) FROM jobs %s", where.SQL())
}

func buildNearbyQuery(geo query.GeoSpec) (string, []any) {
	where := geo.Where()
	args := append(where.Args(), geo.Page.Limit, geo.Page.Offset())
	next := where.NextPlaceholder()
	sql := fmt.Sprintf(`
		SELECT %s, %s AS distance_km
		FROM jobs
		%s
		ORDER BY distance_km ASC, id ASC
		LIMIT $%d OFFSET $%d`, jobColumns, query.DistanceExpr, where.SQL(), next, next+1)
	return sql, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (Job, error) {
	var job Job
	err := row.Scan(jobDest(&job)...)
	return job, err
}

// jobDest lists scan targets in jobColumns order.
func jobDest(j *Job) []any {
	return []any{
		&j.ID, &j.Title, &j.Company, &j.Description, &j.Requirements, &j.Responsibilities,
		&j.SalaryMin, &j.SalaryMax, &j.SalaryCurrency,
		&j.City, &j.State, &j.Country, &j.Remote,
		&j.Latitude, &j.Longitude, &j.JobType, &j.Category, &j.PostedDate, &j.ApplicationDeadline,
		&j.Skills, &j.ExperienceLevel, &j.EmployerID, &j.CompanyLogoKey,
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
