// Package importer loads employers and jobs from a YAML document into the
// store, filling in coordinates and company logos on the way.
package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"jobboard_backend/internal/adapters/storage"
	"jobboard_backend/internal/jobs/repository"
	"jobboard_backend/internal/maps"
	"jobboard_backend/platform/logger"
	"jobboard_backend/platform/sanitize"
	"jobboard_backend/platform/validator"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// jobNamespace seeds deterministic ids for jobs imported without one, so
// re-running an import updates rather than duplicates.
var jobNamespace = uuid.MustParse("6f1f5b8e-3c8a-4b7e-9d8e-2a9c1b7d4e10")

const defaultCurrency = "USD"

// Geocoder resolves a free-text place to coordinates.
type Geocoder interface {
	SearchAddress(ctx context.Context, query string) ([]maps.AddressSuggestion, error)
}

// LogoUploader stores an employer logo and returns its object key.
type LogoUploader interface {
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
}

// RefreshRequester asks for the cached filter options to be rebuilt.
type RefreshRequester interface {
	EnqueueFilterOptionsRefresh(ctx context.Context, reason string) error
}

// Result summarises an import run.
type Result struct {
	Employers int
	Jobs      int
	Geocoded  int
	Failed    int
}

type Importer struct {
	repo       repository.Importer
	val        *validator.Validator
	log        *logger.Logger
	geocoder   Geocoder
	geoLimiter *rate.Limiter
	logos      LogoUploader
	logoBucket string
	refresh    RefreshRequester
}

func New(repo repository.Importer, val *validator.Validator, log *logger.Logger) *Importer {
	return &Importer{repo: repo, val: val, log: log}
}

// SetGeocoder enables coordinate lookup. Nominatim allows one request per second.
func (im *Importer) SetGeocoder(g Geocoder, limit rate.Limit) {
	im.geocoder = g
	im.geoLimiter = rate.NewLimiter(limit, 1)
}

func (im *Importer) SetLogoUploader(u LogoUploader, bucket string) {
	im.logos = u
	im.logoBucket = bucket
}

func (im *Importer) SetRefreshRequester(r RefreshRequester) {
	im.refresh = r
}

// Import validates doc and upserts it. Logo paths are resolved against baseDir.
// A failing job is logged and counted, never fatal.
func (im *Importer) Import(ctx context.Context, doc Document, baseDir string) (Result, error) {
	if err := im.val.Struct(doc); err != nil {
		return Result{}, fmt.Errorf("invalid import document: %w", err)
	}

	var res Result
	employers := make(map[string]uuid.UUID, len(doc.Employers))
	logos := make(map[string]*string, len(doc.Employers))

	for _, e := range doc.Employers {
		email := strings.ToLower(strings.TrimSpace(e.Email))
		id, err := im.repo.UpsertEmployer(ctx, repository.UpsertEmployerParams{
			Name:    sanitize.Line(e.Name),
			Email:   email,
			Phone:   optional(e.Phone),
			Website: optional(e.Website),
		})
		if err != nil {
			return res, err
		}
		employers[email] = id
		res.Employers++

		if e.Logo != "" {
			logos[email] = im.uploadLogo(ctx, baseDir, email, e.Logo)
		}
	}

	for _, j := range doc.Jobs {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}

		email := strings.ToLower(strings.TrimSpace(j.EmployerEmail))
		employerID, ok := employers[email]
		if !ok {
			im.log.Warn("job references unknown employer", "title", j.Title, "employer", email)
			res.Failed++
			continue
		}

		params := toUpsertParams(j, employerID)
		params.CompanyLogoKey = logos[email]

		if j.Location.needsGeocode() && im.geocoder != nil {
			if lat, lon, ok := im.geocode(ctx, j.Location.geocodeQuery()); ok {
				params.Latitude, params.Longitude = &lat, &lon
				res.Geocoded++
			}
		}

		if _, err := im.repo.UpsertJob(ctx, params); err != nil {
			im.log.Error("failed to import job", "title", j.Title, "error", err)
			res.Failed++
			continue
		}
		res.Jobs++
	}

	if im.refresh != nil && res.Jobs > 0 {
		if err := im.refresh.EnqueueFilterOptionsRefresh(ctx, "import"); err != nil {
			im.log.Warn("failed to enqueue filter options refresh", "error", err)
		}
	}

	return res, nil
}

func (im *Importer) geocode(ctx context.Context, query string) (float64, float64, bool) {
	if err := im.geoLimiter.Wait(ctx); err != nil {
		return 0, 0, false
	}

	suggestions, err := im.geocoder.SearchAddress(ctx, query)
	if err != nil {
		im.log.Warn("geocode failed", "query", query, "error", err)
		return 0, 0, false
	}
	if len(suggestions) == 0 {
		im.log.Info("no geocode result", "query", query)
		return 0, 0, false
	}
	return suggestions[0].Lat, suggestions[0].Lon, true
}

func (im *Importer) uploadLogo(ctx context.Context, baseDir, email, path string) *string {
	if im.logos == nil {
		return nil
	}

	contentType, ok := storage.ContentTypeForExtension(filepath.Ext(path))
	if !ok {
		im.log.Warn("unsupported logo type", "employer", email, "path", path)
		return nil
	}

	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		im.log.Warn("failed to open logo", "employer", email, "error", err)
		return nil
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		im.log.Warn("failed to stat logo", "employer", email, "error", err)
		return nil
	}

	key, err := im.logos.UploadFile(ctx, im.logoBucket, employerFolder(email), filepath.Base(path), contentType, f, info.Size())
	if err != nil {
		im.log.Warn("failed to upload logo", "employer", email, "error", err)
		return nil
	}
	return &key
}

func toUpsertParams(j JobDoc, employerID uuid.UUID) repository.UpsertJobParams {
	currency := strings.ToUpper(strings.TrimSpace(j.Salary.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	var posted *time.Time
	if j.PostedDate != nil {
		t := j.PostedDate.UTC()
		posted = &t
	}

	return repository.UpsertJobParams{
		ID:                  jobID(j),
		EmployerID:          employerID,
		Title:               sanitize.Line(j.Title),
		Company:             sanitize.Line(j.Company),
		Description:         sanitize.StripHTML(j.Description),
		Requirements:        sanitize.List(j.Requirements),
		Responsibilities:    sanitize.List(j.Responsibilities),
		SalaryMin:           j.Salary.Min,
		SalaryMax:           j.Salary.Max,
		SalaryCurrency:      currency,
		City:                optional(j.Location.City),
		State:               optional(j.Location.State),
		Country:             optional(j.Location.Country),
		Remote:              j.Location.Remote,
		Latitude:            j.Location.Latitude,
		Longitude:           j.Location.Longitude,
		JobType:             j.JobType,
		Category:            strings.TrimSpace(j.Category),
		PostedDate:          posted,
		ApplicationDeadline: j.ApplicationDeadline,
		Skills:              sanitize.List(j.Skills),
		ExperienceLevel:     optional(j.ExperienceLevel),
	}
}

func jobID(j JobDoc) uuid.UUID {
	if id, err := uuid.Parse(j.ID); err == nil {
		return id
	}
	seed := strings.ToLower(strings.Join([]string{
		strings.TrimSpace(j.EmployerEmail),
		strings.TrimSpace(j.Title),
		strings.TrimSpace(j.Location.City),
	}, "|"))
	return uuid.NewSHA1(jobNamespace, []byte(seed))
}

func employerFolder(email string) string {
	replacer := strings.NewReplacer("@", "-at-", ".", "-", "/", "-")
	return "employers/" + replacer.Replace(email)
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
