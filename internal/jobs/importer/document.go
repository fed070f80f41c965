package importer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Document is the YAML seed file accepted by the job-import command.
type Document struct {
	Employers []EmployerDoc `yaml:"employers" validate:"dive"`
	Jobs      []JobDoc      `yaml:"jobs" validate:"dive"`
}

type EmployerDoc struct {
	Name    string `yaml:"name" validate:"required,notblank"`
	Email   string `yaml:"email" validate:"required,email"`
	Phone   string `yaml:"phone"`
	Website string `yaml:"website" validate:"omitempty,url"`
	Logo    string `yaml:"logo"`
}

type JobDoc struct {
	ID                  string     `yaml:"id" validate:"omitempty,uuid"`
	EmployerEmail       string     `yaml:"employer" validate:"required,email"`
	Title               string     `yaml:"title" validate:"required,notblank"`
	Company             string     `yaml:"company" validate:"required,notblank"`
	Description         string     `yaml:"description" validate:"required"`
	Requirements        []string   `yaml:"requirements"`
	Responsibilities    []string   `yaml:"responsibilities"`
	Salary              SalaryDoc  `yaml:"salary"`
	Location            LocDoc     `yaml:"location"`
	JobType             string     `yaml:"jobType" validate:"required,oneof=Full-time Part-time Contract Temporary Internship"`
	Category            string     `yaml:"category" validate:"required,notblank"`
	PostedDate          *time.Time `yaml:"postedDate"`
	ApplicationDeadline *time.Time `yaml:"applicationDeadline"`
	Skills              []string   `yaml:"skills"`
	ExperienceLevel     string     `yaml:"experienceLevel" validate:"omitempty,oneof=Entry Mid Senior"`
}

type SalaryDoc struct {
	Min      *float64 `yaml:"min" validate:"omitempty,gte=0"`
	Max      *float64 `yaml:"max" validate:"omitempty,gte=0"`
	Currency string   `yaml:"currency" validate:"omitempty,len=3"`
}

type LocDoc struct {
	City      string   `yaml:"city"`
	State     string   `yaml:"state"`
	Country   string   `yaml:"country"`
	Remote    bool     `yaml:"remote"`
	Latitude  *float64 `yaml:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `yaml:"longitude" validate:"omitempty,longitude"`
}

// Decode reads a Document and rejects unknown keys.
func Decode(r io.Reader) (Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, nil
		}
		return Document{}, fmt.Errorf("decode import document: %w", err)
	}
	return doc, nil
}

// geocodeQuery is the free-text place used to look up missing coordinates.
func (l LocDoc) geocodeQuery() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{l.City, l.State, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

func (l LocDoc) needsGeocode() bool {
	return !l.Remote && (l.Latitude == nil || l.Longitude == nil) && strings.TrimSpace(l.City) != ""
}
