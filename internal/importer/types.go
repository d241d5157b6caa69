// Package importer implements the bulk data import pipeline: it drives the
// per-row loop over a parsed export, maps each row onto an internal entity,
// resolves duplicates, and records a row-level audit trail.
// This package has no HTTP dependencies; persistence is reached only
// through the Gateway interface so tests can substitute a fake store.
package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the caller-declared entity category governing which resolver
// runs for each row.
type Type string

const (
	TypePatients     Type = "patients"
	TypeAppointments Type = "appointments"
	TypeTreatments   Type = "treatments"
)

// ParseType validates a declared import type.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePatients, TypeAppointments, TypeTreatments:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown import type: %q", s)
}

// JobStatus is the lifecycle state of an import job. A job is always
// marked completed once every row has been processed; partial or total
// failure is visible through the per-row counts, not a separate state.
type JobStatus string

const (
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
)

// ItemStatus is the outcome of a single source row.
type ItemStatus string

const (
	ItemSuccess ItemStatus = "success"
	ItemFailed  ItemStatus = "failed"
)

// Profile roles. Imports always create patient-role profiles; the caller
// of the pipeline must hold the practitioner role.
const (
	RolePractitioner = "practitioner"
	RolePatient      = "patient"
)

// Appointment defaults. The source file cannot currently override these.
const (
	DefaultAppointmentDuration = 60 * time.Minute
	DefaultAppointmentUrgency  = "medium"
	DefaultAppointmentTime     = "09:00"
)

// Normalized appointment statuses.
const (
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusPending   = "pending"
)

// ImportJob is the per-request job record. It is created once per request,
// mutated only by the orchestrator, and never deleted by this subsystem.
type ImportJob struct {
	ID             uuid.UUID  `json:"id"`
	PractitionerID uuid.UUID  `json:"practitioner_id"`
	FileName       string     `json:"filename"`
	FileSize       int64      `json:"file_size"`
	Type           Type       `json:"detected_type"`
	TotalRows      int        `json:"total_rows"`
	SucceededRows  int        `json:"successful_rows"`
	FailedRows     int        `json:"failed_rows"`
	ProcessedRows  int        `json:"processed_rows"`
	Status         JobStatus  `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ImportJobItem is one append-only audit record per source row. It
// captures the raw field map exactly as parsed so failures can be
// re-examined after the fact.
type ImportJobItem struct {
	ID           uuid.UUID         `json:"id"`
	JobID        uuid.UUID         `json:"job_id"`
	RowNumber    int               `json:"row_number"`
	RawFields    map[string]string `json:"raw_fields"`
	Status       ItemStatus        `json:"status"`
	ErrorMessage string            `json:"error_message,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// Profile is the external patient/practitioner entity, keyed by
// (email, role). Imported patients are scoped to the owning practitioner.
type Profile struct {
	ID             uuid.UUID
	Role           string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	DateOfBirth    string // raw as supplied; persisted leniently
	Gender         string
	Notes          string
	PractitionerID uuid.UUID // zero for practitioner-role profiles
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Appointment references a resolved (or implicitly created) patient.
type Appointment struct {
	ID             uuid.UUID
	PatientID      uuid.UUID
	PractitionerID uuid.UUID
	StartTime      time.Time
	Duration       time.Duration
	Status         string
	Urgency        string
	Reason         string
	Notes          string
	CreatedAt      time.Time
}

// Request is a validated import request handed to the orchestrator.
type Request struct {
	PractitionerID uuid.UUID
	FileName       string
	FileContent    string
	Type           Type

	// FieldMapping maps source column names to canonical field names,
	// as selected by the caller before submission. May be nil.
	FieldMapping map[string]string
}

// Summary is the aggregated result returned to the caller. Imported
// always equals the job's successful row count.
type Summary struct {
	JobID               string   `json:"job_id"`
	Imported            int      `json:"imported"`
	PatientsCreated     int      `json:"patients_created"`
	AppointmentsCreated int      `json:"appointments_created"`
	ProfilesUpdated     int      `json:"profiles_updated"`
	Errors              []string `json:"errors"`
}

// Gateway is the persistence boundary for the pipeline. It is the only
// path to the external store; the pgx implementation lives in
// internal/store and tests substitute fakes.
type Gateway interface {
	// Profiles.
	GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetProfileByEmail(ctx context.Context, email, role string) (*Profile, error)
	// UpsertProfile inserts or overwrites the profile matched by
	// (email, role) and reports whether a new row was created.
	// Matching rides on a database unique constraint so concurrent
	// imports of the same email cannot race into duplicates.
	UpsertProfile(ctx context.Context, p *Profile) (id uuid.UUID, created bool, err error)

	// Appointments.
	CreateAppointment(ctx context.Context, a *Appointment) error

	// Jobs and their audit items.
	CreateJob(ctx context.Context, j *ImportJob) error
	AppendJobItem(ctx context.Context, item *ImportJobItem) error
	FinalizeJob(ctx context.Context, j *ImportJob) error
	GetJob(ctx context.Context, id uuid.UUID) (*ImportJob, error)
	ListJobItems(ctx context.Context, jobID uuid.UUID) ([]ImportJobItem, error)
	ListJobsByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit int) ([]ImportJob, error)
}
