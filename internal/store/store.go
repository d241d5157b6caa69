// Package store is the pgx-backed persistence gateway. It is the only
// package that touches the external relational store; the import pipeline
// consumes it through the importer.Gateway interface.
//
// The profile dedup check rides on the (email, role) unique constraint:
// concurrent imports of the same email resolve through upsert semantics
// at the database rather than a racy read-then-write.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dentalops/import-service/internal/importer"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store implements importer.Gateway on a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping verifies database connectivity, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// ---------------------------------------------------------------------------
// Profiles

const profileColumns = `id, role, first_name, last_name, email, phone,
	date_of_birth, gender, notes, practitioner_id, created_at, updated_at`

// GetProfileByID fetches a single profile.
func (s *Store) GetProfileByID(ctx context.Context, id uuid.UUID) (*importer.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	return scanProfile(row)
}

// GetProfileByEmail fetches the profile matching (email, role), the dedup
// key for imported patients.
func (s *Store) GetProfileByEmail(ctx context.Context, email, role string) (*importer.Profile, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = $1 AND role = $2`, email, role)
	return scanProfile(row)
}

// UpsertProfile inserts the profile or overwrites the existing row with
// the same (email, role). Overwrite is last-write-wins, not a merge. The
// returned flag reports whether a new row was created; (xmax = 0) is true
// only for freshly inserted tuples.
func (s *Store) UpsertProfile(ctx context.Context, p *importer.Profile) (uuid.UUID, bool, error) {
	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var (
		outID    uuid.UUID
		inserted bool
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO profiles (
			id, role, first_name, last_name, email, phone,
			date_of_birth, gender, notes, practitioner_id, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
		ON CONFLICT (email, role) DO UPDATE SET
			first_name      = EXCLUDED.first_name,
			last_name       = EXCLUDED.last_name,
			phone           = EXCLUDED.phone,
			date_of_birth   = EXCLUDED.date_of_birth,
			gender          = EXCLUDED.gender,
			notes           = EXCLUDED.notes,
			practitioner_id = EXCLUDED.practitioner_id,
			updated_at      = now()
		RETURNING id, (xmax = 0) AS inserted`,
		id, p.Role, toPgText(p.FirstName), toPgText(p.LastName), p.Email,
		toPgText(p.Phone), toPgDate(p.DateOfBirth), toPgText(p.Gender),
		toPgText(p.Notes), toPgUUID(p.PractitionerID),
	).Scan(&outID, &inserted)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("upsert profile: %w", err)
	}

	p.ID = outID
	return outID, inserted, nil
}

// ---------------------------------------------------------------------------
// Appointments

// CreateAppointment persists a new appointment row.
func (s *Store) CreateAppointment(ctx context.Context, a *importer.Appointment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO appointments (
			id, patient_id, practitioner_id, start_time, duration_minutes,
			status, urgency, reason, notes, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.PatientID, a.PractitionerID, a.StartTime,
		int(a.Duration.Minutes()), a.Status, a.Urgency,
		toPgText(a.Reason), toPgText(a.Notes), a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Import jobs and their audit items

// CreateJob inserts the job record in its initial processing state.
func (s *Store) CreateJob(ctx context.Context, j *importer.ImportJob) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_jobs (
			id, practitioner_id, filename, file_size, detected_type,
			total_rows, successful_rows, failed_rows, processed_rows,
			status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, 0, 0, 0, $7, $8)`,
		j.ID, j.PractitionerID, j.FileName, j.FileSize, string(j.Type),
		j.TotalRows, string(j.Status), j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import job: %w", err)
	}
	return nil
}

// FinalizeJob writes the aggregated counts and the terminal status.
func (s *Store) FinalizeJob(ctx context.Context, j *importer.ImportJob) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE import_jobs SET
			successful_rows = $2,
			failed_rows     = $3,
			processed_rows  = $4,
			status          = $5,
			completed_at    = $6
		WHERE id = $1`,
		j.ID, j.SucceededRows, j.FailedRows, j.ProcessedRows,
		string(j.Status), j.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("finalize import job: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return importer.ErrNotFound
	}
	return nil
}

// AppendJobItem appends one immutable audit record for a source row.
func (s *Store) AppendJobItem(ctx context.Context, item *importer.ImportJobItem) error {
	raw, err := json.Marshal(item.RawFields)
	if err != nil {
		raw = nil
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO import_job_items (
			id, job_id, row_number, raw_fields, status, error_message, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		item.ID, item.JobID, item.RowNumber, raw, string(item.Status),
		toPgText(item.ErrorMessage), item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job item: %w", err)
	}
	return nil
}

// GetJob fetches a job record.
func (s *Store) GetJob(ctx context.Context, id uuid.UUID) (*importer.ImportJob, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, practitioner_id, filename, file_size, detected_type,
		       total_rows, successful_rows, failed_rows, processed_rows,
		       status, created_at, completed_at
		FROM import_jobs WHERE id = $1`, id)
	return scanJob(row)
}

// ListJobItems returns a job's audit items in row order.
func (s *Store) ListJobItems(ctx context.Context, jobID uuid.UUID) ([]importer.ImportJobItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, job_id, row_number, raw_fields, status, error_message, created_at
		FROM import_job_items
		WHERE job_id = $1
		ORDER BY row_number`, jobID)
	if err != nil {
		return nil, fmt.Errorf("list job items: %w", err)
	}
	defer rows.Close()

	items := []importer.ImportJobItem{}
	for rows.Next() {
		item, err := scanJobItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// ListJobsByPractitioner returns the practitioner's most recent jobs.
func (s *Store) ListJobsByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit int) ([]importer.ImportJob, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, practitioner_id, filename, file_size, detected_type,
		       total_rows, successful_rows, failed_rows, processed_rows,
		       status, created_at, completed_at
		FROM import_jobs
		WHERE practitioner_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, practitionerID, limit)
	if err != nil {
		return nil, fmt.Errorf("list import jobs: %w", err)
	}
	defer rows.Close()

	jobs := []importer.ImportJob{}
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// ---------------------------------------------------------------------------
// Row scanning

func scanProfile(row pgx.Row) (*importer.Profile, error) {
	var (
		p              importer.Profile
		firstName      pgText
		lastName       pgText
		phone          pgText
		dob            pgDate
		gender         pgText
		notes          pgText
		practitionerID pgUUID
	)
	err := row.Scan(&p.ID, &p.Role, &firstName, &lastName, &p.Email,
		&phone, &dob, &gender, &notes, &practitionerID,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, importer.ErrNotFound
		}
		return nil, fmt.Errorf("scan profile: %w", err)
	}

	p.FirstName = firstName.String()
	p.LastName = lastName.String()
	p.Phone = phone.String()
	p.DateOfBirth = dob.String()
	p.Gender = gender.String()
	p.Notes = notes.String()
	p.PractitionerID = practitionerID.Value()
	return &p, nil
}

func scanJob(row pgx.Row) (*importer.ImportJob, error) {
	var (
		j           importer.ImportJob
		jobType     string
		status      string
		completedAt *time.Time
	)
	err := row.Scan(&j.ID, &j.PractitionerID, &j.FileName, &j.FileSize,
		&jobType, &j.TotalRows, &j.SucceededRows, &j.FailedRows,
		&j.ProcessedRows, &status, &j.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, importer.ErrNotFound
		}
		return nil, fmt.Errorf("scan import job: %w", err)
	}

	j.Type = importer.Type(jobType)
	j.Status = importer.JobStatus(status)
	j.CompletedAt = completedAt
	return &j, nil
}

func scanJobItem(row pgx.Row) (*importer.ImportJobItem, error) {
	var (
		item     importer.ImportJobItem
		raw      []byte
		status   string
		errorMsg pgText
	)
	err := row.Scan(&item.ID, &item.JobID, &item.RowNumber, &raw,
		&status, &errorMsg, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("scan job item: %w", err)
	}

	if raw != nil {
		_ = json.Unmarshal(raw, &item.RawFields)
	}
	item.Status = importer.ItemStatus(status)
	item.ErrorMessage = errorMsg.String()
	return &item, nil
}
