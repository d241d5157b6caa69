package importer

// resolvers.go turns one mapped row into a validated, persisted entity.
// Each resolver returns the counts its work contributed to the job
// summary, or a row-level error. Resolvers never abort the batch.

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dentalops/import-service/internal/mapping"
	"github.com/google/uuid"
)

// rowCounts is the tagged success side of a row result.
type rowCounts struct {
	patientsCreated     int
	appointmentsCreated int
	profilesUpdated     int
}

func (c *rowCounts) add(other rowCounts) {
	c.patientsCreated += other.patientsCreated
	c.appointmentsCreated += other.appointmentsCreated
	c.profilesUpdated += other.profilesUpdated
}

// patientNames derives first/last names, splitting a combined name field
// when discrete fields are absent.
func patientNames(rec mapping.CanonicalRecord) (first, last string) {
	first = rec.Get(mapping.FieldFirstName)
	last = rec.Get(mapping.FieldLastName)
	if first == "" {
		first, last = SplitName(rec.Get(mapping.FieldName))
	}
	return first, last
}

// resolvePatient upserts the patient described by rec, synthesizing a
// placeholder email when none is supplied so a dedup key always exists.
// An existing profile with the same email and patient role is the same
// person: its fields are overwritten, not merged.
func (o *Orchestrator) resolvePatient(ctx context.Context, rec mapping.CanonicalRecord, practitionerID uuid.UUID) (uuid.UUID, rowCounts, error) {
	first, last := patientNames(rec)
	if first == "" {
		return uuid.Nil, rowCounts{}, validationErr("Patient name is required")
	}

	email := strings.ToLower(strings.TrimSpace(rec.Get(mapping.FieldEmail)))
	if email == "" {
		email = SynthesizeEmail(first, last)
	}

	profile := &Profile{
		Role:           RolePatient,
		FirstName:      first,
		LastName:       last,
		Email:          email,
		Phone:          rec.Get(mapping.FieldPhone),
		DateOfBirth:    rec.Get(mapping.FieldDateOfBirth),
		Gender:         rec.Get(mapping.FieldGender),
		Notes:          rec.Get(mapping.FieldNotes),
		PractitionerID: practitionerID,
	}

	id, created, err := o.gw.UpsertProfile(ctx, profile)
	if err != nil {
		return uuid.Nil, rowCounts{}, err
	}

	counts := rowCounts{}
	if created {
		counts.patientsCreated = 1
	} else {
		counts.profilesUpdated = 1
	}
	return id, counts, nil
}

// resolveAppointment validates the row, resolves or implicitly creates
// the patient, and persists an appointment with the fixed duration and
// urgency the source format cannot override.
func (o *Orchestrator) resolveAppointment(ctx context.Context, rec mapping.CanonicalRecord, practitionerID uuid.UUID) (rowCounts, error) {
	first, _ := patientNames(rec)
	date := rec.Get(mapping.FieldDate)
	if first == "" || date == "" {
		return rowCounts{}, validationErr("Patient name and appointment date are required")
	}

	start, err := ParseDateTime(date, rec.Get(mapping.FieldTime))
	if err != nil {
		return rowCounts{}, err
	}

	counts := rowCounts{}

	var patientID uuid.UUID
	email := strings.ToLower(strings.TrimSpace(rec.Get(mapping.FieldEmail)))
	if email != "" {
		existing, err := o.gw.GetProfileByEmail(ctx, email, RolePatient)
		switch {
		case err == nil:
			patientID = existing.ID
		case errors.Is(err, ErrNotFound):
			// Fall through to implicit creation below.
		default:
			return rowCounts{}, err
		}
	}
	if patientID == uuid.Nil {
		id, patientCounts, err := o.resolvePatient(ctx, rec, practitionerID)
		if err != nil {
			return rowCounts{}, err
		}
		patientID = id
		counts.add(patientCounts)
	}

	appt := &Appointment{
		ID:             uuid.New(),
		PatientID:      patientID,
		PractitionerID: practitionerID,
		StartTime:      start,
		Duration:       DefaultAppointmentDuration,
		Status:         NormalizeStatus(rec.Get(mapping.FieldStatus)),
		Urgency:        DefaultAppointmentUrgency,
		Reason:         rec.Get(mapping.FieldReason),
		Notes:          rec.Get(mapping.FieldNotes),
		CreatedAt:      time.Now().UTC(),
	}
	if err := o.gw.CreateAppointment(ctx, appt); err != nil {
		return rowCounts{}, err
	}

	counts.appointmentsCreated = 1
	return counts, nil
}

// TreatmentRecord holds the fields extracted from a treatment row.
type TreatmentRecord struct {
	PatientName  string
	PatientEmail string
	Procedure    string
	Cost         string
	Date         string
	Tooth        string
	Notes        string
}

// resolveTreatment extracts treatment fields from the row. Persistence is
// intentionally not wired: the treatments schema is still owned by the
// treatment-plan service.
// TODO: persist extracted treatments once the treatments table migration
// ships from the treatment-plan service.
func (o *Orchestrator) resolveTreatment(ctx context.Context, rec mapping.CanonicalRecord, practitionerID uuid.UUID) (rowCounts, error) {
	_ = extractTreatment(rec)
	return rowCounts{}, nil
}

func extractTreatment(rec mapping.CanonicalRecord) TreatmentRecord {
	return TreatmentRecord{
		PatientName:  rec.Get(mapping.FieldName),
		PatientEmail: rec.Get(mapping.FieldEmail),
		Procedure:    rec.Get(mapping.FieldProcedure),
		Cost:         rec.Get(mapping.FieldCost),
		Date:         rec.Get(mapping.FieldDate),
		Tooth:        rec.Get(mapping.FieldTooth),
		Notes:        rec.Get(mapping.FieldNotes),
	}
}
