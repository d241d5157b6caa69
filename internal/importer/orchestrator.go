package importer

// orchestrator.go drives the per-row import loop.
//
// Rows are processed strictly sequentially; each row is handled by a
// function returning a tagged result, so a single malformed record can
// never abort the batch. Every source row yields exactly one
// ImportJobItem, and the job's aggregate counts are reduced from those
// per-row outcomes rather than tracked independently.

import (
	"context"
	"fmt"
	"time"

	"github.com/dentalops/import-service/internal/logging"
	"github.com/dentalops/import-service/internal/mapping"
	"github.com/dentalops/import-service/internal/record"
	"github.com/google/uuid"
)

// Orchestrator runs import jobs against an injected persistence gateway.
type Orchestrator struct {
	gw       Gateway
	resolver *mapping.Resolver
}

// NewOrchestrator creates an orchestrator using the standard two-phase
// field resolver.
func NewOrchestrator(gw Gateway) *Orchestrator {
	return &Orchestrator{
		gw:       gw,
		resolver: mapping.Default(),
	}
}

// rowResult is the tagged result of processing one row.
type rowResult struct {
	counts rowCounts
	err    error
}

// schemaFor returns the canonical target schema for an import type.
func schemaFor(t Type) []mapping.Field {
	switch t {
	case TypeAppointments:
		return mapping.AppointmentFields
	case TypeTreatments:
		return mapping.TreatmentFields
	default:
		return mapping.PatientFields
	}
}

// Run executes a full import: job creation, the sequential row loop, and
// finalization. Row-level failures are isolated and accumulated; only
// failures outside the row loop (parse, job record writes) are returned
// as errors.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Summary, error) {
	doc, err := record.Parse(req.FileContent)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &ImportJob{
		ID:             uuid.New(),
		PractitionerID: req.PractitionerID,
		FileName:       req.FileName,
		FileSize:       int64(len(req.FileContent)),
		Type:           req.Type,
		TotalRows:      len(doc.Rows),
		Status:         JobProcessing,
		CreatedAt:      now,
	}
	if err := o.gw.CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}

	logger := logging.WithFields(ctx,
		"job_id", job.ID.String(),
		"type", string(job.Type),
		"total_rows", job.TotalRows,
	)
	logger.Info("import started", "filename", job.FileName, "size", job.FileSize)

	summary := &Summary{
		JobID:  job.ID.String(),
		Errors: []string{},
	}
	schema := schemaFor(req.Type)

	for _, row := range doc.Rows {
		res := o.processRow(ctx, req, doc.Headers, schema, row)

		item := &ImportJobItem{
			ID:        uuid.New(),
			JobID:     job.ID,
			RowNumber: row.Number,
			RawFields: row.Fields,
			CreatedAt: time.Now().UTC(),
		}

		if res.err != nil {
			job.FailedRows++
			item.Status = ItemFailed
			item.ErrorMessage = res.err.Error()
			summary.Errors = append(summary.Errors, fmt.Sprintf("Row %d: %s", row.Number, res.err))
			if !IsValidation(res.err) {
				logger.Warn("row failed", "row", row.Number, "error", res.err)
			}
		} else {
			job.SucceededRows++
			item.Status = ItemSuccess
			summary.PatientsCreated += res.counts.patientsCreated
			summary.AppointmentsCreated += res.counts.appointmentsCreated
			summary.ProfilesUpdated += res.counts.profilesUpdated
		}
		job.ProcessedRows++

		// The audit trail is the source of truth for per-row outcomes;
		// a row without its item would make the counts unverifiable.
		if err := o.gw.AppendJobItem(ctx, item); err != nil {
			return nil, fmt.Errorf("append job item for row %d: %w", row.Number, err)
		}
	}

	summary.Imported = job.SucceededRows

	job.Status = JobCompleted
	completed := time.Now().UTC()
	job.CompletedAt = &completed
	if err := o.gw.FinalizeJob(ctx, job); err != nil {
		return nil, fmt.Errorf("finalize import job: %w", err)
	}

	logger.Info("import completed",
		"succeeded", job.SucceededRows,
		"failed", job.FailedRows,
	)
	return summary, nil
}

// processRow maps a single row onto the canonical schema and dispatches
// it to the resolver matching the declared import type.
func (o *Orchestrator) processRow(ctx context.Context, req Request, headers []string, schema []mapping.Field, row record.Row) rowResult {
	rec := o.resolver.Resolve(headers, row.Fields, req.FieldMapping, schema)

	switch req.Type {
	case TypePatients:
		_, counts, err := o.resolvePatient(ctx, rec, req.PractitionerID)
		return rowResult{counts: counts, err: err}
	case TypeAppointments:
		counts, err := o.resolveAppointment(ctx, rec, req.PractitionerID)
		return rowResult{counts: counts, err: err}
	case TypeTreatments:
		counts, err := o.resolveTreatment(ctx, rec, req.PractitionerID)
		return rowResult{counts: counts, err: err}
	default:
		return rowResult{err: fmt.Errorf("unknown import type: %q", req.Type)}
	}
}
