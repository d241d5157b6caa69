package importer

// service.go is the facade consumed by the HTTP layer: it wraps the
// orchestrator with concurrency limiting and exposes the job/audit
// queries, scoped to the calling practitioner.

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultRecentJobs caps the job listing endpoint.
const DefaultRecentJobs = 20

// Options tunes service behavior. Zero values fall back to defaults.
type Options struct {
	MaxConcurrent int
	MaxWaitTime   time.Duration
	PreviewRows   int
}

// Service ties the orchestrator, limiter, and gateway together.
type Service struct {
	gw          Gateway
	orc         *Orchestrator
	limiter     *Limiter
	previewRows int
}

// NewService creates the import service.
func NewService(gw Gateway, opts Options) *Service {
	previewRows := opts.PreviewRows
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &Service{
		gw:          gw,
		orc:         NewOrchestrator(gw),
		limiter:     NewLimiter(opts.MaxConcurrent, opts.MaxWaitTime),
		previewRows: previewRows,
	}
}

// RunImport executes an import request under the concurrency limiter.
// Returns ErrTooManyImports when no slot frees up in time.
func (s *Service) RunImport(ctx context.Context, req Request) (*Summary, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	return s.orc.Run(ctx, req)
}

// Profile resolves a profile by id, used by the HTTP layer to turn an
// authenticated subject into a practitioner.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	return s.gw.GetProfileByID(ctx, id)
}

// Job returns a job with its per-row audit items. Jobs belonging to a
// different practitioner are reported as not found.
func (s *Service) Job(ctx context.Context, jobID, practitionerID uuid.UUID) (*ImportJob, []ImportJobItem, error) {
	job, err := s.gw.GetJob(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.PractitionerID != practitionerID {
		return nil, nil, ErrNotFound
	}

	items, err := s.gw.ListJobItems(ctx, jobID)
	if err != nil {
		return nil, nil, err
	}
	return job, items, nil
}

// RecentJobs lists the calling practitioner's most recent jobs.
func (s *Service) RecentJobs(ctx context.Context, practitionerID uuid.UUID) ([]ImportJob, error) {
	return s.gw.ListJobsByPractitioner(ctx, practitionerID, DefaultRecentJobs)
}

// LimiterStatus exposes the limiter snapshot for monitoring.
func (s *Service) LimiterStatus() LimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until in-flight imports drain, for graceful
// shutdown.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
