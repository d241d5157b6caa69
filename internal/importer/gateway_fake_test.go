package importer

// gateway_fake_test.go provides an in-memory Gateway for orchestrator and
// service tests.

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type fakeGateway struct {
	mu sync.Mutex

	profiles     map[string]*Profile // (email|role) -> profile
	appointments []*Appointment
	jobs         map[uuid.UUID]*ImportJob
	items        []*ImportJobItem

	// failUpsertEmail simulates a store rejection for one email.
	failUpsertEmail string
	// failCreateJob simulates a fatal failure outside the row loop.
	failCreateJob bool
	// failAppendItemRow simulates an audit write failure for one row.
	failAppendItemRow int
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		profiles: make(map[string]*Profile),
		jobs:     make(map[uuid.UUID]*ImportJob),
	}
}

func profileKey(email, role string) string {
	return email + "|" + role
}

func (g *fakeGateway) addProfile(p *Profile) *Profile {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	g.profiles[profileKey(p.Email, p.Role)] = p
	return p
}

func (g *fakeGateway) GetProfileByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, p := range g.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (g *fakeGateway) GetProfileByEmail(ctx context.Context, email, role string) (*Profile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p, ok := g.profiles[profileKey(email, role)]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (g *fakeGateway) UpsertProfile(ctx context.Context, p *Profile) (uuid.UUID, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failUpsertEmail != "" && p.Email == g.failUpsertEmail {
		return uuid.Nil, false, fmt.Errorf("store: upsert rejected for %s", p.Email)
	}

	key := profileKey(p.Email, p.Role)
	if existing, ok := g.profiles[key]; ok {
		p.ID = existing.ID
		g.profiles[key] = p
		return existing.ID, false, nil
	}

	p.ID = uuid.New()
	g.profiles[key] = p
	return p.ID, true, nil
}

func (g *fakeGateway) CreateAppointment(ctx context.Context, a *Appointment) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.appointments = append(g.appointments, a)
	return nil
}

func (g *fakeGateway) CreateJob(ctx context.Context, j *ImportJob) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failCreateJob {
		return fmt.Errorf("store: insert failed")
	}
	copied := *j
	g.jobs[j.ID] = &copied
	return nil
}

func (g *fakeGateway) AppendJobItem(ctx context.Context, item *ImportJobItem) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failAppendItemRow != 0 && item.RowNumber == g.failAppendItemRow {
		return fmt.Errorf("store: item insert failed")
	}
	g.items = append(g.items, item)
	return nil
}

func (g *fakeGateway) FinalizeJob(ctx context.Context, j *ImportJob) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	copied := *j
	g.jobs[j.ID] = &copied
	return nil
}

func (g *fakeGateway) GetJob(ctx context.Context, id uuid.UUID) (*ImportJob, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if j, ok := g.jobs[id]; ok {
		return j, nil
	}
	return nil, ErrNotFound
}

func (g *fakeGateway) ListJobItems(ctx context.Context, jobID uuid.UUID) ([]ImportJobItem, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []ImportJobItem{}
	for _, item := range g.items {
		if item.JobID == jobID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (g *fakeGateway) ListJobsByPractitioner(ctx context.Context, practitionerID uuid.UUID, limit int) ([]ImportJob, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := []ImportJob{}
	for _, j := range g.jobs {
		if j.PractitionerID == practitionerID {
			out = append(out, *j)
		}
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}
