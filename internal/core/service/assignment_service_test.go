package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// stubAssignmentRepo implements ports.AssignmentRepository with the same
// conditional-update contract as the Mongo repository: SetStatusIfPending is
// atomic under the mutex, so racing decisions see exactly one winner.
type stubAssignmentRepo struct {
	mu          sync.Mutex
	assignments map[string]*domain.Assignment
}

func newStubAssignmentRepo() *stubAssignmentRepo {
	return &stubAssignmentRepo{assignments: make(map[string]*domain.Assignment)}
}

func cloneAssignment(a *domain.Assignment) *domain.Assignment {
	if a == nil {
		return nil
	}
	clone := *a
	return &clone
}

func (r *stubAssignmentRepo) Create(_ context.Context, a *domain.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments[a.ID] = cloneAssignment(a)
	return nil
}

func (r *stubAssignmentRepo) FindByID(_ context.Context, assignID string) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignID]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	return cloneAssignment(a), nil
}

func (r *stubAssignmentRepo) FindByAdmin(_ context.Context, adminUsername string) ([]*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Assignment
	for _, a := range r.assignments {
		if a.AdminUsername == adminUsername {
			out = append(out, cloneAssignment(a))
		}
	}
	return out, nil
}

func (r *stubAssignmentRepo) SetStatusIfPending(_ context.Context, assignID string, status domain.AssignmentStatus, decidedAt time.Time) (*domain.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.assignments[assignID]
	if !ok {
		return nil, domain.ErrAssignmentNotFound
	}
	if a.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyProcessed
	}
	a.Status = status
	a.DecidedAt = &decidedAt
	return cloneAssignment(a), nil
}

type recordingAudit struct {
	mu     sync.Mutex
	events []domain.AuditEvent
}

func (s *recordingAudit) Record(event domain.AuditEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingAudit) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

var (
	userIdentity  = ports.Identity{UserID: "user_1", Username: "alice", Role: domain.RoleUser}
	adminIdentity = ports.Identity{UserID: "user_2", Username: "boss", Role: domain.RoleAdmin}
	otherAdmin    = ports.Identity{UserID: "user_3", Username: "impostor", Role: domain.RoleAdmin}
)

func newAssignmentFixture(t *testing.T) (*AssignmentService, *stubAssignmentRepo, *recordingAudit) {
	t.Helper()
	repo := newStubAssignmentRepo()
	audit := &recordingAudit{}
	return NewAssignmentService(repo, audit, zerolog.Nop()), repo, audit
}

func TestAssignmentService_Submit_Success(t *testing.T) {
	svc, _, audit := newAssignmentFixture(t)

	a, err := svc.Submit(context.Background(), userIdentity, "write the report", "boss")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if a.Status != domain.StatusPending {
		t.Fatalf("expected pending, got %s", a.Status)
	}
	if a.OwnerUsername != "alice" || a.AdminUsername != "boss" {
		t.Fatalf("unexpected assignment: %+v", a)
	}
	if a.ID == "" {
		t.Fatalf("expected generated id")
	}
	if audit.count() != 1 {
		t.Fatalf("expected 1 audit event, got %d", audit.count())
	}
}

func TestAssignmentService_Submit_Validation(t *testing.T) {
	svc, _, _ := newAssignmentFixture(t)

	if _, err := svc.Submit(context.Background(), userIdentity, "", "boss"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty task, got %v", err)
	}
	if _, err := svc.Submit(context.Background(), userIdentity, "task", ""); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for empty admin, got %v", err)
	}
}

func TestAssignmentService_ListForAdmin(t *testing.T) {
	svc, _, _ := newAssignmentFixture(t)

	if _, err := svc.ListForAdmin(context.Background(), userIdentity); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}

	// Zero assignments is a distinct error, not an empty list.
	if _, err := svc.ListForAdmin(context.Background(), adminIdentity); err != domain.ErrNoAssignments {
		t.Fatalf("expected ErrNoAssignments, got %v", err)
	}

	if _, err := svc.Submit(context.Background(), userIdentity, "task one", "boss"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if _, err := svc.Submit(context.Background(), userIdentity, "task two", "someone-else"); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	list, err := svc.ListForAdmin(context.Background(), adminIdentity)
	if err != nil {
		t.Fatalf("ListForAdmin returned error: %v", err)
	}
	if len(list) != 1 || list[0].Task != "task one" {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestAssignmentService_Decide_Checks(t *testing.T) {
	svc, _, _ := newAssignmentFixture(t)

	a, err := svc.Submit(context.Background(), userIdentity, "task", "boss")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.Decide(context.Background(), userIdentity, a.ID, domain.StatusAccepted); err != domain.ErrForbidden {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), adminIdentity, "assign_missing", domain.StatusAccepted); err != domain.ErrAssignmentNotFound {
		t.Fatalf("expected ErrAssignmentNotFound, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), adminIdentity, a.ID, domain.StatusPending); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput for non-terminal outcome, got %v", err)
	}
	if _, err := svc.Decide(context.Background(), otherAdmin, a.ID, domain.StatusAccepted); err != domain.ErrNotAssignedToYou {
		t.Fatalf("expected ErrNotAssignedToYou for foreign admin, got %v", err)
	}
}

func TestAssignmentService_Decide_Success(t *testing.T) {
	svc, repo, audit := newAssignmentFixture(t)

	a, err := svc.Submit(context.Background(), userIdentity, "task", "boss")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	decided, err := svc.Decide(context.Background(), adminIdentity, a.ID, domain.StatusAccepted)
	if err != nil {
		t.Fatalf("Decide returned error: %v", err)
	}
	if decided.Status != domain.StatusAccepted {
		t.Fatalf("expected accepted, got %s", decided.Status)
	}
	if decided.DecidedAt == nil {
		t.Fatalf("expected decided_at to be set")
	}

	stored, _ := repo.FindByID(context.Background(), a.ID)
	if stored.Status != domain.StatusAccepted {
		t.Fatalf("decision not persisted")
	}
	if audit.count() != 2 { // submit + decide
		t.Fatalf("expected 2 audit events, got %d", audit.count())
	}
}

func TestAssignmentService_Decide_FirstOutcomeWins(t *testing.T) {
	svc, repo, _ := newAssignmentFixture(t)

	a, err := svc.Submit(context.Background(), userIdentity, "task", "boss")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	if _, err := svc.Decide(context.Background(), adminIdentity, a.ID, domain.StatusAccepted); err != nil {
		t.Fatalf("first decide failed: %v", err)
	}
	if _, err := svc.Decide(context.Background(), adminIdentity, a.ID, domain.StatusRejected); err != domain.ErrAlreadyProcessed {
		t.Fatalf("expected ErrAlreadyProcessed on second decide, got %v", err)
	}

	final, _ := repo.FindByID(context.Background(), a.ID)
	if final.Status != domain.StatusAccepted {
		t.Fatalf("first outcome must stick, got %s", final.Status)
	}
}

func TestAssignmentService_Decide_ConcurrentRace(t *testing.T) {
	svc, repo, _ := newAssignmentFixture(t)

	a, err := svc.Submit(context.Background(), userIdentity, "task", "boss")
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	outcomes := []domain.AssignmentStatus{domain.StatusAccepted, domain.StatusRejected}
	errs := make([]error, len(outcomes))

	var wg sync.WaitGroup
	for i, outcome := range outcomes {
		wg.Add(1)
		go func(i int, outcome domain.AssignmentStatus) {
			defer wg.Done()
			_, errs[i] = svc.Decide(context.Background(), adminIdentity, a.ID, outcome)
		}(i, outcome)
	}
	wg.Wait()

	var winners, losers int
	var winner domain.AssignmentStatus
	for i, err := range errs {
		switch err {
		case nil:
			winners++
			winner = outcomes[i]
		case domain.ErrAlreadyProcessed:
			losers++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 || losers != 1 {
		t.Fatalf("expected exactly one winner and one loser, got %d/%d", winners, losers)
	}

	final, _ := repo.FindByID(context.Background(), a.ID)
	if final.Status != winner {
		t.Fatalf("stored status %s does not match winner %s", final.Status, winner)
	}
}
