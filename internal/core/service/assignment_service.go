package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// AuditSink accepts audit events for asynchronous persistence.
type AuditSink interface {
	Record(event domain.AuditEvent)
}

// AssignmentService implements the assignment lifecycle: submit, list, decide.
type AssignmentService struct {
	repo  ports.AssignmentRepository
	audit AuditSink
	log   zerolog.Logger
}

func NewAssignmentService(repo ports.AssignmentRepository, audit AuditSink, log zerolog.Logger) *AssignmentService {
	return &AssignmentService{repo: repo, audit: audit, log: log}
}

// Submit creates a pending assignment. The named admin is deliberately not
// verified here; Decide enforces ownership when the decision is made.
func (s *AssignmentService) Submit(ctx context.Context, owner ports.Identity, task, adminUsername string) (*domain.Assignment, error) {
	if task == "" || adminUsername == "" {
		return nil, domain.ErrInvalidInput
	}

	assignment := &domain.Assignment{
		ID:            newID("assign"),
		OwnerID:       owner.UserID,
		OwnerUsername: owner.Username,
		Task:          task,
		AdminUsername: adminUsername,
		Status:        domain.StatusPending,
		SubmittedAt:   time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, assignment); err != nil {
		s.log.Error().Err(err).Str("owner", owner.Username).Msg("failed to create assignment")
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		EntityID:   assignment.ID,
		Action:     domain.AuditAssignmentSubmitted,
		Actor:      owner.Username,
		Detail:     adminUsername,
		OccurredAt: assignment.SubmittedAt,
	})

	s.log.Info().Str("assign_id", assignment.ID).Str("owner", owner.Username).Str("admin", adminUsername).Msg("assignment submitted")
	return assignment, nil
}

// ListForAdmin returns all assignments addressed to the calling admin. An
// admin with zero assignments gets ErrNoAssignments rather than an empty list.
func (s *AssignmentService) ListForAdmin(ctx context.Context, caller ports.Identity) ([]*domain.Assignment, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}

	assignments, err := s.repo.FindByAdmin(ctx, caller.Username)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, domain.ErrNoAssignments
	}
	return assignments, nil
}

// Decide transitions a pending assignment to the given terminal outcome.
// Check order: caller role, assignment existence, terminal status, ownership.
// The final update is conditional on status still being pending, so two racing
// decisions resolve to exactly one winner.
func (s *AssignmentService) Decide(ctx context.Context, caller ports.Identity, assignID string, outcome domain.AssignmentStatus) (*domain.Assignment, error) {
	if caller.Role != domain.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !domain.StatusPending.CanTransitionTo(outcome) {
		return nil, domain.ErrInvalidInput
	}

	assignment, err := s.repo.FindByID(ctx, assignID)
	if err != nil {
		return nil, err
	}
	if assignment.Status.IsTerminal() {
		return nil, domain.ErrAlreadyProcessed
	}
	if assignment.AdminUsername != caller.Username {
		return nil, domain.ErrNotAssignedToYou
	}

	now := time.Now().UTC()
	updated, err := s.repo.SetStatusIfPending(ctx, assignID, outcome, now)
	if err != nil {
		// A lost race surfaces here as ErrAlreadyProcessed.
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		EntityID:   assignID,
		Action:     domain.AuditAssignmentDecided,
		Actor:      caller.Username,
		Detail:     string(outcome),
		OccurredAt: now,
	})

	s.log.Info().Str("assign_id", assignID).Str("admin", caller.Username).Str("outcome", string(outcome)).Msg("assignment decided")
	return updated, nil
}
