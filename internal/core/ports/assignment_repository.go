package ports

import (
	"context"
	"time"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// AssignmentRepository defines persistence operations for assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, a *domain.Assignment) error
	FindByID(ctx context.Context, assignID string) (*domain.Assignment, error)
	// FindByAdmin returns all assignments addressed to the given admin username.
	FindByAdmin(ctx context.Context, adminUsername string) ([]*domain.Assignment, error)
	// SetStatusIfPending atomically applies "set status where id = assignID and
	// status = pending" and returns the updated assignment. It returns
	// domain.ErrAlreadyProcessed when the assignment exists but is no longer
	// pending, so a lost race surfaces to exactly one caller.
	SetStatusIfPending(ctx context.Context, assignID string, status domain.AssignmentStatus, decidedAt time.Time) (*domain.Assignment, error)
}
