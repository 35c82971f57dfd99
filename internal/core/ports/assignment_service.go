package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// Identity is the caller identity resolved from a bearer token.
type Identity struct {
	UserID   string
	Username string
	Role     string
}

// AssignmentService defines the assignment lifecycle use cases.
type AssignmentService interface {
	// Submit creates a new pending assignment owned by the caller. The named
	// admin is not verified at submission time; Decide enforces it later.
	Submit(ctx context.Context, owner Identity, task, adminUsername string) (*domain.Assignment, error)
	// ListForAdmin returns all assignments addressed to the calling admin.
	// Zero assignments is domain.ErrNoAssignments, not an empty list.
	ListForAdmin(ctx context.Context, caller Identity) ([]*domain.Assignment, error)
	// Decide transitions a pending assignment to accepted or rejected. Only the
	// admin named on the assignment may decide, and only once.
	Decide(ctx context.Context, caller Identity, assignID string, outcome domain.AssignmentStatus) (*domain.Assignment, error)
}
