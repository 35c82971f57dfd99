package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// AuditRepository persists audit events to the append-only audit trail.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuditEvent) error
}
