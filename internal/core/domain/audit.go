package domain

import "time"

// Audit actions recorded for state-changing operations.
const (
	AuditAccountRegistered   = "account_registered"
	AuditAssignmentSubmitted = "assignment_submitted"
	AuditAssignmentDecided   = "assignment_decided"
	AuditShopRegistered      = "shop_registered"
)

// AuditEvent is an append-only record of a state-changing action.
type AuditEvent struct {
	EntityID   string
	Action     string
	Actor      string
	Detail     string
	OccurredAt time.Time
}
