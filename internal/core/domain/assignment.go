package domain

import "time"

// AssignmentStatus represents the lifecycle state of an assignment.
type AssignmentStatus string

const (
	StatusPending  AssignmentStatus = "pending"
	StatusAccepted AssignmentStatus = "accepted"
	StatusRejected AssignmentStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions.
// Accepted and rejected are terminal: no transitions out.
var validTransitions = map[AssignmentStatus][]AssignmentStatus{
	StatusPending: {StatusAccepted, StatusRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted.
func (s AssignmentStatus) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// Assignment is a task submitted by a user for a named admin to decide on.
// AdminUsername is a plain string reference; it is not validated against the
// account set at submission time.
type Assignment struct {
	ID            string           `json:"assign_id"`
	OwnerID       string           `json:"-"`
	OwnerUsername string           `json:"user_name"`
	Task          string           `json:"task"`
	AdminUsername string           `json:"admin"`
	Status        AssignmentStatus `json:"status"`
	SubmittedAt   time.Time        `json:"submitted_at"`
	DecidedAt     *time.Time       `json:"decided_at,omitempty"`
}
