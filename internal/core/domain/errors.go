package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrAccountNotFound    = errors.New("account not found")
	ErrForbidden          = errors.New("access forbidden")

	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrNoAssignments      = errors.New("no assignments found for this admin")
	ErrAlreadyProcessed   = errors.New("assignment has already been processed")
	ErrNotAssignedToYou   = errors.New("this assignment is not assigned to you")

	ErrInvalidCoordinates = errors.New("coordinates out of range")
)
