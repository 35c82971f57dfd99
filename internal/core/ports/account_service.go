package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// AccountService implements registration, login, and admin lookup.
type AccountService interface {
	// Register creates a new account with a hashed password. The plaintext
	// password is never stored.
	Register(ctx context.Context, username, email, password, role string) (*domain.Account, error)
	// Login verifies credentials and mints a fresh bearer token, overwriting
	// any previously issued token (single session at a time).
	Login(ctx context.Context, username, password string) (string, *domain.Account, error)
	// ListAdmins returns the usernames of all admin accounts.
	ListAdmins(ctx context.Context) ([]string, error)
}
