package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// AccountRepository defines persistence operations for accounts.
// Username and email carry unique indexes at the store level; Create returns
// domain.ErrAccountExists when either collides.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	// UpdateAccessToken overwrites the account's last-issued bearer token.
	UpdateAccessToken(ctx context.Context, username, token string) error
	// ListByRole returns all accounts with the given role.
	ListByRole(ctx context.Context, role string) ([]*domain.Account, error)
}
