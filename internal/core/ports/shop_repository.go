package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// ShopRepository defines persistence operations for shops.
type ShopRepository interface {
	Create(ctx context.Context, shop *domain.Shop) error
	// ListAll returns every stored shop in insertion order.
	ListAll(ctx context.Context) ([]*domain.Shop, error)
}
