package ports

import (
	"context"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

// ShopDistance is a single ranked search result.
type ShopDistance struct {
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// ShopService defines shop registration and nearest-shop search.
type ShopService interface {
	Register(ctx context.Context, name string, lat, lon float64) (*domain.Shop, error)
	// Search ranks all stored shops by great-circle distance from the query
	// point, ascending, ties broken by insertion order.
	Search(ctx context.Context, lat, lon float64) ([]ShopDistance, error)
}
