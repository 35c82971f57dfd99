package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/ottermap/workflow-system/internal/core/domain"
	"github.com/ottermap/workflow-system/internal/core/ports"
)

// ShopService implements shop registration and nearest-shop search.
type ShopService struct {
	repo  ports.ShopRepository
	audit AuditSink
	log   zerolog.Logger
}

func NewShopService(repo ports.ShopRepository, audit AuditSink, log zerolog.Logger) *ShopService {
	return &ShopService{repo: repo, audit: audit, log: log}
}

func (s *ShopService) Register(ctx context.Context, name string, lat, lon float64) (*domain.Shop, error) {
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if !domain.ValidCoordinates(lat, lon) {
		return nil, domain.ErrInvalidCoordinates
	}

	shop := &domain.Shop{
		ID:        newID("shop"),
		Name:      name,
		Latitude:  lat,
		Longitude: lon,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, shop); err != nil {
		s.log.Error().Err(err).Str("name", name).Msg("failed to create shop")
		return nil, err
	}

	s.audit.Record(domain.AuditEvent{
		EntityID:   shop.ID,
		Action:     domain.AuditShopRegistered,
		Actor:      shop.Name,
		OccurredAt: shop.CreatedAt,
	})

	s.log.Info().Str("shop_id", shop.ID).Str("name", shop.Name).Msg("shop registered")
	return shop, nil
}

// Search ranks every stored shop by haversine distance from the query point.
// The sort is stable, so equidistant shops keep their insertion order.
func (s *ShopService) Search(ctx context.Context, lat, lon float64) ([]ports.ShopDistance, error) {
	shops, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]ports.ShopDistance, 0, len(shops))
	for _, shop := range shops {
		results = append(results, ports.ShopDistance{
			Name:     shop.Name,
			Distance: domain.Haversine(lat, lon, shop.Latitude, shop.Longitude),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	return results, nil
}
