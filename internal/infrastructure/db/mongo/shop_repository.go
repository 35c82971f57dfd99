package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ottermap/workflow-system/internal/core/domain"
)

const shopsCollection = "shops"

type ShopRepository struct {
	coll *mongo.Collection
}

func NewShopRepository(db *mongo.Database) *ShopRepository {
	return &ShopRepository{coll: db.Collection(shopsCollection)}
}

type shopDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ShopID    string             `bson:"shop_id"`
	Name      string             `bson:"name"`
	Latitude  float64            `bson:"latitude"`
	Longitude float64            `bson:"longitude"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (r *ShopRepository) Create(ctx context.Context, shop *domain.Shop) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := shopDoc{
		ShopID:    shop.ID,
		Name:      shop.Name,
		Latitude:  shop.Latitude,
		Longitude: shop.Longitude,
		CreatedAt: shop.CreatedAt.UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert shop: %w", err)
	}
	return nil
}

// ListAll returns every shop ordered by insertion (created_at, then _id as a
// tiebreak so the order is deterministic within the same second).
func (r *ShopRepository) ListAll(ctx context.Context) ([]*domain.Shop, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	sort := bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer cur.Close(ctx)

	var shops []*domain.Shop
	for cur.Next(ctx) {
		var doc shopDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode shop: %w", err)
		}
		shops = append(shops, &domain.Shop{
			ID:        doc.ShopID,
			Name:      doc.Name,
			Latitude:  doc.Latitude,
			Longitude: doc.Longitude,
			CreatedAt: doc.CreatedAt.UTC(),
		})
	}
	return shops, cur.Err()
}

// EnsureIndexes creates necessary indexes on the shops collection.
func (r *ShopRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "shop_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_at", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	return err
}
