package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Mongo bundles the per-collection stores backed by one database.
type Mongo struct {
	Carts    CartStore
	Items    CartItemStore
	Products ProductStore

	carts    *mongo.Collection
	items    *mongo.Collection
	products *mongo.Collection
}

func NewMongo(db *mongo.Database) *Mongo {
	carts := db.Collection("carts")
	items := db.Collection("cart_items")
	products := db.Collection("products")

	m := &Mongo{
		carts:    carts,
		items:    items,
		products: products,
	}
	m.Carts = &mongoCartStore{carts: carts, items: items, products: products}
	m.Items = &mongoCartItemStore{items: items, products: products}
	m.Products = &mongoProductStore{products: products}
	return m
}

func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	cartIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "draft.user_id", Value: 1}, {Key: "draft.status", Value: 1}}},
		{Keys: bson.D{{Key: "published.user_id", Value: 1}, {Key: "published.status", Value: 1}}},
	}
	if _, err := m.carts.Indexes().CreateMany(ctx, cartIndexes); err != nil {
		return fmt.Errorf("failed to create cart indexes: %w", err)
	}

	itemIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "draft.cart_id", Value: 1}}},
	}
	if _, err := m.items.Indexes().CreateMany(ctx, itemIndexes); err != nil {
		return fmt.Errorf("failed to create cart item indexes: %w", err)
	}

	return nil
}

// statusFilter restricts a filter to documents visible at the given
// status. Draft reads see every record; published reads only records
// that have been published at least once.
func statusFilter(filter bson.M, status Status) bson.M {
	if status == StatusPublished {
		filter["published"] = bson.M{"$ne": nil}
	}
	return filter
}

// publishDocument copies the draft payload over the published one
// server-side, so the promotion is a single atomic write.
func publishDocument(ctx context.Context, coll *mongo.Collection, id string) error {
	update := mongo.Pipeline{
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "published", Value: "$draft"},
			{Key: "updated_at", Value: "$$NOW"},
		}}},
	}

	res, err := coll.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("failed to publish document: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func deleteDocument(ctx context.Context, coll *mongo.Collection, id string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
