package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoCartStore struct {
	carts    *mongo.Collection
	items    *mongo.Collection
	products *mongo.Collection
}

func (s *mongoCartStore) FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.Cart, error) {
	var rec cartRecord
	filter := statusFilter(bson.M{"_id": id}, status)
	err := s.carts.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}

	cart, ok := rec.toDomain(status)
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.populate(ctx, cart, pop, status); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *mongoCartStore) FindFirst(ctx context.Context, filter CartFilter, pop Populate, status Status) (*domain.Cart, error) {
	prefix := "draft"
	if status == StatusPublished {
		prefix = "published"
	}
	f := bson.M{}
	if filter.UserID != "" {
		f[prefix+".user_id"] = filter.UserID
	}
	if filter.Status != "" {
		f[prefix+".status"] = string(filter.Status)
	}
	f = statusFilter(f, status)

	var rec cartRecord
	err := s.carts.FindOne(ctx, f).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find cart: %w", err)
	}

	cart, ok := rec.toDomain(status)
	if !ok {
		return nil, ErrNotFound
	}
	if err := s.populate(ctx, cart, pop, status); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *mongoCartStore) Create(ctx context.Context, data CartData) (*domain.Cart, error) {
	now := time.Now()
	rec := cartRecord{
		ID: uuid.NewString(),
		Draft: cartPayload{
			UserID:   data.UserID,
			Status:   string(data.Status),
			Total:    data.Total,
			Currency: data.Currency,
			ItemIDs:  append([]string{}, data.ItemIDs...),
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.carts.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}

	cart, _ := rec.toDomain(StatusDraft)
	return cart, nil
}

func (s *mongoCartStore) Update(ctx context.Context, id string, version int64, data CartData) error {
	filter := bson.M{"_id": id, "version": version}
	update := bson.M{
		"$set": bson.M{
			"draft": cartPayload{
				UserID:   data.UserID,
				Status:   string(data.Status),
				Total:    data.Total,
				Currency: data.Currency,
				ItemIDs:  append([]string{}, data.ItemIDs...),
			},
			"updated_at": time.Now(),
		},
		"$inc": bson.M{"version": 1},
	}

	res, err := s.carts.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if res.MatchedCount == 0 {
		// Distinguish a missing cart from a lost CAS race.
		count, err := s.carts.CountDocuments(ctx, bson.M{"_id": id})
		if err != nil {
			return fmt.Errorf("failed to check cart existence: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
		return ErrVersionConflict
	}
	return nil
}

func (s *mongoCartStore) Publish(ctx context.Context, id string) error {
	return publishDocument(ctx, s.carts, id)
}

func (s *mongoCartStore) Delete(ctx context.Context, id string) error {
	return deleteDocument(ctx, s.carts, id)
}

// populate resolves the cart's item documents and, if requested, each
// item's product. Items not visible at the requested status are
// skipped rather than surfaced as an error.
func (s *mongoCartStore) populate(ctx context.Context, cart *domain.Cart, pop Populate, status Status) error {
	if !pop.Items {
		return nil
	}
	cart.Items = []domain.CartItem{}
	if len(cart.ItemIDs) == 0 {
		return nil
	}

	filter := statusFilter(bson.M{"_id": bson.M{"$in": cart.ItemIDs}}, status)
	cursor, err := s.items.Find(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query cart items: %w", err)
	}
	var recs []itemRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return fmt.Errorf("failed to decode cart items: %w", err)
	}

	byID := make(map[string]*domain.CartItem, len(recs))
	productIDs := make([]string, 0, len(recs))
	for i := range recs {
		item, ok := recs[i].toDomain(status)
		if !ok {
			continue
		}
		byID[item.ID] = item
		productIDs = append(productIDs, item.ProductID)
	}

	products := map[string]*domain.Product{}
	if pop.Products && len(productIDs) > 0 {
		products, err = s.findProducts(ctx, productIDs, pop.Images, status)
		if err != nil {
			return err
		}
	}

	// Preserve the membership list's order in the populated view.
	for _, id := range cart.ItemIDs {
		item, ok := byID[id]
		if !ok {
			continue
		}
		item.Product = products[item.ProductID]
		cart.Items = append(cart.Items, *item)
	}
	return nil
}

func (s *mongoCartStore) findProducts(ctx context.Context, ids []string, withImage bool, status Status) (map[string]*domain.Product, error) {
	filter := statusFilter(bson.M{"_id": bson.M{"$in": ids}}, status)
	cursor, err := s.products.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	var recs []productRecord
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	products := make(map[string]*domain.Product, len(recs))
	for i := range recs {
		if p, ok := recs[i].toDomain(status, withImage); ok {
			products[p.ID] = p
		}
	}
	return products, nil
}
