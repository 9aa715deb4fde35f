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

type mongoCartItemStore struct {
	items    *mongo.Collection
	products *mongo.Collection
}

func (s *mongoCartItemStore) FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.CartItem, error) {
	var rec itemRecord
	filter := statusFilter(bson.M{"_id": id}, status)
	err := s.items.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}

	item, ok := rec.toDomain(status)
	if !ok {
		return nil, ErrNotFound
	}

	if pop.Products {
		var prec productRecord
		pFilter := statusFilter(bson.M{"_id": item.ProductID}, status)
		err := s.products.FindOne(ctx, pFilter).Decode(&prec)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("failed to get item product: %w", err)
		}
		if err == nil {
			if p, ok := prec.toDomain(status, pop.Images); ok {
				item.Product = p
			}
		}
	}
	return item, nil
}

func (s *mongoCartItemStore) Create(ctx context.Context, data CartItemData) (*domain.CartItem, error) {
	now := time.Now()
	rec := itemRecord{
		ID: uuid.NewString(),
		Draft: itemPayload{
			CartID:    data.CartID,
			ProductID: data.ProductID,
			Quantity:  data.Quantity,
			Price:     data.Price,
			Variant:   data.Variant,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.items.InsertOne(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to create cart item: %w", err)
	}

	item, _ := rec.toDomain(StatusDraft)
	return item, nil
}

func (s *mongoCartItemStore) Update(ctx context.Context, id string, patch CartItemPatch) error {
	set := bson.M{"updated_at": time.Now()}
	if patch.Quantity != nil {
		set["draft.quantity"] = *patch.Quantity
	}

	res, err := s.items.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": set,
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to update cart item: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *mongoCartItemStore) Publish(ctx context.Context, id string) error {
	return publishDocument(ctx, s.items, id)
}

func (s *mongoCartItemStore) Delete(ctx context.Context, id string) error {
	return deleteDocument(ctx, s.items, id)
}
