package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type mongoProductStore struct {
	products *mongo.Collection
}

func (s *mongoProductStore) FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.Product, error) {
	var rec productRecord
	filter := statusFilter(bson.M{"_id": id}, status)
	err := s.products.FindOne(ctx, filter).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	product, ok := rec.toDomain(status, pop.Images)
	if !ok {
		return nil, ErrNotFound
	}
	return product, nil
}
