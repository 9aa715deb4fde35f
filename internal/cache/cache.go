package cache

import (
	"context"
	"errors"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
)

// CartCache holds the populated published snapshot of a user's active
// cart, keyed by user id.
type CartCache interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Set(ctx context.Context, userID string, cart *domain.Cart) error
	Delete(ctx context.Context, userID string) error
}

var ErrCacheMiss = errors.New("cache miss")
