package store

import (
	"context"
	"errors"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
)

var (
	ErrNotFound        = errors.New("document not found")
	ErrVersionConflict = errors.New("document version conflict")
)

// Status selects which representation of a document a read sees.
// Draft is the working copy every mutation targets; Published is the
// externally visible copy and only exists after an explicit Publish.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Populate declares which relations a read should resolve. Each flag
// implies the ones above it: resolving products requires items.
type Populate struct {
	Items    bool
	Products bool
	Images   bool
}

// PopulateAll resolves the full cart -> items -> product -> image chain.
func PopulateAll() Populate {
	return Populate{Items: true, Products: true, Images: true}
}

type CartFilter struct {
	UserID string
	Status domain.CartStatus
}

// CartData is the full draft payload of a cart document. Update takes
// it whole: the item-id list is a complete replacement set, not a
// delta.
type CartData struct {
	UserID   string
	Status   domain.CartStatus
	Total    float64
	Currency string
	ItemIDs  []string
}

type CartStore interface {
	FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.Cart, error)
	FindFirst(ctx context.Context, filter CartFilter, pop Populate, status Status) (*domain.Cart, error)
	Create(ctx context.Context, data CartData) (*domain.Cart, error)
	// Update rewrites the draft payload if the stored version still
	// matches; fails with ErrVersionConflict otherwise.
	Update(ctx context.Context, id string, version int64, data CartData) error
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type CartItemData struct {
	CartID    string
	ProductID string
	Quantity  int
	Price     float64
	Variant   string
}

// CartItemPatch applies only its non-nil fields to the item's draft.
type CartItemPatch struct {
	Quantity *int
}

type CartItemStore interface {
	FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.CartItem, error)
	Create(ctx context.Context, data CartItemData) (*domain.CartItem, error)
	Update(ctx context.Context, id string, patch CartItemPatch) error
	Publish(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

// ProductStore is read-only: the catalog belongs to another system.
type ProductStore interface {
	FindOne(ctx context.Context, id string, pop Populate, status Status) (*domain.Product, error)
}
