package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abmunshi/paradise-nursery-backend/internal/cache"
	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
	"github.com/abmunshi/paradise-nursery-backend/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultCurrency = "USD"

// casRetries bounds how often a cart list rewrite is retried after
// losing the version check to a writer in another process.
const casRetries = 3

type CartService struct {
	carts    store.CartStore
	items    store.CartItemStore
	products store.ProductStore
	cache    cache.CartCache
	events   EventPublisher // optional, may be nil
	logger   *zap.Logger
	locks    cartLocks
	sfg      singleflight.Group // collapses concurrent get-or-create per user
}

func NewCartService(
	carts store.CartStore,
	items store.CartItemStore,
	products store.ProductStore,
	cache cache.CartCache,
	events EventPublisher,
	logger *zap.Logger,
) *CartService {
	return &CartService{
		carts:    carts,
		items:    items,
		products: products,
		cache:    cache,
		events:   events,
		logger:   logger,
	}
}

// GetOrCreateActiveCart returns the user's single active cart, creating
// and publishing an empty one on first access. Concurrent calls for the
// same user share one execution, so first access cannot create two.
func (s *CartService) GetOrCreateActiveCart(ctx context.Context, userID string) (*domain.Cart, error) {
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		cart, err := s.cache.Get(ctx, userID)
		if err == nil {
			return cart, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.Warn("cart cache get failed", zap.String("user_id", userID), zap.Error(err))
		}

		filter := store.CartFilter{UserID: userID, Status: domain.CartStatusActive}
		cart, err = s.carts.FindFirst(ctx, filter, store.PopulateAll(), store.StatusPublished)
		if err == nil {
			s.cacheSet(userID, cart)
			return cart, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}

		created, err := s.carts.Create(ctx, store.CartData{
			UserID:   userID,
			Status:   domain.CartStatusActive,
			Total:    0,
			Currency: defaultCurrency,
			ItemIDs:  []string{},
		})
		if err != nil {
			return nil, err
		}
		if err := s.carts.Publish(ctx, created.ID); err != nil {
			return nil, err
		}
		// Re-fetch so the returned snapshot carries populated relations.
		cart, err = s.carts.FindOne(ctx, created.ID, store.PopulateAll(), store.StatusPublished)
		if err != nil {
			return nil, err
		}

		s.logger.Info("created active cart", zap.String("user_id", userID), zap.String("cart_id", cart.ID))
		s.emit(ctx, EventCartCreated, userID, cart.ID)
		s.cacheSet(userID, cart)
		return cart, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Cart), nil
}

// AddItem merges the product into an existing line item or creates a
// new one with the product's current price captured as a snapshot. The
// stock check runs before any write, so a rejected add leaves the cart
// untouched.
func (s *CartService) AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.fetchCartDraft(ctx, cartID, store.Populate{Items: true})
	if err != nil {
		return nil, err
	}

	product, err := s.products.FindOne(ctx, productID, store.Populate{}, store.StatusPublished)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	existing := cart.ItemForProduct(productID)
	prospective := quantity
	if existing != nil {
		prospective += existing.Quantity
	}
	if prospective > product.Stock {
		return nil, fmt.Errorf("%w: product %s has %d in stock, cart would hold %d",
			ErrInsufficientStock, productID, product.Stock, prospective)
	}

	if existing != nil {
		qty := prospective
		if err := s.items.Update(ctx, existing.ID, store.CartItemPatch{Quantity: &qty}); err != nil {
			return nil, err
		}
		if err := s.items.Publish(ctx, existing.ID); err != nil {
			return nil, err
		}
	} else {
		item, err := s.items.Create(ctx, store.CartItemData{
			CartID:    cart.ID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     product.Price,
		})
		if err != nil {
			return nil, err
		}
		if err := s.items.Publish(ctx, item.ID); err != nil {
			return nil, err
		}
		// Membership is a full replacement list, rewritten and
		// republished as a whole.
		err = s.replaceItemIDs(ctx, cart, func(ids []string) []string {
			return append(append([]string{}, ids...), item.ID)
		})
		if err != nil {
			return nil, err
		}
		if err := s.carts.Publish(ctx, cart.ID); err != nil {
			return nil, err
		}
	}

	s.invalidateCache(cart.UserID)
	s.emit(ctx, EventItemAdded, cart.UserID, cart.ID)
	return s.fetchSnapshot(ctx, cart.ID)
}

// RemoveItem unlinks the item from the cart's membership list, then
// hard-deletes the item document. An item id that does not belong to
// this cart is rejected rather than silently ignored.
func (s *CartService) RemoveItem(ctx context.Context, cartID, cartItemID string) (*domain.Cart, error) {
	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.fetchCartDraft(ctx, cartID, store.Populate{})
	if err != nil {
		return nil, err
	}

	if !contains(cart.ItemIDs, cartItemID) {
		return nil, ErrItemNotFound
	}

	// Rewrite membership first so the published cart never references
	// a deleted item.
	err = s.replaceItemIDs(ctx, cart, func(ids []string) []string {
		kept := make([]string, 0, len(ids))
		for _, id := range ids {
			if id != cartItemID {
				kept = append(kept, id)
			}
		}
		return kept
	})
	if err != nil {
		return nil, err
	}
	if err := s.carts.Publish(ctx, cart.ID); err != nil {
		return nil, err
	}

	if err := s.items.Delete(ctx, cartItemID); err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	s.invalidateCache(cart.UserID)
	s.emit(ctx, EventItemRemoved, cart.UserID, cart.ID)
	return s.fetchSnapshot(ctx, cart.ID)
}

// UpdateItemQuantity sets the item's quantity, re-validating it against
// the product's current stock. The cart is always re-fetched here; a
// caller-held snapshot is never trusted.
func (s *CartService) UpdateItemQuantity(ctx context.Context, cartID, cartItemID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	unlock := s.locks.lock(cartID)
	defer unlock()

	cart, err := s.fetchCartDraft(ctx, cartID, store.Populate{Items: true})
	if err != nil {
		return nil, err
	}

	item := cart.Item(cartItemID)
	if item == nil {
		return nil, ErrItemNotFound
	}

	product, err := s.products.FindOne(ctx, item.ProductID, store.Populate{}, store.StatusPublished)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%w: product %s has %d in stock, requested %d",
			ErrInsufficientStock, item.ProductID, product.Stock, quantity)
	}

	if err := s.items.Update(ctx, item.ID, store.CartItemPatch{Quantity: &quantity}); err != nil {
		return nil, err
	}
	if err := s.items.Publish(ctx, item.ID); err != nil {
		return nil, err
	}

	s.invalidateCache(cart.UserID)
	s.emit(ctx, EventItemUpdated, cart.UserID, cart.ID)
	return s.fetchSnapshot(ctx, cart.ID)
}

// fetchCartDraft reads the authoritative draft state for a mutation.
func (s *CartService) fetchCartDraft(ctx context.Context, cartID string, pop store.Populate) (*domain.Cart, error) {
	cart, err := s.carts.FindOne(ctx, cartID, pop, store.StatusDraft)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// fetchSnapshot returns the fully populated published view a caller can
// render without another round trip.
func (s *CartService) fetchSnapshot(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.FindOne(ctx, cartID, store.PopulateAll(), store.StatusPublished)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// replaceItemIDs rewrites the cart's membership list under the store's
// version check, re-fetching and re-applying the mutation when a
// writer in another process got there first.
func (s *CartService) replaceItemIDs(ctx context.Context, cart *domain.Cart, mutate func([]string) []string) error {
	for attempt := 0; ; attempt++ {
		data := store.CartData{
			UserID:   cart.UserID,
			Status:   cart.Status,
			Total:    cart.Total,
			Currency: cart.Currency,
			ItemIDs:  mutate(cart.ItemIDs),
		}
		err := s.carts.Update(ctx, cart.ID, cart.Version, data)
		if err == nil {
			return nil
		}
		if errors.Is(err, store.ErrNotFound) {
			return ErrCartNotFound
		}
		if !errors.Is(err, store.ErrVersionConflict) || attempt >= casRetries {
			return err
		}

		s.logger.Debug("cart version conflict, retrying", zap.String("cart_id", cart.ID))
		fresh, err := s.carts.FindOne(ctx, cart.ID, store.Populate{}, store.StatusDraft)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrCartNotFound
			}
			return err
		}
		cart = fresh
	}
}

func (s *CartService) cacheSet(userID string, cart *domain.Cart) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Set(ctx, userID, cart); err != nil {
			s.logger.Warn("cart cache set failed", zap.String("user_id", userID), zap.Error(err))
		}
	}()
}

func (s *CartService) invalidateCache(userID string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		s.logger.Warn("cart cache invalidate failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *CartService) emit(ctx context.Context, eventType, userID, cartID string) {
	if s.events == nil {
		return
	}
	s.events.CartChanged(ctx, CartEvent{
		Type:   eventType,
		UserID: userID,
		CartID: cartID,
		At:     time.Now(),
	})
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
