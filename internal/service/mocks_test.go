package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/abmunshi/paradise-nursery-backend/internal/cache"
	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
	"github.com/abmunshi/paradise-nursery-backend/internal/store"
)

// fakeStore is an in-memory document store honoring the draft/publish
// contract: mutations touch drafts, published reads only see what has
// been explicitly published.
type fakeStore struct {
	mu       sync.Mutex
	carts    map[string]*fakeCartRecord
	items    map[string]*fakeItemRecord
	products map[string]domain.Product
	seq      int

	cartCreates int
	cartUpdates int
}

type fakeCartRecord struct {
	draft     store.CartData
	published *store.CartData
	version   int64
}

type fakeItemRecord struct {
	draft     store.CartItemData
	published *store.CartItemData
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:    make(map[string]*fakeCartRecord),
		items:    make(map[string]*fakeItemRecord),
		products: make(map[string]domain.Product),
	}
}

func (f *fakeStore) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeStore) addProduct(id, name string, price float64, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[id] = domain.Product{ID: id, Name: name, Price: price, Stock: stock}
}

func (f *fakeStore) setStock(id string, stock int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Stock = stock
	f.products[id] = p
}

func (f *fakeStore) setPrice(id string, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.products[id]
	p.Price = price
	f.products[id] = p
}

// seedCart creates a published active cart for the user.
func (f *fakeStore) seedCart(userID string, itemIDs ...string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("cart")
	data := store.CartData{
		UserID:   userID,
		Status:   domain.CartStatusActive,
		Currency: "USD",
		ItemIDs:  append([]string{}, itemIDs...),
	}
	pub := cloneCartData(data)
	f.carts[id] = &fakeCartRecord{draft: data, published: &pub, version: 1}
	return id
}

// seedItem creates a published cart item and links it into the cart.
func (f *fakeStore) seedItem(cartID, productID string, quantity int, price float64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextID("item")
	data := store.CartItemData{CartID: cartID, ProductID: productID, Quantity: quantity, Price: price}
	pub := data
	f.items[id] = &fakeItemRecord{draft: data, published: &pub}

	rec := f.carts[cartID]
	rec.draft.ItemIDs = append(rec.draft.ItemIDs, id)
	pubCart := cloneCartData(rec.draft)
	rec.published = &pubCart
	return id
}

func (f *fakeStore) itemQuantity(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.items[id]; ok {
		return rec.draft.Quantity
	}
	return -1
}

func (f *fakeStore) cartItemIDs(id string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.carts[id]; ok {
		return append([]string{}, rec.draft.ItemIDs...)
	}
	return nil
}

func cloneCartData(d store.CartData) store.CartData {
	c := d
	c.ItemIDs = append([]string{}, d.ItemIDs...)
	return c
}

func (f *fakeStore) cartToDomain(id string, rec *fakeCartRecord, pop store.Populate, status store.Status) (*domain.Cart, bool) {
	data := &rec.draft
	if status == store.StatusPublished {
		if rec.published == nil {
			return nil, false
		}
		data = rec.published
	}

	cart := &domain.Cart{
		ID:       id,
		UserID:   data.UserID,
		Status:   data.Status,
		Total:    data.Total,
		Currency: data.Currency,
		ItemIDs:  append([]string{}, data.ItemIDs...),
		Version:  rec.version,
	}
	if !pop.Items {
		return cart, true
	}

	cart.Items = []domain.CartItem{}
	for _, itemID := range data.ItemIDs {
		irec, ok := f.items[itemID]
		if !ok {
			continue
		}
		idata := &irec.draft
		if status == store.StatusPublished {
			if irec.published == nil {
				continue
			}
			idata = irec.published
		}
		item := domain.CartItem{
			ID:        itemID,
			CartID:    idata.CartID,
			ProductID: idata.ProductID,
			Quantity:  idata.Quantity,
			Price:     idata.Price,
			Variant:   idata.Variant,
		}
		if pop.Products {
			if p, ok := f.products[idata.ProductID]; ok {
				product := p
				item.Product = &product
			}
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, true
}

// Interface adapters: one struct per collection, as the real store has.

type fakeCarts struct{ f *fakeStore }

func (c fakeCarts) FindOne(_ context.Context, id string, pop store.Populate, status store.Status) (*domain.Cart, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	rec, ok := c.f.carts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	cart, ok := c.f.cartToDomain(id, rec, pop, status)
	if !ok {
		return nil, store.ErrNotFound
	}
	return cart, nil
}

func (c fakeCarts) FindFirst(_ context.Context, filter store.CartFilter, pop store.Populate, status store.Status) (*domain.Cart, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	for id, rec := range c.f.carts {
		data := &rec.draft
		if status == store.StatusPublished {
			if rec.published == nil {
				continue
			}
			data = rec.published
		}
		if filter.UserID != "" && data.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && data.Status != filter.Status {
			continue
		}
		cart, _ := c.f.cartToDomain(id, rec, pop, status)
		return cart, nil
	}
	return nil, store.ErrNotFound
}

func (c fakeCarts) Create(_ context.Context, data store.CartData) (*domain.Cart, error) {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	id := c.f.nextID("cart")
	c.f.carts[id] = &fakeCartRecord{draft: cloneCartData(data), version: 1}
	c.f.cartCreates++
	cart, _ := c.f.cartToDomain(id, c.f.carts[id], store.Populate{}, store.StatusDraft)
	return cart, nil
}

func (c fakeCarts) Update(_ context.Context, id string, version int64, data store.CartData) error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	rec, ok := c.f.carts[id]
	if !ok {
		return store.ErrNotFound
	}
	if rec.version != version {
		return store.ErrVersionConflict
	}
	rec.draft = cloneCartData(data)
	rec.version++
	c.f.cartUpdates++
	return nil
}

func (c fakeCarts) Publish(_ context.Context, id string) error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	rec, ok := c.f.carts[id]
	if !ok {
		return store.ErrNotFound
	}
	pub := cloneCartData(rec.draft)
	rec.published = &pub
	return nil
}

func (c fakeCarts) Delete(_ context.Context, id string) error {
	c.f.mu.Lock()
	defer c.f.mu.Unlock()
	if _, ok := c.f.carts[id]; !ok {
		return store.ErrNotFound
	}
	delete(c.f.carts, id)
	return nil
}

type fakeItems struct{ f *fakeStore }

func (i fakeItems) FindOne(_ context.Context, id string, pop store.Populate, status store.Status) (*domain.CartItem, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	rec, ok := i.f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	data := &rec.draft
	if status == store.StatusPublished {
		if rec.published == nil {
			return nil, store.ErrNotFound
		}
		data = rec.published
	}
	item := &domain.CartItem{
		ID:        id,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		Variant:   data.Variant,
	}
	return item, nil
}

func (i fakeItems) Create(_ context.Context, data store.CartItemData) (*domain.CartItem, error) {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	id := i.f.nextID("item")
	i.f.items[id] = &fakeItemRecord{draft: data}
	return &domain.CartItem{
		ID:        id,
		CartID:    data.CartID,
		ProductID: data.ProductID,
		Quantity:  data.Quantity,
		Price:     data.Price,
		Variant:   data.Variant,
	}, nil
}

func (i fakeItems) Update(_ context.Context, id string, patch store.CartItemPatch) error {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	rec, ok := i.f.items[id]
	if !ok {
		return store.ErrNotFound
	}
	if patch.Quantity != nil {
		rec.draft.Quantity = *patch.Quantity
	}
	return nil
}

func (i fakeItems) Publish(_ context.Context, id string) error {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	rec, ok := i.f.items[id]
	if !ok {
		return store.ErrNotFound
	}
	pub := rec.draft
	rec.published = &pub
	return nil
}

func (i fakeItems) Delete(_ context.Context, id string) error {
	i.f.mu.Lock()
	defer i.f.mu.Unlock()
	if _, ok := i.f.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(i.f.items, id)
	return nil
}

type fakeProducts struct{ f *fakeStore }

func (p fakeProducts) FindOne(_ context.Context, id string, _ store.Populate, _ store.Status) (*domain.Product, error) {
	p.f.mu.Lock()
	defer p.f.mu.Unlock()
	product, ok := p.f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

type mockCache struct {
	mu      sync.Mutex
	cart    *domain.Cart
	deletes int
}

func (m *mockCache) Get(context.Context, string) (*domain.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cart == nil {
		return nil, cache.ErrCacheMiss
	}
	return m.cart, nil
}

func (m *mockCache) Set(_ context.Context, _ string, cart *domain.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = cart
	return nil
}

func (m *mockCache) Delete(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart = nil
	m.deletes++
	return nil
}

func (m *mockCache) deleteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes
}

type recorderPublisher struct {
	mu     sync.Mutex
	events []CartEvent
}

func (r *recorderPublisher) CartChanged(_ context.Context, event CartEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recorderPublisher) recorded() []CartEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]CartEvent{}, r.events...)
}
