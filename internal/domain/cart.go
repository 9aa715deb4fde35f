package domain

import "time"

type CartStatus string

const (
	CartStatusActive    CartStatus = "active"
	CartStatusCompleted CartStatus = "completed"
	CartStatusAbandoned CartStatus = "abandoned"
)

// Cart is a shopper's cart document. ItemIDs is the authoritative
// membership list; Items is filled in only when the cart was fetched
// with item population.
type Cart struct {
	ID        string
	UserID    string
	Status    CartStatus
	Total     float64
	Currency  string
	ItemIDs   []string
	Items     []CartItem
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item returns the populated item with the given document id, or nil.
func (c *Cart) Item(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemForProduct returns the populated item holding the given product,
// or nil. A cart carries at most one item per product.
func (c *Cart) ItemForProduct(productID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// CartItem is one product line inside a cart. Price is the unit price
// captured when the product was first added; later product price
// changes do not alter it.
type CartItem struct {
	ID        string
	CartID    string
	ProductID string
	Quantity  int
	Price     float64
	Variant   string
	Product   *Product
	CreatedAt time.Time
	UpdatedAt time.Time
}
