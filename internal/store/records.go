package store

import (
	"time"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
)

// Every document is stored as one record carrying both representations:
// draft is always present, published only after a Publish. Reads at
// StatusPublished must decode the published payload, never the draft.

type cartRecord struct {
	ID        string       `bson:"_id"`
	Draft     cartPayload  `bson:"draft"`
	Published *cartPayload `bson:"published,omitempty"`
	Version   int64        `bson:"version"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

type cartPayload struct {
	UserID   string   `bson:"user_id"`
	Status   string   `bson:"status"`
	Total    float64  `bson:"total"`
	Currency string   `bson:"currency"`
	ItemIDs  []string `bson:"item_ids"`
}

func (r *cartRecord) payload(status Status) (*cartPayload, bool) {
	if status == StatusPublished {
		return r.Published, r.Published != nil
	}
	return &r.Draft, true
}

func (r *cartRecord) toDomain(status Status) (*domain.Cart, bool) {
	p, ok := r.payload(status)
	if !ok {
		return nil, false
	}
	return &domain.Cart{
		ID:        r.ID,
		UserID:    p.UserID,
		Status:    domain.CartStatus(p.Status),
		Total:     p.Total,
		Currency:  p.Currency,
		ItemIDs:   append([]string(nil), p.ItemIDs...),
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, true
}

type itemRecord struct {
	ID        string       `bson:"_id"`
	Draft     itemPayload  `bson:"draft"`
	Published *itemPayload `bson:"published,omitempty"`
	Version   int64        `bson:"version"`
	CreatedAt time.Time    `bson:"created_at"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

type itemPayload struct {
	CartID    string  `bson:"cart_id"`
	ProductID string  `bson:"product_id"`
	Quantity  int     `bson:"quantity"`
	Price     float64 `bson:"price"`
	Variant   string  `bson:"variant,omitempty"`
}

func (r *itemRecord) payload(status Status) (*itemPayload, bool) {
	if status == StatusPublished {
		return r.Published, r.Published != nil
	}
	return &r.Draft, true
}

func (r *itemRecord) toDomain(status Status) (*domain.CartItem, bool) {
	p, ok := r.payload(status)
	if !ok {
		return nil, false
	}
	return &domain.CartItem{
		ID:        r.ID,
		CartID:    p.CartID,
		ProductID: p.ProductID,
		Quantity:  p.Quantity,
		Price:     p.Price,
		Variant:   p.Variant,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, true
}

type productRecord struct {
	ID        string          `bson:"_id"`
	Draft     productPayload  `bson:"draft"`
	Published *productPayload `bson:"published,omitempty"`
	Version   int64           `bson:"version"`
	CreatedAt time.Time       `bson:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at"`
}

type productPayload struct {
	Name  string       `bson:"name"`
	Price float64      `bson:"price"`
	Stock int          `bson:"stock"`
	Image *imageRecord `bson:"image,omitempty"`
}

type imageRecord struct {
	URL     string                       `bson:"url"`
	Formats map[string]imageFormatRecord `bson:"formats,omitempty"`
}

type imageFormatRecord struct {
	URL    string `bson:"url"`
	Width  int    `bson:"width"`
	Height int    `bson:"height"`
}

func (r *productRecord) payload(status Status) (*productPayload, bool) {
	if status == StatusPublished {
		return r.Published, r.Published != nil
	}
	return &r.Draft, true
}

func (r *productRecord) toDomain(status Status, withImage bool) (*domain.Product, bool) {
	p, ok := r.payload(status)
	if !ok {
		return nil, false
	}
	product := &domain.Product{
		ID:    r.ID,
		Name:  p.Name,
		Price: p.Price,
		Stock: p.Stock,
	}
	if withImage && p.Image != nil {
		img := &domain.Image{URL: p.Image.URL}
		if len(p.Image.Formats) > 0 {
			img.Formats = make(map[string]domain.ImageFormat, len(p.Image.Formats))
			for name, f := range p.Image.Formats {
				img.Formats[name] = domain.ImageFormat{URL: f.URL, Width: f.Width, Height: f.Height}
			}
		}
		product.Image = img
	}
	return product, true
}
