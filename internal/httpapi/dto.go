package httpapi

import "github.com/abmunshi/paradise-nursery-backend/internal/domain"

// Response DTOs expose only shopper-facing fields; store internals
// such as the version counter and the membership id list stay private.

type CartResponse struct {
	ID       string             `json:"id"`
	Status   string             `json:"status"`
	Currency string             `json:"currency"`
	Total    float64            `json:"total"`
	Items    []CartItemResponse `json:"items"`
}

type CartItemResponse struct {
	ID       string           `json:"id"`
	Quantity int              `json:"quantity"`
	Price    float64          `json:"price"`
	Variant  string           `json:"variant,omitempty"`
	Product  *ProductResponse `json:"product,omitempty"`
}

type ProductResponse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Price float64        `json:"price"`
	Image *ImageResponse `json:"image,omitempty"`
}

type ImageResponse struct {
	URL     string                         `json:"url"`
	Formats map[string]ImageFormatResponse `json:"formats,omitempty"`
}

type ImageFormatResponse struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func toCartResponse(cart *domain.Cart) CartResponse {
	resp := CartResponse{
		ID:       cart.ID,
		Status:   string(cart.Status),
		Currency: cart.Currency,
		Items:    make([]CartItemResponse, 0, len(cart.Items)),
	}

	// The stored total is not maintained on item mutations; the
	// rendered total is derived from the snapshot prices instead.
	for _, item := range cart.Items {
		resp.Total += float64(item.Quantity) * item.Price
		resp.Items = append(resp.Items, toCartItemResponse(item))
	}
	return resp
}

func toCartItemResponse(item domain.CartItem) CartItemResponse {
	resp := CartItemResponse{
		ID:       item.ID,
		Quantity: item.Quantity,
		Price:    item.Price,
		Variant:  item.Variant,
	}
	if item.Product != nil {
		resp.Product = &ProductResponse{
			ID:    item.Product.ID,
			Name:  item.Product.Name,
			Price: item.Product.Price,
		}
		if item.Product.Image != nil {
			img := &ImageResponse{URL: item.Product.Image.URL}
			if len(item.Product.Image.Formats) > 0 {
				img.Formats = make(map[string]ImageFormatResponse, len(item.Product.Image.Formats))
				for name, f := range item.Product.Image.Formats {
					img.Formats[name] = ImageFormatResponse{URL: f.URL, Width: f.Width, Height: f.Height}
				}
			}
			resp.Product.Image = img
		}
	}
	return resp
}
