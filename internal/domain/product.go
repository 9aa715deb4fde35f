package domain

// Product is catalog data this service reads but never mutates.
// Stock is the inventory count adds are validated against.
type Product struct {
	ID    string
	Name  string
	Price float64
	Stock int
	Image *Image
}

// Image is a product picture with its pre-rendered size variants.
type Image struct {
	URL     string
	Formats map[string]ImageFormat
}

type ImageFormat struct {
	URL    string
	Width  int
	Height int
}
