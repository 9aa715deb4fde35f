package service

import "errors"

var (
	ErrCartNotFound      = errors.New("cart not found")
	ErrProductNotFound   = errors.New("product not found")
	ErrItemNotFound      = errors.New("cart item not found in the cart")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ErrorKind groups service errors so the transport layer can map them
// to response semantics without matching individual sentinels.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindValidation
	KindBusiness
)

func Kind(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrCartNotFound),
		errors.Is(err, ErrProductNotFound),
		errors.Is(err, ErrItemNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidQuantity):
		return KindValidation
	case errors.Is(err, ErrInsufficientStock):
		return KindBusiness
	default:
		return KindUnknown
	}
}
