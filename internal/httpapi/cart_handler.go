package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/abmunshi/paradise-nursery-backend/internal/domain"
	"github.com/abmunshi/paradise-nursery-backend/internal/service"
	"go.uber.org/zap"
)

// CartService is what the handlers need from the reconciliation
// service; consumers define the interface.
type CartService interface {
	GetOrCreateActiveCart(ctx context.Context, userID string) (*domain.Cart, error)
	AddItem(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, cartID, cartItemID string) (*domain.Cart, error)
	UpdateItemQuantity(ctx context.Context, cartID, cartItemID string, quantity int) (*domain.Cart, error)
}

type CartHandler struct {
	service CartService
	logger  *zap.Logger
}

func NewCartHandler(service CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{service: service, logger: logger}
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type removeItemRequest struct {
	CartItemID string `json:"cart_item_id"`
}

type updateItemRequest struct {
	CartItemID string `json:"cart_item_id"`
	Quantity   int    `json:"quantity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// GetCurrent returns the caller's active cart, creating one on first
// access.
func (h *CartHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	cart, err := h.service.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be greater than zero")
		return
	}

	cart, err := h.service.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	updated, err := h.service.AddItem(r.Context(), cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(updated))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req removeItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CartItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_cart_item_id", "cart_item_id is required")
		return
	}

	cart, err := h.service.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	updated, err := h.service.RemoveItem(r.Context(), cart.ID, req.CartItemID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(updated))
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := userIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CartItemID == "" {
		respondError(w, http.StatusBadRequest, "invalid_cart_item_id", "cart_item_id is required")
		return
	}
	if req.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be greater than zero")
		return
	}

	cart, err := h.service.GetOrCreateActiveCart(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}

	updated, err := h.service.UpdateItemQuantity(r.Context(), cart.ID, req.CartItemID, req.Quantity)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toCartResponse(updated))
}

// respondServiceError maps service error kinds onto transport status
// codes. Unknown failures surface a generic internal error only.
func (h *CartHandler) respondServiceError(w http.ResponseWriter, err error) {
	switch service.Kind(err) {
	case service.KindNotFound:
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case service.KindValidation:
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case service.KindBusiness:
		respondError(w, http.StatusConflict, "insufficient_stock", err.Error())
	default:
		h.logger.Error("cart operation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already written; nothing left to do.
		return
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code})
}
