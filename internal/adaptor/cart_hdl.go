package adaptor

import (
	"net/http"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type CartHandler struct {
	service usecase.CartService
	log     *zap.Logger
}

func NewCartHandler(service usecase.CartService, log *zap.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		log:     log.With(zap.String("handler", "cart")),
	}
}

// AddItem handles POST /api/v1/cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.AddToCartRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.AddItem(r.Context(), actor.UserID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add to cart")
		return
	}

	utils.ResponseSuccess(w, "Item added to cart", cart)
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), actor.UserID)
	if err != nil {
		handleServiceError(h.log, w, err, "get cart")
		return
	}

	message := "Cart retrieved successfully"
	if !cart.Exists {
		message = "Cart is empty"
	}
	utils.ResponseSuccess(w, message, cart)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	if _, err := h.service.RemoveItem(r.Context(), actor.UserID, nil); err != nil {
		handleServiceError(h.log, w, err, "clear cart")
		return
	}

	utils.ResponseSuccess(w, "Cart deleted", nil)
}

// RemoveItem handles DELETE /api/v1/cart/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	productID := chi.URLParam(r, "productId")
	cart, err := h.service.RemoveItem(r.Context(), actor.UserID, &productID)
	if err != nil {
		handleServiceError(h.log, w, err, "remove cart item")
		return
	}

	utils.ResponseSuccess(w, "Item removed from cart", cart)
}
