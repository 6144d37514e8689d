package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

func cartRoutes(h *adaptor.CartHandler, g guards) []Route {
	return []Route{
		{http.MethodPost, "/cart", mw(g.auth), h.AddItem},
		{http.MethodGet, "/cart", mw(g.auth), h.GetCart},
		{http.MethodDelete, "/cart", mw(g.auth), h.ClearCart},
		{http.MethodDelete, "/cart/{productId}", mw(g.auth), h.RemoveItem},
	}
}
