package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

func orderRoutes(h *adaptor.OrderHandler, g guards) []Route {
	return []Route{
		{http.MethodPost, "/orders", mw(g.auth), h.PlaceOrder},
		{http.MethodGet, "/orders", mw(g.auth), h.ListOrders},
		{http.MethodGet, "/orders/{id}", mw(g.auth), h.GetOrder},

		{http.MethodGet, "/admin/orders", mw(g.auth, g.admin), h.ListAllOrders},
		{http.MethodPatch, "/admin/orders/{id}/status", mw(g.auth, g.admin), h.UpdateOrderStatus},
	}
}
