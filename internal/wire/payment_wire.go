package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

// paymentRoutes: callback and webhook are called by the gateway, not users.
func paymentRoutes(h *adaptor.PaymentHandler, g guards) []Route {
	return []Route{
		{http.MethodPost, "/payment", mw(g.auth), h.InitiatePayment},
		{http.MethodGet, "/payment/history", mw(g.auth), h.History},
		{http.MethodGet, "/payment/callback", nil, h.Callback},
		{http.MethodPost, "/payment/webhook", nil, h.Webhook},
	}
}
