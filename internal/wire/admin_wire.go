package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

func adminRoutes(h *adaptor.AdminHandler, g guards) []Route {
	return []Route{
		{http.MethodGet, "/admin/dashboard-stats", mw(g.auth, g.admin), h.DashboardStats},
	}
}
