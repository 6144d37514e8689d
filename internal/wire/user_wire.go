package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

// userRoutes covers the caller's profile and admin user management.
func userRoutes(h *adaptor.UserHandler, g guards) []Route {
	return []Route{
		{http.MethodGet, "/user/profile", mw(g.auth), h.GetProfile},
		{http.MethodPatch, "/user/profile", mw(g.auth), h.UpdateProfile},
		{http.MethodPatch, "/user/password", mw(g.auth), h.ChangePassword},

		{http.MethodGet, "/admin/users", mw(g.auth, g.admin), h.ListUsers},
		{http.MethodPatch, "/admin/users/{id}/status", mw(g.auth, g.admin), h.UpdateUserStatus},
		{http.MethodPatch, "/admin/users/{id}/role", mw(g.auth, g.admin), h.UpdateUserRole},
	}
}
