package wire

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce-backend/internal/adaptor"
	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/middleware"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(ctx context.Context) error { return p.err }

type noUsers struct{}

func (noUsers) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) { return nil, nil }

func testConfig() *utils.Config {
	return &utils.Config{App: utils.AppConfig{CORSOrigins: []string{"*"}}}
}

// allRoutes builds the full route table over handlers with no services;
// only requests stopped by middleware may be sent through it.
func allRoutes(t *testing.T) []Route {
	t.Helper()
	log := zap.NewNop()
	handler := adaptor.NewHandler(&usecase.Service{}, log)
	tokens := token.NewManager("wire-secret", time.Hour)
	store := cache.NewMemoryStore()

	g := guards{
		auth:     middleware.Auth(tokens, store, noUsers{}, log),
		optional: middleware.OptionalAuth(tokens, store, noUsers{}, log),
		seller:   middleware.RequireRoles(log, entity.RoleSeller, entity.RoleAdmin),
		admin:    middleware.RequireRoles(log, entity.RoleAdmin),
		limit: func(scope string) func(http.Handler) http.Handler {
			return middleware.RateLimit(store, scope, 10, time.Minute, log)
		},
	}

	var routes []Route
	routes = append(routes, authRoutes(handler.Auth, g)...)
	routes = append(routes, userRoutes(handler.User, g)...)
	routes = append(routes, catalogRoutes(handler.Product, handler.Category, g)...)
	routes = append(routes, cartRoutes(handler.Cart, g)...)
	routes = append(routes, orderRoutes(handler.Order, g)...)
	routes = append(routes, paymentRoutes(handler.Payment, g)...)
	routes = append(routes, adminRoutes(handler.Admin, g)...)
	return routes
}

func TestRouteTableHasNoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, route := range allRoutes(t) {
		key := route.Method + " " + route.Path
		assert.False(t, seen[key], "duplicate route %s", key)
		seen[key] = true
		assert.NotNil(t, route.Handler, key)
	}
	assert.True(t, seen["GET /payment/callback"])
	assert.True(t, seen["POST /payment/webhook"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := NewRouter(allRoutes(t), testConfig(), zap.NewNop())

	protected := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/signout"},
		{http.MethodGet, "/api/v1/user/profile"},
		{http.MethodGet, "/api/v1/cart"},
		{http.MethodDelete, "/api/v1/cart/" + uuid.NewString()},
		{http.MethodPost, "/api/v1/orders"},
		{http.MethodPost, "/api/v1/payment"},
		{http.MethodGet, "/api/v1/payment/history"},
		{http.MethodPost, "/api/v1/products"},
		{http.MethodGet, "/api/v1/admin/dashboard-stats"},
		{http.MethodPatch, "/api/v1/admin/users/" + uuid.NewString() + "/role"},
	}
	for _, tt := range protected {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRouterFallbacks(t *testing.T) {
	router := NewRouter(allRoutes(t), testConfig(), zap.NewNop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Route not found"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/v1/cart", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(stubPinger{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	healthHandler(stubPinger{err: errors.New("down")}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
