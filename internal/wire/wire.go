package wire

import (
	"context"
	"net/http"
	"time"

	"ecommerce-backend/internal/adaptor"
	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/middleware"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// Route is one endpoint under /api/v1.
type Route struct {
	Method     string
	Path       string
	Middleware []func(http.Handler) http.Handler
	Handler    http.HandlerFunc
}

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App menyimpan semua dependencies
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
}

// guards are the per-route middleware shared by the domain route lists.
type guards struct {
	auth     func(http.Handler) http.Handler
	optional func(http.Handler) http.Handler
	seller   func(http.Handler) http.Handler
	admin    func(http.Handler) http.Handler
	limit    func(scope string) func(http.Handler) http.Handler
}

// Wiring menginisialisasi services, handlers dan router
func Wiring(deps usecase.Deps, db Pinger, logger *zap.Logger) *App {
	service := usecase.NewService(deps, logger)
	handler := adaptor.NewHandler(service, logger)

	config := deps.Config
	g := guards{
		auth:     middleware.Auth(deps.Tokens, deps.Store, deps.Repo.User, logger),
		optional: middleware.OptionalAuth(deps.Tokens, deps.Store, deps.Repo.User, logger),
		seller:   middleware.RequireRoles(logger, entity.RoleSeller, entity.RoleAdmin),
		admin:    middleware.RequireRoles(logger, entity.RoleAdmin),
		limit: func(scope string) func(http.Handler) http.Handler {
			return middleware.RateLimit(deps.Store, scope, config.Redis.RateLimitPerMinute, time.Minute, logger)
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

	router := NewRouter(routes, config, logger)
	router.Get("/health", healthHandler(db))

	if config.Storage.Driver == "" || config.Storage.Driver == "local" {
		files := http.FileServer(http.Dir(config.Storage.UploadDir))
		router.Handle("/public/*", http.StripPrefix("/public/", files))
	}

	return &App{
		Router:  router,
		Service: service,
	}
}

// NewRouter registers routes under /api/v1 behind the global middleware.
func NewRouter(routes []Route, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.CORSOrigins))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseJSON(w, http.StatusMethodNotAllowed, false, "Method not allowed", nil, nil)
	})

	r.Route(apiPrefix, func(api chi.Router) {
		for _, route := range routes {
			api.With(route.Middleware...).Method(route.Method, route.Path, route.Handler)
		}
	})

	return r
}

func healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Database unavailable", nil, nil)
			return
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}

func mw(m ...func(http.Handler) http.Handler) []func(http.Handler) http.Handler {
	return m
}
