package usecase

import (
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/gateway"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/events"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/storage"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

// Deps bundles the infrastructure the services talk to.
type Deps struct {
	Repo      *repository.Repository
	Config    *utils.Config
	Tokens    *token.Manager
	Store     cache.Store
	Mailer    mailer.Mailer
	Storage   storage.Storage
	Gateway   gateway.Gateway
	Publisher events.Publisher
}

type Service struct {
	Auth     AuthService
	User     UserService
	Category CategoryService
	Product  ProductService
	Cart     CartService
	Order    OrderService
	Payment  PaymentService
	Admin    AdminService
}

func NewService(deps Deps, log *zap.Logger) *Service {
	category := NewCategoryService(deps.Repo, log)
	return &Service{
		Auth:     NewAuthService(deps.Repo, deps.Tokens, deps.Store, deps.Mailer, deps.Config.OTP, log),
		User:     NewUserService(deps.Repo, log),
		Category: category,
		Product:  NewProductService(deps.Repo, category, deps.Storage, deps.Store, deps.Config.Redis.ProductCacheTTL, log),
		Cart:     NewCartService(deps.Repo, log),
		Order:    NewOrderService(deps.Repo, deps.Publisher, log),
		Payment:  NewPaymentService(deps.Repo, deps.Gateway, deps.Store, deps.Publisher, deps.Config.Payment, log),
		Admin:    NewAdminService(deps.Repo, log),
	}
}
