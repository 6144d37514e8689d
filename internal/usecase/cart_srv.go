package usecase

import (
	"context"
	"errors"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CartService interface {
	AddItem(ctx context.Context, userID uuid.UUID, req *request.AddToCartRequest) (*response.CartResponse, error)
	// RemoveItem drops one line when productID is set, otherwise the whole cart.
	// Only a missing cart is ErrNotFound.
	RemoveItem(ctx context.Context, userID uuid.UUID, productID *string) (*response.CartResponse, error)
	GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error)
}

type cartService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCartService(repo *repository.Repository, log *zap.Logger) CartService {
	return &cartService{
		repo: repo,
		log:  log.With(zap.String("service", "cart")),
	}
}

func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *request.AddToCartRequest) (*response.CartResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Product.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, notFoundErr("product")
	}

	cart, err := s.repo.Cart.Upsert(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	quantity, err := s.repo.Cart.AddItem(ctx, cart.ID, productID, req.Quantity)
	if errors.Is(err, repository.ErrQuantityLimit) {
		return nil, validationErr("quantity of a cart item cannot exceed %d", entity.MaxQuantity)
	}
	if err != nil {
		return nil, fmt.Errorf("add cart item: %w", err)
	}

	s.log.Info("Cart item added",
		zap.String("user_id", userID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("quantity", quantity))

	return s.GetCart(ctx, userID)
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, rawProductID *string) (*response.CartResponse, error) {
	if rawProductID == nil {
		deleted, err := s.repo.Cart.DeleteByUserID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("delete cart: %w", err)
		}
		if !deleted {
			return nil, notFoundErr("cart")
		}
		s.log.Info("Cart deleted", zap.String("user_id", userID.String()))
		return response.EmptyCart(), nil
	}

	productID, err := parseID(*rawProductID, "product")
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return nil, notFoundErr("cart")
	}

	removed, err := s.repo.Cart.RemoveItem(ctx, cart.ID, productID)
	if err != nil {
		return nil, fmt.Errorf("remove cart item: %w", err)
	}
	// A line that is not in the cart leaves the cart as it is.
	if removed {
		s.log.Info("Cart item removed",
			zap.String("user_id", userID.String()),
			zap.String("product_id", productID.String()))
	}

	return s.GetCart(ctx, userID)
}

func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*response.CartResponse, error) {
	cart, err := s.repo.Cart.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if cart == nil {
		return response.EmptyCart(), nil
	}

	lines, err := s.repo.Cart.FindLines(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart lines: %w", err)
	}

	return response.CartToResponse(cart, lines), nil
}
