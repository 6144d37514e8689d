package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/storage"
	"ecommerce-backend/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	defaultLowStockThreshold = 5
	lowStockLimit            = 100
)

// ImageUpload is a product image read from a multipart form.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type ProductService interface {
	ListProducts(ctx context.Context, viewer *Actor, req request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	GetProduct(ctx context.Context, id string) (*response.ProductResponse, error)
	CreateProduct(ctx context.Context, actor Actor, req *request.CreateProductRequest, image *ImageUpload) (*response.ProductResponse, error)
	UpdateProduct(ctx context.Context, actor Actor, id string, req *request.UpdateProductRequest) (*response.ProductResponse, error)
	DeleteProduct(ctx context.Context, actor Actor, id string) error
	MyProducts(ctx context.Context, actor Actor, req request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error)
	LowStock(ctx context.Context, threshold int) ([]response.ProductResponse, error)
}

type productService struct {
	repo       *repository.Repository
	categories CategoryService
	storage    storage.Storage
	store      cache.Store
	cacheTTL   time.Duration
	log        *zap.Logger
}

func NewProductService(
	repo *repository.Repository,
	categories CategoryService,
	storage storage.Storage,
	store cache.Store,
	cacheTTL time.Duration,
	log *zap.Logger,
) ProductService {
	return &productService{
		repo:       repo,
		categories: categories,
		storage:    storage,
		store:      store,
		cacheTTL:   cacheTTL,
		log:        log.With(zap.String("service", "product")),
	}
}

func (s *productService) ListProducts(ctx context.Context, viewer *Actor, req request.ProductListRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	filter := entity.ProductFilter{
		Search:   strings.TrimSpace(req.Search),
		Category: strings.TrimSpace(req.Category),
	}
	// Signed-in sellers browse their own catalogue.
	if viewer != nil && viewer.IsSeller() {
		id := viewer.UserID
		filter.CreatedBy = &id
	}
	return s.list(ctx, filter, req.PaginatedRequest)
}

func (s *productService) MyProducts(ctx context.Context, actor Actor, req request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	id := actor.UserID
	return s.list(ctx, entity.ProductFilter{CreatedBy: &id}, req)
}

func (s *productService) list(ctx context.Context, filter entity.ProductFilter, page request.PaginatedRequest) (*response.PaginatedResponse[response.ProductResponse], error) {
	products, err := s.repo.Product.FindAll(ctx, filter, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	total, err := s.repo.Product.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	return response.NewPaginatedResponse(response.ProductsToResponse(products), page.Page, page.Limit(), total), nil
}

func (s *productService) GetProduct(ctx context.Context, rawID string) (*response.ProductResponse, error) {
	id, err := parseID(rawID, "product")
	if err != nil {
		return nil, err
	}

	key := cache.ProductKey(id.String())
	if cached, ok, err := s.store.Get(ctx, key); err != nil {
		s.log.Warn("Product cache read failed", zap.Error(err), zap.String("product_id", id.String()))
	} else if ok {
		var resp response.ProductResponse
		if err := json.Unmarshal(cached, &resp); err == nil {
			return &resp, nil
		}
		s.log.Warn("Dropping corrupt product cache entry", zap.String("product_id", id.String()))
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, notFoundErr("product")
	}

	resp := response.ProductToResponse(product)
	if payload, err := json.Marshal(resp); err == nil {
		if err := s.store.Set(ctx, key, payload, s.cacheTTL); err != nil {
			s.log.Warn("Product cache write failed", zap.Error(err), zap.String("product_id", id.String()))
		}
	}
	return &resp, nil
}

func parsePrice(raw string) (decimal.Decimal, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, validationErr("price must be a number")
	}
	if price.IsNegative() {
		return decimal.Zero, validationErr("price must not be negative")
	}
	price = price.Round(2)
	if !entity.AmountFits(price) {
		return decimal.Zero, validationErr("price must be less than %s", entity.MaxAmount.String())
	}
	return price, nil
}

func (s *productService) CreateProduct(ctx context.Context, actor Actor, req *request.CreateProductRequest, image *ImageUpload) (*response.ProductResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}
	if image == nil || image.Reader == nil {
		return nil, validationErr("product image is required")
	}
	if !strings.HasPrefix(image.ContentType, "image/") {
		return nil, validationErr("product image must be an image file")
	}

	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}

	// 2. Resolve kategori
	category, outcome, err := s.categories.Resolve(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	// 3. Upload gambar
	name := uuid.NewString() + strings.ToLower(filepath.Ext(image.Filename))
	url, err := s.storage.Save(ctx, name, image.ContentType, image.Reader, image.Size)
	if err != nil {
		s.log.Error("Failed to store product image", zap.Error(err))
		return nil, fmt.Errorf("store image: %w", err)
	}

	now := time.Now()
	product := &entity.Product{
		Model:       entity.NewModel(now),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       price,
		Stock:       req.Stock,
		Category:    category.Name,
		Images:      []string{url},
		CreatedBy:   actor.UserID,
	}

	// 4. Simpan produk
	if err := s.repo.Product.Create(ctx, product); err != nil {
		if delErr := s.storage.Delete(ctx, url); delErr != nil {
			s.log.Warn("Failed to remove orphaned image", zap.Error(delErr), zap.String("url", url))
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	s.log.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("category", category.Name),
		zap.Stringer("category_outcome", outcome),
		zap.String("created_by", actor.UserID.String()))

	resp := response.ProductToResponse(product)
	return &resp, nil
}

// ownedProduct loads a product the actor may change.
func (s *productService) ownedProduct(ctx context.Context, actor Actor, rawID string) (*entity.Product, error) {
	id, err := parseID(rawID, "product")
	if err != nil {
		return nil, err
	}

	product, err := s.repo.Product.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	if product == nil {
		return nil, notFoundErr("product")
	}
	if !actor.IsAdmin() && !product.OwnedBy(actor.UserID) {
		return nil, fmt.Errorf("%w: you do not own this product", ErrForbidden)
	}
	return product, nil
}

func (s *productService) UpdateProduct(ctx context.Context, actor Actor, rawID string, req *request.UpdateProductRequest) (*response.ProductResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	product, err := s.ownedProduct(ctx, actor, rawID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		product.Description = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		product.Price = price
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}
	if req.Category != nil {
		category, _, err := s.categories.Resolve(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		product.Category = category.Name
	}
	product.UpdatedAt = time.Now()

	if err := s.repo.Product.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return nil, notFoundErr("product")
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.invalidate(ctx, product.ID)

	s.log.Info("Product updated", zap.String("product_id", product.ID.String()))
	resp := response.ProductToResponse(product)
	return &resp, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor Actor, rawID string) error {
	product, err := s.ownedProduct(ctx, actor, rawID)
	if err != nil {
		return err
	}

	if err := s.repo.Product.Delete(ctx, product.ID); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return notFoundErr("product")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.invalidate(ctx, product.ID)

	for _, url := range product.Images {
		if err := s.storage.Delete(ctx, url); err != nil {
			s.log.Warn("Failed to remove product image", zap.Error(err), zap.String("url", url))
		}
	}

	s.log.Info("Product deleted",
		zap.String("product_id", product.ID.String()),
		zap.String("by", actor.UserID.String()))
	return nil
}

func (s *productService) LowStock(ctx context.Context, threshold int) ([]response.ProductResponse, error) {
	if threshold < 1 {
		threshold = defaultLowStockThreshold
	}

	products, err := s.repo.Product.FindLowStock(ctx, threshold, lowStockLimit)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	return response.ProductsToResponse(products), nil
}

func (s *productService) invalidate(ctx context.Context, id uuid.UUID) {
	if err := s.store.Delete(ctx, cache.ProductKey(id.String())); err != nil {
		s.log.Warn("Failed to invalidate product cache", zap.Error(err), zap.String("product_id", id.String()))
	}
}
