package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]response.CategoryResponse, error)
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error)
	DeleteCategory(ctx context.Context, id string) error
	// Resolve references the named category, creating it when missing.
	Resolve(ctx context.Context, name string) (*entity.Category, entity.Resolution, error)
}

type categoryService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCategoryService(repo *repository.Repository, log *zap.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) ListCategories(ctx context.Context) ([]response.CategoryResponse, error) {
	categories, err := s.repo.Category.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]response.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, response.CategoryToResponse(c))
	}
	return out, nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.CategoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	name := strings.TrimSpace(req.Name)
	existing, err := s.repo.Category.FindByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: category already exists", ErrConflict)
	}

	category := &entity.Category{
		Immutable: entity.NewImmutable(time.Now()),
		Name:      name,
	}
	if err := s.repo.Category.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: category already exists", ErrConflict)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.String("name", category.Name))
	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, rawID string) error {
	id, err := parseID(rawID, "category")
	if err != nil {
		return err
	}

	if err := s.repo.Category.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRowNotFound) {
			return notFoundErr("category")
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info("Category deleted", zap.String("category_id", id.String()))
	return nil
}

func (s *categoryService) Resolve(ctx context.Context, name string) (*entity.Category, entity.Resolution, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, entity.CategoryFound, validationErr("category is required")
	}

	category, outcome, err := s.repo.Category.Resolve(ctx, name)
	if err != nil {
		return nil, entity.CategoryFound, fmt.Errorf("resolve category: %w", err)
	}

	s.log.Debug("Category resolved",
		zap.String("name", category.Name),
		zap.Stringer("outcome", outcome))
	return category, outcome, nil
}
