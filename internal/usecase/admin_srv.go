package usecase

import (
	"context"
	"fmt"

	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/response"

	"go.uber.org/zap"
)

type AdminService interface {
	DashboardStats(ctx context.Context) (*response.DashboardStatsResponse, error)
}

type adminService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewAdminService(repo *repository.Repository, log *zap.Logger) AdminService {
	return &adminService{
		repo: repo,
		log:  log.With(zap.String("service", "admin")),
	}
}

func (s *adminService) DashboardStats(ctx context.Context) (*response.DashboardStatsResponse, error) {
	stats, err := s.repo.Stats.Dashboard(ctx, defaultLowStockThreshold)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	resp := response.StatsToResponse(stats)
	return &resp, nil
}
