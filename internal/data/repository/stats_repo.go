package repository

import (
	"context"
	"fmt"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/pkg/database"

	"go.uber.org/zap"
)

type StatsRepository interface {
	Dashboard(ctx context.Context, lowStockThreshold int) (*entity.DashboardStats, error)
}

type statsRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStatsRepository(db database.Querier, log *zap.Logger) StatsRepository {
	return &statsRepository{
		db:  db,
		log: log.With(zap.String("repository", "stats")),
	}
}

func (r *statsRepository) Dashboard(ctx context.Context, lowStockThreshold int) (*entity.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM orders),
			(SELECT COUNT(*) FROM orders WHERE status = 'pending'),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM products WHERE stock <= $1),
			(SELECT COALESCE(SUM(total), 0) FROM orders WHERE status <> 'cancelled'),
			(SELECT COALESCE(SUM(total_amount), 0) FROM checkout_records WHERE status)
	`

	var s entity.DashboardStats
	err := r.db.QueryRow(ctx, query, lowStockThreshold).Scan(
		&s.TotalProducts,
		&s.TotalOrders,
		&s.PendingOrders,
		&s.TotalUsers,
		&s.LowStock,
		&s.OrderRevenue,
		&s.PaidRevenue,
	)
	if err != nil {
		r.log.Error("Failed to load dashboard stats", zap.Error(err))
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}

	return &s, nil
}
