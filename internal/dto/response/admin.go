package response

import (
	"ecommerce-backend/internal/data/entity"

	"github.com/shopspring/decimal"
)

type DashboardStatsResponse struct {
	TotalProducts    int64           `json:"total_products"`
	TotalOrders      int64           `json:"total_orders"`
	PendingOrders    int64           `json:"pending_orders"`
	TotalUsers       int64           `json:"total_users"`
	LowStockProducts int64           `json:"low_stock_products"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

func StatsToResponse(s *entity.DashboardStats) DashboardStatsResponse {
	return DashboardStatsResponse{
		TotalProducts:    s.TotalProducts,
		TotalOrders:      s.TotalOrders,
		PendingOrders:    s.PendingOrders,
		TotalUsers:       s.TotalUsers,
		LowStockProducts: s.LowStock,
		TotalRevenue:     s.OrderRevenue.Add(s.PaidRevenue),
	}
}
