package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutRecord is the terminal outcome of a payment reference.
type CheckoutRecord struct {
	Immutable
	UserID      uuid.UUID       `db:"user_id"`
	Items       []LineSnapshot  `db:"items"`
	Reference   string          `db:"reference"`
	TrxRef      string          `db:"trxref"`
	Status      bool            `db:"status"`
	TotalAmount decimal.Decimal `db:"total_amount"`
}

// DashboardStats aggregates counters for the admin dashboard.
type DashboardStats struct {
	TotalProducts int64
	TotalOrders   int64
	PendingOrders int64
	TotalUsers    int64
	LowStock      int64
	OrderRevenue  decimal.Decimal
	PaidRevenue   decimal.Decimal
}
