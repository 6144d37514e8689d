package response

import (
	"time"

	"ecommerce-backend/internal/data/entity"

	"github.com/shopspring/decimal"
)

type InitiatePaymentResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	Reference        string `json:"reference"`
}

type CheckoutResponse struct {
	ID          string                `json:"id"`
	Reference   string                `json:"reference"`
	TrxRef      string                `json:"trxref"`
	Status      bool                  `json:"status"`
	TotalAmount decimal.Decimal       `json:"total_amount"`
	Items       []entity.LineSnapshot `json:"items"`
	CreatedAt   time.Time             `json:"created_at"`
}

func CheckoutToResponse(c *entity.CheckoutRecord) CheckoutResponse {
	items := c.Items
	if items == nil {
		items = []entity.LineSnapshot{}
	}
	return CheckoutResponse{
		ID:          c.ID.String(),
		Reference:   c.Reference,
		TrxRef:      c.TrxRef,
		Status:      c.Status,
		TotalAmount: c.TotalAmount,
		Items:       items,
		CreatedAt:   c.CreatedAt,
	}
}

func CheckoutsToResponse(records []*entity.CheckoutRecord) []CheckoutResponse {
	out := make([]CheckoutResponse, 0, len(records))
	for _, c := range records {
		out = append(out, CheckoutToResponse(c))
	}
	return out
}
