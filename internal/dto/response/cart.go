package response

import (
	"ecommerce-backend/internal/data/entity"

	"github.com/shopspring/decimal"
)

type CartLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image,omitempty"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// CartResponse describes the cart; Exists is false when the user has none.
type CartResponse struct {
	Exists bool               `json:"exists"`
	CartID string             `json:"cart_id,omitempty"`
	Items  []CartLineResponse `json:"items"`
	Total  decimal.Decimal    `json:"total"`
}

func EmptyCart() *CartResponse {
	return &CartResponse{Items: []CartLineResponse{}, Total: decimal.Zero}
}

func CartToResponse(cart *entity.Cart, lines []entity.CartLine) *CartResponse {
	resp := &CartResponse{
		Exists: true,
		CartID: cart.ID.String(),
		Items:  make([]CartLineResponse, 0, len(lines)),
		Total:  decimal.Zero,
	}
	for _, l := range lines {
		lineTotal := l.Total()
		resp.Items = append(resp.Items, CartLineResponse{
			ProductID: l.ProductID.String(),
			Name:      l.Name,
			Price:     l.Price,
			Image:     l.Image,
			Quantity:  l.Quantity,
			LineTotal: lineTotal,
		})
		resp.Total = resp.Total.Add(lineTotal)
	}
	return resp
}
