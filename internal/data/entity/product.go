package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	Model
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Stock       int             `db:"stock" json:"stock"`
	Category    string          `db:"category" json:"category"`
	Images      []string        `db:"images" json:"images"`
	CreatedBy   uuid.UUID       `db:"created_by" json:"created_by"`
}

// OwnedBy reports whether userID created the product.
func (p *Product) OwnedBy(userID uuid.UUID) bool {
	return p.CreatedBy == userID
}

// ProductFilter narrows product listings.
type ProductFilter struct {
	Search    string
	Category  string
	CreatedBy *uuid.UUID
}
