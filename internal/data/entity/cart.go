package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity bounds a single cart or order line.
const MaxQuantity = 10000

// MaxAmount is the exclusive upper bound of the NUMERIC(12,2) money columns.
var MaxAmount = decimal.New(1, 10)

// AmountFits reports whether amount can be stored in a money column.
func AmountFits(amount decimal.Decimal) bool {
	return amount.LessThan(MaxAmount)
}

type Cart struct {
	Model
	UserID uuid.UUID `db:"user_id"`
}

// CartLine is a cart item joined with the product's current data.
type CartLine struct {
	ProductID uuid.UUID       `db:"product_id"`
	Name      string          `db:"name"`
	Price     decimal.Decimal `db:"price"`
	Image     string          `db:"image"`
	Quantity  int             `db:"quantity"`
}

func (l CartLine) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot freezes the line for a payment attempt or checkout record.
func (l CartLine) Snapshot() LineSnapshot {
	return LineSnapshot{
		ProductID: l.ProductID,
		Name:      l.Name,
		Price:     l.Price,
		Quantity:  l.Quantity,
	}
}
