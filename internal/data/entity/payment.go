package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed
}

// Payment is one gateway transaction attempt, keyed by Reference.
type Payment struct {
	Model
	Reference        string          `db:"reference"`
	Provider         string          `db:"provider"`
	GatewayRef       *string         `db:"gateway_ref"`
	UserID           uuid.UUID       `db:"user_id"`
	Amount           decimal.Decimal `db:"amount"`
	Currency         string          `db:"currency"`
	Items            []LineSnapshot  `db:"items"`
	Status           PaymentStatus   `db:"status"`
	AuthorizationURL *string         `db:"authorization_url"`
}

// LineSnapshot is a cart line frozen at payment time.
type LineSnapshot struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}
