package request

type InitiatePaymentRequest struct {
	// Email overrides the account email sent to the gateway.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

// PaymentCallbackRequest carries the query of a gateway redirect.
type PaymentCallbackRequest struct {
	Reference string `validate:"required,max=64"`
	TrxRef    string
}
