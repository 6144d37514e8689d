// Package gateway talks to third-party payment providers.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	// StatusPending means the customer has not finished paying yet.
	StatusPending Status = "pending"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrNotConfigured    = errors.New("payment gateway not configured")
)

type InitRequest struct {
	Reference   string
	Email       string
	Amount      int64 // minor units
	Currency    string
	CallbackURL string
	Metadata    map[string]string
}

type InitResult struct {
	AuthorizationURL string
	GatewayRef       string
}

type VerifyResult struct {
	Reference     string
	TransactionID string
	Status        Status
	Amount        int64 // minor units
	Currency      string
	Metadata      map[string]string
}

// WebhookEvent is a verified provider notification. Reference is empty
// for events that do not settle a payment.
type WebhookEvent struct {
	Type      string
	Reference string
}

type Gateway interface {
	Name() string
	Initialize(ctx context.Context, req InitRequest) (*InitResult, error)
	Verify(ctx context.Context, gatewayRef string) (*VerifyResult, error)
	ParseWebhook(payload []byte, header http.Header) (*WebhookEvent, error)
}

// GatewayError wraps transport and provider failures.
type GatewayError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// New builds the gateway selected by PAYMENT_PROVIDER.
func New(config utils.PaymentConfig, log *zap.Logger) (Gateway, error) {
	switch config.Provider {
	case "", ProviderPaystack:
		if config.PaystackSecretKey == "" {
			log.Warn("PAYSTACK_SECRET_KEY not set, payment calls will fail")
		}
		return NewPaystack(config.PaystackBaseURL, config.PaystackSecretKey, &http.Client{Timeout: config.Timeout}), nil
	case ProviderStripe:
		if config.StripeSecretKey == "" {
			log.Warn("STRIPE_SECRET_KEY not set, payment calls will fail")
		}
		return NewStripe(config.StripeSecretKey, config.StripeWebhookSecret, &http.Client{Timeout: config.Timeout}, ""), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", config.Provider)
	}
}
