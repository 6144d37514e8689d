package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/webhook"
)

const ProviderStripe = "stripe"

// Stripe uses hosted Checkout Sessions; the session id is the gateway
// reference and our reference travels in metadata.
type Stripe struct {
	sessions      session.Client
	webhookSecret string
	configured    bool
}

// NewStripe builds the adapter. apiURL overrides the Stripe API base and
// is empty in production.
func NewStripe(secretKey, webhookSecret string, client *http.Client, apiURL string) *Stripe {
	cfg := &stripe.BackendConfig{
		HTTPClient:        client,
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	}
	if apiURL != "" {
		cfg.URL = stripe.String(apiURL)
	}

	return &Stripe{
		sessions: session.Client{
			B:   stripe.GetBackendWithConfig(stripe.APIBackend, cfg),
			Key: secretKey,
		},
		webhookSecret: webhookSecret,
		configured:    secretKey != "",
	}
}

func (s *Stripe) Name() string { return ProviderStripe }

func (s *Stripe) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	const op = "stripe.initialize"
	if !s.configured {
		return nil, &GatewayError{Op: op, Err: ErrNotConfigured}
	}

	returnURL := withReference(req.CallbackURL, req.Reference)
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(returnURL),
		CancelURL:         stripe.String(returnURL),
		ClientReferenceID: stripe.String(req.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(req.Currency)),
					UnitAmount: stripe.Int64(req.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Order " + req.Reference),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.Email != "" {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	params.AddMetadata("reference", req.Reference)
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := s.sessions.New(params)
	if err != nil {
		return nil, stripeError(op, err)
	}
	return &InitResult{AuthorizationURL: sess.URL, GatewayRef: sess.ID}, nil
}

func (s *Stripe) Verify(ctx context.Context, gatewayRef string) (*VerifyResult, error) {
	const op = "stripe.verify"
	if !s.configured {
		return nil, &GatewayError{Op: op, Err: ErrNotConfigured}
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	sess, err := s.sessions.Get(gatewayRef, params)
	if err != nil {
		return nil, stripeError(op, err)
	}

	result := &VerifyResult{
		Reference:     sessionReference(sess),
		TransactionID: sess.ID,
		Status:        stripeStatus(sess),
		Amount:        sess.AmountTotal,
		Currency:      strings.ToUpper(string(sess.Currency)),
		Metadata:      sess.Metadata,
	}
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		result.TransactionID = sess.PaymentIntent.ID
	}
	return result, nil
}

func stripeStatus(sess *stripe.CheckoutSession) Status {
	switch {
	case sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired:
		return StatusSuccess
	case sess.Status == stripe.CheckoutSessionStatusExpired:
		return StatusFailed
	default:
		return StatusPending
	}
}

func sessionReference(sess *stripe.CheckoutSession) string {
	if ref := sess.Metadata["reference"]; ref != "" {
		return ref
	}
	return sess.ClientReferenceID
}

func (s *Stripe) ParseWebhook(payload []byte, header http.Header) (*WebhookEvent, error) {
	if s.webhookSecret == "" {
		return nil, ErrInvalidSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, header.Get("Stripe-Signature"), s.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &WebhookEvent{Type: string(event.Type)}
	switch event.Type {
	case "checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"checkout.session.async_payment_failed",
		"checkout.session.expired":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, &GatewayError{Op: "stripe.webhook", Err: fmt.Errorf("decode session: %w", err)}
		}
		out.Reference = sessionReference(&sess)
	}
	return out, nil
}

func stripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		return &GatewayError{Op: op, StatusCode: stripeErr.HTTPStatusCode, Err: err}
	}
	return &GatewayError{Op: op, Err: err}
}

func withReference(callbackURL, reference string) string {
	u, err := url.Parse(callbackURL)
	if err != nil {
		return callbackURL
	}
	q := u.Query()
	q.Set("reference", reference)
	u.RawQuery = q.Encode()
	return u.String()
}
