package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ecommerce-backend/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83/webhook"
	"go.uber.org/zap"
)

func newStripeServer(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewStripe("sk_test", "whsec_test", &http.Client{Timeout: 2 * time.Second}, srv.URL)
}

func TestStripeInitialize(t *testing.T) {
	s := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "PAY-1", r.PostForm.Get("client_reference_id"))
		assert.Equal(t, "PAY-1", r.PostForm.Get("metadata[reference]"))
		assert.Equal(t, "2500", r.PostForm.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "http://shop/cb?reference=PAY-1", r.PostForm.Get("success_url"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`))
	})

	res, err := s.Initialize(context.Background(), InitRequest{
		Reference: "PAY-1", Amount: 2500, Currency: "EUR", CallbackURL: "http://shop/cb",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", res.GatewayRef)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", res.AuthorizationURL)
}

func TestStripeVerify(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Status
	}{
		{"paid", `{"id":"cs_1","object":"checkout.session","status":"complete","payment_status":"paid","amount_total":2500,"currency":"eur","metadata":{"reference":"PAY-1"},"payment_intent":"pi_1"}`, StatusSuccess},
		{"expired", `{"id":"cs_1","object":"checkout.session","status":"expired","payment_status":"unpaid","amount_total":2500,"currency":"eur","client_reference_id":"PAY-1"}`, StatusFailed},
		{"open", `{"id":"cs_1","object":"checkout.session","status":"open","payment_status":"unpaid","amount_total":2500,"currency":"eur","client_reference_id":"PAY-1"}`, StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/checkout/sessions/cs_1", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			res, err := s.Verify(context.Background(), "cs_1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Status)
			assert.Equal(t, "PAY-1", res.Reference)
			assert.Equal(t, int64(2500), res.Amount)
			assert.Equal(t, "EUR", res.Currency)
		})
	}
}

func TestStripeVerifyError(t *testing.T) {
	s := newStripeServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such checkout.session"}}`))
	})

	_, err := s.Verify(context.Background(), "cs_missing")
	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusNotFound, gwErr.StatusCode)
}

func TestStripeParseWebhook(t *testing.T) {
	s := NewStripe("sk_test", "whsec_test", http.DefaultClient, "")
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{"id":"cs_1","object":"checkout.session","client_reference_id":"PAY-7","payment_status":"paid"}}}`)

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_test",
		Timestamp: time.Now(),
	})
	header := http.Header{}
	header.Set("Stripe-Signature", signed.Header)

	event, err := s.ParseWebhook(payload, header)
	require.NoError(t, err)
	assert.Equal(t, "checkout.session.completed", event.Type)
	assert.Equal(t, "PAY-7", event.Reference)

	header.Set("Stripe-Signature", "t=1,v1=deadbeef")
	_, err = s.ParseWebhook(payload, header)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestNewSelectsProvider(t *testing.T) {
	gw, err := New(utils.PaymentConfig{Provider: "stripe", StripeSecretKey: "sk"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderStripe, gw.Name())

	gw, err = New(utils.PaymentConfig{Provider: "paystack", PaystackSecretKey: "sk"}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, ProviderPaystack, gw.Name())

	_, err = New(utils.PaymentConfig{Provider: "paypal"}, zap.NewNop())
	assert.Error(t, err)
}
