package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const ProviderPaystack = "paystack"

type Paystack struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewPaystack(baseURL, secretKey string, client *http.Client) *Paystack {
	if baseURL == "" {
		baseURL = "https://api.paystack.co"
	}
	return &Paystack{
		baseURL:   strings.TrimRight(baseURL, "/"),
		secretKey: secretKey,
		client:    client,
	}
}

func (p *Paystack) Name() string { return ProviderPaystack }

// paystackEnvelope is the common response wrapper of the Paystack API.
type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackVerifyData struct {
	ID        int64           `json:"id"`
	Status    string          `json:"status"`
	Reference string          `json:"reference"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Metadata  json.RawMessage `json:"metadata"`
}

func (p *Paystack) Initialize(ctx context.Context, req InitRequest) (*InitResult, error) {
	const op = "paystack.initialize"

	body := map[string]any{
		"email":        req.Email,
		"amount":       req.Amount,
		"currency":     req.Currency,
		"reference":    req.Reference,
		"callback_url": req.CallbackURL,
	}
	if len(req.Metadata) > 0 {
		body["metadata"] = req.Metadata
	}

	var data paystackInitData
	if err := p.do(ctx, op, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" {
		return nil, &GatewayError{Op: op, Err: errors.New("missing authorization url")}
	}

	ref := data.Reference
	if ref == "" {
		ref = req.Reference
	}
	return &InitResult{AuthorizationURL: data.AuthorizationURL, GatewayRef: ref}, nil
}

func (p *Paystack) Verify(ctx context.Context, gatewayRef string) (*VerifyResult, error) {
	const op = "paystack.verify"

	var data paystackVerifyData
	if err := p.do(ctx, op, http.MethodGet, "/transaction/verify/"+url.PathEscape(gatewayRef), nil, &data); err != nil {
		return nil, err
	}

	return &VerifyResult{
		Reference:     data.Reference,
		TransactionID: strconv.FormatInt(data.ID, 10),
		Status:        paystackStatus(data.Status),
		Amount:        data.Amount,
		Currency:      strings.ToUpper(data.Currency),
		Metadata:      decodeMetadata(data.Metadata),
	}, nil
}

func paystackStatus(s string) Status {
	switch strings.ToLower(s) {
	case "success":
		return StatusSuccess
	case "ongoing", "pending", "processing", "queued":
		return StatusPending
	default:
		// failed, abandoned, reversed
		return StatusFailed
	}
}

// decodeMetadata accepts the object form and ignores anything else;
// Paystack sends "" when no metadata was attached.
func decodeMetadata(raw json.RawMessage) map[string]string {
	out := map[string]string{}
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return out
	}
	for k, v := range obj {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}

func (p *Paystack) ParseWebhook(payload []byte, header http.Header) (*WebhookEvent, error) {
	signature := header.Get("x-paystack-signature")
	if signature == "" || !p.validSignature(payload, signature) {
		return nil, ErrInvalidSignature
	}

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, &GatewayError{Op: "paystack.webhook", Err: fmt.Errorf("decode payload: %w", err)}
	}

	out := &WebhookEvent{Type: event.Event}
	if event.Event == "charge.success" {
		out.Reference = event.Data.Reference
	}
	return out, nil
}

func (p *Paystack) validSignature(payload []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(p.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(signature)))
}

func (p *Paystack) do(ctx context.Context, op, method, path string, body any, out any) error {
	if p.secretKey == "" {
		return &GatewayError{Op: op, Err: ErrNotConfigured}
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &GatewayError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return &GatewayError{Op: op, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return &GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var envelope paystackEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode >= 300 || !envelope.Status {
		msg := envelope.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: errors.New(msg)}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return &GatewayError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
