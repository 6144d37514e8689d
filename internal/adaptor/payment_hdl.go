package adaptor

import (
	"errors"
	"io"
	"net/http"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxWebhookBody = 1 << 20

type PaymentHandler struct {
	service usecase.PaymentService
	log     *zap.Logger
}

func NewPaymentHandler(service usecase.PaymentService, log *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log.With(zap.String("handler", "payment")),
	}
}

// InitiatePayment handles POST /api/v1/payment
func (h *PaymentHandler) InitiatePayment(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	// the body is optional
	var req request.InitiatePaymentRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.InitiatePayment(r.Context(), actor.UserID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "initiate payment")
		return
	}

	utils.ResponseSuccess(w, "Payment initiated", resp)
}

// Callback handles GET /api/v1/payment/callback?reference=…&trxref=…
func (h *PaymentHandler) Callback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := request.PaymentCallbackRequest{
		Reference: query.Get("reference"),
		TrxRef:    query.Get("trxref"),
	}
	if req.Reference == "" {
		req.Reference = req.TrxRef
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	record, err := h.service.HandleCallback(r.Context(), req.Reference, req.TrxRef)
	if err != nil {
		handleServiceError(h.log, w, err, "payment callback")
		return
	}

	message := "Payment successful"
	if !record.Status {
		message = "Payment failed"
	}
	utils.ResponseSuccess(w, message, record)
}

// Webhook handles POST /api/v1/payment/webhook
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			utils.ResponseBadRequest(w, "Payload too large", nil)
			return
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	record, err := h.service.HandleWebhook(r.Context(), payload, r.Header)
	if err != nil {
		handleServiceError(h.log, w, err, "payment webhook")
		return
	}

	if record == nil {
		utils.ResponseSuccess(w, "Event ignored", nil)
		return
	}
	utils.ResponseSuccess(w, "Event processed", record)
}

// History handles GET /api/v1/payment/history
func (h *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	records, err := h.service.ListCheckouts(r.Context(), actor.UserID, request.PaginationFromQuery(r.URL.Query()))
	if err != nil {
		handleServiceError(h.log, w, err, "payment history")
		return
	}

	utils.ResponseSuccess(w, "Payment history retrieved successfully", records)
}
