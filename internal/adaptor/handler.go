package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

type Handler struct {
	Auth     *AuthHandler
	User     *UserHandler
	Product  *ProductHandler
	Category *CategoryHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Payment  *PaymentHandler
	Admin    *AdminHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:     NewAuthHandler(service.Auth, log),
		User:     NewUserHandler(service.User, log),
		Product:  NewProductHandler(service.Product, log),
		Category: NewCategoryHandler(service.Category, log),
		Cart:     NewCartHandler(service.Cart, log),
		Order:    NewOrderHandler(service.Order, log),
		Payment:  NewPaymentHandler(service.Payment, log),
		Admin:    NewAdminHandler(service.Admin, log),
	}
}

// decodeJSON decodes and validates the body, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			utils.ResponseBadRequest(w, "Request body is required", nil)
			return false
		}
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(dst); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}
	return true
}

// actorFromRequest reads the caller set by the auth middleware.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (usecase.Actor, bool) {
	actor, ok := optionalActor(r)
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return usecase.Actor{}, false
	}
	return *actor, true
}

func optionalActor(r *http.Request) (*usecase.Actor, bool) {
	caller, ok := utils.CallerFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return &usecase.Actor{UserID: caller.UserID, Role: entity.UserRole(caller.Role)}, true
}

// serviceErrors maps usecase sentinels to status codes, checked in order.
var serviceErrors = []struct {
	sentinel error
	code     int
	label    string
}{
	{usecase.ErrValidation, http.StatusBadRequest, "validation"},
	{usecase.ErrNotFound, http.StatusNotFound, "not found"},
	{usecase.ErrConflict, http.StatusConflict, "conflict"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{usecase.ErrForbidden, http.StatusForbidden, "forbidden"},
	{usecase.ErrPayment, http.StatusBadRequest, "payment"},
}

// handleServiceError maps usecase errors to responses; anything
// unrecognised becomes a generic 500.
func handleServiceError(log *zap.Logger, w http.ResponseWriter, err error, operation string) {
	for _, se := range serviceErrors {
		if errors.Is(err, se.sentinel) {
			log.Warn(operation+" failed - "+se.label, zap.Error(err))
			utils.ResponseError(w, se.code, publicMessage(err, se.sentinel), nil)
			return
		}
	}

	log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	utils.ResponseInternalError(w, "Internal server error")
}

// publicMessage returns the text after the sentinel, e.g. "cart is empty"
// from "validation failed: cart is empty".
func publicMessage(err error, sentinel error) string {
	msg := err.Error()
	prefix := sentinel.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return sentinel.Error()
}
