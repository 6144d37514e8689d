package adaptor

import (
	"net/http"
	"time"

	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/usecase"
	"ecommerce-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const sessionCookie = "token"

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

// Register handles POST /api/v1/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "register")
		return
	}

	setSessionCookie(w, r, resp.Token, resp.ExpiresAt)
	utils.ResponseCreated(w, "Registration successful", resp)
}

// SignIn handles POST /api/v1/signin
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req request.SignInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.SignIn(r.Context(), &req)
	if err != nil {
		handleServiceError(h.log, w, err, "sign in")
		return
	}

	setSessionCookie(w, r, resp.Token, resp.ExpiresAt)
	utils.ResponseSuccess(w, "Sign in successful", resp)
}

// SignOut handles POST /api/v1/signout
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	caller, ok := utils.CallerFromContext(r.Context())
	if !ok || caller.TokenID == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.SignOut(r.Context(), caller.TokenID, caller.ExpiresAt); err != nil {
		handleServiceError(h.log, w, err, "sign out")
		return
	}

	setSessionCookie(w, r, "", time.Unix(0, 0))
	utils.ResponseSuccess(w, "Sign out successful", nil)
}

// ForgetPassword handles POST /api/v1/forgetpassword
func (h *AuthHandler) ForgetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ForgetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ForgetPassword(r.Context(), &req); err != nil {
		handleServiceError(h.log, w, err, "forget password")
		return
	}

	utils.ResponseSuccess(w, "Reset code sent to your email", nil)
}

// VerifyOTP handles POST /api/v1/verifyotp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.VerifyOTP(r.Context(), req.OTP); err != nil {
		handleServiceError(h.log, w, err, "verify otp")
		return
	}

	utils.ResponseSuccess(w, "Code is valid", nil)
}

// ResetPassword handles POST /api/v1/resetpassword/{otp}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req request.ResetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.service.ResetPassword(r.Context(), chi.URLParam(r, "otp"), &req); err != nil {
		handleServiceError(h.log, w, err, "reset password")
		return
	}

	utils.ResponseSuccess(w, "Password has been reset", nil)
}
