package wire

import (
	"net/http"

	"ecommerce-backend/internal/adaptor"
)

func authRoutes(h *adaptor.AuthHandler, g guards) []Route {
	return []Route{
		{http.MethodPost, "/register", mw(g.limit("register")), h.Register},
		{http.MethodPost, "/signin", mw(g.limit("signin")), h.SignIn},
		{http.MethodPost, "/signout", mw(g.auth), h.SignOut},
		{http.MethodPost, "/forgetpassword", mw(g.limit("forgetpassword")), h.ForgetPassword},
		{http.MethodPost, "/verifyotp", nil, h.VerifyOTP},
		{http.MethodPost, "/resetpassword/{otp}", nil, h.ResetPassword},
	}
}
