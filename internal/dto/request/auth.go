package request

type RegisterRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,min=6"`
	RetypePassword string `json:"retype_password,omitempty" validate:"omitempty,eqfield=Password"`
	Role           string `json:"role,omitempty" validate:"omitempty,oneof=customer seller"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ForgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp" validate:"required,numeric,max=12"`
}

type ResetPasswordRequest struct {
	Password       string `json:"password" validate:"required,min=6"`
	RetypePassword string `json:"retype_password" validate:"required"`
}
