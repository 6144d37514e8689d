package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ecommerce-backend/internal/data/entity"
	"ecommerce-backend/internal/data/repository"
	"ecommerce-backend/internal/dto/request"
	"ecommerce-backend/internal/dto/response"
	"ecommerce-backend/pkg/cache"
	"ecommerce-backend/pkg/mailer"
	"ecommerce-backend/pkg/token"
	"ecommerce-backend/pkg/utils"

	"go.uber.org/zap"
)

const maxOTPAttempts = 5

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	SignIn(ctx context.Context, req *request.SignInRequest) (*response.AuthResponse, error)
	SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error
	ForgetPassword(ctx context.Context, req *request.ForgetPasswordRequest) error
	VerifyOTP(ctx context.Context, otp string) error
	ResetPassword(ctx context.Context, otp string, req *request.ResetPasswordRequest) error
}

type authService struct {
	repo   *repository.Repository
	tokens *token.Manager
	store  cache.Store
	mailer mailer.Mailer
	otp    utils.OTPConfig
	now    func() time.Time
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	tokens *token.Manager,
	store cache.Store,
	mailer mailer.Mailer,
	otp utils.OTPConfig,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		tokens: tokens,
		store:  store,
		mailer: mailer,
		otp:    otp,
		now:    time.Now,
		log:    log.With(zap.String("service", "auth")),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)

	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	role := entity.RoleCustomer
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}
	if role != entity.RoleCustomer && role != entity.RoleSeller {
		return nil, validationErr("role must be customer or seller")
	}

	email := req.Email

	// 2. Cek email sudah terdaftar
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: email already registered", ErrConflict)
	}

	// 3. Hash password
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Model:        entity.NewModel(now),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	}

	// 4. Save user
	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email already registered", ErrConflict)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	// 5. Auto login setelah register
	return s.issueToken(user)
}

func (s *authService) SignIn(ctx context.Context, req *request.SignInRequest) (*response.AuthResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationErr("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, fmt.Errorf("%w: invalid email or password", ErrUnauthorized)
	}

	if !user.IsActive {
		s.log.Warn("Inactive user tried to sign in", zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("%w: account is deactivated", ErrForbidden)
	}

	s.log.Info("User signed in", zap.String("user_id", user.ID.String()))
	return s.issueToken(user)
}

func (s *authService) issueToken(user *entity.User) (*response.AuthResponse, error) {
	signed, claims, err := s.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &response.AuthResponse{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      response.UserToResponse(user),
	}, nil
}

func (s *authService) SignOut(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if tokenID == "" {
		return fmt.Errorf("%w: missing token", ErrUnauthorized)
	}

	if err := cache.BlacklistToken(ctx, s.store, tokenID, expiresAt.Sub(s.now())); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	s.log.Info("Token revoked", zap.String("jti", tokenID))
	return nil
}

func (s *authService) ForgetPassword(ctx context.Context, req *request.ForgetPasswordRequest) error {
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationErr("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return notFoundErr("account")
	}

	code, err := s.uniqueResetCode(ctx)
	if err != nil {
		return err
	}

	expires := s.now().Add(time.Duration(s.otp.ExpiryMinutes) * time.Minute)
	user.ResetCode = &code
	user.ResetCodeExpiresAt = &expires
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nYour password reset code is %s. It expires in %d minutes.\n\nIf you did not request this, ignore this email.",
		user.Name, code, s.otp.ExpiryMinutes)
	if err := s.mailer.Send(ctx, user.Email, "Password reset code", body); err != nil {
		s.log.Error("Failed to send reset email", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("send reset email: %w", err)
	}

	s.log.Info("Reset code sent", zap.String("user_id", user.ID.String()))
	return nil
}

// uniqueResetCode draws codes until one is not held by another user.
func (s *authService) uniqueResetCode(ctx context.Context) (string, error) {
	for i := 0; i < maxOTPAttempts; i++ {
		code, err := utils.GenerateOTP(s.otp.Length)
		if err != nil {
			return "", err
		}
		holder, err := s.repo.User.FindByResetCode(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check reset code: %w", err)
		}
		if holder == nil {
			return code, nil
		}
	}
	return "", fmt.Errorf("no free reset code after %d attempts", maxOTPAttempts)
}

func (s *authService) userByValidCode(ctx context.Context, otp string) (*entity.User, error) {
	if strings.TrimSpace(otp) == "" {
		return nil, validationErr("otp is required")
	}

	user, err := s.repo.User.FindByResetCode(ctx, otp)
	if err != nil {
		return nil, fmt.Errorf("find reset code: %w", err)
	}
	if user == nil || !user.ResetCodeValid(otp, s.now()) {
		return nil, validationErr("invalid or expired code")
	}
	return user, nil
}

func (s *authService) VerifyOTP(ctx context.Context, otp string) error {
	_, err := s.userByValidCode(ctx, otp)
	return err
}

func (s *authService) ResetPassword(ctx context.Context, otp string, req *request.ResetPasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationErr("%s", utils.FormatValidationErrors(errs))
	}
	if req.Password != req.RetypePassword {
		return validationErr("passwords do not match")
	}

	user, err := s.userByValidCode(ctx, otp)
	if err != nil {
		return err
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.ResetCode = nil
	user.ResetCodeExpiresAt = nil
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		return fmt.Errorf("reset password: %w", err)
	}

	s.log.Info("Password reset", zap.String("user_id", user.ID.String()))
	return nil
}
