package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(
		"OTP_LENGTH=4\nJWT_SECRET=s3cret\nPAYMENT_CURRENCY=ngn\nCORS_ORIGINS=\"https://a.example, https://b.example\"\nKAFKA_BROKERS=\n"), 0o600))

	config, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, 4, config.OTP.Length)
	assert.Equal(t, "s3cret", config.JWT.Secret)
	assert.Equal(t, "NGN", config.Payment.Currency)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, config.App.CORSOrigins)
	assert.Empty(t, config.Kafka.Brokers)
	assert.Equal(t, 300*time.Second, config.Redis.ProductCacheTTL)
	assert.Equal(t, "http://localhost:8080/api/v1/payment/callback", config.Payment.CallbackURL)
}

func TestLoadConfigWithoutFile(t *testing.T) {
	t.Setenv("PORT", "7070")

	config, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "7070", config.App.Port)
	assert.Equal(t, "paystack", config.Payment.Provider)
	assert.Equal(t, 6, config.OTP.Length)
}

func TestLoadConfigRejectsOTPLength(t *testing.T) {
	t.Setenv("OTP_LENGTH", "13")

	_, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTP_LENGTH")
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=customer seller"`
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	errs := ValidateStruct(signup{Email: "nope", Password: "123", Role: "admin"})
	require.Len(t, errs, 3)
	assert.Equal(t, "Invalid email format", errs["email"])
	assert.Equal(t, "Minimum value or length is 6", errs["password"])
	assert.Equal(t, "Must be one of: customer, seller", errs["role"])

	assert.Equal(t, "email: Invalid email format; password: Minimum value or length is 6; role: Must be one of: customer, seller",
		FormatValidationErrors(errs))

	assert.Nil(t, ValidateStruct(signup{Email: "ada@example.com", Password: "secret123"}))
}

func TestGenerateOTP(t *testing.T) {
	code, err := GenerateOTP(6)
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9]{6}$`, code)

	code, err = GenerateOTP(0)
	require.NoError(t, err)
	assert.Len(t, code, 6)
}

func TestGeneratePaymentReference(t *testing.T) {
	pattern := regexp.MustCompile(`^PAY-\d{8}-\d{6}-[0-9a-f]{8}$`)
	a, b := GeneratePaymentReference(), GeneratePaymentReference()
	assert.Regexp(t, pattern, a)
	assert.NotEqual(t, a, b)
}

func TestPaginationMath(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, 10))
	assert.Equal(t, 3, TotalPages(21, 10))
	assert.Equal(t, 0, Offset(0, 10))
	assert.Equal(t, 20, Offset(3, 10))

	assert.Equal(t, 5, QueryInt("5", 1, 0))
	assert.Equal(t, 1, QueryInt("-2", 1, 0))
	assert.Equal(t, 1, QueryInt("x", 1, 0))
	assert.Equal(t, 100, QueryInt("500", 10, 100))
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := InitLogger(AppConfig{Name: "shop", LogPath: dir})
	require.NoError(t, err)

	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "shop.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"shop"`)
}
