package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Email    EmailConfig
	OTP      OTPConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Payment  PaymentConfig
	Kafka    KafkaConfig
}

type AppConfig struct {
	Name          string
	Port          string
	Debug         bool
	LogPath       string
	PublicBaseURL string
	CORSOrigins   []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

const (
	MinOTPLength = 4
	MaxOTPLength = 12
)

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

type RedisConfig struct {
	Addr               string
	Password           string
	DB                 int
	ProductCacheTTL    time.Duration
	RateLimitPerMinute int
}

type StorageConfig struct {
	Driver         string // local | minio
	UploadDir      string
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
}

type PaymentConfig struct {
	Provider            string // paystack | stripe
	Currency            string
	CallbackURL         string
	Timeout             time.Duration
	PaystackSecretKey   string
	PaystackBaseURL     string
	StripeSecretKey     string
	StripeWebhookSecret string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

func LoadConfig() (*Config, error) {
	return LoadConfigFrom(".env")
}

// LoadConfigFrom reads the given env file when it exists; process
// environment variables always win.
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "ecommerce-backend")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("JWT_EXPIRY_HOURS", 24)
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("EMAIL_FROM", "no-reply@example.com")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("PRODUCT_CACHE_TTL_SECONDS", 300)
	v.SetDefault("RATE_LIMIT_PER_MINUTE", 10)
	v.SetDefault("STORAGE_DRIVER", "local")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("MINIO_BUCKET", "product-images")
	v.SetDefault("PAYMENT_PROVIDER", "paystack")
	v.SetDefault("PAYMENT_CURRENCY", "NGN")
	v.SetDefault("PAYMENT_TIMEOUT_SECONDS", 15)
	v.SetDefault("PAYSTACK_BASE_URL", "https://api.paystack.co")
	v.SetDefault("KAFKA_TOPIC", "shop.events")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *fs.PathError
		if !errors.As(err, &pathErr) {
			return nil, err
		}
		// no .env file, environment only
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:          v.GetString("APP_NAME"),
			Port:          v.GetString("PORT"),
			Debug:         v.GetBool("DEBUG"),
			LogPath:       v.GetString("LOG_PATH"),
			PublicBaseURL: strings.TrimRight(v.GetString("PUBLIC_BASE_URL"), "/"),
			CORSOrigins:   splitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("EMAIL_FROM"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Redis: RedisConfig{
			Addr:               v.GetString("REDIS_ADDR"),
			Password:           v.GetString("REDIS_PASSWORD"),
			DB:                 v.GetInt("REDIS_DB"),
			ProductCacheTTL:    time.Duration(v.GetInt("PRODUCT_CACHE_TTL_SECONDS")) * time.Second,
			RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),
		},
		Storage: StorageConfig{
			Driver:         v.GetString("STORAGE_DRIVER"),
			UploadDir:      v.GetString("UPLOAD_DIR"),
			MinioEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinioAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinioSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinioBucket:    v.GetString("MINIO_BUCKET"),
			MinioUseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		Payment: PaymentConfig{
			Provider:            strings.ToLower(v.GetString("PAYMENT_PROVIDER")),
			Currency:            strings.ToUpper(v.GetString("PAYMENT_CURRENCY")),
			CallbackURL:         v.GetString("PAYMENT_CALLBACK_URL"),
			Timeout:             time.Duration(v.GetInt("PAYMENT_TIMEOUT_SECONDS")) * time.Second,
			PaystackSecretKey:   v.GetString("PAYSTACK_SECRET_KEY"),
			PaystackBaseURL:     strings.TrimRight(v.GetString("PAYSTACK_BASE_URL"), "/"),
			StripeSecretKey:     v.GetString("STRIPE_SECRET_KEY"),
			StripeWebhookSecret: v.GetString("STRIPE_WEBHOOK_SECRET"),
		},
		Kafka: KafkaConfig{
			Brokers: splitList(v.GetString("KAFKA_BROKERS")),
			Topic:   v.GetString("KAFKA_TOPIC"),
		},
	}

	// reset codes are stored in users.reset_code VARCHAR(12)
	if config.OTP.Length < MinOTPLength || config.OTP.Length > MaxOTPLength {
		return nil, fmt.Errorf("OTP_LENGTH must be between %d and %d, got %d", MinOTPLength, MaxOTPLength, config.OTP.Length)
	}

	if config.Payment.CallbackURL == "" {
		config.Payment.CallbackURL = config.App.PublicBaseURL + "/api/v1/payment/callback"
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
