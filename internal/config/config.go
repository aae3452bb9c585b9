// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultJWTSecret = "farmdirect-dev-secret-change-in-production"

type Config struct {
	Environment string
	LogLevel    string
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Email       EmailConfig
	Outbox      OutboxConfig
	Storage     StorageConfig
	Identity    IdentityConfig
	Checkout    CheckoutConfig
	RateLimit   RateLimitConfig
	Frontend    FrontendConfig
	I18n        I18nConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Database     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
	LogLevel     string
}

type JWTConfig struct {
	SecretKey      string
	AccessTokenTTL int // in hours
	CustomerTTL    int // in hours
}

type EmailConfig struct {
	Enabled      bool
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// OutboxConfig tunes the background email dispatcher.
type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
	MaxAttempts  int
	BaseBackoff  time.Duration
}

type StorageConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	PublicBaseURL   string
	LocalDir        string
}

type IdentityConfig struct {
	UserInfoURL string
	Timeout     time.Duration
}

type CheckoutConfig struct {
	DeliveryFee    float64
	CurrencySymbol string
}

type RateLimitConfig struct {
	GeneralPerSecond float64
	GeneralBurst     int
	AuthPerMinute    int
}

type FrontendConfig struct {
	BaseURL        string
	AllowedOrigins []string
}

type I18nConfig struct {
	DefaultLocale string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	godotenv.Load()

	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Server: ServerConfig{
			Port:         getEnv("PORT", "3000"),
			Host:         getEnv("SERVER_HOST", "localhost"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 15),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 60),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", ""),
			Database:     getEnv("DB_NAME", "farmdirect"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 25),
			MaxLifetime:  getEnvAsInt("DB_MAX_LIFETIME", 300),
			LogLevel:     getEnv("DB_LOG_LEVEL", "warn"),
		},
		JWT: JWTConfig{
			SecretKey:      getEnv("JWT_SECRET", defaultJWTSecret),
			AccessTokenTTL: getEnvAsInt("JWT_ACCESS_TTL", 24),
			CustomerTTL:    getEnvAsInt("JWT_CUSTOMER_TTL", 12),
		},
		Email: EmailConfig{
			Enabled:      getEnvAsBool("EMAIL_ENABLED", false),
			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("EMAIL_USER", ""),
			SMTPPassword: getEnv("EMAIL_PASS", ""),
			FromEmail:    getEnv("FROM_EMAIL", "noreply@farmdirect.com"),
			FromName:     getEnv("FROM_NAME", "FarmDirect"),
		},
		Outbox: OutboxConfig{
			PollInterval: getEnvAsDuration("OUTBOX_POLL_INTERVAL", 5*time.Second),
			BatchSize:    getEnvAsInt("OUTBOX_BATCH_SIZE", 20),
			MaxAttempts:  getEnvAsInt("OUTBOX_MAX_ATTEMPTS", 6),
			BaseBackoff:  getEnvAsDuration("OUTBOX_BASE_BACKOFF", 30*time.Second),
		},
		Storage: StorageConfig{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			S3Bucket:        getEnv("AWS_S3_BUCKET", "farmdirect-images"),
			PublicBaseURL:   getEnv("STORAGE_PUBLIC_URL", ""),
			LocalDir:        getEnv("UPLOAD_DIR", "./uploads"),
		},
		Identity: IdentityConfig{
			UserInfoURL: getEnv("GOOGLE_USERINFO_URL", "https://www.googleapis.com/oauth2/v3/userinfo"),
			Timeout:     getEnvAsDuration("IDENTITY_TIMEOUT", 10*time.Second),
		},
		Checkout: CheckoutConfig{
			DeliveryFee:    getEnvAsFloat("DELIVERY_FEE", 50),
			CurrencySymbol: getEnv("CURRENCY_SYMBOL", "₹"),
		},
		RateLimit: RateLimitConfig{
			GeneralPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 10),
			GeneralBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
			AuthPerMinute:    getEnvAsInt("RATE_LIMIT_AUTH_PER_MINUTE", 10),
		},
		Frontend: FrontendConfig{
			BaseURL:        getEnv("FRONTEND_URL", "http://localhost:5173"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		},
		I18n: I18nConfig{
			DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),
		},
	}

	return config, config.Validate()
}

func (c *Config) Validate() error {
	if c.IsProduction() {
		if c.JWT.SecretKey == defaultJWTSecret {
			return fmt.Errorf("JWT secret key must be changed in production")
		}
		if c.Database.Password == "" {
			return fmt.Errorf("database password is required in production")
		}
	}

	if c.Outbox.PollInterval <= 0 || c.Outbox.BaseBackoff <= 0 {
		return fmt.Errorf("outbox poll interval and backoff must be positive")
	}
	if c.Outbox.BatchSize <= 0 || c.Outbox.MaxAttempts <= 0 {
		return fmt.Errorf("outbox batch size and max attempts must be positive")
	}
	if c.Checkout.DeliveryFee < 0 {
		return fmt.Errorf("delivery fee cannot be negative")
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(strings.ToLower(value)); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
