package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StorageLocal    = "local"
	StorageSupabase = "supabase"

	CacheMemory = "memory"
	CacheRedis  = "redis"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Stripe    StripeConfig
	Referral  ReferralConfig
	Storage   StorageConfig
	Cache     CacheConfig
	Mail      MailConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Scheduler SchedulerConfig
}

// ServerConfig.WebDir holds the built web client; empty disables serving it.
type ServerConfig struct {
	Port        string `env:"PORT"         envDefault:"3000"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	WebDir      string `env:"WEB_DIR"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"postgres"`
	DSN    string `env:"DB_DSN"    envDefault:"host=localhost user=postgres password=postgres dbname=zamar port=5432 sslmode=disable"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	SuccessURL    string `env:"CHECKOUT_SUCCESS_URL" envDefault:"http://localhost:5173/checkout/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL     string `env:"CHECKOUT_CANCEL_URL"  envDefault:"http://localhost:5173/checkout/cancel"`
	Currency      string `env:"CURRENCY"             envDefault:"usd"`
}

// ReferralConfig rates are basis points (1000 = 10%).
type ReferralConfig struct {
	DirectBPS      int64  `env:"REFERRAL_DIRECT_BPS"      envDefault:"1000"`
	IndirectBPS    int64  `env:"REFERRAL_INDIRECT_BPS"    envDefault:"500"`
	ThresholdCents int64  `env:"REFERRAL_THRESHOLD_CENTS" envDefault:"2000"`
	ShareBaseURL   string `env:"REFERRAL_SHARE_URL"       envDefault:"http://localhost:5173/join"`
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER"       envDefault:"local"`
	UploadDir   string `env:"UPLOAD_DIR"           envDefault:"./uploads"`
	SupabaseURL string `env:"SUPABASE_URL"`
	SupabaseKey string `env:"SUPABASE_SERVICE_KEY"`
	Bucket      string `env:"SUPABASE_BUCKET"      envDefault:"media"`
}

type CacheConfig struct {
	Driver    string        `env:"CACHE_DRIVER"  envDefault:"memory"`
	Size      int           `env:"CACHE_SIZE"    envDefault:"512"`
	RedisAddr string        `env:"REDIS_ADDR"    envDefault:"localhost:6379"`
	Version   string        `env:"CACHE_VERSION" envDefault:"v1"`
	TTL       time.Duration `env:"CACHE_TTL"     envDefault:"168h"`
}

type MailConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"MAIL_FROM" envDefault:"Zamar <no-reply@zamar.local>"`
}

type LogConfig struct {
	Level      string `env:"LOG_LEVEL"        envDefault:"info"`
	Format     string `env:"LOG_FORMAT"       envDefault:"json"`
	File       string `env:"LOG_FILE"`
	MaxSizeMB  int    `env:"LOG_MAX_SIZE_MB"  envDefault:"50"`
	MaxBackups int    `env:"LOG_MAX_BACKUPS"  envDefault:"5"`
	MaxAgeDays int    `env:"LOG_MAX_AGE_DAYS" envDefault:"28"`
}

type RateLimitConfig struct {
	RPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"1"`
	Burst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`
}

type SchedulerConfig struct {
	Enabled         bool          `env:"SCHEDULER_ENABLED" envDefault:"true"`
	OrderPaymentTTL time.Duration `env:"ORDER_PAYMENT_TTL" envDefault:"24h"`
}

// Load reads .env (if any) and then the process environment, and validates
// the result for the API server.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse is Load without validation. Tools that only need the database use it.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.Storage.Driver {
	case StorageLocal:
	case StorageSupabase:
		if c.Storage.SupabaseURL == "" || c.Storage.SupabaseKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_SERVICE_KEY are required for supabase storage")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	switch c.Cache.Driver {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("unsupported CACHE_DRIVER %q", c.Cache.Driver)
	}
	r := c.Referral
	if r.DirectBPS < 0 || r.DirectBPS > 10000 || r.IndirectBPS < 0 || r.IndirectBPS > 10000 {
		return errors.New("referral rates must be between 0 and 10000 basis points")
	}
	if r.ThresholdCents < 0 {
		return errors.New("REFERRAL_THRESHOLD_CENTS must not be negative")
	}
	return nil
}

// AllowedOrigins splits CORS_ORIGINS the way fiber's cors middleware expects it.
func (s ServerConfig) AllowedOrigins() string {
	parts := strings.Split(s.CORSOrigins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return strings.Join(parts, ",")
}

// Helper function to get environment variable with fallback default value
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Helper function to get environment variable as integer with fallback
func GetEnvAsInt(key string, fallback int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return fallback
}
