package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EmailProviderNone       = "none"
	EmailProviderSMTP       = "smtp"
	EmailProviderMailerSend = "mailersend"
)

type Config struct {
	Addr                 string
	Environment          string
	DatabaseURL          string
	JWTSecret            string
	JWTTTL               time.Duration
	MigrationsDir        string
	RunMigrations        bool
	RunSeed              bool
	SeedAdminUsername    string
	SeedAdminEmail       string
	SeedAdminPassword    string
	SeedEmployeeUsername string
	SeedEmployeeEmail    string
	SeedEmployeePassword string
	RequireAuth          bool
	VerificationRequired bool
	TokenTTLHours        int
	TokenCleanupInterval time.Duration
	AppBaseURL           string
	EmailProvider        string
	EmailFrom            string
	SMTPHost             string
	SMTPPort             int
	SMTPUser             string
	SMTPPassword         string
	MailerSendAPIKey     string
	CORSAllowedOrigins   []string
	MaxBodyBytes         int64
	RateLimitPerMinute   int
	MetricsEnabled       bool
	LogLevel             string
}

func Load() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return Config{
		Addr:                 getEnv("APP_ADDR", ":8080"),
		Environment:          getEnv("APP_ENV", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		JWTSecret:            getEnv("JWT_SECRET", ""),
		JWTTTL:               getEnvDuration("JWT_TTL", 8*time.Hour),
		MigrationsDir:        getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:        getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:              getEnvBool("RUN_SEED", true),
		SeedAdminUsername:    getEnv("SEED_ADMIN_USERNAME", "admin"),
		SeedAdminEmail:       getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPassword:    getEnv("SEED_ADMIN_PASSWORD", ""),
		SeedEmployeeUsername: getEnv("SEED_EMPLOYEE_USERNAME", ""),
		SeedEmployeeEmail:    getEnv("SEED_EMPLOYEE_EMAIL", ""),
		SeedEmployeePassword: getEnv("SEED_EMPLOYEE_PASSWORD", ""),
		RequireAuth:          getEnvBool("REQUIRE_AUTH", true),
		VerificationRequired: getEnvBool("VERIFICATION_REQUIRED", false),
		TokenTTLHours:        getEnvInt("TOKEN_TTL_HOURS", 24),
		TokenCleanupInterval: getEnvDuration("TOKEN_CLEANUP_INTERVAL", time.Hour),
		AppBaseURL:           getEnv("APP_BASE_URL", "http://localhost:3000"),
		EmailProvider:        strings.ToLower(getEnv("EMAIL_PROVIDER", EmailProviderNone)),
		EmailFrom:            getEnv("EMAIL_FROM", "no-reply@empsync.local"),
		SMTPHost:             getEnv("SMTP_HOST", ""),
		SMTPPort:             getEnvInt("SMTP_PORT", 587),
		SMTPUser:             getEnv("SMTP_USER", ""),
		SMTPPassword:         getEnv("SMTP_PASSWORD", ""),
		MailerSendAPIKey:     getEnv("MAILERSEND_API_KEY", ""),
		CORSAllowedOrigins:   getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		MaxBodyBytes:         int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RateLimitPerMinute:   getEnvInt("RATE_LIMIT_PER_MINUTE", 120),
		MetricsEnabled:       getEnvBool("METRICS_ENABLED", true),
		LogLevel:             getEnv("LOG_LEVEL", "info"),
	}
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
	}
	if c.IsProduction() && c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
		return fmt.Errorf("SEED_ADMIN_PASSWORD must be set or RUN_SEED disabled in production")
	}
	if c.TokenTTLHours <= 0 {
		return fmt.Errorf("TOKEN_TTL_HOURS must be positive")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	switch c.EmailProvider {
	case EmailProviderNone, "":
	case EmailProviderSMTP:
		if c.SMTPHost == "" {
			return fmt.Errorf("SMTP_HOST must be set when EMAIL_PROVIDER is smtp")
		}
	case EmailProviderMailerSend:
		if c.MailerSendAPIKey == "" {
			return fmt.Errorf("MAILERSEND_API_KEY must be set when EMAIL_PROVIDER is mailersend")
		}
	default:
		return fmt.Errorf("EMAIL_PROVIDER must be one of none, smtp, mailersend")
	}
	return nil
}
