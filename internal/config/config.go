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

// Config holds all runtime configuration for the platform service.
type Config struct {
	Environment string
	Port        string
	LogLevel    slog.Level

	DatabaseURL string
	RedisURL    string

	JWT   JWTConfig
	Kafka KafkaConfig

	// Path to the role -> permissions policy document. Empty means the
	// built-in default policy is used.
	PolicyFile string

	// When true, registration performs the legacy sequential email/username
	// pre-checks before the insert. The unique indexes remain the source of
	// truth either way; the pre-check only narrows the race window.
	UniquePrecheck bool

	// Bcrypt cost for password hashing.
	BcryptCost int
}

// JWTConfig holds the token codec configuration.
type JWTConfig struct {
	Secret            string
	AccessTokenTTL    time.Duration
	RefreshTokenTTL   time.Duration
	ResetTokenTTL     time.Duration
	VerifyEmailTTL    time.Duration
}

// KafkaConfig holds the event publisher configuration.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadConfig loads configuration from .env file (if present) and environment variables.
func LoadConfig() (*Config, error) {
	// .env is optional; environment variables win
	_ = godotenv.Load()

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        getEnv("PORT", "8080"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),
		JWT: JWTConfig{
			Secret:          getEnv("JWT_SECRET", ""),
			AccessTokenTTL:  getDurationEnv("JWT_ACCESS_TTL", 7*24*time.Hour),
			RefreshTokenTTL: getDurationEnv("JWT_REFRESH_TTL", 30*24*time.Hour),
			ResetTokenTTL:   getDurationEnv("JWT_RESET_TTL", 30*time.Minute),
			VerifyEmailTTL:  getDurationEnv("JWT_VERIFY_EMAIL_TTL", 24*time.Hour),
		},
		Kafka: KafkaConfig{
			Brokers: splitEnv("KAFKA_BROKERS"),
			Topic:   getEnv("KAFKA_EVENTS_TOPIC", "platform.identity.events"),
		},
		PolicyFile:     getEnv("ROLE_POLICY_FILE", ""),
		UniquePrecheck: getBoolEnv("UNIQUE_PRECHECK", false),
		BcryptCost:     getIntEnv("BCRYPT_COST", 10),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

// IsProduction reports whether the service runs in production mode.
// In production, error responses never carry internal details.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getIntEnv(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitEnv(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
