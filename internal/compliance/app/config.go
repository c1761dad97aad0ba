package app

import (
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	EncryptionKey string // Required: base64url-encoded 32-byte TIN encryption key

	DatabaseFile        string          // Optional: path to SQLite database file (default: ./compliance.db)
	ReportingThreshold  decimal.Decimal // Optional: annual reporting floor (default: 600.00)
	Env                 string          // Environment (dev, staging, prod) (default: dev)
	LogLevel            string          // Log level (debug, info, warn, error) (default: info)
	LogFormat           string          // Log format (json, text) (default: json)
	Port                int             // HTTP server port (default: 8080)
	ShutdownGracePeriod time.Duration   // Graceful shutdown timeout (default: 10s)
}

func LoadConfig() Config {
	cfg := Config{
		EncryptionKey:       os.Getenv("TIN_ENCRYPTION_KEY"),
		DatabaseFile:        getEnvOrDefault("COMPLIANCE_DATABASE_FILE", "compliance.db"),
		Env:                 getEnvOrDefault("ENV", "dev"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:           getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod: getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
	}

	// A malformed or negative threshold falls back to the service default.
	if raw := os.Getenv("REPORTING_THRESHOLD"); raw != "" {
		if threshold, err := decimal.NewFromString(raw); err == nil && threshold.IsPositive() {
			cfg.ReportingThreshold = threshold
		}
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Plain integers read as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
