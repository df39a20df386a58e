package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CoinbaseURL            string
	LedgerURL              string
	DatabaseURL            string
	BaseCurrency           string
	CoinbaseRetryMax       int
	CoinbaseRetryBaseDelay time.Duration
	RateCacheTTL           time.Duration
	RateWorkerInterval     time.Duration
	SnapshotWorkerInterval time.Duration
	HTTPPort               string
	AdminAPIKey            string
	SheetsSpreadsheetID    string
	GoogleCredentialsJSON  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		CoinbaseURL:            envOrDefault("COINBASE_URL", "https://api.coinbase.com/v2"),
		LedgerURL:              envOrDefault("LEDGER_URL", ""),
		DatabaseURL:            envOrDefault("DATABASE_URL", ""),
		BaseCurrency:           envOrDefault("BASE_CURRENCY", "EUR"),
		CoinbaseRetryMax:       envOrDefaultInt("COINBASE_RETRY_MAX", 3),
		CoinbaseRetryBaseDelay: envOrDefaultDuration("COINBASE_RETRY_BASE_DELAY", 2*time.Second),
		RateCacheTTL:           envOrDefaultDuration("RATE_CACHE_TTL", 30*time.Second),
		RateWorkerInterval:     envOrDefaultDuration("RATE_WORKER_INTERVAL", 5*time.Minute),
		SnapshotWorkerInterval: envOrDefaultDuration("SNAPSHOT_WORKER_INTERVAL", 24*time.Hour),
		HTTPPort:               envOrDefault("HTTP_PORT", "8080"),
		AdminAPIKey:            envOrDefault("ADMIN_API_KEY", ""),
		SheetsSpreadsheetID:    envOrDefault("SHEETS_SPREADSHEET_ID", ""),
		GoogleCredentialsJSON:  envOrDefault("GOOGLE_CREDENTIALS_JSON", ""),
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envOrDefaultInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return n
	}
	return defaultVal
}

func envOrDefaultDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", defaultVal)
			return defaultVal
		}
		return d
	}
	return defaultVal
}
