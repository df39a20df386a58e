package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"COINBASE_URL", "LEDGER_URL", "DATABASE_URL", "BASE_CURRENCY",
		"COINBASE_RETRY_MAX", "RATE_CACHE_TTL", "HTTP_PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg := Load()

	if cfg.CoinbaseURL != "https://api.coinbase.com/v2" {
		t.Errorf("CoinbaseURL = %q, want default", cfg.CoinbaseURL)
	}
	if cfg.BaseCurrency != "EUR" {
		t.Errorf("BaseCurrency = %q, want EUR", cfg.BaseCurrency)
	}
	if cfg.CoinbaseRetryMax != 3 {
		t.Errorf("CoinbaseRetryMax = %d, want 3", cfg.CoinbaseRetryMax)
	}
	if cfg.RateCacheTTL != 30*time.Second {
		t.Errorf("RateCacheTTL = %v, want 30s", cfg.RateCacheTTL)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COINBASE_URL", "http://localhost:9999/v2")
	t.Setenv("BASE_CURRENCY", "USD")
	t.Setenv("COINBASE_RETRY_MAX", "7")
	t.Setenv("RATE_WORKER_INTERVAL", "90s")

	cfg := Load()

	if cfg.CoinbaseURL != "http://localhost:9999/v2" {
		t.Errorf("CoinbaseURL = %q", cfg.CoinbaseURL)
	}
	if cfg.BaseCurrency != "USD" {
		t.Errorf("BaseCurrency = %q, want USD", cfg.BaseCurrency)
	}
	if cfg.CoinbaseRetryMax != 7 {
		t.Errorf("CoinbaseRetryMax = %d, want 7", cfg.CoinbaseRetryMax)
	}
	if cfg.RateWorkerInterval != 90*time.Second {
		t.Errorf("RateWorkerInterval = %v, want 90s", cfg.RateWorkerInterval)
	}
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("COINBASE_RETRY_MAX", "not-a-number")
	t.Setenv("RATE_CACHE_TTL", "soon")

	cfg := Load()

	if cfg.CoinbaseRetryMax != 3 {
		t.Errorf("CoinbaseRetryMax = %d, want default 3", cfg.CoinbaseRetryMax)
	}
	if cfg.RateCacheTTL != 30*time.Second {
		t.Errorf("RateCacheTTL = %v, want default 30s", cfg.RateCacheTTL)
	}
}
