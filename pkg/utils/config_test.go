package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	config, err := LoadConfig([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.App.Port != "8080" {
		t.Fatalf("App.Port = %q, want 8080", config.App.Port)
	}
	if config.Ledger.HoldTTL != 5*time.Minute {
		t.Fatalf("Ledger.HoldTTL = %v, want 5m", config.Ledger.HoldTTL)
	}
	if config.Ledger.SweepInterval != 5*time.Second {
		t.Fatalf("Ledger.SweepInterval = %v, want 5s", config.Ledger.SweepInterval)
	}
	if config.Ledger.MaxSeats != 5 {
		t.Fatalf("Ledger.MaxSeats = %d, want 5", config.Ledger.MaxSeats)
	}
	if config.Persist.RetryAttempts != 3 || config.Persist.RetryDelay != 200*time.Millisecond {
		t.Fatalf("Persist = %+v, want 3 attempts every 200ms", config.Persist)
	}
	if config.Queue.QueueName != "booking.confirmed" {
		t.Fatalf("Queue.QueueName = %q, want booking.confirmed", config.Queue.QueueName)
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := writeEnvFile(t, `APP_NAME=bus-test
PORT=9090
DB_HOST=db.internal
DB_NAME=bus
DB_MAX_CONNS=20
HOLD_TTL=2m
HOLD_SWEEP_INTERVAL=1s
REDIS_ADDR=cache:6379
RATE_LIMIT_CAPACITY=0
RATE_LIMIT_REFILL_INTERVAL=10s
RATE_LIMIT_TTL=1s
`)

	config, err := LoadConfig([]string{"--env-file", path})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if config.App.Name != "bus-test" || config.App.Port != "9090" {
		t.Fatalf("App = %+v, want bus-test on 9090", config.App)
	}
	if config.Database.Host != "db.internal" || config.Database.MaxConns != 20 {
		t.Fatalf("Database = %+v, want db.internal with 20 conns", config.Database)
	}
	if config.Ledger.HoldTTL != 2*time.Minute || config.Ledger.SweepInterval != time.Second {
		t.Fatalf("Ledger = %+v, want 2m ttl and 1s sweep", config.Ledger)
	}
	if config.Redis.Addr != "cache:6379" {
		t.Fatalf("Redis.Addr = %q, want cache:6379", config.Redis.Addr)
	}
	if config.RateLimit.Capacity != 1 {
		t.Fatalf("RateLimit.Capacity = %d, want clamped to 1", config.RateLimit.Capacity)
	}
	if config.RateLimit.TTL != 50*time.Second {
		t.Fatalf("RateLimit.TTL = %v, want raised to five refill intervals", config.RateLimit.TTL)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	path := writeEnvFile(t, "PORT=9090\nHOLD_MAX_SEATS=4\n")
	t.Setenv("HOLD_MAX_SEATS", "3")

	config, err := LoadConfig([]string{"--env-file", path, "--port", "7070"})
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if config.App.Port != "7070" {
		t.Fatalf("App.Port = %q, want flag value 7070", config.App.Port)
	}
	if config.Ledger.MaxSeats != 3 {
		t.Fatalf("Ledger.MaxSeats = %d, want environment value 3", config.Ledger.MaxSeats)
	}
}

func TestLoadConfigRejectsUnknownFlag(t *testing.T) {
	if _, err := LoadConfig([]string{"--nope"}); err == nil {
		t.Fatal("LoadConfig(--nope) error = nil, want error")
	}
}
