package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Queue     QueueConfig
	Ledger    LedgerConfig
	Persist   PersistConfig
	Session   SessionConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string
	Prefix         string
}

type QueueConfig struct {
	URL       string
	QueueName string
}

type LedgerConfig struct {
	HoldTTL       time.Duration
	SweepInterval time.Duration
	MaxSeats      int
	LayoutFile    string
}

type PersistConfig struct {
	RetryAttempts int
	RetryDelay    time.Duration
}

type SessionConfig struct {
	ExpiryHours int
}

// LoadConfig reads settings from the env file named by --env-file (optional)
// and the process environment. Environment variables win over the file.
func LoadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("bus-booking", pflag.ContinueOnError)
	envFile := fs.String("env-file", ".env", "path to the env file")
	fs.String("port", "8080", "HTTP listen port")
	fs.Bool("debug", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if err := v.BindPFlag("PORT", fs.Lookup("port")); err != nil {
		return nil, fmt.Errorf("bind port flag: %w", err)
	}
	if err := v.BindPFlag("DEBUG", fs.Lookup("debug")); err != nil {
		return nil, fmt.Errorf("bind debug flag: %w", err)
	}

	if _, err := os.Stat(*envFile); err == nil {
		v.SetConfigFile(*envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read env file %s: %w", *envFile, err)
		}
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASS"),
			MaxConns: v.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TLS:      v.GetBool("REDIS_TLS"),
		},
		RateLimit: RateLimitConfig{
			Enabled:        v.GetBool("RATE_LIMIT_ENABLED"),
			Capacity:       v.GetInt("RATE_LIMIT_CAPACITY"),
			RefillTokens:   v.GetInt("RATE_LIMIT_REFILL_TOKENS"),
			RefillInterval: v.GetDuration("RATE_LIMIT_REFILL_INTERVAL"),
			TTL:            v.GetDuration("RATE_LIMIT_TTL"),
			KeyStrategy:    v.GetString("RATE_LIMIT_KEY_STRATEGY"),
			Prefix:         v.GetString("RATE_LIMIT_PREFIX"),
		},
		Queue: QueueConfig{
			URL:       v.GetString("RABBITMQ_URL"),
			QueueName: v.GetString("RABBITMQ_QUEUE"),
		},
		Ledger: LedgerConfig{
			HoldTTL:       v.GetDuration("HOLD_TTL"),
			SweepInterval: v.GetDuration("HOLD_SWEEP_INTERVAL"),
			MaxSeats:      v.GetInt("HOLD_MAX_SEATS"),
			LayoutFile:    v.GetString("SEAT_LAYOUT_FILE"),
		},
		Persist: PersistConfig{
			RetryAttempts: v.GetInt("PERSIST_RETRY_ATTEMPTS"),
			RetryDelay:    v.GetDuration("PERSIST_RETRY_DELAY"),
		},
		Session: SessionConfig{
			ExpiryHours: v.GetInt("SESSION_EXPIRY_HOURS"),
		},
	}

	config.RateLimit.normalize()
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "bus-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("RATE_LIMIT_ENABLED", true)
	v.SetDefault("RATE_LIMIT_CAPACITY", 10)
	v.SetDefault("RATE_LIMIT_REFILL_TOKENS", 1)
	v.SetDefault("RATE_LIMIT_REFILL_INTERVAL", 6*time.Second)
	v.SetDefault("RATE_LIMIT_TTL", 10*time.Minute)
	v.SetDefault("RATE_LIMIT_KEY_STRATEGY", "user_route")
	v.SetDefault("RATE_LIMIT_PREFIX", "rl")
	v.SetDefault("RABBITMQ_QUEUE", "booking.confirmed")
	v.SetDefault("HOLD_TTL", 5*time.Minute)
	v.SetDefault("HOLD_SWEEP_INTERVAL", 5*time.Second)
	v.SetDefault("HOLD_MAX_SEATS", 5)
	v.SetDefault("SEAT_LAYOUT_FILE", "configs/layouts.yaml")
	v.SetDefault("PERSIST_RETRY_ATTEMPTS", 3)
	v.SetDefault("PERSIST_RETRY_DELAY", 200*time.Millisecond)
	v.SetDefault("SESSION_EXPIRY_HOURS", 24)
}

func (c *RateLimitConfig) normalize() {
	if c.Capacity < 1 {
		c.Capacity = 1
	}
	if c.RefillTokens < 1 {
		c.RefillTokens = 1
	}
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
		c.TTL = minTTL
	}
}
