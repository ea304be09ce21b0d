package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr      string
	LogLevel  string
	LogFormat string

	// WizardEntryPath is where wizard links point.
	WizardEntryPath string
	// ReferenceDataPath overrides the embedded authority table when set.
	ReferenceDataPath string
	// RuleSetDir overrides the embedded rule sets when set.
	RuleSetDir string

	Redis     RedisConfig
	Postgres  PostgresConfig
	Dashboard DashboardConfig
}

// RedisConfig configures the filename counter store. An empty URL selects
// the in-memory counter.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// PostgresConfig configures the order lookup store. An empty DSN selects the
// in-memory store.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DashboardConfig points the dashboard aggregator at the case service.
type DashboardConfig struct {
	BaseURL string
	Timeout time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. A .env file in the working directory is loaded first when present;
// variables already set in the environment win.
func FromEnv() (Server, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Server{}, fmt.Errorf("load .env: %w", err)
	}

	var errs []error
	cfg := Server{
		Addr:              envOr("LETWISE_ADDR", ":8080"),
		LogLevel:          envOr("LETWISE_LOG_LEVEL", "info"),
		LogFormat:         envOr("LETWISE_LOG_FORMAT", "json"),
		WizardEntryPath:   envOr("LETWISE_WIZARD_PATH", "/wizard"),
		ReferenceDataPath: os.Getenv("LETWISE_REFERENCE_DATA"),
		RuleSetDir:        os.Getenv("LETWISE_RULESET_DIR"),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10, &errs),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2, &errs),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second, &errs),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second, &errs),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second, &errs),
		},
		Postgres: PostgresConfig{
			DSN:             os.Getenv("DATABASE_URL"),
			MaxOpenConns:    envInt("DATABASE_MAX_OPEN_CONNS", 10, &errs),
			MaxIdleConns:    envInt("DATABASE_MAX_IDLE_CONNS", 5, &errs),
			ConnMaxLifetime: envDuration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute, &errs),
		},
		Dashboard: DashboardConfig{
			BaseURL: strings.TrimRight(os.Getenv("LETWISE_DASHBOARD_UPSTREAM"), "/"),
			Timeout: envDuration("LETWISE_DASHBOARD_TIMEOUT", 5*time.Second, &errs),
		},
	}
	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int, errs *[]error) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a non-negative integer, got %q", key, raw))
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration, errs *[]error) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		*errs = append(*errs, fmt.Errorf("%s: expected a duration, got %q", key, raw))
		return fallback
	}
	return d
}
