package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "ticker-service/internal/infrastructure/config"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port string
	// Pair registry
	Pairs       []string
	PairsSource string
	DatabaseURL string
	// Upstream
	Provider          string
	PoloniexAPIBase   string
	PoloniexAPIKey    string
	PoloniexAPISecret string
	UpstreamTimeout   time.Duration
	// Refresh
	RefreshInterval time.Duration
	BackoffBase     time.Duration
	BackoffMax      time.Duration
	MaxStaleness    time.Duration
	// gRPC ticker feed
	GRPCAddr   string
	GRPCTarget string
	// Upstream call quota
	QuotaBackend  string
	QuotaLimit    int
	QuotaWindow   time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, def time.Duration) time.Duration {
	ms := atoiDef(os.Getenv(key), int(def/time.Millisecond))
	return time.Duration(ms) * time.Millisecond
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:               getEnv("ENV", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnv("PORT", infraconfig.DefaultHTTPPort),
		Pairs:             splitList(getEnv("PAIRS", infraconfig.DefaultPairs)),
		PairsSource:       getEnv("PAIRS_SOURCE", "env"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		Provider:          getEnv("PROVIDER", "fake"),
		PoloniexAPIBase:   getEnv("POLONIEX_API_BASE", "https://poloniex.com"),
		PoloniexAPIKey:    getEnv("POLONIEX_API_KEY", ""),
		PoloniexAPISecret: getEnv("POLONIEX_API_SECRET", ""),
		UpstreamTimeout:   durMS("UPSTREAM_TIMEOUT_MS", infraconfig.DefaultUpstreamTimeout),
		RefreshInterval:   durMS("REFRESH_INTERVAL_MS", infraconfig.DefaultRefreshInterval),
		BackoffBase:       durMS("BACKOFF_BASE_MS", infraconfig.DefaultBackoffBase),
		BackoffMax:        durMS("BACKOFF_MAX_MS", infraconfig.DefaultBackoffMax),
		MaxStaleness:      durMS("MAX_STALENESS_MS", infraconfig.DefaultMaxStaleness),
		GRPCAddr:          getEnv("GRPC_ADDR", ":9090"),
		GRPCTarget:        getEnv("GRPC_TARGET", "localhost:9090"),
		QuotaBackend:      getEnv("QUOTA_BACKEND", "none"),
		QuotaLimit:        atoiDef(getEnv("QUOTA_LIMIT", ""), infraconfig.DefaultQuotaLimit),
		QuotaWindow:       durMS("QUOTA_WINDOW_MS", infraconfig.DefaultQuotaWindow),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           atoiDef(getEnv("REDIS_DB", "0"), 0),
	}
}

// Validate rejects settings the refresher cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.RefreshInterval <= 0 {
		errs = append(errs, errors.New("REFRESH_INTERVAL_MS must be positive"))
	}
	if c.UpstreamTimeout <= 0 {
		errs = append(errs, errors.New("UPSTREAM_TIMEOUT_MS must be positive"))
	}
	if c.BackoffBase <= 0 {
		errs = append(errs, errors.New("BACKOFF_BASE_MS must be positive"))
	}
	if c.BackoffMax < c.BackoffBase {
		errs = append(errs, errors.New("BACKOFF_MAX_MS must not be below BACKOFF_BASE_MS"))
	}
	if c.MaxStaleness < 0 {
		errs = append(errs, errors.New("MAX_STALENESS_MS must not be negative"))
	}
	if c.PairsSource == "env" && len(c.Pairs) == 0 {
		errs = append(errs, errors.New("PAIRS must list at least one pair"))
	}
	if c.PairsSource == "pg" && c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required for PAIRS_SOURCE=pg"))
	}
	return errors.Join(errs...)
}
