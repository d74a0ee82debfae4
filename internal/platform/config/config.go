// Package config loads application level settings from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds the server and analysis defaults.
type Config struct {
	Port            string
	GinMode         string
	ShutdownTimeout time.Duration

	DefaultDays       int           // history window when the client omits days
	MaxDays           int           // upper bound accepted for days
	CorrelationWindow int           // default rolling correlation window
	VolatilityWindow  int           // rolling volatility window on the overview
	PriceMaxAge       time.Duration // stored history older than this is refreshed
	CorrelationAssets []string      // assets compared against BTC by default
	CorrelationFocus  string        // asset used for the rolling correlation chart
	CorrelationFanOut int           // concurrent upstream fetches per correlation request
	CacheTTL          time.Duration

	NetworkDifficulty float64 // 0 keeps the calculator default
	BlockReward       float64

	IngestDays     int
	IngestLimit    int           // upstream calls allowed per IngestInterval
	IngestInterval time.Duration
}

// LoadDotEnv loads .env when present. A missing file is not an error.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg(".env file not found, relying on actual environment variables")
	}
}

// Load reads the configuration from the environment, applying defaults.
func Load() Config {
	return Config{
		Port:            GetString("PORT", "8080"),
		GinMode:         GetString("GIN_MODE", "release"),
		ShutdownTimeout: GetDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		DefaultDays:       GetInt("DEFAULT_DAYS", 30),
		MaxDays:           GetInt("MAX_DAYS", 365),
		CorrelationWindow: GetInt("CORRELATION_WINDOW", 30),
		VolatilityWindow:  GetInt("VOLATILITY_WINDOW", 7),
		PriceMaxAge:       GetDuration("PRICE_MAX_AGE", 24*time.Hour),
		CorrelationAssets: GetList("CORRELATION_ASSETS", []string{"SPX", "GLD", "QQQ", "TLT"}),
		CorrelationFocus:  GetString("CORRELATION_FOCUS", "SPX"),
		CorrelationFanOut: GetInt("CORRELATION_CONCURRENCY", 4),
		CacheTTL:          GetDuration("CACHE_TTL", 5*time.Minute),

		NetworkDifficulty: GetFloat("NETWORK_DIFFICULTY", 0),
		BlockReward:       GetFloat("BLOCK_REWARD", 0),

		IngestDays:     GetInt("INGEST_DAYS", 365),
		IngestLimit:    GetInt("INGEST_RATE_LIMIT", 8),
		IngestInterval: GetDuration("INGEST_RATE_INTERVAL", time.Minute),
	}
}

// GetString returns the value of key or def when unset.
func GetString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetInt returns key parsed as an int, or def when unset or invalid.
func GetInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
	}
	return def
}

// GetFloat returns key parsed as a float64, or def when unset or invalid.
func GetFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		log.Warn().Str("key", key).Str("value", v).Msg("invalid float, using default")
	}
	return def
}

// GetBool returns key parsed as a bool, or def when unset or invalid.
func GetBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// GetDuration accepts Go duration strings ("30s") or a bare number of seconds.
func GetDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
	return def
}

// GetList splits a comma separated value, upper-casing and dropping blanks.
func GetList(key string, def []string) []string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.ToUpper(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
