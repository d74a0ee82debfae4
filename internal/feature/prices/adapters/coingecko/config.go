// Package coingecko fetches Bitcoin prices and market data from the CoinGecko API.
package coingecko

import (
	"os"
	"strings"
	"time"
)

// API plans and their key headers.
const (
	PlanDemo = "demo"
	PlanPro  = "pro"

	headerDemoKey = "x-cg-demo-api-key"
	headerProKey  = "x-cg-pro-api-key"

	defaultDemoURL = "https://api.coingecko.com/api/v3"
	defaultProURL  = "https://pro-api.coingecko.com/api/v3"
)

// Config holds configuration for the CoinGecko API client.
type Config struct {
	APIKey            string        // optional; the public API works without one at a lower rate
	Plan              string        // demo (default) or pro, selects header and base URL
	BaseURL           string        // overrides the plan default
	Timeout           time.Duration // HTTP request timeout
	RequestsPerSecond float64
}

// LoadConfig loads CoinGecko configuration from environment variables.
func LoadConfig() Config {
	cfg := Config{
		APIKey:            os.Getenv("COINGECKO_API_KEY"),
		Plan:              strings.ToLower(os.Getenv("COINGECKO_API_PLAN")),
		BaseURL:           os.Getenv("COINGECKO_BASE_URL"),
		Timeout:           10 * time.Second,
		RequestsPerSecond: 0.5,
	}
	if cfg.Plan != PlanPro {
		cfg.Plan = PlanDemo
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultDemoURL
		if cfg.Plan == PlanPro {
			cfg.BaseURL = defaultProURL
		}
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

// keyHeader returns the header name carrying the API key for the plan.
func (c Config) keyHeader() string {
	if c.Plan == PlanPro {
		return headerProKey
	}
	return headerDemoKey
}
