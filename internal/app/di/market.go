// Package di provides dependency injection factories for creating application components.
package di

import (
	"mining_analytics/internal/feature/prices/adapters"
	"mining_analytics/internal/feature/prices/adapters/coingecko"
	"mining_analytics/internal/feature/prices/adapters/twelvedata"
	infrahttp "mining_analytics/internal/platform/http"
	"mining_analytics/internal/platform/metrics"
	"mining_analytics/internal/shared/market"
)

// NewCoinGecko creates a CoinGeckoMarket with its own rate limited client.
func NewCoinGecko(m *metrics.Metrics) *coingecko.CoinGeckoMarket {
	cfg := coingecko.LoadConfig()
	client := infrahttp.NewClient(infrahttp.ClientOptions{
		Name:              market.SourceCoinGecko,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, m)
	return coingecko.NewCoinGeckoMarket(cfg, client)
}

// NewTwelveData creates a TwelveDataMarket with its own rate limited client.
func NewTwelveData(m *metrics.Metrics) *twelvedata.TwelveDataMarket {
	cfg := twelvedata.LoadConfig()
	client := infrahttp.NewClient(infrahttp.ClientOptions{
		Name:              market.SourceTwelveData,
		Timeout:           cfg.Timeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, m)
	return twelvedata.NewTwelveDataMarket(cfg, client)
}

// NewMarket routes every registered asset source to its provider.
func NewMarket(m *metrics.Metrics) *adapters.SourceRouter {
	return adapters.NewSourceRouter().
		Register(market.SourceCoinGecko, NewCoinGecko(m)).
		Register(market.SourceTwelveData, NewTwelveData(m))
}
