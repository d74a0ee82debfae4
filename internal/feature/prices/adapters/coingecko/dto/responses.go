// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

// MarketChartResponse represents the JSON response from coins/{id}/market_chart.
// Each pair is [unix milliseconds, value].
type MarketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// CoinResponse represents the subset of coins/{id} used for the market snapshot.
type CoinResponse struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	LastUpdated string `json:"last_updated"`
	MarketData  struct {
		CurrentPrice             map[string]float64 `json:"current_price"`
		MarketCap                map[string]float64 `json:"market_cap"`
		TotalVolume              map[string]float64 `json:"total_volume"`
		PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	} `json:"market_data"`
}
