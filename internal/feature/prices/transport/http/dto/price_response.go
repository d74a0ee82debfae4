// Package dto はpricesフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"time"

	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
	"mining_analytics/internal/shared/numeric"
)

// DateLayout は日次データの日付表記です。
const DateLayout = "2006-01-02"

// AssetResponse は登録済み資産1件を表します。
type AssetResponse struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Source string `json:"source"`
}

// PricePointResponse は日次価格1点を表します。
type PricePointResponse struct {
	Time   string   `json:"time"`
	Price  float64  `json:"price"`
	Volume *float64 `json:"volume,omitempty"`
}

// PriceHistoryResponse は GET /api/prices/:asset のレスポンスです。
type PriceHistoryResponse struct {
	Asset  string               `json:"asset"`
	Days   int                  `json:"days"`
	Points []PricePointResponse `json:"points"`
}

// SeriesPointResponse は指標系列の1点です。未定義の位置は null になります。
type SeriesPointResponse struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// SnapshotResponse はCoinGeckoのライブ市場データです。
type SnapshotResponse struct {
	PriceUSD          float64 `json:"price_usd"`
	MarketCapUSD      float64 `json:"market_cap_usd"`
	TotalVolumeUSD    float64 `json:"total_volume_usd"`
	PriceChange24hPct float64 `json:"price_change_24h_pct"`
	LastUpdated       string  `json:"last_updated,omitempty"`
}

// RiskResponse はリスク指標です。
type RiskResponse struct {
	ValueAtRisk95Pct        *float64 `json:"value_at_risk_95_pct"`
	MaxDrawdownPct          *float64 `json:"max_drawdown_pct"`
	AnnualizedReturnPct     *float64 `json:"annualized_return_pct"`
	AnnualizedVolatilityPct *float64 `json:"annualized_volatility_pct"`
	SharpeRatio             *float64 `json:"sharpe_ratio"`
}

// StatsResponse は期間中の価格統計です。
type StatsResponse struct {
	Mean   float64  `json:"mean"`
	High   float64  `json:"high"`
	Low    float64  `json:"low"`
	StdDev *float64 `json:"std_dev"`
}

// OverviewResponse は GET /api/overview のレスポンスです。
type OverviewResponse struct {
	Asset            string                `json:"asset"`
	Days             int                   `json:"days"`
	CurrentPrice     float64               `json:"current_price"`
	Change24hPct     *float64              `json:"change_24h_pct"`
	PeriodHigh       float64               `json:"period_high"`
	Stats            StatsResponse         `json:"stats"`
	RollingVolPct    *float64              `json:"rolling_volatility_pct"`
	Risk             *RiskResponse         `json:"risk"`
	Snapshot         *SnapshotResponse     `json:"snapshot,omitempty"`
	Prices           []PricePointResponse  `json:"prices"`
	MovingAverage    []SeriesPointResponse `json:"moving_average"`
	VolatilitySeries []SeriesPointResponse `json:"volatility"`
}

// ToAssetResponses は資産一覧をDTOに変換します。
func ToAssetResponses(assets []market.Asset) []AssetResponse {
	out := make([]AssetResponse, 0, len(assets))
	for _, a := range assets {
		out = append(out, AssetResponse{Code: a.Code, Name: a.Name, Source: a.Source})
	}
	return out
}

// ToPricePoints は価格系列をDTOに変換します。
func ToPricePoints(points []market.PricePoint) []PricePointResponse {
	out := make([]PricePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, PricePointResponse{
			Time:   p.Time.UTC().Format(DateLayout),
			Price:  numeric.Round(p.Price, numeric.PlacesUSD),
			Volume: numeric.RoundPtr(p.Volume, numeric.PlacesUSD),
		})
	}
	return out
}

// ToSeries は指標系列をDTOに変換します。
func ToSeries(r indicator.Result, places int32) []SeriesPointResponse {
	out := make([]SeriesPointResponse, 0, len(r.Points))
	for _, p := range r.Points {
		out = append(out, SeriesPointResponse{
			Time:  p.Time.UTC().Format(DateLayout),
			Value: numeric.Nullable(p.Value, places),
		})
	}
	return out
}

// ToRiskResponse はリスク指標をDTOに変換します。nil はそのまま nil です。
func ToRiskResponse(r *indicator.Risk) *RiskResponse {
	if r == nil {
		return nil
	}
	return &RiskResponse{
		ValueAtRisk95Pct:        numeric.Nullable(r.ValueAtRisk95, numeric.PlacesPercent),
		MaxDrawdownPct:          numeric.Nullable(r.MaxDrawdown, numeric.PlacesPercent),
		AnnualizedReturnPct:     numeric.Nullable(r.AnnualizedReturn, numeric.PlacesPercent),
		AnnualizedVolatilityPct: numeric.Nullable(r.AnnualizedVolatility, numeric.PlacesPercent),
		SharpeRatio:             numeric.Nullable(r.SharpeRatio, numeric.PlacesRatio),
	}
}

// ToOverviewResponse は概要指標をDTOに変換します。
func ToOverviewResponse(ov usecase.Overview) OverviewResponse {
	resp := OverviewResponse{
		Asset:        ov.Asset.Code,
		Days:         ov.Days,
		CurrentPrice: numeric.Round(ov.CurrentPrice, numeric.PlacesUSD),
		Change24hPct: numeric.RoundPtr(ov.Change24hPct, numeric.PlacesPercent),
		PeriodHigh:   numeric.Round(ov.PeriodHigh, numeric.PlacesUSD),
		Stats: StatsResponse{
			Mean:   numeric.Round(ov.Summary.Mean, numeric.PlacesUSD),
			High:   numeric.Round(ov.Summary.High, numeric.PlacesUSD),
			Low:    numeric.Round(ov.Summary.Low, numeric.PlacesUSD),
			StdDev: numeric.Nullable(ov.Summary.StdDev, numeric.PlacesUSD),
		},
		RollingVolPct:    numeric.RoundPtr(ov.LatestVol, numeric.PlacesPercent),
		Risk:             ToRiskResponse(ov.Risk),
		Prices:           ToPricePoints(ov.Prices),
		MovingAverage:    ToSeries(ov.MovingAvg, numeric.PlacesUSD),
		VolatilitySeries: ToSeries(ov.Volatility, numeric.PlacesPercent),
	}
	if s := ov.Snapshot; s != nil {
		snap := &SnapshotResponse{
			PriceUSD:          numeric.Round(s.PriceUSD, numeric.PlacesUSD),
			MarketCapUSD:      numeric.Round(s.MarketCapUSD, numeric.PlacesUSD),
			TotalVolumeUSD:    numeric.Round(s.TotalVolumeUSD, numeric.PlacesUSD),
			PriceChange24hPct: numeric.Round(s.PriceChange24hPct, numeric.PlacesPercent),
		}
		if !s.LastUpdated.IsZero() {
			snap.LastUpdated = s.LastUpdated.UTC().Format(time.RFC3339)
		}
		resp.Snapshot = snap
	}
	return resp
}
