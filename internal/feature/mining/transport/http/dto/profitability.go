// Package dto はminingフィーチャーのHTTPリクエスト・レスポンスDTOを定義します。
package dto

import (
	"mining_analytics/internal/feature/mining/usecase"
	"mining_analytics/internal/shared/numeric"
)

// ProfitabilityRequest は POST /api/mining/profitability のリクエストボディです。
// btc_price, network_difficulty, block_reward, curve_prices は省略可能です。
type ProfitabilityRequest struct {
	HashrateTHs           *float64  `json:"hashrate_ths" binding:"required,gte=0"`
	PowerWatts            *float64  `json:"power_watts" binding:"required,gte=0"`
	ElectricityCostPerKWh *float64  `json:"electricity_cost_per_kwh" binding:"required,gte=0"`
	PoolFeePct            float64   `json:"pool_fee_pct" binding:"gte=0,lte=100"`
	HardwareCost          float64   `json:"hardware_cost" binding:"gte=0"`
	BTCPrice              *float64  `json:"btc_price" binding:"omitempty,gte=0"`
	NetworkDifficulty     *float64  `json:"network_difficulty" binding:"omitempty,gt=0"`
	BlockReward           *float64  `json:"block_reward" binding:"omitempty,gte=0"`
	CurvePrices           []float64 `json:"curve_prices" binding:"omitempty,max=200,dive,gte=0"`
}

// ToInput はリクエストをユースケースの入力に変換します。
func (r ProfitabilityRequest) ToInput() usecase.Input {
	return usecase.Input{
		HashrateTHs:           deref(r.HashrateTHs),
		PowerWatts:            deref(r.PowerWatts),
		ElectricityCostPerKWh: deref(r.ElectricityCostPerKWh),
		PoolFeePct:            r.PoolFeePct,
		HardwareCost:          r.HardwareCost,
		BTCPrice:              r.BTCPrice,
		NetworkDifficulty:     r.NetworkDifficulty,
		BlockReward:           r.BlockReward,
		CurvePrices:           r.CurvePrices,
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// ParamsResponse は計算に使用したパラメータです。
type ParamsResponse struct {
	HashrateTHs           float64 `json:"hashrate_ths"`
	PowerWatts            float64 `json:"power_watts"`
	ElectricityCostPerKWh float64 `json:"electricity_cost_per_kwh"`
	PoolFeePct            float64 `json:"pool_fee_pct"`
	HardwareCost          float64 `json:"hardware_cost"`
	BTCPrice              float64 `json:"btc_price"`
	BTCPriceSource        string  `json:"btc_price_source"`
	NetworkDifficulty     float64 `json:"network_difficulty"`
	BlockReward           float64 `json:"block_reward"`
}

// ResultResponse は収益性の計算結果です。null は「該当なし」を表します。
type ResultResponse struct {
	DailyBTC        float64  `json:"daily_btc"`
	DailyRevenue    float64  `json:"daily_revenue"`
	PoolFeeCost     float64  `json:"pool_fee_cost"`
	DailyCost       float64  `json:"daily_cost"`
	DailyProfit     float64  `json:"daily_profit"`
	MonthlyProfit   float64  `json:"monthly_profit"`
	YearlyProfit    float64  `json:"yearly_profit"`
	ProfitMarginPct *float64 `json:"profit_margin_pct"`
	ROIDays         *float64 `json:"roi_days"`
	BreakevenPrice  *float64 `json:"breakeven_price"`
}

// CurvePointResponse は利益曲線の1点です。
type CurvePointResponse struct {
	BTCPrice    float64 `json:"btc_price"`
	DailyProfit float64 `json:"daily_profit"`
}

// ProfitabilityResponse は POST /api/mining/profitability のレスポンスです。
type ProfitabilityResponse struct {
	Params ParamsResponse       `json:"params"`
	Result ResultResponse       `json:"result"`
	Curve  []CurvePointResponse `json:"profit_curve"`
}

// ToProfitabilityResponse は計算結果をDTOに変換します。金額は小数2桁、BTCは8桁に丸めます。
func ToProfitabilityResponse(out usecase.Output) ProfitabilityResponse {
	p, r := out.Params, out.Result
	resp := ProfitabilityResponse{
		Params: ParamsResponse{
			HashrateTHs:           p.HashrateTHs,
			PowerWatts:            p.PowerWatts,
			ElectricityCostPerKWh: p.ElectricityCostPerKWh,
			PoolFeePct:            p.PoolFeePct,
			HardwareCost:          p.HardwareCost,
			BTCPrice:              numeric.Round(p.BTCPrice, numeric.PlacesUSD),
			BTCPriceSource:        out.PriceSource,
			NetworkDifficulty:     p.NetworkDifficulty,
			BlockReward:           p.BlockReward,
		},
		Result: ResultResponse{
			DailyBTC:        numeric.Round(r.DailyBTC, numeric.PlacesBTC),
			DailyRevenue:    numeric.Round(r.DailyRevenue, numeric.PlacesUSD),
			PoolFeeCost:     numeric.Round(r.PoolFeeCost, numeric.PlacesUSD),
			DailyCost:       numeric.Round(r.DailyCost, numeric.PlacesUSD),
			DailyProfit:     numeric.Round(r.DailyProfit, numeric.PlacesUSD),
			MonthlyProfit:   numeric.Round(r.MonthlyProfit, numeric.PlacesUSD),
			YearlyProfit:    numeric.Round(r.YearlyProfit, numeric.PlacesUSD),
			ProfitMarginPct: numeric.RoundPtr(r.ProfitMarginPct, numeric.PlacesPercent),
			ROIDays:         numeric.RoundPtr(r.ROIDays, 1),
			BreakevenPrice:  numeric.RoundPtr(r.BreakevenPrice, numeric.PlacesUSD),
		},
		Curve: make([]CurvePointResponse, 0, len(out.Curve)),
	}
	for _, c := range out.Curve {
		resp.Curve = append(resp.Curve, CurvePointResponse{
			BTCPrice:    numeric.Round(c.BTCPrice, numeric.PlacesUSD),
			DailyProfit: numeric.Round(c.DailyProfit, numeric.PlacesUSD),
		})
	}
	return resp
}
