// Package profitability computes Bitcoin mining revenue, cost, profit, ROI
// and break-even price from mining parameters. All functions are pure.
package profitability

import (
	"fmt"
	"math"

	"mining_analytics/internal/shared/market"
)

// BlocksPerDayConstant converts TH/s over difficulty into expected blocks per
// day: 1e12 hashes per TH × 86400 s / 2^32 hashes per difficulty unit.
const BlocksPerDayConstant = 1e12 * 86400 / (1 << 32)

// Periods used to scale the daily profit.
const (
	DaysPerMonth = 30
	DaysPerYear  = 365
)

// Profit curve defaults: BTC prices 20 000 to 95 000 in steps of 5 000.
const (
	CurveStart = 20000.0
	CurveEnd   = 95000.0
	CurveStep  = 5000.0
)

// Params are the user supplied mining parameters.
type Params struct {
	HashrateTHs           float64 // miner hashrate in TH/s
	PowerWatts            float64 // power draw in W
	ElectricityCostPerKWh float64 // USD per kWh
	PoolFeePct            float64 // pool fee in percent of revenue, 0..100
	HardwareCost          float64 // USD, used for ROI
	BTCPrice              float64 // USD
	NetworkDifficulty     float64 // must be > 0
	BlockReward           float64 // BTC per block
}

// Validate reports the first invalid field as market.ErrInvalidInput.
func (p Params) Validate() error {
	fields := []struct {
		name string
		v    float64
	}{
		{"hashrate_ths", p.HashrateTHs},
		{"power_watts", p.PowerWatts},
		{"electricity_cost_per_kwh", p.ElectricityCostPerKWh},
		{"pool_fee_pct", p.PoolFeePct},
		{"hardware_cost", p.HardwareCost},
		{"btc_price", p.BTCPrice},
		{"network_difficulty", p.NetworkDifficulty},
		{"block_reward", p.BlockReward},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be finite, got %v: %w", f.name, f.v, market.ErrInvalidInput)
		}
		if f.v < 0 {
			return fmt.Errorf("%s must be non-negative, got %v: %w", f.name, f.v, market.ErrInvalidInput)
		}
	}
	if p.NetworkDifficulty == 0 {
		return fmt.Errorf("network_difficulty must be positive: %w", market.ErrInvalidInput)
	}
	if p.PoolFeePct > 100 {
		return fmt.Errorf("pool_fee_pct must be at most 100, got %v: %w", p.PoolFeePct, market.ErrInvalidInput)
	}
	return nil
}

// Result is the profitability of Params. Nil pointers mean the quantity does
// not exist: no break-even when profit is not positive, no margin without
// revenue, no break-even price when nothing is mined after fees.
type Result struct {
	BlocksPerDay    float64
	DailyBTC        float64
	DailyRevenue    float64 // gross, before pool fee
	PoolFeeCost     float64
	DailyCost       float64 // electricity
	DailyProfit     float64
	MonthlyProfit   float64
	YearlyProfit    float64
	ProfitMarginPct *float64
	ROIDays         *float64
	BreakevenPrice  *float64
}

// Calculate validates p and computes its profitability. Parameters whose
// derived quantities overflow float64 are rejected as market.ErrInvalidInput.
func Calculate(p Params) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	r := calculate(p)
	if err := r.checkFinite(); err != nil {
		return Result{}, err
	}
	return r, nil
}

func (r Result) checkFinite() error {
	fields := []struct {
		name string
		v    *float64
	}{
		{"blocks_per_day", &r.BlocksPerDay},
		{"daily_btc", &r.DailyBTC},
		{"daily_revenue", &r.DailyRevenue},
		{"pool_fee_cost", &r.PoolFeeCost},
		{"daily_cost", &r.DailyCost},
		{"daily_profit", &r.DailyProfit},
		{"monthly_profit", &r.MonthlyProfit},
		{"yearly_profit", &r.YearlyProfit},
		{"profit_margin_pct", r.ProfitMarginPct},
		{"roi_days", r.ROIDays},
		{"breakeven_price", r.BreakevenPrice},
	}
	for _, f := range fields {
		if f.v != nil && (math.IsNaN(*f.v) || math.IsInf(*f.v, 0)) {
			return fmt.Errorf("%s is out of range for the given parameters: %w", f.name, market.ErrInvalidInput)
		}
	}
	return nil
}

func calculate(p Params) Result {
	feeFactor := 1 - p.PoolFeePct/100

	r := Result{BlocksPerDay: p.HashrateTHs * BlocksPerDayConstant / p.NetworkDifficulty}
	r.DailyBTC = r.BlocksPerDay * p.BlockReward
	r.DailyRevenue = r.DailyBTC * p.BTCPrice
	r.PoolFeeCost = r.DailyRevenue * p.PoolFeePct / 100
	r.DailyCost = p.PowerWatts / 1000 * 24 * p.ElectricityCostPerKWh
	r.DailyProfit = r.DailyRevenue*feeFactor - r.DailyCost
	r.MonthlyProfit = r.DailyProfit * DaysPerMonth
	r.YearlyProfit = r.DailyProfit * DaysPerYear

	if r.DailyRevenue > 0 {
		m := r.DailyProfit / r.DailyRevenue * 100
		r.ProfitMarginPct = &m
	}
	if r.DailyProfit > 0 {
		roi := p.HardwareCost / r.DailyProfit
		r.ROIDays = &roi
	}
	if denom := r.DailyBTC * feeFactor; denom > 0 {
		be := r.DailyCost / denom
		r.BreakevenPrice = &be
	}
	return r
}

// CurvePoint is the daily profit at one BTC price.
type CurvePoint struct {
	BTCPrice    float64
	DailyProfit float64
}

// DefaultCurvePrices returns CurveStart..CurveEnd in CurveStep increments.
func DefaultCurvePrices() []float64 {
	var out []float64
	for p := CurveStart; p <= CurveEnd; p += CurveStep {
		out = append(out, p)
	}
	return out
}

// ProfitCurve evaluates the daily profit of p at each price, ignoring
// p.BTCPrice. Prices must be finite and non-negative.
func ProfitCurve(p Params, prices []float64) ([]CurvePoint, error) {
	// the curve does not depend on the caller's own price being valid
	p.BTCPrice = 0
	if err := p.Validate(); err != nil {
		return nil, err
	}
	out := make([]CurvePoint, 0, len(prices))
	for i, price := range prices {
		if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
			return nil, fmt.Errorf("curve price %d is %v: %w", i, price, market.ErrInvalidInput)
		}
		p.BTCPrice = price
		r := calculate(p)
		if err := r.checkFinite(); err != nil {
			return nil, fmt.Errorf("curve price %v: %w", price, err)
		}
		out = append(out, CurvePoint{BTCPrice: price, DailyProfit: r.DailyProfit})
	}
	return out, nil
}
