package indicator

import (
	"fmt"
	"math"
	"sort"
	"time"

	"mining_analytics/internal/shared/market"
)

// TradingPeriodsPerYear annualizes daily return statistics.
const TradingPeriodsPerYear = 252

// Returns is the percentage change between consecutive prices. The first
// point is undefined, as is any change from a zero price.
func Returns(points []market.PricePoint) Result {
	prices := market.Prices(points)
	out := nanSlice(len(prices))
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		out[i] = (prices[i] - prices[i-1]) / prices[i-1] * 100
	}
	return newResult(NameReturns, market.Times(points), out)
}

// ReturnValues is Returns without the undefined positions.
func ReturnValues(points []market.PricePoint) []float64 {
	return definedValues(Returns(points).Values())
}

// RollingStd returns the sample standard deviation of the values of r over a
// trailing window. Used for rolling volatility of a return series.
func RollingStd(r Result, window int) (Result, error) {
	if window < 2 {
		return Result{}, fmt.Errorf("rolling std window %d: %w", window, market.ErrInvalidInput)
	}
	times := make([]time.Time, len(r.Points))
	for i, p := range r.Points {
		times[i] = p.Time
	}
	return newResult(NameRollingStd, times, rollingStd(r.Values(), window)), nil
}

// Summary describes a price series.
type Summary struct {
	Current float64
	Mean    float64
	High    float64
	Low     float64
	StdDev  float64 // sample; NaN for a single point
}

// Summarize computes Summary over the prices of points.
func Summarize(points []market.PricePoint) (Summary, error) {
	if len(points) == 0 {
		return Summary{}, fmt.Errorf("summary of empty series: %w", market.ErrInvalidInput)
	}
	prices := market.Prices(points)
	s := Summary{
		Current: prices[len(prices)-1],
		Mean:    mean(prices),
		High:    prices[0],
		Low:     prices[0],
		StdDev:  sampleStd(prices),
	}
	for _, p := range prices[1:] {
		s.High = math.Max(s.High, p)
		s.Low = math.Min(s.Low, p)
	}
	return s, nil
}

// Risk holds the risk metrics of a percentage return series.
type Risk struct {
	ValueAtRisk95        float64 // 5th percentile of returns, percent
	MaxDrawdown          float64 // most negative peak-to-trough move, percent
	AnnualizedReturn     float64 // percent
	AnnualizedVolatility float64 // percent
	SharpeRatio          float64 // zero when volatility is zero
}

// RiskMetrics computes Risk from percentage returns. At least two returns are
// required.
func RiskMetrics(returnsPct []float64) (Risk, error) {
	r := definedValues(returnsPct)
	if len(r) < 2 {
		return Risk{}, fmt.Errorf("risk metrics need 2 returns, got %d: %w", len(r), market.ErrInvalidInput)
	}
	vol := AnnualizedVolatility(r)
	ret := AnnualizedReturn(r)
	return Risk{
		ValueAtRisk95:        ValueAtRisk(r, 95),
		MaxDrawdown:          MaxDrawdown(r),
		AnnualizedReturn:     ret,
		AnnualizedVolatility: vol,
		SharpeRatio:          SharpeRatio(ret, vol),
	}, nil
}

// ValueAtRisk returns the (100-confidence)th percentile of returns using
// linear interpolation between order statistics.
func ValueAtRisk(returnsPct []float64, confidence float64) float64 {
	return percentile(definedValues(returnsPct), 100-confidence)
}

// MaxDrawdown compounds the returns into a wealth curve and returns the
// largest relative drop from a running peak, in percent (<= 0).
func MaxDrawdown(returnsPct []float64) float64 {
	wealth, peak, worst := 1.0, 1.0, 0.0
	for _, r := range definedValues(returnsPct) {
		wealth *= 1 + r/100
		peak = math.Max(peak, wealth)
		if dd := (wealth/peak - 1) * 100; dd < worst {
			worst = dd
		}
	}
	return worst
}

// AnnualizedReturn is the mean periodic return times TradingPeriodsPerYear.
func AnnualizedReturn(returnsPct []float64) float64 {
	return mean(definedValues(returnsPct)) * TradingPeriodsPerYear
}

// AnnualizedVolatility is the sample std of returns times sqrt(TradingPeriodsPerYear).
func AnnualizedVolatility(returnsPct []float64) float64 {
	return sampleStd(definedValues(returnsPct)) * math.Sqrt(TradingPeriodsPerYear)
}

// SharpeRatio divides annualized return by annualized volatility, with a zero
// risk-free rate.
func SharpeRatio(annualReturn, annualVol float64) float64 {
	if annualVol == 0 || !IsDefined(annualVol) {
		return 0
	}
	return annualReturn / annualVol
}

func percentile(values []float64, pct float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	rank := pct / 100 * float64(len(s)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(s) {
		hi = len(s) - 1
	}
	return s[lo] + (s[hi]-s[lo])*(rank-float64(lo))
}

func definedValues(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if IsDefined(v) {
			out = append(out, v)
		}
	}
	return out
}
