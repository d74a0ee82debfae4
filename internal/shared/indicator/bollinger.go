package indicator

import (
	"fmt"
	"math"

	"mining_analytics/internal/shared/market"
)

// Default Bollinger parameters.
const (
	DefaultBollingerPeriod = 20
	DefaultBollingerStd    = 2.0
)

// BollingerResult holds the three aligned bands.
type BollingerResult struct {
	Upper  Result
	Middle Result
	Lower  Result
}

// BollingerBands returns mean ± numStd × sample standard deviation over a
// trailing window of period points. The first period-1 points are undefined.
func BollingerBands(points []market.PricePoint, period int, numStd float64) (BollingerResult, error) {
	if period < 2 {
		return BollingerResult{}, fmt.Errorf("bollinger period %d: %w", period, market.ErrInvalidInput)
	}
	if math.IsNaN(numStd) || math.IsInf(numStd, 0) || numStd < 0 {
		return BollingerResult{}, fmt.Errorf("bollinger std multiplier %v: %w", numStd, market.ErrInvalidInput)
	}
	if len(points) < period {
		return BollingerResult{}, fmt.Errorf("bollinger(%d) needs %d points, got %d: %w", period, period, len(points), market.ErrInvalidInput)
	}

	prices := market.Prices(points)
	middle := sma(prices, period)
	std := rollingStd(prices, period)

	upper := nanSlice(len(prices))
	lower := nanSlice(len(prices))
	for i := period - 1; i < len(prices); i++ {
		upper[i] = middle[i] + numStd*std[i]
		lower[i] = middle[i] - numStd*std[i]
	}

	times := market.Times(points)
	return BollingerResult{
		Upper:  newResult(NameBBUpper, times, upper),
		Middle: newResult(NameBBMiddle, times, middle),
		Lower:  newResult(NameBBLower, times, lower),
	}, nil
}

// rollingStd is the sample (n-1) standard deviation over a trailing window.
// NaN inputs inside a window make that window NaN.
func rollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window < 2 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		out[i] = sampleStd(values[i-window+1 : i+1])
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	var ss float64
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)-1))
}
