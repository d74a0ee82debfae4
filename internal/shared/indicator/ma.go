package indicator

import (
	"fmt"

	"mining_analytics/internal/shared/market"
)

// SMA returns the simple moving average over a trailing window.
func SMA(points []market.PricePoint, period int) (Result, error) {
	if period < 1 {
		return Result{}, fmt.Errorf("sma period %d: %w", period, market.ErrInvalidInput)
	}
	if len(points) < period {
		return Result{}, fmt.Errorf("sma needs %d points, got %d: %w", period, len(points), market.ErrInvalidInput)
	}
	return newResult(NameSMA, market.Times(points), sma(market.Prices(points), period)), nil
}

// EMA returns the exponential moving average with alpha = 2/(span+1),
// seeded with the simple average of the first span values.
func EMA(points []market.PricePoint, span int) (Result, error) {
	if span < 1 {
		return Result{}, fmt.Errorf("ema span %d: %w", span, market.ErrInvalidInput)
	}
	if len(points) < span {
		return Result{}, fmt.Errorf("ema needs %d points, got %d: %w", span, len(points), market.ErrInvalidInput)
	}
	return newResult(NameEMA, market.Times(points), ema(market.Prices(points), span)), nil
}

// sma computes each window sum from scratch so that results match a
// hand-computed mean exactly.
func sma(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	for i := period - 1; i < len(values); i++ {
		var sum float64
		for _, v := range values[i-period+1 : i+1] {
			sum += v
		}
		out[i] = sum / float64(period)
	}
	return out
}

// ema skips a leading run of NaN (as produced by another indicator) and seeds
// at the first full span of defined values.
func ema(values []float64, span int) []float64 {
	out := nanSlice(len(values))

	start := 0
	for start < len(values) && !IsDefined(values[start]) {
		start++
	}
	seed := start + span - 1
	if seed >= len(values) {
		return out
	}

	var sum float64
	for _, v := range values[start : seed+1] {
		sum += v
	}
	cur := sum / float64(span)
	out[seed] = cur

	alpha := 2.0 / float64(span+1)
	for i := seed + 1; i < len(values); i++ {
		cur = alpha*values[i] + (1-alpha)*cur
		out[i] = cur
	}
	return out
}
