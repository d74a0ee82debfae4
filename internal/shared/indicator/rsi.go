package indicator

import (
	"fmt"
	"strings"

	"mining_analytics/internal/shared/market"
)

// Smoothing selects how RSI averages gains and losses.
type Smoothing int

const (
	// SmoothingWilder seeds with the simple mean of the first period changes and
	// then applies avg = (prev*(period-1) + x) / period.
	SmoothingWilder Smoothing = iota
	// SmoothingSimple uses the plain rolling mean of the last period changes.
	SmoothingSimple
)

// String implements fmt.Stringer.
func (s Smoothing) String() string {
	switch s {
	case SmoothingSimple:
		return "simple"
	default:
		return "wilder"
	}
}

// ParseSmoothing parses "wilder" or "simple". The empty string means Wilder.
func ParseSmoothing(s string) (Smoothing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wilder":
		return SmoothingWilder, nil
	case "simple", "sma":
		return SmoothingSimple, nil
	}
	return 0, fmt.Errorf("rsi smoothing %q: %w", s, market.ErrInvalidInput)
}

// RSI returns the Relative Strength Index with Wilder smoothing.
// Values are defined from index period onward and lie in [0, 100].
func RSI(points []market.PricePoint, period int) (Result, error) {
	return RSIWithSmoothing(points, period, SmoothingWilder)
}

// RSIWithSmoothing is RSI with an explicit smoothing method.
func RSIWithSmoothing(points []market.PricePoint, period int, smoothing Smoothing) (Result, error) {
	if period < 1 {
		return Result{}, fmt.Errorf("rsi period %d: %w", period, market.ErrInvalidInput)
	}
	if len(points) < period+1 {
		return Result{}, fmt.Errorf("rsi(%d) needs %d points, got %d: %w", period, period+1, len(points), market.ErrInvalidInput)
	}

	prices := market.Prices(points)
	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			gains[i] = d
		} else {
			losses[i] = -d
		}
	}

	out := nanSlice(len(prices))
	p := float64(period)

	switch smoothing {
	case SmoothingSimple:
		for i := period; i < len(prices); i++ {
			var g, l float64
			for j := i - period + 1; j <= i; j++ {
				g += gains[j]
				l += losses[j]
			}
			out[i] = rsiValue(g/p, l/p)
		}
	default:
		var avgGain, avgLoss float64
		for j := 1; j <= period; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}
		avgGain /= p
		avgLoss /= p
		out[period] = rsiValue(avgGain, avgLoss)
		for i := period + 1; i < len(prices); i++ {
			avgGain = (avgGain*(p-1) + gains[i]) / p
			avgLoss = (avgLoss*(p-1) + losses[i]) / p
			out[i] = rsiValue(avgGain, avgLoss)
		}
	}

	name := fmt.Sprintf("%s_%d", NameRSI, period)
	return newResult(name, market.Times(points), out), nil
}

// rsiValue maps average gain/loss to [0,100]. A flat window is neutral (50).
func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}
