package indicator

import (
	"fmt"

	"mining_analytics/internal/shared/market"
)

// Default MACD spans.
const (
	DefaultMACDFast   = 12
	DefaultMACDSlow   = 26
	DefaultMACDSignal = 9
)

// MACDResult holds the three aligned MACD lines.
type MACDResult struct {
	MACD      Result
	Signal    Result
	Histogram Result
}

// MACD computes EMA(fast) - EMA(slow), its EMA(signal) and the difference
// between the two. The signal line is defined from index slow+signal-2.
func MACD(points []market.PricePoint, fast, slow, signal int) (MACDResult, error) {
	if fast < 1 || slow < 1 || signal < 1 {
		return MACDResult{}, fmt.Errorf("macd spans %d/%d/%d must be positive: %w", fast, slow, signal, market.ErrInvalidInput)
	}
	if fast >= slow {
		return MACDResult{}, fmt.Errorf("macd fast span %d must be below slow span %d: %w", fast, slow, market.ErrInvalidInput)
	}
	if need := slow + signal - 1; len(points) < need {
		return MACDResult{}, fmt.Errorf("macd(%d,%d,%d) needs %d points, got %d: %w", fast, slow, signal, need, len(points), market.ErrInvalidInput)
	}

	prices := market.Prices(points)
	fastLine := ema(prices, fast)
	slowLine := ema(prices, slow)

	line := make([]float64, len(prices))
	for i := range prices {
		// NaN propagates through the warm-up of the slow EMA
		line[i] = fastLine[i] - slowLine[i]
	}
	sig := ema(line, signal)
	hist := make([]float64, len(prices))
	for i := range prices {
		hist[i] = line[i] - sig[i]
	}

	times := market.Times(points)
	return MACDResult{
		MACD:      newResult(NameMACD, times, line),
		Signal:    newResult(NameMACDSignal, times, sig),
		Histogram: newResult(NameMACDHistogram, times, hist),
	}, nil
}
