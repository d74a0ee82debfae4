package indicator_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// series は日次の PricePoint 列を生成するテストヘルパーです。
func series(asset string, prices ...float64) []market.PricePoint {
	out := make([]market.PricePoint, len(prices))
	for i, p := range prices {
		out[i] = market.PricePoint{Asset: asset, Time: day0.AddDate(0, 0, i), Price: p}
	}
	return out
}

func ramp(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func assertNaNPrefix(t *testing.T, values []float64, n int) {
	t.Helper()
	for i := 0; i < n && i < len(values); i++ {
		assert.Truef(t, math.IsNaN(values[i]), "index %d should be undefined, got %v", i, values[i])
	}
	for i := n; i < len(values); i++ {
		assert.Falsef(t, math.IsNaN(values[i]), "index %d should be defined", i)
	}
}

func TestResultHelpers(t *testing.T) {
	t.Parallel()

	res, err := indicator.SMA(series("BTC", 1, 2, 3, 4), 2)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Len())
	assert.Len(t, res.Defined(), 3)
	assertNaNPrefix(t, res.Values(), 1)

	last, ok := res.Last()
	require.True(t, ok)
	assert.Equal(t, 3.5, last.Value)
	assert.True(t, last.Time.Equal(day0.AddDate(0, 0, 3)))

	_, ok = indicator.Result{}.Last()
	assert.False(t, ok)
}

func TestSMAAndEMA(t *testing.T) {
	t.Parallel()

	pts := series("BTC", 2, 4, 6, 8, 10)

	sma, err := indicator.SMA(pts, 3)
	require.NoError(t, err)
	assertNaNPrefix(t, sma.Values(), 2)
	assert.Equal(t, []float64{4, 6, 8}, sma.Values()[2:])

	// alpha = 2/(3+1) = 0.5, シードは最初の3点の単純平均
	ema, err := indicator.EMA(pts, 3)
	require.NoError(t, err)
	v := ema.Values()
	assertNaNPrefix(t, v, 2)
	assert.InDelta(t, 4.0, v[2], 1e-12)
	assert.InDelta(t, 6.0, v[3], 1e-12)
	assert.InDelta(t, 8.0, v[4], 1e-12)

	_, err = indicator.SMA(pts, 0)
	assert.ErrorIs(t, err, market.ErrInvalidInput)
	_, err = indicator.EMA(pts, 6)
	assert.ErrorIs(t, err, market.ErrInvalidInput)
}
