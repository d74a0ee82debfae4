package indicator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
)

func TestRSI_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		prices []float64
		period int
	}{
		{name: "series shorter than period+1", prices: ramp(14, 100, 1), period: 14},
		{name: "zero period", prices: ramp(20, 100, 1), period: 0},
		{name: "negative period", prices: ramp(20, 100, 1), period: -3},
		{name: "empty series", prices: nil, period: 14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := indicator.RSI(series("BTC", tt.prices...), tt.period)
			assert.ErrorIs(t, err, market.ErrInvalidInput)
		})
	}
}

func TestRSI_Properties(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		prices    []float64
		smoothing indicator.Smoothing
		want      float64
	}{
		{name: "strictly increasing wilder", prices: ramp(30, 100, 1), smoothing: indicator.SmoothingWilder, want: 100},
		{name: "strictly increasing simple", prices: ramp(30, 100, 1), smoothing: indicator.SmoothingSimple, want: 100},
		{name: "strictly decreasing wilder", prices: ramp(30, 200, -2), smoothing: indicator.SmoothingWilder, want: 0},
		{name: "strictly decreasing simple", prices: ramp(30, 200, -2), smoothing: indicator.SmoothingSimple, want: 0},
		{name: "flat series is neutral", prices: ramp(30, 50, 0), smoothing: indicator.SmoothingWilder, want: 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := indicator.RSIWithSmoothing(series("BTC", tt.prices...), 14, tt.smoothing)
			require.NoError(t, err)
			require.Equal(t, len(tt.prices), res.Len())

			v := res.Values()
			assertNaNPrefix(t, v, 14)
			for i := 14; i < len(v); i++ {
				assert.Equal(t, tt.want, v[i], "index %d", i)
			}
		})
	}
}

func TestRSI_BoundedAndKnownValue(t *testing.T) {
	t.Parallel()

	// 上げ幅 2、下げ幅 1 の交互列: 期間 2 の単純平均では avgGain=1, avgLoss=0.5 → RS=2
	pts := series("BTC", 10, 12, 11, 13, 12, 14, 13)
	res, err := indicator.RSIWithSmoothing(pts, 2, indicator.SmoothingSimple)
	require.NoError(t, err)
	for _, p := range res.Defined() {
		assert.InDelta(t, 100-100/3.0, p.Value, 1e-9)
	}

	wild, err := indicator.RSI(series("BTC", 44, 44.3, 44.1, 44.5, 43.9, 44.6, 45.1, 45.4, 45.2, 46, 45.6, 46.2, 46.1, 46.6, 46.3, 46.2, 45.7), 14)
	require.NoError(t, err)
	for _, p := range wild.Defined() {
		assert.GreaterOrEqual(t, p.Value, 0.0)
		assert.LessOrEqual(t, p.Value, 100.0)
	}
	assert.Equal(t, "RSI_14", wild.Name)
}

func TestParseSmoothing(t *testing.T) {
	t.Parallel()

	s, err := indicator.ParseSmoothing("")
	require.NoError(t, err)
	assert.Equal(t, indicator.SmoothingWilder, s)

	s, err = indicator.ParseSmoothing("Simple")
	require.NoError(t, err)
	assert.Equal(t, indicator.SmoothingSimple, s)
	assert.Equal(t, "simple", s.String())

	_, err = indicator.ParseSmoothing("hull")
	assert.ErrorIs(t, err, market.ErrInvalidInput)
}
