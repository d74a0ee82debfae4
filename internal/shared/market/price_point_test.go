package market_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/market"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	jst := time.FixedZone("JST", 9*60*60)
	t1 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(24 * time.Hour)
	t3 := t2.Add(24 * time.Hour)

	in := []market.PricePoint{
		{Asset: "BTC", Time: t3, Price: 3},
		{Asset: "BTC", Time: t1.In(jst), Price: 1},
		{Asset: "BTC", Time: t2, Price: 20},
		{Asset: "BTC", Time: t2, Price: 2, Volume: market.VolumeOf(5)},
	}

	got, err := market.Normalize(in)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, []float64{1, 2, 3}, market.Prices(got))
	assert.Equal(t, time.UTC, got[0].Time.Location())
	require.NotNil(t, got[1].Volume)
	assert.Equal(t, 5.0, *got[1].Volume)

	// 入力スライスは変更されない
	assert.Equal(t, 3.0, in[0].Price)
}

func TestNormalize_Rejects(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name  string
		point market.PricePoint
	}{
		{name: "NaN price", point: market.PricePoint{Time: now, Price: math.NaN()}},
		{name: "infinite price", point: market.PricePoint{Time: now, Price: math.Inf(1)}},
		{name: "negative price", point: market.PricePoint{Time: now, Price: -1}},
		{name: "zero timestamp", point: market.PricePoint{Price: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := market.Normalize([]market.PricePoint{tt.point})
			assert.ErrorIs(t, err, market.ErrInvalidInput)
		})
	}
}

func TestSinceAndLast(t *testing.T) {
	t.Parallel()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	pts := []market.PricePoint{
		{Time: base, Price: 1},
		{Time: base.AddDate(0, 0, 1), Price: 2},
		{Time: base.AddDate(0, 0, 2), Price: 3},
	}

	assert.Len(t, market.Since(pts, base.AddDate(0, 0, 1)), 2)
	assert.Len(t, market.Since(pts, base.Add(time.Hour)), 2)
	assert.Empty(t, market.Since(pts, base.AddDate(0, 0, 5)))

	last, ok := market.Last(pts)
	require.True(t, ok)
	assert.Equal(t, 3.0, last.Price)

	_, ok = market.Last(nil)
	assert.False(t, ok)
}
