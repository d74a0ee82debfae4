package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/market"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := market.NewRegistry(append(market.DefaultAssets, market.Asset{Code: "btc", Name: "dup"}))

	assert.Equal(t, []string{"BTC", "SPX", "GLD", "QQQ", "TLT"}, r.Codes())
	assert.Len(t, r.All(), 5)

	a, err := r.Lookup(" spx ")
	require.NoError(t, err)
	assert.Equal(t, market.SourceTwelveData, a.Source)
	assert.Equal(t, "SPX", a.SourceSymbol)

	btc, err := r.Lookup(market.BaseAsset)
	require.NoError(t, err)
	assert.Equal(t, "Bitcoin", btc.Name)

	_, err = r.Lookup("DOGE")
	assert.ErrorIs(t, err, market.ErrUnknownAsset)
}
