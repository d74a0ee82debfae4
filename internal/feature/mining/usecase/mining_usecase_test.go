package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/feature/mining/domain/profitability"
	"mining_analytics/internal/shared/market"
)

// mockPriceSource はPriceSourceのモック実装です。
type mockPriceSource struct {
	price float64
	err   error
	calls int
}

func (m *mockPriceSource) LatestPrice(_ context.Context, code string) (float64, error) {
	m.calls++
	if code != market.BaseAsset {
		return 0, fmt.Errorf("unexpected code %s", code)
	}
	return m.price, m.err
}

func ptr(v float64) *float64 { return &v }

func TestMiningUsecase_Calculate(t *testing.T) {
	t.Parallel()

	base := Input{
		HashrateTHs:           500,
		PowerWatts:            3000,
		ElectricityCostPerKWh: 0.12,
		PoolFeePct:            2,
		HardwareCost:          10000,
	}

	tests := []struct {
		name            string
		input           func() Input
		source          *mockPriceSource
		wantErr         error
		wantPrice       float64
		wantSource      string
		wantDifficulty  float64
		wantCurveLen    int
		wantSourceCalls int
	}{
		{
			name: "success: btc price from request",
			input: func() Input {
				in := base
				in.BTCPrice = ptr(65000)
				return in
			},
			source:          &mockPriceSource{price: 1},
			wantPrice:       65000,
			wantSource:      PriceFromRequest,
			wantDifficulty:  DefaultNetworkDifficulty,
			wantCurveLen:    16,
			wantSourceCalls: 0,
		},
		{
			name:            "success: btc price filled from market",
			input:           func() Input { return base },
			source:          &mockPriceSource{price: 61000},
			wantPrice:       61000,
			wantSource:      PriceFromMarket,
			wantDifficulty:  DefaultNetworkDifficulty,
			wantCurveLen:    16,
			wantSourceCalls: 1,
		},
		{
			name: "success: overrides and custom curve",
			input: func() Input {
				in := base
				in.BTCPrice = ptr(50000)
				in.NetworkDifficulty = ptr(8e13)
				in.BlockReward = ptr(6.25)
				in.CurvePrices = []float64{30000, 40000}
				return in
			},
			source:          &mockPriceSource{},
			wantPrice:       50000,
			wantSource:      PriceFromRequest,
			wantDifficulty:  8e13,
			wantCurveLen:    2,
			wantSourceCalls: 0,
		},
		{
			name:            "error: market price unavailable",
			input:           func() Input { return base },
			source:          &mockPriceSource{err: market.ErrDataUnavailable},
			wantErr:         market.ErrDataUnavailable,
			wantSourceCalls: 1,
		},
		{
			name: "error: invalid input does not reach the market",
			input: func() Input {
				in := base
				in.PoolFeePct = 150
				return in
			},
			source:          &mockPriceSource{price: 61000},
			wantErr:         market.ErrInvalidInput,
			wantSourceCalls: 0,
		},
		{
			name: "error: negative btc price",
			input: func() Input {
				in := base
				in.BTCPrice = ptr(-1)
				return in
			},
			source:  &mockPriceSource{},
			wantErr: market.ErrInvalidInput,
		},
		{
			name: "error: zero difficulty override",
			input: func() Input {
				in := base
				in.BTCPrice = ptr(1)
				in.NetworkDifficulty = ptr(0)
				return in
			},
			source:  &mockPriceSource{},
			wantErr: market.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u := NewMiningUsecase(tt.source, Defaults{})
			out, err := u.Calculate(context.Background(), tt.input())

			assert.Equal(t, tt.wantSourceCalls, tt.source.calls)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPrice, out.Params.BTCPrice)
			assert.Equal(t, tt.wantSource, out.PriceSource)
			assert.Equal(t, tt.wantDifficulty, out.Params.NetworkDifficulty)
			assert.Len(t, out.Curve, tt.wantCurveLen)

			want, err := profitability.Calculate(out.Params)
			require.NoError(t, err)
			assert.Equal(t, want, out.Result)
		})
	}
}

func TestMiningUsecase_Calculate_NoPriceSource(t *testing.T) {
	t.Parallel()

	u := NewMiningUsecase(nil, Defaults{NetworkDifficulty: 1e14, BlockReward: 3.125})
	_, err := u.Calculate(context.Background(), Input{HashrateTHs: 100})
	assert.ErrorIs(t, err, market.ErrInvalidInput)
}
