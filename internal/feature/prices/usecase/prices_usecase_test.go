package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/market"
)

// fixedNow は2024-03-10（日曜日）12:00 UTCです。
var fixedNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestUsecase(repo PriceRepository, provider MarketDataProvider, snapshots SnapshotProvider) *PricesUsecase {
	u := NewPricesUsecase(market.NewRegistry(market.DefaultAssets), repo, provider, snapshots, Options{})
	u.now = func() time.Time { return fixedNow }
	return u
}

func TestPricesUsecase_History(t *testing.T) {
	t.Parallel()

	today := market.Day(fixedNow)

	tests := []struct {
		name          string
		code          string
		days          int
		seed          []market.PricePoint
		upstream      func(ctx context.Context, a market.Asset, days int) ([]market.PricePoint, error)
		findErr       error
		upsertErr     error
		wantErr       error
		wantCalls     int
		wantLen       int
		wantLastPrice float64
	}{
		{
			name:          "success: fresh stored history is served without upstream",
			code:          "btc",
			days:          30,
			seed:          daily("BTC", today, 40, 100, 1),
			wantCalls:     0,
			wantLen:       31,
			wantLastPrice: 139,
		},
		{
			name: "success: empty store is filled from upstream",
			code: "BTC",
			days: 30,
			upstream: func(_ context.Context, a market.Asset, days int) ([]market.PricePoint, error) {
				return daily(a.Code, today, days+1, 200, 1), nil
			},
			wantCalls:     1,
			wantLen:       31,
			wantLastPrice: 230,
		},
		{
			name: "success: stale store is refreshed and merged",
			code: "BTC",
			days: 30,
			seed: daily("BTC", today.AddDate(0, 0, -5), 40, 100, 1),
			upstream: func(_ context.Context, a market.Asset, _ int) ([]market.PricePoint, error) {
				return daily(a.Code, today, 3, 500, 1), nil
			},
			wantCalls:     1,
			wantLen:       29,
			wantLastPrice: 502,
		},
		{
			name: "success: store not covering the range is refreshed",
			code: "BTC",
			days: 30,
			seed: daily("BTC", today, 5, 100, 1),
			upstream: func(_ context.Context, a market.Asset, days int) ([]market.PricePoint, error) {
				return daily(a.Code, today, days+1, 300, 1), nil
			},
			wantCalls:     1,
			wantLen:       31,
			wantLastPrice: 330,
		},
		{
			name: "success: upstream failure falls back to stale stored prices",
			code: "SPX",
			days: 30,
			seed: daily("SPX", today.AddDate(0, 0, -10), 30, 100, 1),
			upstream: func(context.Context, market.Asset, int) ([]market.PricePoint, error) {
				return nil, fmt.Errorf("twelvedata: %w", market.ErrDataUnavailable)
			},
			wantCalls:     1,
			wantLen:       21,
			wantLastPrice: 129,
		},
		{
			name: "success: upsert failure still returns fetched prices",
			code: "BTC",
			days: 30,
			upstream: func(_ context.Context, a market.Asset, _ int) ([]market.PricePoint, error) {
				return daily(a.Code, today, 60, 1, 1), nil
			},
			upsertErr:     ErrDB,
			wantCalls:     1,
			wantLen:       31,
			wantLastPrice: 60,
		},
		{
			name: "success: store read failure refreshes from upstream",
			code: "BTC",
			days: 30,
			upstream: func(_ context.Context, a market.Asset, _ int) ([]market.PricePoint, error) {
				return daily(a.Code, today, 31, 1, 1), nil
			},
			findErr:       ErrDB,
			wantCalls:     1,
			wantLen:       31,
			wantLastPrice: 31,
		},
		{
			name: "error: upstream unavailable and nothing stored",
			code: "BTC",
			days: 30,
			upstream: func(context.Context, market.Asset, int) ([]market.PricePoint, error) {
				return nil, fmt.Errorf("coingecko: %w", market.ErrDataUnavailable)
			},
			wantErr:   market.ErrDataUnavailable,
			wantCalls: 1,
		},
		{
			name: "error: other upstream errors are reported as unavailable",
			code: "BTC",
			days: 30,
			upstream: func(context.Context, market.Asset, int) ([]market.PricePoint, error) {
				return nil, ErrUpstream
			},
			wantErr:   market.ErrDataUnavailable,
			wantCalls: 1,
		},
		{
			name:    "error: unknown asset",
			code:    "DOGE",
			days:    30,
			wantErr: market.ErrUnknownAsset,
		},
		{
			name:    "error: zero days",
			code:    "BTC",
			days:    0,
			wantErr: market.ErrInvalidInput,
		},
		{
			name:    "error: days above maximum",
			code:    "BTC",
			days:    366,
			wantErr: market.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo(tt.seed...)
			repo.findErr = tt.findErr
			repo.upsertErr = tt.upsertErr
			provider := &mockProvider{HistoryFunc: tt.upstream}
			u := newTestUsecase(repo, provider, nil)

			got, err := u.History(context.Background(), tt.code, tt.days)

			assert.Equal(t, tt.wantCalls, provider.Calls())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantLastPrice, got[len(got)-1].Price)
			for i := 1; i < len(got); i++ {
				assert.True(t, got[i].Time.After(got[i-1].Time), "not ascending at %d", i)
			}
		})
	}
}

// TestPricesUsecase_History_RecentRefresh は週末など最終点が古いままでも、
// 直近に同じ範囲を取得済みであれば上流を再度呼ばないことを検証します。
func TestPricesUsecase_History_RecentRefresh(t *testing.T) {
	t.Parallel()

	friday := time.Date(2024, 3, 8, 0, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	provider := &mockProvider{
		HistoryFunc: func(_ context.Context, a market.Asset, days int) ([]market.PricePoint, error) {
			return daily(a.Code, friday, days+5, 100, 1), nil
		},
	}
	u := newTestUsecase(repo, provider, nil)

	_, err := u.History(context.Background(), "SPX", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Calls())

	_, err = u.History(context.Background(), "SPX", 30)
	require.NoError(t, err)
	assert.Equal(t, 1, provider.Calls(), "second call should be served from the store")

	// より長い期間は再取得する
	_, err = u.History(context.Background(), "SPX", 90)
	require.NoError(t, err)
	assert.Equal(t, 2, provider.Calls())
	assert.Equal(t, 90, provider.lastDays)

	// 無効化すると再取得する
	inv := &mockInvalidator{}
	u.WithCacheInvalidator(inv)
	require.NoError(t, u.Invalidate(context.Background(), "spx"))
	assert.Equal(t, []string{"SPX"}, inv.assets)

	_, err = u.History(context.Background(), "SPX", 30)
	require.NoError(t, err)
	assert.Equal(t, 3, provider.Calls())
}

func TestPricesUsecase_Invalidate_UnknownAsset(t *testing.T) {
	t.Parallel()

	u := newTestUsecase(newFakeRepo(), &mockProvider{}, nil)
	err := u.Invalidate(context.Background(), "XYZ")
	assert.ErrorIs(t, err, market.ErrUnknownAsset)
}

func TestPricesUsecase_Overview(t *testing.T) {
	t.Parallel()

	today := market.Day(fixedNow)
	seed := daily("BTC", today, 31, 100, 2)

	t.Run("computed from history without snapshot", func(t *testing.T) {
		t.Parallel()

		u := newTestUsecase(newFakeRepo(seed...), &mockProvider{}, nil)
		ov, err := u.Overview(context.Background(), 30)
		require.NoError(t, err)

		assert.Equal(t, "BTC", ov.Asset.Code)
		assert.Equal(t, 30, ov.Days)
		assert.Len(t, ov.Prices, 31)
		assert.Equal(t, 160.0, ov.CurrentPrice)
		assert.Equal(t, 160.0, ov.PeriodHigh)
		assert.Equal(t, 100.0, ov.Summary.Low)
		require.NotNil(t, ov.Change24hPct)
		assert.InDelta(t, 2.0/158*100, *ov.Change24hPct, 1e-9)
		assert.Len(t, ov.MovingAvg.Points, 31)
		require.NotNil(t, ov.LatestVol)
		require.NotNil(t, ov.Risk)
		assert.Greater(t, ov.Risk.AnnualizedReturn, 0.0)
		assert.Nil(t, ov.Snapshot)
	})

	t.Run("live snapshot overrides current price", func(t *testing.T) {
		t.Parallel()

		snaps := &mockSnapshotProvider{snap: market.Snapshot{Asset: "BTC", PriceUSD: 170, PriceChange24hPct: -1.5}}
		u := newTestUsecase(newFakeRepo(seed...), &mockProvider{}, snaps)
		ov, err := u.Overview(context.Background(), 30)
		require.NoError(t, err)

		require.NotNil(t, ov.Snapshot)
		assert.Equal(t, 170.0, ov.CurrentPrice)
		assert.Equal(t, -1.5, *ov.Change24hPct)
		assert.Equal(t, 160.0, ov.PeriodHigh)
	})

	t.Run("snapshot failure is ignored", func(t *testing.T) {
		t.Parallel()

		snaps := &mockSnapshotProvider{err: market.ErrDataUnavailable}
		u := newTestUsecase(newFakeRepo(seed...), &mockProvider{}, snaps)
		ov, err := u.Overview(context.Background(), 30)
		require.NoError(t, err)
		assert.Nil(t, ov.Snapshot)
		assert.Equal(t, 160.0, ov.CurrentPrice)
	})

	t.Run("single point has no change or risk", func(t *testing.T) {
		t.Parallel()

		u := newTestUsecase(newFakeRepo(daily("BTC", today, 1, 50, 0)...), &mockProvider{
			HistoryFunc: func(context.Context, market.Asset, int) ([]market.PricePoint, error) {
				return nil, market.ErrDataUnavailable
			},
		}, nil)
		ov, err := u.Overview(context.Background(), 1)
		require.NoError(t, err)
		assert.Nil(t, ov.Change24hPct)
		assert.Nil(t, ov.Risk)
		assert.Nil(t, ov.LatestVol)
	})
}

func TestPricesUsecase_LatestPrice(t *testing.T) {
	t.Parallel()

	u := newTestUsecase(newFakeRepo(daily("BTC", market.Day(fixedNow), 10, 60000, 100)...), &mockProvider{}, nil)
	p, err := u.LatestPrice(context.Background(), "BTC")
	require.NoError(t, err)
	assert.Equal(t, 60900.0, p)
}
