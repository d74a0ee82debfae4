package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mining_analytics/internal/shared/market"
)

func TestIngestUsecase_ingestOne(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	btc := market.DefaultAssets[0]

	testCases := []struct {
		name        string
		upstream    func(ctx context.Context, a market.Asset, days int) ([]market.PricePoint, error)
		upsertErr   error
		expectedErr error
		expectedN   int
	}{
		{
			name: "success: data fetch and save succeed",
			upstream: func(_ context.Context, a market.Asset, days int) ([]market.PricePoint, error) {
				if a.Code != "BTC" || days != 90 {
					t.Errorf("History called with unexpected params: got asset=%s, days=%d", a.Code, days)
				}
				return daily(a.Code, end, 5, 100, 1), nil
			},
			expectedN: 5,
		},
		{
			name: "error: provider returns error",
			upstream: func(context.Context, market.Asset, int) ([]market.PricePoint, error) {
				return nil, ErrUpstream
			},
			expectedErr: ErrUpstream,
		},
		{
			name: "error: repository returns error",
			upstream: func(_ context.Context, a market.Asset, _ int) ([]market.PricePoint, error) {
				return daily(a.Code, end, 5, 100, 1), nil
			},
			upsertErr:   ErrDB,
			expectedErr: ErrDB,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			repo := newFakeRepo()
			repo.upsertErr = tc.upsertErr
			iu := NewIngestUsecase(&mockProvider{HistoryFunc: tc.upstream}, repo, &mockRateLimiter{}, nil)

			n, err := iu.ingestOne(context.Background(), btc, 90)
			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				assert.Zero(t, n)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectedN, n)

			stored, err := repo.Find(context.Background(), "BTC", time.Time{})
			require.NoError(t, err)
			assert.Len(t, stored, tc.expectedN)
		})
	}
}

// TestIngestUsecase_IngestAll は1資産の失敗で処理が止まらず、レートリミッターが資産ごとに呼ばれることを検証します。
func TestIngestUsecase_IngestAll(t *testing.T) {
	t.Parallel()

	end := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	provider := &mockProvider{
		HistoryFunc: func(_ context.Context, a market.Asset, _ int) ([]market.PricePoint, error) {
			if a.Code == "GLD" {
				return nil, ErrUpstream
			}
			return daily(a.Code, end, 3, 10, 1), nil
		},
	}
	repo := newFakeRepo()
	limiter := &mockRateLimiter{}
	recorder := &mockRecorder{}
	iu := NewIngestUsecase(provider, repo, limiter, recorder)

	results, err := iu.IngestAll(context.Background(), market.DefaultAssets, 30)
	require.NoError(t, err)
	require.Len(t, results, len(market.DefaultAssets))

	assert.Equal(t, len(market.DefaultAssets), limiter.WaitCalls)
	assert.Equal(t, len(market.DefaultAssets), provider.Calls())

	for _, r := range results {
		if r.Asset == "GLD" {
			assert.ErrorIs(t, r.Err, ErrUpstream)
			assert.Zero(t, r.Points)
			continue
		}
		assert.NoError(t, r.Err)
		assert.Equal(t, 3, r.Points)
	}
	assert.Equal(t, map[string]int{"BTC": 3, "SPX": 3, "QQQ": 3, "TLT": 3}, recorder.counts)
}

func TestIngestUsecase_IngestAll_Canceled(t *testing.T) {
	t.Parallel()

	limiter := &mockRateLimiter{err: context.Canceled}
	provider := &mockProvider{}
	iu := NewIngestUsecase(provider, newFakeRepo(), limiter, nil)

	results, err := iu.IngestAll(context.Background(), market.DefaultAssets, 30)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, results)
	assert.Zero(t, provider.Calls())
}

func TestIngestUsecase_IngestAll_InvalidDays(t *testing.T) {
	t.Parallel()

	iu := NewIngestUsecase(&mockProvider{}, newFakeRepo(), &mockRateLimiter{}, nil)
	_, err := iu.IngestAll(context.Background(), market.DefaultAssets, 0)
	assert.ErrorIs(t, err, market.ErrInvalidInput)
}
