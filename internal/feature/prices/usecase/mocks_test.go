package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"mining_analytics/internal/shared/market"
)

var (
	ErrDB       = errors.New("database error")
	ErrUpstream = errors.New("upstream error")
)

// fakePriceRepository は PriceRepository のインメモリ実装です。
type fakePriceRepository struct {
	mu        sync.Mutex
	points    map[string]map[time.Time]market.PricePoint
	findErr   error
	upsertErr error
	upserts   int
}

func newFakeRepo(seed ...market.PricePoint) *fakePriceRepository {
	r := &fakePriceRepository{points: map[string]map[time.Time]market.PricePoint{}}
	r.put(seed)
	return r
}

func (r *fakePriceRepository) put(points []market.PricePoint) {
	for _, p := range points {
		if r.points[p.Asset] == nil {
			r.points[p.Asset] = map[time.Time]market.PricePoint{}
		}
		r.points[p.Asset][p.Time] = p
	}
}

func (r *fakePriceRepository) Find(_ context.Context, asset string, since time.Time) ([]market.PricePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	out := []market.PricePoint{}
	for t, p := range r.points[asset] {
		if !t.Before(since) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (r *fakePriceRepository) UpsertBatch(_ context.Context, points []market.PricePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.put(points)
	return nil
}

// mockProvider は MarketDataProvider のモック実装です。
type mockProvider struct {
	mu          sync.Mutex
	HistoryFunc func(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error)
	calls       int
	lastDays    int
}

func (m *mockProvider) History(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error) {
	m.mu.Lock()
	m.calls++
	m.lastDays = days
	m.mu.Unlock()
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, asset, days)
	}
	return nil, errors.New("HistoryFunc is not implemented")
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockSnapshotProvider は SnapshotProvider のモック実装です。
type mockSnapshotProvider struct {
	snap market.Snapshot
	err  error
}

func (m *mockSnapshotProvider) Snapshot(_ context.Context, _ market.Asset) (market.Snapshot, error) {
	return m.snap, m.err
}

// mockRateLimiter はテスト用に即座に返すリミッターです。
type mockRateLimiter struct {
	WaitCalls int
	err       error
}

func (m *mockRateLimiter) Wait(_ context.Context) error {
	m.WaitCalls++
	return m.err
}

// mockRecorder は取り込み件数を記録します。
type mockRecorder struct {
	counts map[string]int
}

func (m *mockRecorder) AddIngested(asset string, n int) {
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[asset] += n
}

// mockInvalidator は CacheInvalidator のモック実装です。
type mockInvalidator struct {
	assets []string
}

func (m *mockInvalidator) Invalidate(_ context.Context, asset string) error {
	m.assets = append(m.assets, asset)
	return nil
}

// daily は end を最終日とする n 日分の日次系列を生成します。価格は start から step ずつ増えます。
func daily(asset string, end time.Time, n int, start, step float64) []market.PricePoint {
	out := make([]market.PricePoint, n)
	first := market.Day(end).AddDate(0, 0, -(n - 1))
	for i := range out {
		out[i] = market.PricePoint{Asset: asset, Time: first.AddDate(0, 0, i), Price: start + float64(i)*step}
	}
	return out
}
