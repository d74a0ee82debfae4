// Package usecase は価格履歴の取得・概要指標・取り込みのビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
)

// coverageSlack は保存済み履歴の先頭が要求開始日より後でも許容する日数です。
// 週末や祝日で取引所の日次データが欠ける分を吸収します。
const coverageSlack = 4 * 24 * time.Hour

// Options は価格ユースケースの振る舞いを調整します。ゼロ値のフィールドには既定値が入ります。
type Options struct {
	MaxAge           time.Duration // 最終点がこれより古ければ上流から再取得（既定24h）
	MaxDays          int           // days の上限（既定365）
	VolatilityWindow int           // 概要の移動ボラティリティ窓（既定7）
	MovingAverage    int           // 概要の移動平均期間（既定7）
}

func (o *Options) applyDefaults() {
	if o.MaxAge <= 0 {
		o.MaxAge = 24 * time.Hour
	}
	if o.MaxDays <= 0 {
		o.MaxDays = 365
	}
	if o.VolatilityWindow < 2 {
		o.VolatilityWindow = 7
	}
	if o.MovingAverage < 1 {
		o.MovingAverage = 7
	}
}

type refreshState struct {
	at   time.Time
	days int
}

// PricesUsecase は保存済み履歴を優先し、必要に応じて上流から補充する価格ユースケースです。
type PricesUsecase struct {
	registry  *market.Registry
	repo      PriceRepository
	provider  MarketDataProvider
	snapshots SnapshotProvider // nil の場合スナップショットは省略
	cache     CacheInvalidator // nil の場合キャッシュ無効化は省略
	opts      Options
	now       func() time.Time
	logger    zerolog.Logger

	mu        sync.Mutex
	refreshed map[string]refreshState
}

// NewPricesUsecase はPricesUsecaseの新しいインスタンスを生成します。
func NewPricesUsecase(registry *market.Registry, repo PriceRepository, provider MarketDataProvider, snapshots SnapshotProvider, opts Options) *PricesUsecase {
	opts.applyDefaults()
	return &PricesUsecase{
		registry:  registry,
		repo:      repo,
		provider:  provider,
		snapshots: snapshots,
		opts:      opts,
		now:       time.Now,
		logger:    log.With().Str("component", "prices_usecase").Logger(),
		refreshed: make(map[string]refreshState),
	}
}

// WithCacheInvalidator はInvalidateで破棄するキャッシュを設定します。
func (u *PricesUsecase) WithCacheInvalidator(c CacheInvalidator) *PricesUsecase {
	u.cache = c
	return u
}

// Assets は登録済み資産を返します。
func (u *PricesUsecase) Assets() []market.Asset {
	return u.registry.All()
}

// ValidateDays は days が 1 以上 MaxDays 以下であることを検証します。
func (u *PricesUsecase) ValidateDays(days int) error {
	if days < 1 || days > u.opts.MaxDays {
		return fmt.Errorf("days must be between 1 and %d, got %d: %w", u.opts.MaxDays, days, market.ErrInvalidInput)
	}
	return nil
}

// History は資産コードの直近 days 日分の価格を昇順で返します。
//
// 保存済み履歴が空、古い、または要求範囲を含まない場合は上流から取得して保存します。
// 上流が失敗した場合は保存済みの点があればそれを返し、なければErrDataUnavailableを返します。
func (u *PricesUsecase) History(ctx context.Context, code string, days int) ([]market.PricePoint, error) {
	if err := u.ValidateDays(days); err != nil {
		return nil, err
	}
	asset, err := u.registry.Lookup(code)
	if err != nil {
		return nil, err
	}

	now := u.now()
	since := market.Day(now).AddDate(0, 0, -days)

	stored, err := u.repo.Find(ctx, asset.Code, since)
	if err != nil {
		// ストアが読めなくても上流から取得を試みる
		u.logger.Warn().Err(err).Str("asset", asset.Code).Msg("failed to read stored prices")
		stored = nil
	}
	if !u.needsRefresh(asset.Code, stored, since, now, days) {
		return stored, nil
	}

	fresh, err := u.provider.History(ctx, asset, days)
	if err != nil {
		if len(stored) > 0 {
			u.logger.Warn().Err(err).Str("asset", asset.Code).Int("stored", len(stored)).Msg("upstream refresh failed, serving stored prices")
			return stored, nil
		}
		if !errors.Is(err, market.ErrDataUnavailable) {
			err = fmt.Errorf("%w: %w", market.ErrDataUnavailable, err)
		}
		return nil, fmt.Errorf("%s history: %w", asset.Code, err)
	}
	u.markRefreshed(asset.Code, now, days)

	if err := u.repo.UpsertBatch(ctx, fresh); err != nil {
		u.logger.Warn().Err(err).Str("asset", asset.Code).Msg("failed to store refreshed prices")
		return market.Since(fresh, since), nil
	}

	merged, err := u.repo.Find(ctx, asset.Code, since)
	if err != nil || len(merged) == 0 {
		return market.Since(fresh, since), nil
	}
	return merged, nil
}

// needsRefresh は保存済み履歴だけでは要求に応えられないかを判定します。
// 直近 MaxAge 以内に同じ範囲以上を取得済みであれば、週末などで最終点が古くても再取得しません。
func (u *PricesUsecase) needsRefresh(code string, stored []market.PricePoint, since, now time.Time, days int) bool {
	if len(stored) > 0 {
		covered := !stored[0].Time.After(since.Add(coverageSlack))
		fresh := now.Sub(stored[len(stored)-1].Time) <= u.opts.MaxAge
		if covered && fresh {
			return false
		}
	}

	u.mu.Lock()
	st, ok := u.refreshed[code]
	u.mu.Unlock()
	if ok && len(stored) > 0 && now.Sub(st.at) <= u.opts.MaxAge && st.days >= days {
		return false
	}
	return true
}

func (u *PricesUsecase) markRefreshed(code string, at time.Time, days int) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if st, ok := u.refreshed[code]; ok && at.Sub(st.at) <= u.opts.MaxAge && st.days > days {
		days = st.days
	}
	u.refreshed[code] = refreshState{at: at, days: days}
}

// Overview はダッシュボードのホーム画面に表示するBTCの概要指標です。
type Overview struct {
	Asset        market.Asset
	Days         int
	CurrentPrice float64
	Change24hPct *float64 // 前日比。点が1つしかない場合はnil
	PeriodHigh   float64
	Summary      indicator.Summary
	MovingAvg    indicator.Result
	Volatility   indicator.Result // 日次リターンの移動標準偏差（%）
	LatestVol    *float64
	Risk         *indicator.Risk // リターンが2点未満の場合はnil
	Snapshot     *market.Snapshot
	Prices       []market.PricePoint
}

// Overview はBTCの直近 days 日分から概要指標を計算します。
// ライブスナップショットが取得できた場合は現在価格と24h変化率をそちらで上書きします。
func (u *PricesUsecase) Overview(ctx context.Context, days int) (Overview, error) {
	points, err := u.History(ctx, market.BaseAsset, days)
	if err != nil {
		return Overview{}, err
	}
	asset, err := u.registry.Lookup(market.BaseAsset)
	if err != nil {
		return Overview{}, err
	}

	summary, err := indicator.Summarize(points)
	if err != nil {
		return Overview{}, fmt.Errorf("%s overview: %w", asset.Code, err)
	}

	ov := Overview{
		Asset:        asset,
		Days:         days,
		CurrentPrice: summary.Current,
		PeriodHigh:   summary.High,
		Summary:      summary,
		Prices:       points,
	}

	if n := len(points); n >= 2 && points[n-2].Price != 0 {
		chg := (points[n-1].Price - points[n-2].Price) / points[n-2].Price * 100
		ov.Change24hPct = &chg
	}

	if len(points) >= u.opts.MovingAverage {
		if ma, err := indicator.SMA(points, u.opts.MovingAverage); err == nil {
			ov.MovingAvg = ma
		}
	}

	returns := indicator.Returns(points)
	if vol, err := indicator.RollingStd(returns, u.opts.VolatilityWindow); err == nil {
		ov.Volatility = vol
		if last, ok := vol.Last(); ok && indicator.IsDefined(last.Value) {
			v := last.Value
			ov.LatestVol = &v
		}
	}

	if risk, err := indicator.RiskMetrics(returns.Values()); err == nil {
		ov.Risk = &risk
	}

	if u.snapshots != nil {
		snap, err := u.snapshots.Snapshot(ctx, asset)
		if err != nil {
			u.logger.Warn().Err(err).Msg("live snapshot unavailable")
		} else {
			ov.Snapshot = &snap
			ov.CurrentPrice = snap.PriceUSD
			chg := snap.PriceChange24hPct
			ov.Change24hPct = &chg
		}
	}
	return ov, nil
}

// LatestPrice は資産の最新価格を返します。採掘計算でBTC価格が省略された場合に使用します。
func (u *PricesUsecase) LatestPrice(ctx context.Context, code string) (float64, error) {
	points, err := u.History(ctx, code, 7)
	if err != nil {
		return 0, err
	}
	last, ok := market.Last(points)
	if !ok {
		return 0, fmt.Errorf("%s latest price: %w", code, market.ErrDataUnavailable)
	}
	return last.Price, nil
}

// Invalidate は資産のキャッシュを破棄し、次回のHistoryで上流から再取得させます。
func (u *PricesUsecase) Invalidate(ctx context.Context, code string) error {
	asset, err := u.registry.Lookup(code)
	if err != nil {
		return err
	}
	u.mu.Lock()
	delete(u.refreshed, asset.Code)
	u.mu.Unlock()
	if u.cache == nil {
		return nil
	}
	return u.cache.Invalidate(ctx, asset.Code)
}
