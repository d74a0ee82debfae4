package usecase

import (
	"context"
	"time"

	"mining_analytics/internal/shared/market"
)

// PriceRepository は価格履歴の永続化を抽象化します。
// Find は since 以降の点を昇順で返します。
type PriceRepository interface {
	Find(ctx context.Context, asset string, since time.Time) ([]market.PricePoint, error)
	UpsertBatch(ctx context.Context, points []market.PricePoint) error
}

// CacheInvalidator はキャッシュ付きリポジトリが実装する無効化操作です。
type CacheInvalidator interface {
	Invalidate(ctx context.Context, asset string) error
}

// MarketDataProvider は上流APIから日次価格を取得するアダプタのインターフェースです。
type MarketDataProvider interface {
	// History は直近 days 日分の正規化済み価格を返します。
	History(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error)
}

// SnapshotProvider は現在の市場スナップショットを取得できるプロバイダです。
type SnapshotProvider interface {
	Snapshot(ctx context.Context, asset market.Asset) (market.Snapshot, error)
}
