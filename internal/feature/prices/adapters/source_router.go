package adapters

import (
	"context"
	"fmt"

	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/market"
)

// SourceRouter dispatches provider calls by market.Asset.Source.
type SourceRouter struct {
	history   map[string]usecase.MarketDataProvider
	snapshots map[string]usecase.SnapshotProvider
}

var (
	_ usecase.MarketDataProvider = (*SourceRouter)(nil)
	_ usecase.SnapshotProvider   = (*SourceRouter)(nil)
)

// NewSourceRouter returns an empty router; register providers with Register.
func NewSourceRouter() *SourceRouter {
	return &SourceRouter{
		history:   make(map[string]usecase.MarketDataProvider),
		snapshots: make(map[string]usecase.SnapshotProvider),
	}
}

// Register binds p to source. If p also implements usecase.SnapshotProvider
// it serves snapshots for that source too.
func (r *SourceRouter) Register(source string, p usecase.MarketDataProvider) *SourceRouter {
	r.history[source] = p
	if sp, ok := p.(usecase.SnapshotProvider); ok {
		r.snapshots[source] = sp
	}
	return r
}

// History implements usecase.MarketDataProvider.
func (r *SourceRouter) History(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error) {
	p, ok := r.history[asset.Source]
	if !ok {
		return nil, fmt.Errorf("no provider for source %q (asset %s): %w", asset.Source, asset.Code, market.ErrDataUnavailable)
	}
	return p.History(ctx, asset, days)
}

// Snapshot implements usecase.SnapshotProvider.
func (r *SourceRouter) Snapshot(ctx context.Context, asset market.Asset) (market.Snapshot, error) {
	p, ok := r.snapshots[asset.Source]
	if !ok {
		return market.Snapshot{}, fmt.Errorf("no snapshot provider for source %q (asset %s): %w", asset.Source, asset.Code, market.ErrDataUnavailable)
	}
	return p.Snapshot(ctx, asset)
}
