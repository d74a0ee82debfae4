package coingecko

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/feature/prices/adapters/coingecko/dto"
	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/market"
)

// JSONGetter performs a GET request and decodes the JSON body.
// *platform/http.Client satisfies it.
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, header http.Header, out any) error
}

// CoinGeckoMarket はCoinGecko APIから価格履歴と市場スナップショットを取得します。
type CoinGeckoMarket struct {
	cfg    Config
	client JSONGetter
	logger zerolog.Logger
}

var (
	_ usecase.MarketDataProvider = (*CoinGeckoMarket)(nil)
	_ usecase.SnapshotProvider   = (*CoinGeckoMarket)(nil)
)

// NewCoinGeckoMarket は指定された設定とクライアントでCoinGeckoMarketを生成します。
func NewCoinGeckoMarket(cfg Config, client JSONGetter) *CoinGeckoMarket {
	return &CoinGeckoMarket{
		cfg:    cfg,
		client: client,
		logger: log.With().Str("component", "coingecko").Logger(),
	}
}

func (m *CoinGeckoMarket) header() http.Header {
	h := http.Header{}
	if m.cfg.APIKey != "" {
		h.Set(m.cfg.keyHeader(), m.cfg.APIKey)
	}
	return h
}

// History は market_chart エンドポイントから日次価格と出来高を取得します。
// 同じUTC日の点は最後の値にまとめられ、当日分は取得時点の価格になります。
func (m *CoinGeckoMarket) History(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error) {
	if days < 1 {
		return nil, fmt.Errorf("coingecko days %d: %w", days, market.ErrInvalidInput)
	}

	q := url.Values{}
	q.Set("vs_currency", "usd")
	q.Set("days", strconv.Itoa(days))
	q.Set("interval", "daily")
	u := fmt.Sprintf("%s/coins/%s/market_chart?%s", m.cfg.BaseURL, url.PathEscape(asset.SourceSymbol), q.Encode())

	var body dto.MarketChartResponse
	if err := m.client.GetJSON(ctx, u, m.header(), &body); err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", asset.SourceSymbol, err)
	}
	if len(body.Prices) == 0 {
		return nil, fmt.Errorf("coingecko market_chart %s: empty prices: %w", asset.SourceSymbol, market.ErrDataUnavailable)
	}

	volumes := make(map[int64]float64, len(body.TotalVolumes))
	for _, v := range body.TotalVolumes {
		volumes[int64(v[0])] = v[1]
	}

	points := make([]market.PricePoint, 0, len(body.Prices))
	for _, p := range body.Prices {
		ms := int64(p[0])
		pt := market.PricePoint{
			Asset: asset.Code,
			Time:  market.Day(time.UnixMilli(ms)),
			Price: p[1],
		}
		if v, ok := volumes[ms]; ok {
			pt.Volume = market.VolumeOf(v)
		}
		points = append(points, pt)
	}

	out, err := market.Normalize(points)
	if err != nil {
		return nil, fmt.Errorf("coingecko market_chart %s: %w", asset.SourceSymbol, err)
	}
	m.logger.Debug().Str("asset", asset.Code).Int("points", len(out)).Msg("fetched history")
	return out, nil
}

// Snapshot は coins/{id} エンドポイントから現在の市場データを取得します。
func (m *CoinGeckoMarket) Snapshot(ctx context.Context, asset market.Asset) (market.Snapshot, error) {
	q := url.Values{}
	q.Set("localization", "false")
	q.Set("tickers", "false")
	q.Set("community_data", "false")
	q.Set("developer_data", "false")
	u := fmt.Sprintf("%s/coins/%s?%s", m.cfg.BaseURL, url.PathEscape(asset.SourceSymbol), q.Encode())

	var body dto.CoinResponse
	if err := m.client.GetJSON(ctx, u, m.header(), &body); err != nil {
		return market.Snapshot{}, fmt.Errorf("coingecko coin %s: %w", asset.SourceSymbol, err)
	}

	price, ok := body.MarketData.CurrentPrice["usd"]
	if !ok {
		return market.Snapshot{}, fmt.Errorf("coingecko coin %s: no usd price: %w", asset.SourceSymbol, market.ErrDataUnavailable)
	}
	snap := market.Snapshot{
		Asset:             asset.Code,
		PriceUSD:          price,
		MarketCapUSD:      body.MarketData.MarketCap["usd"],
		TotalVolumeUSD:    body.MarketData.TotalVolume["usd"],
		PriceChange24hPct: body.MarketData.PriceChangePercentage24h,
	}
	if body.LastUpdated != "" {
		if ts, err := time.Parse(time.RFC3339, body.LastUpdated); err == nil {
			snap.LastUpdated = ts.UTC()
		} else {
			m.logger.Warn().Str("last_updated", body.LastUpdated).Msg("unparsable timestamp")
		}
	}
	return snap, nil
}
