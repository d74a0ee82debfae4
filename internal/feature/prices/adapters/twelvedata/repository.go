package twelvedata

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/feature/prices/adapters/twelvedata/dto"
	"mining_analytics/internal/feature/prices/usecase"
	"mining_analytics/internal/shared/market"
)

// JSONGetter はGETリクエストを送りJSONボディをデコードします。
// *platform/http.Client がこれを満たします。
type JSONGetter interface {
	GetJSON(ctx context.Context, url string, header http.Header, out any) error
}

// TwelveDataMarket はTwelve Data外部APIから日次終値を取得するMarketDataProvider実装です。
type TwelveDataMarket struct {
	cfg    Config
	client JSONGetter
	logger zerolog.Logger
}

// TwelveDataMarketがMarketDataProviderを実装していることをコンパイル時に検証します。
var _ usecase.MarketDataProvider = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client JSONGetter) *TwelveDataMarket {
	return &TwelveDataMarket{
		cfg:    cfg,
		client: client,
		logger: log.With().Str("component", "twelvedata").Logger(),
	}
}

// History はTwelve Data APIから日次の時系列を取得し、昇順のPricePointとして返します。
// 終値を価格とし、出来高が返らない銘柄（指数など）はVolumeがnilになります。
func (t *TwelveDataMarket) History(ctx context.Context, asset market.Asset, days int) ([]market.PricePoint, error) {
	if days < 1 {
		return nil, fmt.Errorf("twelvedata days %d: %w", days, market.ErrInvalidInput)
	}
	outputsize := days
	if outputsize > maxOutputSize {
		outputsize = maxOutputSize
	}

	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", asset.SourceSymbol)
	q.Set("interval", "1day")
	q.Set("outputsize", strconv.Itoa(outputsize))
	q.Set("timezone", "UTC")
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := t.client.GetJSON(ctx, u, nil, &body); err != nil {
		return nil, fmt.Errorf("twelvedata time_series %s: %w", asset.SourceSymbol, err)
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata %s: code %d: %s: %w", asset.SourceSymbol, body.Code, body.Message, market.ErrDataUnavailable)
	}
	if len(body.Values) == 0 {
		return nil, fmt.Errorf("twelvedata %s: no values: %w", asset.SourceSymbol, market.ErrDataUnavailable)
	}

	points := make([]market.PricePoint, 0, len(body.Values))
	for _, v := range body.Values {
		// タイムスタンプをパース
		tm, err := parseDatetime(v.Datetime)
		if err != nil {
			return nil, fmt.Errorf("twelvedata %s: parse time %q: %w: %w", asset.SourceSymbol, v.Datetime, market.ErrDataUnavailable, err)
		}
		// 終値をパース
		c, err := strconv.ParseFloat(v.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("twelvedata %s: parse close %q: %w: %w", asset.SourceSymbol, v.Close, market.ErrDataUnavailable, err)
		}

		p := market.PricePoint{Asset: asset.Code, Time: market.Day(tm), Price: c}
		// 出来高は任意
		if v.Volume != "" {
			vol, err := strconv.ParseFloat(v.Volume, 64)
			if err != nil {
				return nil, fmt.Errorf("twelvedata %s: parse volume %q: %w: %w", asset.SourceSymbol, v.Volume, market.ErrDataUnavailable, err)
			}
			p.Volume = market.VolumeOf(vol)
		}
		points = append(points, p)
	}

	// APIは新しい順に返すため昇順に並べ替える
	out, err := market.Normalize(points)
	if err != nil {
		return nil, fmt.Errorf("twelvedata %s: %w", asset.SourceSymbol, err)
	}
	t.logger.Debug().Str("asset", asset.Code).Int("points", len(out)).Msg("fetched history")
	return out, nil
}

func parseDatetime(s string) (time.Time, error) {
	tm, err := time.Parse("2006-01-02 15:04:05", s)
	if err == nil {
		return tm, nil
	}
	return time.Parse("2006-01-02", s)
}
