// Package usecase は採掘収益性計算のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/feature/mining/domain/profitability"
	"mining_analytics/internal/shared/market"
)

// 既定のネットワーク条件。リクエストで省略された場合に使用します。
const (
	DefaultNetworkDifficulty = 1.1e14
	DefaultBlockReward       = 3.125
)

// BTC価格の出所。
const (
	PriceFromRequest = "request"
	PriceFromMarket  = "market"
)

// PriceSource は資産の最新価格を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceSource interface {
	LatestPrice(ctx context.Context, code string) (float64, error)
}

// Defaults はリクエストで省略可能な値の既定値です。
type Defaults struct {
	NetworkDifficulty float64
	BlockReward       float64
}

// Input は採掘計算の入力です。ポインタのフィールドは省略可能です。
type Input struct {
	HashrateTHs           float64
	PowerWatts            float64
	ElectricityCostPerKWh float64
	PoolFeePct            float64
	HardwareCost          float64

	BTCPrice          *float64 // 省略時は最新のBTC価格
	NetworkDifficulty *float64
	BlockReward       *float64
	CurvePrices       []float64 // 省略時は profitability.DefaultCurvePrices
}

// Output は採掘計算の結果です。
type Output struct {
	Params      profitability.Params
	PriceSource string
	Result      profitability.Result
	Curve       []profitability.CurvePoint
}

// MiningUsecase は採掘収益性計算のユースケースを定義します。
type MiningUsecase struct {
	prices   PriceSource
	defaults Defaults
	logger   zerolog.Logger
}

// NewMiningUsecase はMiningUsecaseの新しいインスタンスを生成します。
// ゼロ値の既定値にはパッケージの既定値が入ります。
func NewMiningUsecase(prices PriceSource, defaults Defaults) *MiningUsecase {
	if defaults.NetworkDifficulty <= 0 {
		defaults.NetworkDifficulty = DefaultNetworkDifficulty
	}
	if defaults.BlockReward <= 0 {
		defaults.BlockReward = DefaultBlockReward
	}
	return &MiningUsecase{
		prices:   prices,
		defaults: defaults,
		logger:   log.With().Str("component", "mining_usecase").Logger(),
	}
}

// Calculate は入力の省略値を補完し、収益性と価格別の利益曲線を計算します。
func (u *MiningUsecase) Calculate(ctx context.Context, in Input) (Output, error) {
	p := profitability.Params{
		HashrateTHs:           in.HashrateTHs,
		PowerWatts:            in.PowerWatts,
		ElectricityCostPerKWh: in.ElectricityCostPerKWh,
		PoolFeePct:            in.PoolFeePct,
		HardwareCost:          in.HardwareCost,
		NetworkDifficulty:     u.defaults.NetworkDifficulty,
		BlockReward:           u.defaults.BlockReward,
	}
	if in.NetworkDifficulty != nil {
		p.NetworkDifficulty = *in.NetworkDifficulty
	}
	if in.BlockReward != nil {
		p.BlockReward = *in.BlockReward
	}

	// 価格取得の前に入力を検証し、不正な入力で上流を呼ばない
	check := p
	check.BTCPrice = 0
	if err := check.Validate(); err != nil {
		return Output{}, err
	}

	source := PriceFromRequest
	if in.BTCPrice != nil {
		p.BTCPrice = *in.BTCPrice
	} else {
		if u.prices == nil {
			return Output{}, fmt.Errorf("btc_price is required: %w", market.ErrInvalidInput)
		}
		price, err := u.prices.LatestPrice(ctx, market.BaseAsset)
		if err != nil {
			return Output{}, fmt.Errorf("latest btc price: %w", err)
		}
		p.BTCPrice = price
		source = PriceFromMarket
	}

	result, err := profitability.Calculate(p)
	if err != nil {
		return Output{}, err
	}

	prices := in.CurvePrices
	if len(prices) == 0 {
		prices = profitability.DefaultCurvePrices()
	}
	curve, err := profitability.ProfitCurve(p, prices)
	if err != nil {
		return Output{}, err
	}

	u.logger.Debug().
		Float64("hashrate_ths", p.HashrateTHs).
		Float64("btc_price", p.BTCPrice).
		Str("price_source", source).
		Float64("daily_profit", result.DailyProfit).
		Msg("calculated profitability")

	return Output{Params: p, PriceSource: source, Result: result, Curve: curve}, nil
}
