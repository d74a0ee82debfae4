// Package usecase はテクニカル指標分析のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
)

// RSIの判定しきい値。
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// RSIゾーン。
const (
	ZoneOverbought = "overbought"
	ZoneOversold   = "oversold"
	ZoneNeutral    = "neutral"
)

// MACDシグナル。
const (
	MACDBullishCrossover = "bullish_crossover"
	MACDBearishCrossover = "bearish_crossover"
	MACDBullish          = "bullish"
	MACDBearish          = "bearish"
	MACDNeutral          = "neutral"
)

// ボリンジャーバンドに対する終値の位置。
const (
	BandAboveUpper = "above_upper"
	BandBelowLower = "below_lower"
	BandInside     = "inside"
)

// DefaultRSIPeriod はRSIの既定期間です。
const DefaultRSIPeriod = 14

// HistorySource は資産の日次価格履歴を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HistorySource interface {
	History(ctx context.Context, code string, days int) ([]market.PricePoint, error)
}

// Params は指標の計算パラメータです。
type Params struct {
	RSIPeriod  int
	Smoothing  indicator.Smoothing
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	BBPeriod   int
	BBStd      float64
}

// DefaultParams は既定の指標パラメータを返します。
func DefaultParams() Params {
	return Params{
		RSIPeriod:  DefaultRSIPeriod,
		Smoothing:  indicator.SmoothingWilder,
		MACDFast:   indicator.DefaultMACDFast,
		MACDSlow:   indicator.DefaultMACDSlow,
		MACDSignal: indicator.DefaultMACDSignal,
		BBPeriod:   indicator.DefaultBollingerPeriod,
		BBStd:      indicator.DefaultBollingerStd,
	}
}

// Signals は最新時点の判定結果です。値が未定義の場合は空文字とnilになります。
type Signals struct {
	RSI       *float64
	RSIZone   string
	MACD      string
	Bollinger string
}

// Analysis はテクニカル分析の結果です。指標の系列はPricesと同じ時刻に揃っています。
type Analysis struct {
	Asset     string
	Days      int
	Params    Params
	Prices    []market.PricePoint
	RSI       indicator.Result
	MACD      indicator.MACDResult
	Bollinger indicator.BollingerResult
	Signals   Signals
}

// TechnicalUsecase はテクニカル分析のユースケースを定義します。
type TechnicalUsecase struct {
	history HistorySource
	logger  zerolog.Logger
}

// NewTechnicalUsecase はTechnicalUsecaseの新しいインスタンスを生成します。
func NewTechnicalUsecase(history HistorySource) *TechnicalUsecase {
	return &TechnicalUsecase{
		history: history,
		logger:  log.With().Str("component", "technical_usecase").Logger(),
	}
}

// Analyze は資産の価格履歴を取得し、RSI・MACD・ボリンジャーバンドと最新のシグナルを計算します。
// 期間に対して価格が不足している場合は market.ErrInvalidInput を返します。
func (u *TechnicalUsecase) Analyze(ctx context.Context, code string, days int, p Params) (Analysis, error) {
	points, err := u.history.History(ctx, code, days)
	if err != nil {
		return Analysis{}, err
	}

	rsi, err := indicator.RSIWithSmoothing(points, p.RSIPeriod, p.Smoothing)
	if err != nil {
		return Analysis{}, fmt.Errorf("rsi: %w", err)
	}
	macd, err := indicator.MACD(points, p.MACDFast, p.MACDSlow, p.MACDSignal)
	if err != nil {
		return Analysis{}, fmt.Errorf("macd: %w", err)
	}
	bands, err := indicator.BollingerBands(points, p.BBPeriod, p.BBStd)
	if err != nil {
		return Analysis{}, fmt.Errorf("bollinger: %w", err)
	}

	asset := strings.ToUpper(strings.TrimSpace(code))
	if last, ok := market.Last(points); ok && last.Asset != "" {
		asset = last.Asset
	}

	a := Analysis{
		Asset:     asset,
		Days:      days,
		Params:    p,
		Prices:    points,
		RSI:       rsi,
		MACD:      macd,
		Bollinger: bands,
	}
	a.Signals = Signals{
		MACD:      MACDSignal(macd),
		Bollinger: BandPosition(points, bands),
	}
	if last, ok := rsi.Last(); ok {
		v := last.Value
		a.Signals.RSI = &v
		a.Signals.RSIZone = RSIZone(v)
	}

	u.logger.Debug().Str("asset", asset).Int("points", len(points)).
		Str("rsi_zone", a.Signals.RSIZone).Str("macd", a.Signals.MACD).Msg("technical analysis computed")
	return a, nil
}

// RSIZone はRSI値をゾーンに分類します。
func RSIZone(v float64) string {
	switch {
	case v >= RSIOverbought:
		return ZoneOverbought
	case v <= RSIOversold:
		return ZoneOversold
	default:
		return ZoneNeutral
	}
}

// MACDSignal は最後の2点のMACDとシグナル線の関係からシグナルを判定します。
// 定義済みの点が1つもない場合は空文字を返します。
func MACDSignal(m indicator.MACDResult) string {
	n := len(m.MACD.Points)
	if n == 0 || n != len(m.Signal.Points) {
		return ""
	}
	cur := m.MACD.Points[n-1].Value - m.Signal.Points[n-1].Value
	if !indicator.IsDefined(cur) {
		return ""
	}
	if n >= 2 {
		prev := m.MACD.Points[n-2].Value - m.Signal.Points[n-2].Value
		if indicator.IsDefined(prev) {
			switch {
			case prev <= 0 && cur > 0:
				return MACDBullishCrossover
			case prev >= 0 && cur < 0:
				return MACDBearishCrossover
			}
		}
	}
	switch {
	case cur > 0:
		return MACDBullish
	case cur < 0:
		return MACDBearish
	default:
		return MACDNeutral
	}
}

// BandPosition は最新の終値がボリンジャーバンドのどこにあるかを返します。
func BandPosition(points []market.PricePoint, b indicator.BollingerResult) string {
	last, ok := market.Last(points)
	n := len(b.Upper.Points)
	if !ok || n == 0 || n != len(b.Lower.Points) {
		return ""
	}
	upper, lower := b.Upper.Points[n-1].Value, b.Lower.Points[n-1].Value
	if !indicator.IsDefined(upper) || !indicator.IsDefined(lower) {
		return ""
	}
	switch {
	case last.Price > upper:
		return BandAboveUpper
	case last.Price < lower:
		return BandBelowLower
	default:
		return BandInside
	}
}
