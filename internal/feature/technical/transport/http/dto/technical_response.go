// Package dto はtechnicalフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"mining_analytics/internal/feature/technical/usecase"
	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/numeric"
)

const dateLayout = "2006-01-02"

// ParamsResponse は計算に使用したパラメータです。
type ParamsResponse struct {
	RSIPeriod    int     `json:"rsi_period"`
	RSISmoothing string  `json:"rsi_smoothing"`
	MACDFast     int     `json:"macd_fast"`
	MACDSlow     int     `json:"macd_slow"`
	MACDSignal   int     `json:"macd_signal"`
	BBPeriod     int     `json:"bb_period"`
	BBStd        float64 `json:"bb_std"`
}

// PointResponse は日付ごとの価格と指標値です。未定義の指標は null になります。
type PointResponse struct {
	Time          string   `json:"time"`
	Price         float64  `json:"price"`
	RSI           *float64 `json:"rsi"`
	MACD          *float64 `json:"macd"`
	MACDSignal    *float64 `json:"macd_signal"`
	MACDHistogram *float64 `json:"macd_histogram"`
	BBUpper       *float64 `json:"bb_upper"`
	BBMiddle      *float64 `json:"bb_middle"`
	BBLower       *float64 `json:"bb_lower"`
}

// SignalsResponse は最新時点のシグナルです。
type SignalsResponse struct {
	RSI       *float64 `json:"rsi"`
	RSIZone   string   `json:"rsi_zone,omitempty"`
	MACD      string   `json:"macd,omitempty"`
	Bollinger string   `json:"bollinger,omitempty"`
}

// TechnicalResponse は GET /api/technical/:asset のレスポンスです。
type TechnicalResponse struct {
	Asset   string          `json:"asset"`
	Days    int             `json:"days"`
	Params  ParamsResponse  `json:"params"`
	Signals SignalsResponse `json:"signals"`
	Points  []PointResponse `json:"points"`
}

// ToTechnicalResponse はusecaseの分析結果をレスポンスDTOに変換します。
func ToTechnicalResponse(a usecase.Analysis) TechnicalResponse {
	points := make([]PointResponse, len(a.Prices))
	for i, p := range a.Prices {
		points[i] = PointResponse{
			Time:          p.Time.UTC().Format(dateLayout),
			Price:         numeric.Round(p.Price, numeric.PlacesUSD),
			RSI:           valueAt(a.RSI, i, numeric.PlacesPercent),
			MACD:          valueAt(a.MACD.MACD, i, numeric.PlacesRatio),
			MACDSignal:    valueAt(a.MACD.Signal, i, numeric.PlacesRatio),
			MACDHistogram: valueAt(a.MACD.Histogram, i, numeric.PlacesRatio),
			BBUpper:       valueAt(a.Bollinger.Upper, i, numeric.PlacesUSD),
			BBMiddle:      valueAt(a.Bollinger.Middle, i, numeric.PlacesUSD),
			BBLower:       valueAt(a.Bollinger.Lower, i, numeric.PlacesUSD),
		}
	}

	return TechnicalResponse{
		Asset: a.Asset,
		Days:  a.Days,
		Params: ParamsResponse{
			RSIPeriod:    a.Params.RSIPeriod,
			RSISmoothing: a.Params.Smoothing.String(),
			MACDFast:     a.Params.MACDFast,
			MACDSlow:     a.Params.MACDSlow,
			MACDSignal:   a.Params.MACDSignal,
			BBPeriod:     a.Params.BBPeriod,
			BBStd:        a.Params.BBStd,
		},
		Signals: SignalsResponse{
			RSI:       numeric.RoundPtr(a.Signals.RSI, numeric.PlacesPercent),
			RSIZone:   a.Signals.RSIZone,
			MACD:      a.Signals.MACD,
			Bollinger: a.Signals.Bollinger,
		},
		Points: points,
	}
}

func valueAt(r indicator.Result, i int, places int32) *float64 {
	if i >= len(r.Points) {
		return nil
	}
	return numeric.Nullable(r.Points[i].Value, places)
}
