// Package dto はcorrelationフィーチャーのHTTPレスポンスDTOを定義します。
package dto

import (
	"mining_analytics/internal/feature/correlation/usecase"
	"mining_analytics/internal/shared/numeric"
)

const dateLayout = "2006-01-02"

// PairResponse はBTCと1資産の相関です。
type PairResponse struct {
	Asset       string   `json:"asset"`
	Coefficient *float64 `json:"coefficient"`
	Strength    string   `json:"strength,omitempty"`
}

// InsightsResponse はBTCと他資産の相関の要約です。
type InsightsResponse struct {
	Average   *float64 `json:"average"`
	Strongest *float64 `json:"strongest"`
	Weakest   *float64 `json:"weakest"`
}

// MatrixResponse は相関行列です。Values[i][j] は Labels[i] と Labels[j] の係数です。
type MatrixResponse struct {
	Labels []string     `json:"labels"`
	Values [][]*float64 `json:"values"`
}

// RollingPointResponse はローリング相関の1点です。
type RollingPointResponse struct {
	Time  string   `json:"time"`
	Value *float64 `json:"value"`
}

// CorrelationResponse は GET /api/correlation のレスポンスです。
type CorrelationResponse struct {
	Days     int                    `json:"days"`
	Window   int                    `json:"window"`
	Focus    string                 `json:"focus"`
	Assets   []string               `json:"assets"`
	Skipped  map[string]string      `json:"skipped,omitempty"`
	Matrix   MatrixResponse         `json:"matrix"`
	Pairs    []PairResponse         `json:"pairs"`
	Insights InsightsResponse       `json:"insights"`
	Rolling  []RollingPointResponse `json:"rolling_correlation"`
}

// ToCorrelationResponse はusecaseの分析結果をレスポンスDTOに変換します。
func ToCorrelationResponse(a usecase.Analysis) CorrelationResponse {
	matrix := MatrixResponse{Labels: a.Matrix.Labels, Values: make([][]*float64, len(a.Matrix.Values))}
	for i, row := range a.Matrix.Values {
		matrix.Values[i] = make([]*float64, len(row))
		for j, v := range row {
			matrix.Values[i][j] = numeric.Nullable(v, numeric.PlacesRatio)
		}
	}

	pairs := make([]PairResponse, len(a.Pairs))
	for i, p := range a.Pairs {
		pairs[i] = PairResponse{
			Asset:       p.Asset,
			Coefficient: numeric.Nullable(p.Coefficient, numeric.PlacesRatio),
			Strength:    p.Strength,
		}
	}

	rolling := []RollingPointResponse{}
	if a.Rolling != nil {
		for _, p := range a.Rolling.Points {
			rolling = append(rolling, RollingPointResponse{
				Time:  p.Time.UTC().Format(dateLayout),
				Value: numeric.Nullable(p.Value, numeric.PlacesRatio),
			})
		}
	}

	return CorrelationResponse{
		Days:    a.Days,
		Window:  a.Window,
		Focus:   a.Focus,
		Assets:  a.Assets,
		Skipped: a.Skipped,
		Matrix:  matrix,
		Pairs:   pairs,
		Insights: InsightsResponse{
			Average:   numeric.Nullable(a.Insights.Average, numeric.PlacesRatio),
			Strongest: numeric.Nullable(a.Insights.Strongest, numeric.PlacesRatio),
			Weakest:   numeric.Nullable(a.Insights.Weakest, numeric.PlacesRatio),
		},
		Rolling: rolling,
	}
}
