// Package handler はtechnicalフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/feature/technical/transport/http/dto"
	"mining_analytics/internal/feature/technical/usecase"
	infrahttp "mining_analytics/internal/platform/http"
	"mining_analytics/internal/shared/indicator"
)

// DefaultDays は days が省略された場合の取得日数です。
const DefaultDays = 90

// TechnicalUsecase はテクニカル分析ユースケースのインターフェースを定義します。
type TechnicalUsecase interface {
	Analyze(ctx context.Context, code string, days int, p usecase.Params) (usecase.Analysis, error)
}

// TechnicalHandler はテクニカル指標のHTTPリクエストを処理します。
type TechnicalHandler struct {
	uc TechnicalUsecase
}

// NewTechnicalHandler は指定されたusecaseでTechnicalHandlerの新しいインスタンスを生成します。
func NewTechnicalHandler(uc TechnicalUsecase) *TechnicalHandler {
	return &TechnicalHandler{uc: uc}
}

// GetIndicators はクエリパラメータの期間で指標を計算し、系列とシグナルをJSONで返します。
//
// エンドポイント例:
// GET /api/technical/:asset?days=90&rsi_period=14&macd_fast=12&macd_slow=26&macd_signal=9&bb_period=20&bb_std=2&smoothing=wilder
func (h *TechnicalHandler) GetIndicators(c *gin.Context) {
	days, p, err := parseParams(c)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	a, err := h.uc.Analyze(c.Request.Context(), c.Param("asset"), days, p)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToTechnicalResponse(a))
}

func parseParams(c *gin.Context) (int, usecase.Params, error) {
	p := usecase.DefaultParams()

	days, err := infrahttp.QueryInt(c, "days", DefaultDays)
	if err != nil {
		return 0, p, err
	}
	ints := []struct {
		key string
		dst *int
	}{
		{"rsi_period", &p.RSIPeriod},
		{"macd_fast", &p.MACDFast},
		{"macd_slow", &p.MACDSlow},
		{"macd_signal", &p.MACDSignal},
		{"bb_period", &p.BBPeriod},
	}
	for _, q := range ints {
		if *q.dst, err = infrahttp.QueryInt(c, q.key, *q.dst); err != nil {
			return 0, p, err
		}
	}
	if p.BBStd, err = infrahttp.QueryFloat(c, "bb_std", p.BBStd); err != nil {
		return 0, p, err
	}
	if p.Smoothing, err = indicator.ParseSmoothing(c.Query("smoothing")); err != nil {
		return 0, p, err
	}
	return days, p, nil
}
