// Package handler はcorrelationフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/feature/correlation/transport/http/dto"
	"mining_analytics/internal/feature/correlation/usecase"
	infrahttp "mining_analytics/internal/platform/http"
)

// CorrelationUsecase は相関分析ユースケースのインターフェースを定義します。
type CorrelationUsecase interface {
	Analyze(ctx context.Context, req usecase.Request) (usecase.Analysis, error)
}

// CorrelationHandler は相関分析のHTTPリクエストを処理します。
type CorrelationHandler struct {
	uc          CorrelationUsecase
	defaultDays int
}

// NewCorrelationHandler は指定されたusecaseでCorrelationHandlerの新しいインスタンスを生成します。
func NewCorrelationHandler(uc CorrelationUsecase, defaultDays int) *CorrelationHandler {
	return &CorrelationHandler{uc: uc, defaultDays: defaultDays}
}

// GetCorrelation はBTCと比較資産の相関行列とローリング相関をJSONで返します。
// window・focus・assets を省略した場合はサーバーの既定値を使用します。
//
// エンドポイント例:
// GET /api/correlation?days=30&window=30&focus=SPX&assets=SPX,GLD,QQQ,TLT
func (h *CorrelationHandler) GetCorrelation(c *gin.Context) {
	days, err := infrahttp.QueryInt(c, "days", h.defaultDays)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	window, err := infrahttp.QueryInt(c, "window", 0)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	a, err := h.uc.Analyze(c.Request.Context(), usecase.Request{
		Days:   days,
		Window: window,
		Focus:  c.Query("focus"),
		Assets: infrahttp.QueryList(c, "assets", nil),
	})
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToCorrelationResponse(a))
}
