// Package handler はminingフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/feature/mining/transport/http/dto"
	"mining_analytics/internal/feature/mining/usecase"
	infrahttp "mining_analytics/internal/platform/http"
)

// MiningUsecase は採掘計算ユースケースのインターフェースを定義します。
type MiningUsecase interface {
	Calculate(ctx context.Context, in usecase.Input) (usecase.Output, error)
}

// MiningHandler は採掘収益性計算のHTTPリクエストを処理します。
type MiningHandler struct {
	uc MiningUsecase
}

// NewMiningHandler は指定されたusecaseでMiningHandlerの新しいインスタンスを生成します。
func NewMiningHandler(uc MiningUsecase) *MiningHandler {
	return &MiningHandler{uc: uc}
}

// Profitability はリクエストボディの採掘パラメータから収益性を計算して返します。
//
// エンドポイント例:
// POST /api/mining/profitability
func (h *MiningHandler) Profitability(c *gin.Context) {
	var req dto.ProfitabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, infrahttp.ErrorResponse{Error: err.Error()})
		return
	}

	out, err := h.uc.Calculate(c.Request.Context(), req.ToInput())
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToProfitabilityResponse(out))
}
