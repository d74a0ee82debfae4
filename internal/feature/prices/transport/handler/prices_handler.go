// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/feature/prices/transport/http/dto"
	"mining_analytics/internal/feature/prices/usecase"
	infrahttp "mining_analytics/internal/platform/http"
	"mining_analytics/internal/shared/market"
)

// PricesUsecase は価格ユースケースのインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type PricesUsecase interface {
	Assets() []market.Asset
	History(ctx context.Context, code string, days int) ([]market.PricePoint, error)
	Overview(ctx context.Context, days int) (usecase.Overview, error)
}

// PricesHandler は価格データのHTTPリクエストを処理します。
type PricesHandler struct {
	uc          PricesUsecase
	defaultDays int
}

// NewPricesHandler は指定されたusecaseでPricesHandlerの新しいインスタンスを生成します。
func NewPricesHandler(uc PricesUsecase, defaultDays int) *PricesHandler {
	return &PricesHandler{uc: uc, defaultDays: defaultDays}
}

// ListAssets は登録済み資産の一覧をJSONで返します。
//
// エンドポイント例:
// GET /api/assets
func (h *PricesHandler) ListAssets(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToAssetResponses(h.uc.Assets()))
}

// GetPrices は資産コードと日数を受け取り、日次価格をJSONで返します。
//
// エンドポイント例:
// GET /api/prices/:asset?days=30
func (h *PricesHandler) GetPrices(c *gin.Context) {
	days, err := infrahttp.QueryInt(c, "days", h.defaultDays)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	points, err := h.uc.History(c.Request.Context(), c.Param("asset"), days)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	asset := c.Param("asset")
	if len(points) > 0 {
		asset = points[0].Asset
	}
	c.JSON(http.StatusOK, dto.PriceHistoryResponse{
		Asset:  asset,
		Days:   days,
		Points: dto.ToPricePoints(points),
	})
}

// GetOverview はホーム画面用のBTC概要指標をJSONで返します。
//
// エンドポイント例:
// GET /api/overview?days=30
func (h *PricesHandler) GetOverview(c *gin.Context) {
	days, err := infrahttp.QueryInt(c, "days", h.defaultDays)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	ov, err := h.uc.Overview(c.Request.Context(), days)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToOverviewResponse(ov))
}
