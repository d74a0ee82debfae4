package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"mining_analytics/internal/feature/prices/usecase"
	infrahttp "mining_analytics/internal/platform/http"
	"mining_analytics/internal/shared/market"
)

// IngestUsecase は取り込みユースケースのインターフェースです。
type IngestUsecase interface {
	IngestAll(ctx context.Context, assets []market.Asset, days int) ([]usecase.IngestResult, error)
}

// CacheUsecase は資産ごとのキャッシュ無効化を行います。
type CacheUsecase interface {
	Invalidate(ctx context.Context, code string) error
}

// AssetResolver は資産コードを解決します。*market.Registry がこれを満たします。
type AssetResolver interface {
	Lookup(code string) (market.Asset, error)
	All() []market.Asset
}

// ingestRequest は POST /admin/ingest のリクエストボディです。すべて省略可能です。
type ingestRequest struct {
	Assets []string `json:"assets"`
	Days   int      `json:"days" binding:"omitempty,min=1,max=5000"`
}

type ingestResultResponse struct {
	Asset  string `json:"asset"`
	Points int    `json:"points"`
	Error  string `json:"error,omitempty"`
}

// AdminHandler は管理者向けの取り込みとキャッシュ操作を処理します。
type AdminHandler struct {
	ingest      IngestUsecase
	cache       CacheUsecase
	assets      AssetResolver
	defaultDays int
}

// NewAdminHandler はAdminHandlerの新しいインスタンスを生成します。
func NewAdminHandler(ingest IngestUsecase, cache CacheUsecase, assets AssetResolver, defaultDays int) *AdminHandler {
	return &AdminHandler{ingest: ingest, cache: cache, assets: assets, defaultDays: defaultDays}
}

// Ingest は指定資産（省略時は全資産）の価格を上流から取り込みます。
// 一部の資産が失敗しても200を返し、資産ごとの結果を返します。
//
// エンドポイント例:
// POST /admin/ingest {"assets": ["BTC"], "days": 365}
func (h *AdminHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, infrahttp.ErrorResponse{Error: err.Error()})
			return
		}
	}
	if req.Days == 0 {
		req.Days = h.defaultDays
	}

	assets := h.assets.All()
	if len(req.Assets) > 0 {
		assets = assets[:0:0]
		for _, code := range req.Assets {
			a, err := h.assets.Lookup(code)
			if err != nil {
				infrahttp.WriteError(c, err)
				return
			}
			assets = append(assets, a)
		}
	}

	results, err := h.ingest.IngestAll(c.Request.Context(), assets, req.Days)
	if err != nil {
		infrahttp.WriteError(c, err)
		return
	}

	out := make([]ingestResultResponse, 0, len(results))
	for _, r := range results {
		res := ingestResultResponse{Asset: r.Asset, Points: r.Points}
		if r.Err != nil {
			res.Error = r.Err.Error()
		}
		out = append(out, res)
	}
	c.JSON(http.StatusOK, gin.H{"days": req.Days, "results": out})
}

// InvalidateCache は資産のキャッシュを破棄します。
//
// エンドポイント例:
// DELETE /admin/cache/:asset
func (h *AdminHandler) InvalidateCache(c *gin.Context) {
	if err := h.cache.Invalidate(c.Request.Context(), c.Param("asset")); err != nil {
		infrahttp.WriteError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
