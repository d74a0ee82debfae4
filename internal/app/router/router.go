// Package router builds the gin engine and its routes.
package router

import (
	"github.com/gin-gonic/gin"

	correlationhandler "mining_analytics/internal/feature/correlation/transport/handler"
	mininghandler "mining_analytics/internal/feature/mining/transport/handler"
	priceshandler "mining_analytics/internal/feature/prices/transport/handler"
	technicalhandler "mining_analytics/internal/feature/technical/transport/handler"
	infrahttp "mining_analytics/internal/platform/http"
	"mining_analytics/internal/platform/http/handler"
	jwtmw "mining_analytics/internal/platform/jwt"
	"mining_analytics/internal/platform/metrics"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Health      *handler.HealthHandler
	Prices      *priceshandler.PricesHandler
	Admin       *priceshandler.AdminHandler
	Technical   *technicalhandler.TechnicalHandler
	Mining      *mininghandler.MiningHandler
	Correlation *correlationhandler.CorrelationHandler
}

func NewRouter(h Handlers, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), infrahttp.RequestID(), infrahttp.AccessLog(), infrahttp.Metrics(m))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	api := r.Group("/api")
	{
		api.GET("/assets", h.Prices.ListAssets)
		api.GET("/overview", h.Prices.GetOverview)
		api.GET("/prices/:asset", h.Prices.GetPrices)
		api.GET("/technical/:asset", h.Technical.GetIndicators)
		api.POST("/mining/profitability", h.Mining.Profitability)
		api.GET("/correlation", h.Correlation.GetCorrelation)
	}

	// 認証必須のルート
	// jwtmw.AuthRequired() でJWTを検証し、adminロールのみ許可する
	admin := r.Group("/admin")
	admin.Use(jwtmw.AuthRequired(), jwtmw.RequireRole(jwtmw.RoleAdmin))
	{
		admin.POST("/ingest", h.Admin.Ingest)
		admin.DELETE("/cache/:asset", h.Admin.InvalidateCache)
	}

	return r
}
