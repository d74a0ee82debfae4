package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/app/di"
	"mining_analytics/internal/app/router"
	correlationhandler "mining_analytics/internal/feature/correlation/transport/handler"
	mininghandler "mining_analytics/internal/feature/mining/transport/handler"
	priceshandler "mining_analytics/internal/feature/prices/transport/handler"
	technicalhandler "mining_analytics/internal/feature/technical/transport/handler"
	"mining_analytics/internal/platform/config"
	"mining_analytics/internal/platform/http/handler"
	jwtmw "mining_analytics/internal/platform/jwt"
	"mining_analytics/internal/platform/logger"
)

func main() {
	config.LoadDotEnv()
	logger.Setup(logger.LoadConfig())
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := di.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer app.Close()

	// Handler
	h := router.Handlers{
		Health:      handler.NewHealthHandler(app.HealthChecks()),
		Prices:      priceshandler.NewPricesHandler(app.Prices, cfg.DefaultDays),
		Admin:       priceshandler.NewAdminHandler(app.Ingest, app.Prices, app.Registry, cfg.IngestDays),
		Technical:   technicalhandler.NewTechnicalHandler(app.Technical),
		Mining:      mininghandler.NewMiningHandler(app.Mining),
		Correlation: correlationhandler.NewCorrelationHandler(app.Correlation, cfg.DefaultDays),
	}

	// ルータ生成
	r := router.NewRouter(h, app.Metrics)

	// JWT_SECRETチェック（開発中の注意喚起）
	if os.Getenv(jwtmw.EnvKeyJWTSecret) == "" {
		log.Warn().Msg("JWT_SECRET is not set; admin endpoints will reject every request")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
