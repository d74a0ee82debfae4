package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	correlationusecase "mining_analytics/internal/feature/correlation/usecase"
	miningusecase "mining_analytics/internal/feature/mining/usecase"
	priceadapters "mining_analytics/internal/feature/prices/adapters"
	pricesusecase "mining_analytics/internal/feature/prices/usecase"
	technicalusecase "mining_analytics/internal/feature/technical/usecase"
	"mining_analytics/internal/platform/cache"
	"mining_analytics/internal/platform/config"
	infradb "mining_analytics/internal/platform/db"
	"mining_analytics/internal/platform/http/handler"
	"mining_analytics/internal/platform/metrics"
	infraredis "mining_analytics/internal/platform/redis"
	"mining_analytics/internal/shared/market"
	"mining_analytics/internal/shared/ratelimiter"
)

// App holds the wired components shared by the server and the CLIs.
type App struct {
	Config   config.Config
	DB       *gorm.DB
	Redis    *redis.Client // nil when Redis is not configured or unreachable
	Metrics  *metrics.Metrics
	Registry *market.Registry
	Cache    *cache.CachingPriceRepository

	Prices      *pricesusecase.PricesUsecase
	Ingest      *pricesusecase.IngestUsecase
	Technical   *technicalusecase.TechnicalUsecase
	Mining      *miningusecase.MiningUsecase
	Correlation *correlationusecase.CorrelationUsecase

	closers []func() error
}

// New connects the database and the optional Redis cache and builds every use case.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	db, err := infradb.Open(infradb.LoadConfigFromEnv(), &priceadapters.PricePointModel{})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	app := &App{Config: cfg, DB: db, Metrics: m, Registry: market.NewRegistry(market.DefaultAssets)}
	if sqlDB, err := db.DB(); err == nil {
		app.closers = append(app.closers, sqlDB.Close)
	}

	rdb, err := infraredis.NewRedisClient(ctx, infraredis.LoadConfig())
	switch {
	case errors.Is(err, infraredis.ErrNotConfigured):
		log.Info().Msg("redis not configured, using in-memory price cache")
	case err != nil:
		log.Warn().Err(err).Msg("redis unavailable, using in-memory price cache")
	default:
		app.Redis = rdb
		app.closers = append(app.closers, rdb.Close)
	}

	store := NewCacheStore(app.Redis)
	if ms, ok := store.(*cache.MemoryStore); ok {
		app.closers = append(app.closers, func() error { ms.Close(); return nil })
	}
	app.Cache = cache.NewCachingPriceRepository(store, cfg.CacheTTL, priceadapters.NewPriceRepository(db), "prices", m)

	provider := NewMarket(m)
	app.Prices = pricesusecase.NewPricesUsecase(app.Registry, app.Cache, provider, provider, pricesusecase.Options{
		MaxAge:           cfg.PriceMaxAge,
		MaxDays:          cfg.MaxDays,
		VolatilityWindow: cfg.VolatilityWindow,
	}).WithCacheInvalidator(app.Cache)
	app.Ingest = pricesusecase.NewIngestUsecase(provider, app.Cache,
		ratelimiter.NewRateLimiter("ingest", cfg.IngestLimit, cfg.IngestInterval), m)
	app.Technical = technicalusecase.NewTechnicalUsecase(app.Prices)
	app.Mining = miningusecase.NewMiningUsecase(app.Prices, miningusecase.Defaults{
		NetworkDifficulty: cfg.NetworkDifficulty,
		BlockReward:       cfg.BlockReward,
	})
	app.Correlation = correlationusecase.NewCorrelationUsecase(app.Prices, correlationusecase.Options{
		Assets:      cfg.CorrelationAssets,
		Focus:       cfg.CorrelationFocus,
		Window:      cfg.CorrelationWindow,
		Concurrency: cfg.CorrelationFanOut,
	})
	return app, nil
}

// HealthChecks returns the dependency probes reported by /healthz.
func (a *App) HealthChecks() map[string]handler.CheckFunc {
	checks := map[string]handler.CheckFunc{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}
	}
	return checks
}

// Close releases connections in reverse order of creation.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Error().Err(err).Msg("failed to close resource")
		}
	}
	a.closers = nil
}
