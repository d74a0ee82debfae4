package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mining_analytics/internal/app/di"
	"mining_analytics/internal/platform/config"
	"mining_analytics/internal/platform/logger"
	"mining_analytics/internal/shared/market"
)

var errAllFailed = errors.New("every asset failed to ingest")

// 引数に資産コードを渡すとその資産だけを取り込む（例: ingest BTC SPX）。
func main() {
	config.LoadDotEnv()
	logger.Setup(logger.LoadConfig())

	if err := run(config.Load(), os.Args[1:]); err != nil {
		log.Error().Err(err).Msg("ingest failed")
		os.Exit(1)
	}
}

func run(cfg config.Config, codes []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 15*time.Minute)
	defer cancel()

	app, err := di.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	assets, err := selectAssets(app.Registry, codes)
	if err != nil {
		return err
	}

	results, err := app.Ingest.IngestAll(ctx, assets, cfg.IngestDays)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	log.Info().Int("assets", len(results)).Int("failed", failed).Int("days", cfg.IngestDays).Msg("ingest finished")
	if len(results) > 0 && failed == len(results) {
		return errAllFailed
	}
	return nil
}

func selectAssets(registry *market.Registry, codes []string) ([]market.Asset, error) {
	if len(codes) == 0 {
		return registry.All(), nil
	}
	assets := make([]market.Asset, 0, len(codes))
	for _, code := range codes {
		a, err := registry.Lookup(code)
		if err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, nil
}
