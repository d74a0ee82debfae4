package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"mining_analytics/internal/app/di"
	miningusecase "mining_analytics/internal/feature/mining/usecase"
	"mining_analytics/internal/platform/config"
	"mining_analytics/internal/platform/logger"
)

// BTCの価格統計・リスク指標・採掘指標をテキストで標準出力に書く。
func main() {
	config.LoadDotEnv()
	logger.Setup(logger.LoadConfig())
	cfg := config.Load()

	days := flag.Int("days", cfg.DefaultDays, "history window in days")
	hashrate := flag.Float64("hashrate", 100, "miner hashrate in TH/s")
	power := flag.Float64("power", 3000, "power draw in watts")
	electricity := flag.Float64("electricity", 0.12, "electricity cost in USD per kWh")
	poolFee := flag.Float64("pool-fee", 0, "pool fee in percent")
	hardware := flag.Float64("hardware", 0, "hardware cost in USD")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	app, err := di.New(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize application")
	}
	defer app.Close()

	ov, err := app.Prices.Overview(ctx, *days)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load price overview")
	}

	price := ov.CurrentPrice
	mining, err := app.Mining.Calculate(ctx, miningusecase.Input{
		HashrateTHs:           *hashrate,
		PowerWatts:            *power,
		ElectricityCostPerKWh: *electricity,
		PoolFeePct:            *poolFee,
		HardwareCost:          *hardware,
		BTCPrice:              &price,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("invalid mining parameters")
	}

	if err := render(os.Stdout, report{Overview: ov, Mining: mining, GeneratedAt: time.Now()}); err != nil {
		log.Fatal().Err(err).Msg("failed to write report")
	}
}
