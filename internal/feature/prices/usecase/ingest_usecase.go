package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"mining_analytics/internal/shared/market"
	"mining_analytics/internal/shared/ratelimiter"
)

// IngestRecorder は取り込み件数を記録します。*metrics.Metrics がこれを満たします。
type IngestRecorder interface {
	AddIngested(asset string, n int)
}

// IngestResult は1資産分の取り込み結果です。
type IngestResult struct {
	Asset  string
	Points int
	Err    error
}

// IngestUsecase は外部APIから価格を取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	provider    MarketDataProvider
	repo        PriceRepository
	rateLimiter ratelimiter.Limiter
	recorder    IngestRecorder
	logger      zerolog.Logger
}

// NewIngestUsecase は新しい IngestUsecase を作成します。recorder は nil でも構いません。
func NewIngestUsecase(provider MarketDataProvider, repo PriceRepository, rateLimiter ratelimiter.Limiter, recorder IngestRecorder) *IngestUsecase {
	return &IngestUsecase{
		provider:    provider,
		repo:        repo,
		rateLimiter: rateLimiter,
		recorder:    recorder,
		logger:      log.With().Str("component", "ingest_usecase").Logger(),
	}
}

// ingestOne は指定された資産の日次価格を外部プロバイダから取得し、データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, asset market.Asset, days int) (int, error) {
	points, err := iu.provider.History(ctx, asset, days)
	if err != nil {
		return 0, err
	}
	if err := iu.repo.UpsertBatch(ctx, points); err != nil {
		return 0, fmt.Errorf("store %s: %w", asset.Code, err)
	}
	return len(points), nil
}

// IngestAll は指定された全資産の直近 days 日分を取得し、データベースに永続化します。
// APIのレートリミットを考慮してリクエスト前に待機し、1資産の失敗では処理を止めません。
// ctx がキャンセルされた場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, assets []market.Asset, days int) ([]IngestResult, error) {
	if days < 1 {
		return nil, fmt.Errorf("ingest days %d: %w", days, market.ErrInvalidInput)
	}

	results := make([]IngestResult, 0, len(assets))
	for _, a := range assets {
		if err := iu.rateLimiter.Wait(ctx); err != nil {
			return results, fmt.Errorf("ingest interrupted before %s: %w", a.Code, err)
		}

		n, err := iu.ingestOne(ctx, a, days)
		results = append(results, IngestResult{Asset: a.Code, Points: n, Err: err})
		if err != nil {
			// 1つの資産でエラーが発生しても処理を止めずにログに出力し、次の資産へ進む
			iu.logger.Error().Err(err).Str("asset", a.Code).Msg("failed to ingest data")
			continue
		}
		if iu.recorder != nil {
			iu.recorder.AddIngested(a.Code, n)
		}
		iu.logger.Info().Str("asset", a.Code).Int("points", n).Msg("ingested")
	}
	return results, nil
}
