package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// Limiter は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type Limiter interface {
	Wait(ctx context.Context) error
}

// RateLimiter は interval ごとに最大 limit 回の呼び出しを許可します。
// バーストとして limit 回までは即座に通過し、それ以降は均等な間隔で補充されます。
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
}

var _ Limiter = (*RateLimiter)(nil)

// NewRateLimiter は新しい RateLimiter を生成します。limit が 1 未満の場合は 1 とみなします。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit < 1 {
		limit = 1
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(every), limit),
	}
}

// Wait は上限に達していれば次の枠が空くまで待機します。
// 待機中に ctx がキャンセルされた場合は予約を取り消して ctx のエラーを返します。
func (rl *RateLimiter) Wait(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return fmt.Errorf("rate limiter %s: reservation rejected", rl.name)
	}
	delay := r.Delay()
	if delay <= 0 {
		return nil
	}

	log.Debug().Str("limiter", rl.name).Dur("wait", delay).Msg("rate limit reached, waiting")

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
