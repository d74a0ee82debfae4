// Package usecase はBTCと他資産の相関分析のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"mining_analytics/internal/shared/indicator"
	"mining_analytics/internal/shared/market"
)

// BaseAsset は相関の基準となる資産です。
const BaseAsset = market.BaseAsset

// 相関の強さ。絶対値で判定します。
const (
	StrengthStrong   = "strong"
	StrengthModerate = "moderate"
	StrengthWeak     = "weak"
)

const (
	strongThreshold   = 0.5
	moderateThreshold = 0.3
)

// 既定値。
const (
	DefaultWindow      = 30
	DefaultConcurrency = 4
	MaxWindow          = 365
)

// HistorySource は資産の日次価格履歴を返します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type HistorySource interface {
	History(ctx context.Context, code string, days int) ([]market.PricePoint, error)
}

// Options は相関分析の既定値です。
type Options struct {
	Assets      []string // 比較対象の既定資産
	Focus       string   // ローリング相関の既定資産
	Window      int
	Concurrency int // 上流取得の並列数
}

func (o *Options) applyDefaults() {
	if len(o.Assets) == 0 {
		o.Assets = []string{"SPX", "GLD", "QQQ", "TLT"}
	}
	if o.Focus == "" {
		o.Focus = o.Assets[0]
	}
	if o.Window <= 0 {
		o.Window = DefaultWindow
	}
	if o.Concurrency <= 0 {
		o.Concurrency = DefaultConcurrency
	}
}

// Request は相関分析の入力です。ゼロ値のフィールドにはOptionsの既定値が入ります。
type Request struct {
	Days   int
	Window int
	Focus  string
	Assets []string
}

// PairStat はBTCと1資産の相関係数です。
type PairStat struct {
	Asset       string
	Coefficient float64 // NaN when undefined
	Strength    string
}

// Insights はBTCと他資産の相関の要約です。
type Insights struct {
	Average   float64
	Strongest float64
	Weakest   float64
}

// Analysis は相関分析の結果です。
type Analysis struct {
	Days     int
	Window   int
	Focus    string
	Assets   []string          // 取得できた資産（先頭はBTC）
	Skipped  map[string]string // 取得できなかった資産とその理由
	Matrix   indicator.Matrix
	Pairs    []PairStat
	Insights Insights
	Rolling  *indicator.Result // 焦点資産が取得できない、またはデータがwindowに満たない場合はnil
}

// CorrelationUsecase は相関分析のユースケースを定義します。
type CorrelationUsecase struct {
	history HistorySource
	opts    Options
	logger  zerolog.Logger
}

// NewCorrelationUsecase はCorrelationUsecaseの新しいインスタンスを生成します。
func NewCorrelationUsecase(history HistorySource, opts Options) *CorrelationUsecase {
	opts.applyDefaults()
	return &CorrelationUsecase{
		history: history,
		opts:    opts,
		logger:  log.With().Str("component", "correlation_usecase").Logger(),
	}
}

// Analyze はBTCと比較資産の価格を並列に取得し、日次リターンの相関行列と
// BTC対焦点資産のローリング相関を計算します。
// 取得できた資産が2つ未満の場合は market.ErrDataUnavailable を返します。
func (u *CorrelationUsecase) Analyze(ctx context.Context, req Request) (Analysis, error) {
	req, err := u.normalize(req)
	if err != nil {
		return Analysis{}, err
	}

	codes := append([]string{BaseAsset}, req.Assets...)
	series, skipped, err := u.fetchAll(ctx, codes, req.Days)
	if err != nil {
		return Analysis{}, err
	}
	if _, ok := series[BaseAsset]; !ok {
		return Analysis{}, fmt.Errorf("%s history: %s: %w", BaseAsset, skipped[BaseAsset], market.ErrDataUnavailable)
	}
	if len(series) < 2 {
		return Analysis{}, fmt.Errorf("need at least two assets, got %d: %w", len(series), market.ErrDataUnavailable)
	}

	aligned := market.AlignDaily(series)
	returns := make(map[string][]market.PricePoint, len(aligned))
	columns := make(map[string][]float64, len(aligned))
	labels := make([]string, 0, len(aligned))
	for _, code := range codes {
		points, ok := aligned[code]
		if !ok {
			continue
		}
		r := returnSeries(points)
		returns[code] = r
		columns[code] = market.Prices(r)
		labels = append(labels, code)
	}

	matrix, err := indicator.CorrelationMatrix(labels, columns)
	if err != nil {
		return Analysis{}, fmt.Errorf("correlation matrix: %w", err)
	}

	a := Analysis{
		Days:    req.Days,
		Window:  req.Window,
		Focus:   req.Focus,
		Assets:  labels,
		Skipped: skipped,
		Matrix:  matrix,
	}
	for _, code := range labels[1:] {
		r, _ := matrix.Get(BaseAsset, code)
		a.Pairs = append(a.Pairs, PairStat{Asset: code, Coefficient: r, Strength: Strength(r)})
	}
	a.Insights = summarize(a.Pairs)

	if focus, ok := returns[req.Focus]; ok {
		base := returns[BaseAsset]
		if len(base) < req.Window {
			u.logger.Info().Int("returns", len(base)).Int("window", req.Window).Msg("not enough data for rolling correlation")
		} else {
			rolling, err := indicator.RollingCorrelation(base, focus, req.Window)
			if err != nil {
				return Analysis{}, fmt.Errorf("rolling correlation %s/%s: %w", BaseAsset, req.Focus, err)
			}
			a.Rolling = &rolling
		}
	}

	u.logger.Debug().Strs("assets", labels).Int("skipped", len(skipped)).Msg("correlation computed")
	return a, nil
}

func (u *CorrelationUsecase) normalize(req Request) (Request, error) {
	if req.Window == 0 {
		req.Window = u.opts.Window
	}
	if req.Window < 2 || req.Window > MaxWindow {
		return req, fmt.Errorf("window must be between 2 and %d, got %d: %w", MaxWindow, req.Window, market.ErrInvalidInput)
	}

	assets := req.Assets
	if len(assets) == 0 {
		assets = u.opts.Assets
	}
	focus := strings.ToUpper(strings.TrimSpace(req.Focus))
	if focus == "" {
		focus = strings.ToUpper(u.opts.Focus)
	}
	if focus == BaseAsset {
		return req, fmt.Errorf("focus asset must differ from %s: %w", BaseAsset, market.ErrInvalidInput)
	}

	seen := map[string]bool{BaseAsset: true}
	req.Assets = nil
	candidates := append(append([]string(nil), assets...), focus)
	for _, code := range candidates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		req.Assets = append(req.Assets, code)
	}
	req.Focus = focus
	return req, nil
}

// fetchAll は資産ごとの履歴を並列に取得します。
// 上流の失敗はskippedに記録して続行します。未知の資産や不正な日数、コンテキストの終了はエラーとして返します。
func (u *CorrelationUsecase) fetchAll(ctx context.Context, codes []string, days int) (map[string][]market.PricePoint, map[string]string, error) {
	results := make([][]market.PricePoint, len(codes))
	errs := make([]error, len(codes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.opts.Concurrency)
	for i, code := range codes {
		g.Go(func() error {
			points, err := u.history.History(gctx, code, days)
			if err != nil {
				if isFatal(err) {
					return err
				}
				errs[i] = err
				return nil
			}
			results[i] = points
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("fetch correlation assets: %w", err)
	}

	series := make(map[string][]market.PricePoint, len(codes))
	skipped := make(map[string]string)
	for i, code := range codes {
		switch {
		case errs[i] != nil:
			u.logger.Warn().Err(errs[i]).Str("asset", code).Msg("skipping asset for correlation")
			skipped[code] = errs[i].Error()
		case len(results[i]) == 0:
			skipped[code] = "no data"
		default:
			series[code] = results[i]
		}
	}
	return series, skipped, nil
}

func isFatal(err error) bool {
	return errors.Is(err, market.ErrUnknownAsset) ||
		errors.Is(err, market.ErrInvalidInput) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// returnSeries は揃えた価格系列を日次リターン（%）の系列に変換します。先頭の未定義点は除きます。
func returnSeries(points []market.PricePoint) []market.PricePoint {
	r := indicator.Returns(points)
	if len(r.Points) < 2 {
		return nil
	}
	out := make([]market.PricePoint, 0, len(r.Points)-1)
	for i, p := range r.Points[1:] {
		out = append(out, market.PricePoint{Asset: points[i+1].Asset, Time: p.Time, Price: p.Value})
	}
	return out
}

// Strength は相関係数の絶対値から強さを判定します。未定義の場合は空文字です。
func Strength(r float64) string {
	if !indicator.IsDefined(r) {
		return ""
	}
	switch a := math.Abs(r); {
	case a > strongThreshold:
		return StrengthStrong
	case a > moderateThreshold:
		return StrengthModerate
	default:
		return StrengthWeak
	}
}

func summarize(pairs []PairStat) Insights {
	in := Insights{Average: math.NaN(), Strongest: math.NaN(), Weakest: math.NaN()}
	var sum float64
	n := 0
	for _, p := range pairs {
		if !indicator.IsDefined(p.Coefficient) {
			continue
		}
		if n == 0 || p.Coefficient > in.Strongest {
			in.Strongest = p.Coefficient
		}
		if n == 0 || p.Coefficient < in.Weakest {
			in.Weakest = p.Coefficient
		}
		sum += p.Coefficient
		n++
	}
	if n > 0 {
		in.Average = sum / float64(n)
	}
	return in
}
