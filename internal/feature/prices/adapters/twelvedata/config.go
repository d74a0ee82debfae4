// Package twelvedata はTwelve Data APIから株価指数・ETFの日次終値を取得します。
package twelvedata

import (
	"os"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.twelvedata.com"

// maxOutputSize はtime_seriesエンドポイントが一度に返す最大件数です。
const maxOutputSize = 5000

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	TwelveDataAPIKey  string        // 認証用APIキー
	BaseURL           string        // APIのベースURL（例: "https://api.twelvedata.com"）
	Timeout           time.Duration // HTTPリクエストタイムアウト
	RequestsPerSecond float64       // 無料プランは1分8リクエスト
}

// LoadConfig は環境変数からTwelve Dataの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		TwelveDataAPIKey:  os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:           strings.TrimRight(os.Getenv("TWELVE_DATA_BASE_URL"), "/"),
		Timeout:           10 * time.Second,
		RequestsPerSecond: 8.0 / 60.0,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return cfg
}
