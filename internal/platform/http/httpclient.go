// Package http provides the outbound HTTP client used by the market data
// adapters, plus the shared gin middleware and error responses.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient は外部マーケットデータAPI向けに設定したHTTPクライアントを作成します。
//
// http.DefaultClient はタイムアウトを持たないため使用しません。
// CoinGecko と Twelve Data はどちらも少数のホストへの繰り返し呼び出しなので、
// ホストごとのアイドル接続を多めに保持します。
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ResponseHeaderTimeout: timeout,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
