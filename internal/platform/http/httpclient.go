package http

import (
	"net"
	"net/http"
	"time"
)

// ClientOptions はアウトバウンドHTTPクライアントの設定です。
type ClientOptions struct {
	// Timeout はリクエスト全体のタイムアウトです。0の場合は10秒。
	Timeout time.Duration
	// MaxConnsPerHost は接続先ごとの最大接続数です。0の場合は無制限。
	MaxConnsPerHost int
}

// NewClient はピアサービス呼び出し用に設定されたHTTPクライアントを作成します。
//
// 設定:
//   - Proxy: 環境変数（HTTP_PROXYなど）が設定されている場合に使用
//   - Dialer.Timeout: TCP接続タイムアウト
//   - MaxIdleConnsPerHost: レプリケーション先は単一ホストのため、ワーカー数以上を保持
//   - Client.Timeout: リクエスト全体のタイムアウト
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
func NewClient(opts ClientOptions) *http.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 32,
		MaxConnsPerHost:     opts.MaxConnsPerHost,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
