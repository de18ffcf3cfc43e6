package client

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-http-kit/pkg/httpkit"
)

// ----------------------------------------------------------------------
// 定数
// ----------------------------------------------------------------------

const (
	// DefaultHTTPTimeout は、timeout に 0 以下が指定された場合のHTTPタイムアウトです。
	DefaultHTTPTimeout = 10 * time.Second
)

// Client は httpkit.Client をラップし、ギャラリーページやフィードの取得に使う共有クライアントです。
// リトライロジックは httpkit.Client が処理します。
type Client struct {
	*httpkit.Client
	timeout    time.Duration
	maxRetries uint64
}

// ----------------------------------------------------------------------
// 設定とコンストラクタ
// ----------------------------------------------------------------------

// New は新しいClientを初期化します。
func New(timeout time.Duration, maxRetries int) (*Client, error) {
	if maxRetries < 0 {
		return nil, fmt.Errorf("client.New: maxRetries は0以上である必要があります: %d", maxRetries)
	}
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}

	return &Client{
		Client:     httpkit.New(timeout, httpkit.WithMaxRetries(uint64(maxRetries))),
		timeout:    timeout,
		maxRetries: uint64(maxRetries),
	}, nil
}

// Timeout は適用されたHTTPタイムアウトを返します。
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// MaxRetries は適用されたリトライ最大回数を返します。
func (c *Client) MaxRetries() uint64 {
	return c.maxRetries
}

// FetchBytes は URL からコンテンツをフェッチし、生のバイト配列として返します。
func (c *Client) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Client.FetchBytes(ctx, url)
}
