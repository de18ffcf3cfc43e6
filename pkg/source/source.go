package source

import (
	"context"
	"fmt"
	"net/url"

	"github.com/shouni/go-pswp-exact/pkg/extract"
)

// Loader は、入力ロケーション (ファイルパスまたはURL) からドキュメントのテキストを読み込みます。
type Loader interface {
	Load(ctx context.Context, location string) (string, error)
}

// Fetcher は、HTMLドキュメントの生バイト配列を取得する機能のインターフェースを定義します。
// *httpkit.Client はこのインターフェースを満たします。
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// FileLoader はローカルファイルを読み込む Loader です。
type FileLoader struct{}

// Load は extract.Load に委譲します。ローカル読み込みはブロックが短いため ctx は参照しません。
func (FileLoader) Load(ctx context.Context, path string) (string, error) {
	return extract.Load(path)
}

// HTTPLoader は Fetcher を使ってリモートのギャラリーページを読み込む Loader です。
type HTTPLoader struct {
	fetcher Fetcher
}

// NewHTTPLoader は、新しいHTTPLoaderのインスタンスを生成します。
func NewHTTPLoader(fetcher Fetcher) (*HTTPLoader, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("source.NewHTTPLoader: Fetcher cannot be nil")
	}
	return &HTTPLoader{fetcher: fetcher}, nil
}

// Load は URL からボディを取得し、UTF-8 として検証したテキストを返します。
func (l *HTTPLoader) Load(ctx context.Context, rawURL string) (string, error) {
	body, err := l.fetcher.FetchBytes(ctx, rawURL)
	if err != nil {
		return "", fmt.Errorf("ページの取得失敗 (URL: %s): %w", rawURL, err)
	}
	return extract.Decode(rawURL, body)
}

// IsRemote は location が http/https の URL かどうかを判定します。
func IsRemote(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ForLocation は location に応じた Loader を返します。
// リモートの場合は fetcher が必要です。
func ForLocation(location string, fetcher Fetcher) (Loader, error) {
	if !IsRemote(location) {
		return FileLoader{}, nil
	}
	return NewHTTPLoader(fetcher)
}

// EnsureScheme は、URLのスキームが存在しない場合に https:// を補完します。
// 既にスキームが存在する場合は、それが http または https であるかをチェックします。
func EnsureScheme(rawURL string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		return rawURL, nil
	}

	// スキームなしで入力された場合、HTTPSを優先します
	return "https://" + rawURL, nil
}
