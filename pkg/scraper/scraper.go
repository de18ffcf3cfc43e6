package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shouni/go-pswp-exact/internal/pipeline"
	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/source"
	"github.com/shouni/go-pswp-exact/pkg/types"
)

const (
	// DefaultMaxConcurrency は、並列スクレイピングのデフォルトの最大同時実行数を定義します。
	DefaultMaxConcurrency = 6
	// DefaultScrapeRateLimit は、リクエスト開始間隔のデフォルト値です。
	DefaultScrapeRateLimit = 1000 * time.Millisecond
)

// Scraper は複数ページから画像ソースを抽出する機能を提供するインターフェースです。
type Scraper interface {
	ScrapeInParallel(ctx context.Context, urls []string) []types.PageResult
}

var _ Scraper = (*ParallelScraper)(nil)

// ParallelScraper は Scraper インターフェースを実装する並列処理構造体です。
type ParallelScraper struct {
	loader         source.Loader
	extractor      *extract.Extractor
	maxConcurrency int
	rateLimit      time.Duration
}

// Option は ParallelScraper の設定を行うための関数型です。
type Option func(*ParallelScraper)

// WithRateLimit はリクエスト開始間隔を設定します。0 以下の場合はデフォルト値を使います。
func WithRateLimit(d time.Duration) Option {
	return func(s *ParallelScraper) {
		if d > 0 {
			s.rateLimit = d
		}
	}
}

// NewParallelScraper は ParallelScraper を初期化します。
// 依存性として Loader と Extractor、最大同時実行数を受け取ります。
func NewParallelScraper(loader source.Loader, extractor *extract.Extractor, maxConcurrency int, opts ...Option) *ParallelScraper {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}
	s := &ParallelScraper{
		loader:         loader,
		extractor:      extractor,
		maxConcurrency: maxConcurrency,
		rateLimit:      DefaultScrapeRateLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScrapeInParallel は各URLから画像ソースを抽出し、入力と同じ順序で結果を返します。
// 個々のページのエラーは結果に記録され、他のページの処理は継続します。
func (s *ParallelScraper) ScrapeInParallel(ctx context.Context, urls []string) []types.PageResult {
	var wg sync.WaitGroup
	results := make([]types.PageResult, len(urls))

	// バッファ付きチャネルをセマフォとして使用し、同時実行数を制限する
	semaphore := make(chan struct{}, s.maxConcurrency)

	ticker := time.NewTicker(s.rateLimit)
	defer ticker.Stop()

	for i, url := range urls {
		wg.Add(1)

		// maxConcurrency件実行中の場合はここでブロックして待機
		semaphore <- struct{}{}

		go func(idx int, u string) {
			defer wg.Done()
			defer func() { <-semaphore }()

			// 最初のリクエストは待たずに開始する
			if idx > 0 {
				select {
				case <-ticker.C:
				case <-ctx.Done():
					results[idx] = types.PageResult{URL: u, Error: ctx.Err()}
					return
				}
			}

			values, err := pipeline.ExtractGallery(ctx, s.loader, s.extractor, u)
			if err != nil {
				err = fmt.Errorf("画像ソースの抽出に失敗しました: %w", err)
			}
			results[idx] = types.PageResult{URL: u, Sources: values, Error: err}
		}(i, url)
	}

	wg.Wait()
	return results
}
