package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	clibase "github.com/shouni/go-cli-base"
	textUtils "github.com/shouni/go-utils/text"
	"github.com/spf13/cobra"

	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/feed"
	"github.com/shouni/go-pswp-exact/pkg/scraper"
	"github.com/shouni/go-pswp-exact/pkg/source"
)

// フィードURLを保持するフラグ変数
var feedURL string

// runFeedPipeline は、フィードにリンクされた各ページから画像ソースを抽出し、フィード順に出力します。
// 失敗したページはログに記録し、1件でも失敗があればエラーを返します。
func runFeedPipeline(ctx context.Context, fetcher source.Fetcher, rawURL, mode string, concurrency int, out io.Writer) error {
	parser, err := feed.NewParser(fetcher)
	if err != nil {
		return fmt.Errorf("フィードパーサーの初期化エラー: %w", err)
	}

	parsedFeed, links, err := parser.FetchLinks(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("フィードの取得およびパースエラー (URL: %s): %w", rawURL, err)
	}
	if clibase.Flags.Verbose {
		log.Printf("フィード「%s」から %d 件のリンクを取得しました", textUtils.NormalizeText(parsedFeed.Title), len(links))
	}

	strategy, err := extract.NewStrategy(mode)
	if err != nil {
		return err
	}
	extractor, err := extract.NewExtractor(strategy)
	if err != nil {
		return fmt.Errorf("Extractorの初期化エラー: %w", err)
	}
	loader, err := source.NewHTTPLoader(fetcher)
	if err != nil {
		return fmt.Errorf("Loaderの初期化エラー: %w", err)
	}

	var s scraper.Scraper = scraper.NewParallelScraper(loader, extractor, concurrency)
	results := s.ScrapeInParallel(ctx, links)

	var values []string
	failed := 0
	for _, res := range results {
		if res.Error != nil {
			failed++
			log.Printf("ページの処理に失敗しました (URL: %s): %v", res.URL, res.Error)
			continue
		}
		values = append(values, res.Sources...)
	}

	if err := extract.Emit(out, values); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d/%d 件のページで抽出に失敗しました", failed, len(results))
	}
	return nil
}

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードにリンクされた各ページから data-pswp-src の値を抽出します",
	Long:  `指定されたURLからRSSまたはAtomフィードを取得し、各記事ページの画像ソースをフィード内の順序で1行ずつ出力します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		processedURL, err := source.EnsureScheme(feedURL)
		if err != nil {
			return fmt.Errorf("URLスキームの処理エラー: %w", err)
		}

		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), overallTimeout())
		defer cancel()

		if clibase.Flags.Verbose {
			log.Printf("処理対象フィードURL: %s (全体タイムアウト: %s)", processedURL, overallTimeout())
		}

		return runFeedPipeline(ctx, fetcher, processedURL, Flags.Mode, Flags.Concurrency, cmd.OutOrStdout())
	},
}

func init() {
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")
	_ = feedCmd.MarkFlagRequired("url")
}
