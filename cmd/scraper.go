package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/scraper"
	"github.com/shouni/go-pswp-exact/pkg/source"
	"github.com/shouni/go-pswp-exact/pkg/types"
)

const (
	formatText = "text"
	formatYAML = "yaml"
)

// コマンドラインフラグ変数を定義
var (
	inputURLs    string // --urls フラグで受け取るカンマ区切りのURLリスト
	outputFormat string // --format 出力形式
)

// pageReport は YAML 出力用のページ単位の結果です。
type pageReport struct {
	URL     string   `yaml:"url"`
	Sources []string `yaml:"sources"`
	Error   string   `yaml:"error,omitempty"`
}

// scrapeReport は YAML 出力全体の構造です。
type scrapeReport struct {
	Succeeded int          `yaml:"succeeded"`
	Failed    int          `yaml:"failed"`
	Pages     []pageReport `yaml:"pages"`
}

// readURLs は --urls または r (標準入力) から処理対象URLのリストを作成します。
func readURLs(flagValue string, r io.Reader) ([]string, error) {
	var raw []string
	if flagValue != "" {
		raw = strings.Split(flagValue, ",")
	} else {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			raw = append(raw, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("標準入力の読み取りエラー: %w", err)
		}
	}

	urls := make([]string, 0, len(raw))
	for _, u := range raw {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		processed, err := source.EnsureScheme(u)
		if err != nil {
			return nil, fmt.Errorf("URLスキームの処理エラー: %w", err)
		}
		urls = append(urls, processed)
	}

	if len(urls) == 0 {
		return nil, fmt.Errorf("処理対象のURLが一つも指定されていません")
	}
	return urls, nil
}

// writeReport は結果を指定された形式で out に書き込みます。
func writeReport(out io.Writer, results []types.PageResult, format string) error {
	report := scrapeReport{Pages: make([]pageReport, 0, len(results))}
	for _, res := range results {
		page := pageReport{URL: res.URL, Sources: res.Sources}
		if res.Error != nil {
			report.Failed++
			page.Error = res.Error.Error()
		} else {
			report.Succeeded++
		}
		report.Pages = append(report.Pages, page)
	}

	switch format {
	case formatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("YAMLへの変換に失敗しました: %w", err)
		}
		_, err = out.Write(data)
		return err
	case formatText, "":
		var b strings.Builder
		fmt.Fprintln(&b, "--- 並列抽出結果 ---")
		for i, page := range report.Pages {
			if page.Error != "" {
				fmt.Fprintf(&b, "❌ [%d] %s\n", i+1, page.URL)
				fmt.Fprintf(&b, "     エラー: %s\n", page.Error)
				continue
			}
			fmt.Fprintf(&b, "✅ [%d] %s (%d 件)\n", i+1, page.URL, len(page.Sources))
			for _, src := range page.Sources {
				fmt.Fprintf(&b, "     %s\n", src)
			}
		}
		fmt.Fprintln(&b, "-------------------------------")
		fmt.Fprintf(&b, "完了: 成功 %d 件, 失敗 %d 件\n", report.Succeeded, report.Failed)
		_, err := io.WriteString(out, b.String())
		return err
	default:
		return fmt.Errorf("未知の出力形式です: %q (text または yaml を指定してください)", format)
	}
}

// runScrapePipeline は、並列抽出を実行するメインロジックです。
func runScrapePipeline(ctx context.Context, fetcher source.Fetcher, urls []string, mode string, concurrency int, format string, out io.Writer) error {
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

	log.Printf("並列抽出開始 (対象URL数: %d, 最大同時実行数: %d)", len(urls), concurrency)

	var s scraper.Scraper = scraper.NewParallelScraper(loader, extractor, concurrency)
	results := s.ScrapeInParallel(ctx, urls)
	return writeReport(out, results, format)
}

var scraperCmd = &cobra.Command{
	Use:   "scraper",
	Short: "複数のURLを並列で処理し、ページごとの画像ソースを一覧表示します",
	Long:  `--urls フラグでカンマ区切りのURLリストを受け取るか、標準入力からURLを一行ずつ読み込み、指定された最大同時実行数で並列抽出を実行します。`,
	Args:  cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if outputFormat != formatText && outputFormat != formatYAML {
			return fmt.Errorf("未知の出力形式です: %q (text または yaml を指定してください)", outputFormat)
		}

		fetcher := GetGlobalFetcher()
		if fetcher == nil {
			return fmt.Errorf("HTTPクライアントの取得に失敗しました")
		}

		if inputURLs == "" {
			log.Println("URLが指定されていないため、標準入力からURLを読み込みます (Ctrl+DまたはEOFで終了)...")
		}
		urls, err := readURLs(inputURLs, cmd.InOrStdin())
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), overallTimeout())
		defer cancel()

		return runScrapePipeline(ctx, fetcher, urls, Flags.Mode, Flags.Concurrency, outputFormat, cmd.OutOrStdout())
	},
}

func init() {
	scraperCmd.Flags().StringVarP(&inputURLs, "urls", "u", "",
		"抽出対象のカンマ区切りURLリスト (例: url1,url2,url3)")
	scraperCmd.Flags().StringVarP(&outputFormat, "format", "f", formatText, "出力形式: text または yaml")
}
