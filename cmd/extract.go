package cmd

import (
	"context"
	"fmt"
	"io"
	"log"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shouni/go-pswp-exact/internal/pipeline"
	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/source"
)

// --url リモートのギャラリーページ。--input は viper 経由で読むため変数を持たない
var pageURL string

// extractOptions は extract コマンドの実行に必要な解決済みの設定です。
type extractOptions struct {
	Location string
	Mode     string
}

// resolveLocation は --url と --input (設定ファイル・環境変数を含む) から入力ロケーションを決定します。
// --url が指定された場合はそちらを優先します。
func resolveLocation(rawURL, path string) (string, error) {
	if rawURL != "" {
		processedURL, err := source.EnsureScheme(rawURL)
		if err != nil {
			return "", fmt.Errorf("URLスキームの処理エラー: %w", err)
		}
		return processedURL, nil
	}
	if path == "" {
		return extract.DefaultPath, nil
	}
	return path, nil
}

// runExtract は、読み込み → 抽出 → 出力を実行するメインロジックです。
// 読み込みに失敗した場合、out には何も書き込みません。
func runExtract(ctx context.Context, opts extractOptions, fetcher source.Fetcher, out io.Writer) error {
	strategy, err := extract.NewStrategy(opts.Mode)
	if err != nil {
		return err
	}
	extractor, err := extract.NewExtractor(strategy)
	if err != nil {
		return fmt.Errorf("Extractorの初期化エラー: %w", err)
	}

	loader, err := source.ForLocation(opts.Location, fetcher)
	if err != nil {
		return fmt.Errorf("Loaderの初期化エラー: %w", err)
	}

	values, err := pipeline.ExtractGallery(ctx, loader, extractor, opts.Location)
	if err != nil {
		return fmt.Errorf("画像ソース抽出パイプラインの実行エラー (%s): %w", opts.Location, err)
	}

	if clibase.Flags.Verbose {
		log.Printf("%d 件の画像ソースを抽出しました (%s, 方式: %s)", len(values), opts.Location, extractor.Strategy().Name())
	}

	return extract.Emit(out, values)
}

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "HTMLファイルまたはURLから data-pswp-src の値を抽出します",
	Long: `HTMLファイル (デフォルト: gallery.html) または --url で指定したページを読み込み、
data-pswp-src="..." の値を出現順に1行ずつ標準出力へ書き出します。
読み込みまたはUTF-8デコードに失敗した場合は何も出力せず、非ゼロで終了します。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		location, err := resolveLocation(pageURL, viper.GetString(keyInput))
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), overallTimeout())
		defer cancel()

		opts := extractOptions{Location: location, Mode: Flags.Mode}

		var fetcher source.Fetcher
		if f := GetGlobalFetcher(); f != nil {
			fetcher = f
		}
		return runExtract(ctx, opts, fetcher, cmd.OutOrStdout())
	},
}

func init() {
	extractCmd.Flags().StringP("input", "i", extract.DefaultPath, "抽出対象のHTMLファイル")
	extractCmd.Flags().StringVarP(&pageURL, "url", "u", "", "抽出対象のギャラリーページURL (--input より優先)")
	extractCmd.MarkFlagsMutuallyExclusive("input", "url")

	bindFlag(keyInput, extractCmd.Flags().Lookup("input"))
}
