package cmd

import (
	"fmt"
	"log"
	"time"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/shouni/go-pswp-exact/pkg/client"
	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/scraper"
)

// --- グローバル定数 ---

const (
	appName           = "pswp-exact"
	defaultTimeoutSec = 10 // 秒
	defaultMaxRetries = 5  // デフォルトのリトライ回数

	// 全体処理のタイムアウト定数 (--timeout が 0 の場合に利用)
	DefaultOverallTimeout = 20 * time.Second
)

// viper のキー名
const (
	keyTimeout     = "timeout"
	keyMaxRetries  = "max_retries"
	keyMode        = "mode"
	keyConcurrency = "concurrency"
	keyInput       = "input"
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec  int    // --timeout タイムアウト
	MaxRetries  int    // --max-retries リトライ回数
	Mode        string // --mode 抽出方式
	Concurrency int    // --concurrency 並列数
}

var Flags AppFlags
var globalFetcher *client.Client

// --- 初期化とロジック (clibaseへのコールバックとして利用) ---

// addAppPersistentFlags は、アプリケーション固有の永続フラグをルートコマンドに追加します。
func addAppPersistentFlags(rootCmd *cobra.Command) {
	rootCmd.Short = "PhotoSwipe ギャラリーの画像ソース (data-pswp-src) 抽出ツール"
	rootCmd.Long = `HTMLドキュメントから data-pswp-src 属性の値を抽出し、1行に1件ずつ標準出力へ書き出します。
ローカルファイル (extract)、フィードにリンクされたページ群 (feed)、複数URLの並列抽出 (scraper) に対応します。`

	pf := rootCmd.PersistentFlags()
	pf.IntVar(&Flags.TimeoutSec, "timeout", defaultTimeoutSec, "HTTPリクエストのタイムアウト時間（秒）")
	pf.IntVar(&Flags.MaxRetries, "max-retries", defaultMaxRetries, "HTTPリクエストのリトライ最大回数")
	pf.StringVar(&Flags.Mode, "mode", extract.ModeRegex, "抽出方式: regex (ダブルクォートのみ) または selector (DOM解析)")
	pf.IntVar(&Flags.Concurrency, "concurrency", scraper.DefaultMaxConcurrency, "feed/scraper の最大並列実行数")

	bindFlag(keyTimeout, pf.Lookup("timeout"))
	bindFlag(keyMaxRetries, pf.Lookup("max-retries"))
	bindFlag(keyMode, pf.Lookup("mode"))
	bindFlag(keyConcurrency, pf.Lookup("concurrency"))
}

// initAppPreRunE は、clibase共通処理の後に実行される、アプリケーション固有のPersistentPreRunEです。
// NOTE: clibaseの PersistentPreRunE チェーンにより、clibase.Flags.Verbose と --config/-C (clibase.Flags.ConfigFile) はこの関数実行前に設定済み
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	if err := initConfig(clibase.Flags.ConfigFile); err != nil {
		return err
	}

	// 設定ファイル・環境変数・フラグを解決した値で上書き
	Flags.TimeoutSec = viper.GetInt(keyTimeout)
	Flags.MaxRetries = viper.GetInt(keyMaxRetries)
	Flags.Mode = viper.GetString(keyMode)
	Flags.Concurrency = viper.GetInt(keyConcurrency)

	timeout := time.Duration(Flags.TimeoutSec) * time.Second

	if clibase.Flags.Verbose {
		log.Printf("HTTPクライアントのタイムアウトを設定しました (Timeout: %s)。", timeout)
		log.Printf("HTTPクライアントのリトライ回数を設定しました (MaxRetries: %d)。", Flags.MaxRetries)
		log.Printf("抽出方式: %s", Flags.Mode)
	}

	// 共有フェッチャーの初期化
	fetcher, err := client.New(timeout, Flags.MaxRetries)
	if err != nil {
		return fmt.Errorf("HTTPクライアントの初期化エラー: %w", err)
	}
	globalFetcher = fetcher

	return nil
}

// GetGlobalFetcher は、初期化されたフェッチャーを返す関数 (DIの代わり)
func GetGlobalFetcher() *client.Client {
	return globalFetcher
}

// overallTimeout はクライアントタイムアウトの2倍を全体のタイムアウトとして返します。
func overallTimeout() time.Duration {
	if Flags.TimeoutSec <= 0 {
		return DefaultOverallTimeout
	}
	return time.Duration(Flags.TimeoutSec*2) * time.Second
}

// --- エントリポイント ---

// Execute は、ルートコマンドを実行するメイン関数です。clibaseのExecuteを使用する。
func Execute() {
	clibase.Execute(
		appName,
		addAppPersistentFlags,
		initAppPreRunE,
		extractCmd,
		feedCmd,
		scraperCmd,
	)
	// clibase.Execute() の中で os.Exit(1) が処理されるため、ここでは不要
}
