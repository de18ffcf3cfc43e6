package types

// PageResult は、特定のページから抽出された画像ソース、またはその処理中に発生したエラーを保持します。
// これは、Scraperの出力として利用されます。
type PageResult struct {
	URL     string   // 処理対象のURL
	Sources []string // 抽出された data-pswp-src の値 (出現順)
	Error   error    // 処理中に発生したエラー
}
