package extract

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
)

// ----------------------------------------------------------------------
// 定数定義
// ----------------------------------------------------------------------
const (
	// Attribute は抽出対象の HTML 属性名です (PhotoSwipe の画像ソース)。
	Attribute = "data-pswp-src"

	ModeRegex    = "regex"
	ModeSelector = "selector"
)

// attributePattern はダブルクォートで囲まれた値のみにマッチします。
// シングルクォートやクォートなしの属性はマッチしません。空の値 ("") は空文字列としてマッチします。
var attributePattern = regexp.MustCompile(Attribute + `="([^"]*)"`)

// Extractor は、Strategy を使って属性値の抽出プロセスを管理します。
type Extractor struct {
	strategy Strategy
}

// NewExtractor は、新しいExtractorのインスタンスを生成します。
func NewExtractor(strategy Strategy) (*Extractor, error) {
	if strategy == nil {
		return nil, fmt.Errorf("extract.NewExtractor: Strategy cannot be nil")
	}
	return &Extractor{
		strategy: strategy,
	}, nil
}

// NewStrategy は --mode の値から Strategy を生成します。空文字列は regex として扱います。
func NewStrategy(mode string) (Strategy, error) {
	switch mode {
	case "", ModeRegex:
		return RegexStrategy{}, nil
	case ModeSelector:
		return SelectorStrategy{}, nil
	default:
		return nil, fmt.Errorf("未知の抽出モードです: %q (regex または selector を指定してください)", mode)
	}
}

// Extract は、設定された Strategy でテキストから属性値を抽出します。
func (e *Extractor) Extract(text string) ([]string, error) {
	values, err := e.strategy.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("%s 方式での抽出に失敗しました: %w", e.strategy.Name(), err)
	}
	return values, nil
}

// Strategy は設定された抽出方式を返します。
func (e *Extractor) Strategy() Strategy {
	return e.strategy
}

// ----------------------------------------------------------------------
// 正規表現による抽出 (デフォルト)
// ----------------------------------------------------------------------

// RegexStrategy は data-pswp-src="..." を左から右へ重複なしで走査します。
type RegexStrategy struct{}

func (RegexStrategy) Name() string { return ModeRegex }

func (RegexStrategy) Extract(text string) ([]string, error) {
	return Extract(text), nil
}

// Extract はテキスト中のすべての data-pswp-src の値を出現順に返します。
// 値の正規化・トリム・URLデコードは行いません。
func Extract(text string) []string {
	matches := attributePattern.FindAllStringSubmatch(text, -1)
	values := make([]string, 0, len(matches))
	for _, m := range matches {
		values = append(values, m[1])
	}
	return values
}

// ----------------------------------------------------------------------
// 出力
// ----------------------------------------------------------------------

// Emit は各値を改行付きで順番に w へ書き込みます。
func Emit(w io.Writer, values []string) error {
	bw := bufio.NewWriter(w)
	for _, v := range values {
		if _, err := bw.WriteString(v); err != nil {
			return fmt.Errorf("出力の書き込みに失敗しました: %w", err)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fmt.Errorf("出力の書き込みに失敗しました: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("出力のフラッシュに失敗しました: %w", err)
	}
	return nil
}
