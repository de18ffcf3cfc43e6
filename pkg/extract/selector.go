package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SelectorStrategy は goquery で DOM を構築し、[data-pswp-src] を持つ要素の属性値を返します。
// NOTE: HTML パーサーを経由するため、シングルクォートやクォートなしの属性も拾います。
// デフォルトの regex 方式とは結果が異なるため、--mode selector で明示した場合のみ使用します。
type SelectorStrategy struct{}

func (SelectorStrategy) Name() string { return ModeSelector }

func (SelectorStrategy) Extract(text string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました: %w", err)
	}

	values := []string{}
	doc.Find("[" + Attribute + "]").Each(func(i int, s *goquery.Selection) {
		if v, ok := s.Attr(Attribute); ok {
			values = append(values, v)
		}
	})
	return values, nil
}
