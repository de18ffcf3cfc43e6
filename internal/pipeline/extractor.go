package pipeline

import (
	"context"
	"fmt"

	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/shouni/go-pswp-exact/pkg/source"
)

// ExtractGallery は、ロケーションからドキュメントを読み込み、属性値を抽出するメインの処理パイプラインです。
// 読み込みに失敗した場合は値を一切返さないため、呼び出し側は成功時にのみ出力します。
func ExtractGallery(ctx context.Context, loader source.Loader, extractor *extract.Extractor, location string) ([]string, error) {
	// 1. ドキュメントの読み込み
	text, err := loader.Load(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("ドキュメントの読み込みエラー: %w", err)
	}

	// 2. 抽出の実行
	values, err := extractor.Extract(text)
	if err != nil {
		return nil, fmt.Errorf("属性値の抽出エラー (%s): %w", location, err)
	}

	return values, nil
}
