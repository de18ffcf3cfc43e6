package extract

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Strategy は、ドキュメントのテキストから属性値を取り出す方式のインターフェースを定義します。
// Extractor は、この抽象に依存します。
type Strategy interface {
	// Name は --mode フラグで指定する方式名を返します。
	Name() string
	// Extract はドキュメント内の出現順に属性値を返します。重複はそのまま残します。
	Extract(text string) ([]string, error)
}
