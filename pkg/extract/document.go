package extract

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

// DefaultPath は、入力パスが指定されなかった場合に読み込むファイル名です。
const DefaultPath = "gallery.html"

// DecodeError は、入力バイト列が有効な UTF-8 ではないことを示すエラー型です。
type DecodeError struct {
	Source string // ファイルパスまたはURL
	Offset int    // 最初の不正なバイト列の位置
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("UTF-8としてデコードできません (%s, オフセット %d)", e.Source, e.Offset)
}

// Load は指定されたパスのファイル全体を読み込み、UTF-8 テキストとして返します。
// ファイルが存在しない・読めない場合は os のエラーをラップして返すため、
// errors.Is(err, fs.ErrNotExist) で判定できます。
func Load(path string) (text string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("入力ファイルを開けません: %w", err)
	}
	// デコード失敗を含むすべての経路でクローズする
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("入力ファイルのクローズに失敗しました: %w", closeErr)
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("入力ファイルの読み込みに失敗しました (%s): %w", path, err)
	}

	return Decode(path, data)
}

// Decode は data が有効な UTF-8 であることを確認し、文字列として返します。
func Decode(source string, data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	return "", &DecodeError{Source: source, Offset: firstInvalid(data)}
}

// firstInvalid は最初の不正な UTF-8 シーケンスのバイト位置を返します。
func firstInvalid(data []byte) int {
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(data)
}
