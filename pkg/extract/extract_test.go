package extract_test

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/shouni/go-pswp-exact/pkg/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ======================================================================
// ヘルパー
// ======================================================================

func writeFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), extract.DefaultPath)
	require.NoError(t, os.WriteFile(path, content, 0o644))
	return path
}

// failingWriter は常に書き込みエラーを返す io.Writer です。
type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) {
	return 0, errors.New("disk full")
}

// ======================================================================
// テスト関数
// ======================================================================

func TestExtract(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "empty_document",
			text:     "",
			expected: []string{},
		},
		{
			name:     "no_attribute",
			text:     `<html><body><img src="a.jpg"></body></html>`,
			expected: []string{},
		},
		{
			name:     "two_images_in_order",
			text:     `<img data-pswp-src="a.jpg"><img data-pswp-src="b.png">`,
			expected: []string{"a.jpg", "b.png"},
		},
		{
			name:     "empty_value_is_kept",
			text:     `<img data-pswp-src=""><img data-pswp-src="x.jpg">`,
			expected: []string{"", "x.jpg"},
		},
		{
			name:     "single_quotes_are_ignored",
			text:     `<img data-pswp-src='c.jpg'>`,
			expected: []string{},
		},
		{
			name:     "unquoted_value_is_ignored",
			text:     `<img data-pswp-src=c.jpg>`,
			expected: []string{},
		},
		{
			name:     "duplicates_are_not_merged",
			text:     `<a data-pswp-src="d.jpg"></a><a data-pswp-src="d.jpg"></a>`,
			expected: []string{"d.jpg", "d.jpg"},
		},
		{
			name:     "value_is_not_trimmed_or_decoded",
			text:     `<a data-pswp-src=" /img/a%20b.jpg?w=1&amp;h=2 "></a>`,
			expected: []string{" /img/a%20b.jpg?w=1&amp;h=2 "},
		},
		{
			name:     "value_spanning_lines",
			text:     "<a data-pswp-src=\"line1\nline2\"></a>",
			expected: []string{"line1\nline2"},
		},
		{
			name:     "surrounding_attributes",
			text:     `<a href="x"><div data-pswp-src="img1.jpg" class="y"></div><div data-pswp-src="img2.jpg"></div>`,
			expected: []string{"img1.jpg", "img2.jpg"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			actual := extract.Extract(tc.text)
			assert.Equal(t, tc.expected, actual)

			// 同じテキストを再走査しても同じ結果になる
			assert.Equal(t, actual, extract.Extract(tc.text))
		})
	}
}

func TestNewExtractor(t *testing.T) {
	t.Run("success_with_valid_strategy", func(t *testing.T) {
		extractor, err := extract.NewExtractor(extract.RegexStrategy{})
		assert.NoError(t, err)
		assert.NotNil(t, extractor)
	})

	t.Run("keeps_configured_strategy", func(t *testing.T) {
		extractor, err := extract.NewExtractor(extract.SelectorStrategy{})
		require.NoError(t, err)
		assert.Equal(t, extract.ModeSelector, extractor.Strategy().Name())
	})

	t.Run("error_with_nil_strategy", func(t *testing.T) {
		extractor, err := extract.NewExtractor(nil)
		assert.Error(t, err)
		assert.Nil(t, extractor)
		assert.Contains(t, err.Error(), "Strategy cannot be nil")
	})
}

func TestNewStrategy(t *testing.T) {
	for _, mode := range []string{"", extract.ModeRegex} {
		s, err := extract.NewStrategy(mode)
		require.NoError(t, err)
		assert.Equal(t, extract.ModeRegex, s.Name())
	}

	s, err := extract.NewStrategy(extract.ModeSelector)
	require.NoError(t, err)
	assert.Equal(t, extract.ModeSelector, s.Name())

	_, err = extract.NewStrategy("xpath")
	assert.Error(t, err)
}

func TestSelectorStrategy(t *testing.T) {
	text := `<div data-pswp-src="a.jpg"></div><div data-pswp-src='b.jpg'></div><div data-pswp-src=c.jpg></div>`

	values, err := extract.SelectorStrategy{}.Extract(text)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, values)

	// regex 方式はダブルクォートのみ
	assert.Equal(t, []string{"a.jpg"}, extract.Extract(text))
}

func TestLoad(t *testing.T) {
	t.Run("reads_utf8_file", func(t *testing.T) {
		path := writeFile(t, []byte(`<img data-pswp-src="写真.jpg">`))
		text, err := extract.Load(path)
		require.NoError(t, err)
		assert.Equal(t, `<img data-pswp-src="写真.jpg">`, text)
	})

	t.Run("missing_file", func(t *testing.T) {
		_, err := extract.Load(filepath.Join(t.TempDir(), "missing.html"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("invalid_utf8", func(t *testing.T) {
		path := writeFile(t, []byte("ok\xff\xfe"))
		_, err := extract.Load(path)
		require.Error(t, err)

		var decodeErr *extract.DecodeError
		require.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, 2, decodeErr.Offset)
		assert.Equal(t, path, decodeErr.Source)
	})
}

func TestEmit(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, extract.Emit(&buf, []string{"img1.jpg", "", "img2.jpg"}))
	assert.Equal(t, "img1.jpg\n\nimg2.jpg\n", buf.String())

	buf.Reset()
	require.NoError(t, extract.Emit(&buf, nil))
	assert.Empty(t, buf.String())

	assert.Error(t, extract.Emit(failingWriter{}, []string{"a"}))
}
