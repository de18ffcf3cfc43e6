package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFetcher はテスト対象の Parser.client が依存する Fetcher インターフェースのモックです。
type MockFetcher struct {
	FetchBytesFunc func(ctx context.Context, url string) ([]byte, error)
}

func (m *MockFetcher) FetchBytes(ctx context.Context, url string) ([]byte, error) {
	return m.FetchBytesFunc(ctx, url)
}

// MockLinkSource は LinkSource インターフェースを満たすテスト用のモックです。
type MockLinkSource struct {
	Links []string
}

func (m *MockLinkSource) GetLinks() []string {
	return m.Links
}

const testURL = "http://example.com/feed"

// 最小限の有効なRSS XML (ギャラリー記事2件 + リンクなし1件)
const validRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Gallery Feed</title>
    <link>http://example.com/</link>
    <item>
      <title>Album 1</title>
      <link>http://example.com/album1</link>
    </item>
    <item>
      <title>No link</title>
    </item>
    <item>
      <title>Album 2</title>
      <link>http://example.com/album2</link>
    </item>
  </channel>
</rss>`

func TestNewParser(t *testing.T) {
	p, err := NewParser(nil)
	assert.Error(t, err)
	assert.Nil(t, p)
}

func TestFetchAndParse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name          string
		mockFetchFunc func(ctx context.Context, url string) ([]byte, error)
		expectedTitle string
		errorContains string
	}{
		{
			name: "成功ケース_有効なRSS",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				if url != testURL {
					return nil, errors.New("unexpected url: " + url)
				}
				return []byte(validRSS), nil
			},
			expectedTitle: "Gallery Feed",
		},
		{
			name: "エラーケース_フィード取得失敗",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return nil, errors.New("HTTPエラー: 500 Internal Server Error")
			},
			errorContains: "フィードの取得失敗",
		},
		{
			name: "エラーケース_パース失敗",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(`<invalid><tag>`), nil
			},
			errorContains: "RSSフィードのパース失敗",
		},
		{
			name: "エッジケース_空ボディ",
			mockFetchFunc: func(ctx context.Context, url string) ([]byte, error) {
				return []byte(""), nil
			},
			errorContains: "RSSフィードのパース失敗",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewParser(&MockFetcher{FetchBytesFunc: tt.mockFetchFunc})
			require.NoError(t, err)

			feed, err := p.FetchAndParse(ctx, testURL)

			if tt.errorContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, feed)
			assert.Equal(t, tt.expectedTitle, feed.Title)
		})
	}
}

func TestFetchLinks(t *testing.T) {
	p, err := NewParser(&MockFetcher{FetchBytesFunc: func(ctx context.Context, url string) ([]byte, error) {
		return []byte(validRSS), nil
	}})
	require.NoError(t, err)

	feed, links, err := p.FetchLinks(context.Background(), testURL)
	require.NoError(t, err)
	assert.Equal(t, "Gallery Feed", feed.Title)
	assert.Equal(t, []string{"http://example.com/album1", "http://example.com/album2"}, links)
}

func TestFeedAdapter_GetLinks(t *testing.T) {
	tests := []struct {
		name     string
		feed     *gofeed.Feed
		expected []string
	}{
		{
			name: "正常ケース_空リンクは無視",
			feed: &gofeed.Feed{Items: []*gofeed.Item{
				{Link: "http://example.com/a"},
				{Link: ""},
				{Link: "http://example.com/b"},
			}},
			expected: []string{"http://example.com/a", "http://example.com/b"},
		},
		{
			name:     "エッジケース_アイテムが空",
			feed:     &gofeed.Feed{Items: []*gofeed.Item{}},
			expected: []string{},
		},
		{
			name:     "エッジケース_フィードがnil",
			feed:     nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NewFeedAdapter(tt.feed).GetLinks())
		})
	}
}

func TestGetAllLinks(t *testing.T) {
	assert.Equal(t, []string{"x", "y"}, GetAllLinks(&MockLinkSource{Links: []string{"x", "y"}}))
	assert.Equal(t, []string{}, GetAllLinks(nil))
}
