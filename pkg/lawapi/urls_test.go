package lawapi

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

func TestEncodeArticle(t *testing.T) {
	cases := []struct {
		name      string
		numbering citation.Numbering
		expected  ArticleParams
	}{
		{
			name:      "article only",
			numbering: citation.Numbering{Article: 22},
			expected:  ArticleParams{JO: "002200"},
		},
		{
			name:      "article suffix and clause",
			numbering: citation.Numbering{Article: 9, ArticleSuffix: 2, Clause: 3},
			expected:  ArticleParams{JO: "000902", HANG: "000003"},
		},
		{
			name:      "item without clause",
			numbering: citation.Numbering{Article: 2, Item: 2},
			expected:  ArticleParams{JO: "000200", HANG: "000000", HO: "000002"},
		},
		{
			name:      "full numbering",
			numbering: citation.Numbering{Article: 6, ArticleSuffix: 2, Clause: 1, Item: 3, SubItem: "가"},
			expected:  ArticleParams{JO: "000602", HANG: "000001", HO: "000003", MOK: "가"},
		},
		{
			name:      "foreign sub-item dropped",
			numbering: citation.Numbering{Article: 1, Item: 1, SubItem: "거"},
			expected:  ArticleParams{JO: "000100", HANG: "000000", HO: "000001"},
		},
		{
			name:      "four digit article",
			numbering: citation.Numbering{Article: 1234, ArticleSuffix: 12},
			expected:  ArticleParams{JO: "123412"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, EncodeArticle(tc.numbering))
		})
	}
}

func TestArticleParamsCacheKey(t *testing.T) {
	params := EncodeArticle(citation.Numbering{Article: 6, ArticleSuffix: 2, Clause: 1, Item: 3, SubItem: "가"})
	assert.Equal(t, "001823|000602|000001|000003|가", params.CacheKey("001823"))

	params = EncodeArticle(citation.Numbering{Article: 22})
	assert.Equal(t, "001823|002200|||", params.CacheKey("001823"))
}

func TestServiceURLs(t *testing.T) {
	lawClient := newTestClient(&MockHTTPClient{}, "")

	assert.Equal(t,
		"https://www.law.go.kr/DRF/lawService.do?ID=001823&JO=002200&OC=test&target=lawjosub&type=HTML",
		lawClient.ArticleURL("001823", citation.Numbering{Article: 22}),
	)
	assert.Equal(t,
		"https://www.law.go.kr/DRF/lawService.do?HANG=000003&ID=001823&JO=000902&OC=test&target=lawjosub&type=JSON",
		lawClient.ArticleJSONURL("001823", citation.Numbering{Article: 9, ArticleSuffix: 2, Clause: 3}),
	)
	assert.Equal(t,
		"https://www.law.go.kr/DRF/lawService.do?ID=001823&OC=test&target=law&type=HTML",
		lawClient.FullTextURL("001823"),
	)
	assert.Equal(t,
		"https://www.law.go.kr/DRF/lawSearch.do?OC=test&display=10&query=%EA%B1%B4%EC%B6%95%EB%B2%95&target=law&type=JSON",
		lawClient.searchURL("JSON", "건축법"),
	)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://www.law.go.kr/법령/%EA%B1%B4%EC%B6%95%EB%B2%95", PublicURL("건축법"))
	assert.Equal(t,
		"https://www.law.go.kr/법령/%EA%B1%B4%EC%B6%95%EB%B2%95%20%EC%8B%9C%ED%96%89%EB%A0%B9",
		PublicURL("건축법 시행령"),
	)
}

func TestWithProxy(t *testing.T) {
	target := "https://www.law.go.kr/DRF/lawService.do?ID=1&JO=000100"
	escaped := "https%3A%2F%2Fwww.law.go.kr%2FDRF%2FlawService.do%3FID%3D1%26JO%3D000100"

	cases := []struct {
		name     string
		base     string
		expected string
	}{
		{"complete base", "https://proxy.example/?url=", "https://proxy.example/?url=" + escaped},
		{"bare host", "https://proxy.example", "https://proxy.example/?url=" + escaped},
		{"trailing slash", "https://proxy.example/", "https://proxy.example/?url=" + escaped},
		{"query without url", "https://proxy.example/fetch?key=abc", "https://proxy.example/fetch?key=abc&url=" + escaped},
		{"surrounding whitespace", "  https://proxy.example/?url=  ", "https://proxy.example/?url=" + escaped},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, WithProxy(target, tc.base))
		})
	}
}
