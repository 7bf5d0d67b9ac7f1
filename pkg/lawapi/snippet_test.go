package lawapi

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

func TestWindow(t *testing.T) {
	before := strings.Repeat("가", 500)
	after := strings.Repeat("나", 2000)
	text := before + "제22조" + after

	snippet, found := window(text, "제22조")
	require.True(t, found)
	assert.Equal(t, snippetBefore+snippetAfter, utf8.RuneCountInString(snippet))
	assert.True(t, strings.HasPrefix(snippet, strings.Repeat("가", snippetBefore)+"제22조"))

	short, found := window("앞 제3조 뒤", "제3조")
	require.True(t, found)
	assert.Equal(t, "앞 제3조 뒤", short)

	_, found = window("제2조", "제3조")
	assert.False(t, found)
}

func pageMock(page string) *MockHTTPClient {
	return &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return textResponse(http.StatusOK, page), nil
		},
	}
}

func TestFullTextSnippet(t *testing.T) {
	page := "<html><body>" + strings.Repeat("<p>조문</p>", 40) +
		"<p>제9조의2(건축물의 설계)</p><p>내용</p></body></html>"
	lawClient := newTestClient(pageMock(page), "")

	snippet, err := lawClient.FullTextSnippet(context.Background(), "002118", citation.Numbering{Article: 9, ArticleSuffix: 2})
	require.NoError(t, err)
	assert.Contains(t, snippet, "제9조의2(건축물의 설계)")
}

func TestFullTextSnippetRejectsUnusablePages(t *testing.T) {
	cases := []struct {
		name string
		page string
	}{
		{"too short", "<p>제9조</p>" + strings.Repeat(" ", 31)},
		{"fail page", strings.Repeat("<p>안내</p>", 30) + "<p>페이지 접속에 실패하였습니다. 제9조</p>"},
		{"key missing", strings.Repeat("<p>제8조</p>", 40)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lawClient := newTestClient(pageMock(tc.page), "")
			_, err := lawClient.FullTextSnippet(context.Background(), "002118", citation.Numbering{Article: 9})
			assert.ErrorIs(t, err, ErrSnippetNotFound)
		})
	}
}

func TestPublicSnippet(t *testing.T) {
	padding := strings.Repeat("<div>법령 본문</div>\n", 20)

	cases := []struct {
		name     string
		page     string
		contains string
		excludes string
	}{
		{
			name:     "key in markup",
			page:     padding + "<span>제22조(사용승인)</span>\r\n<span>건축주는</span>",
			contains: "제22조(사용승인)</span> <span>건축주는",
		},
		{
			name:     "key split by tags",
			page:     padding + "<b>제</b>22조<i>(사용승인)</i>",
			contains: "제22조(사용승인)",
			excludes: "<b>",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lawClient := newTestClient(pageMock(tc.page), "")
			snippet, err := lawClient.PublicSnippet(context.Background(), "건축법", citation.Numbering{Article: 22})
			require.NoError(t, err)
			assert.Contains(t, snippet, tc.contains)
			assert.NotContains(t, snippet, "\n")
			if tc.excludes != "" {
				assert.NotContains(t, snippet, tc.excludes)
			}
		})
	}
}

func TestPublicSnippetNotFound(t *testing.T) {
	lawClient := newTestClient(pageMock(strings.Repeat("<p>제8조</p>", 40)), "")

	_, err := lawClient.PublicSnippet(context.Background(), "건축법", citation.Numbering{Article: 22})
	assert.ErrorIs(t, err, ErrSnippetNotFound)
}
