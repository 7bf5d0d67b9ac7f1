package lawapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

const articleJSON = `{
  "law": {
    "조문제목": " 건축허가 ",
    "조문내용": "제11조(건축허가)",
    "항": [
      {
        "항번호": "①",
        "항내용": "건축물을 건축하려는 자는 허가를 받아야 한다.",
        "호": {
          "호번호": "1.",
          "호내용": "다음 각 목의 건축물",
          "목": [
            {"목번호": "가", "목내용": "층수가 21층 이상인 건축물"},
            {"목번호": "나", "목내용": "연면적 10만 제곱미터 이상인 건축물"}
          ]
        }
      },
      {"항번호": "②", "항내용": "시장ㆍ군수는 허가를 하려면 승인을 받아야 한다."}
    ]
  }
}`

func TestParseArticleJSON(t *testing.T) {
	article, err := ParseArticleJSON(articleJSON)
	require.NoError(t, err)

	assert.Equal(t, Article{
		Title: "건축허가",
		Text:  "제11조(건축허가)",
		Clauses: []Clause{
			{
				Number: "①",
				Text:   "건축물을 건축하려는 자는 허가를 받아야 한다.",
				Items: []Item{
					{
						Number: "1.",
						Text:   "다음 각 목의 건축물",
						SubItems: []SubItem{
							{Number: "가", Text: "층수가 21층 이상인 건축물"},
							{Number: "나", Text: "연면적 10만 제곱미터 이상인 건축물"},
						},
					},
				},
			},
			{Number: "②", Text: "시장ㆍ군수는 허가를 하려면 승인을 받아야 한다."},
		},
	}, article)
}

func TestParseArticleJSONRoots(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"lowercase wrapper", `{"law": {"조문제목": "목적"}}`},
		{"capitalized wrapper", `{"Law": {"조문제목": "목적"}}`},
		{"bare document", `{"조문제목": "목적"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			article, err := ParseArticleJSON(tc.body)
			require.NoError(t, err)
			assert.Equal(t, "목적", article.Title)
		})
	}
}

func TestParseArticleJSONEmpty(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty object", `{}`},
		{"empty wrapper", `{"law": {}}`},
		{"blank fields", `{"law": {"조문제목": "  ", "조문내용": ""}}`},
		{"not json", `<html>페이지 접속에 실패하였습니다.</html>`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseArticleJSON(tc.body)
			assert.ErrorIs(t, err, ErrArticleNotFound)
		})
	}
}

func TestFetchArticleCaches(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return textResponse(http.StatusOK, articleJSON), nil
		},
	}
	lawClient := newTestClient(mockClient, "")
	numbering := citation.Numbering{Article: 11, Clause: 1}

	first, err := lawClient.FetchArticle(context.Background(), "001823", numbering)
	require.NoError(t, err)
	second, err := lawClient.FetchArticle(context.Background(), "001823", numbering)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	requests := mockClient.Requests()
	require.Len(t, requests, 1)
	assert.Equal(t, lawClient.ArticleJSONURL("001823", numbering), requests[0])
}

func TestFetchArticleNotFound(t *testing.T) {
	mockClient := &MockHTTPClient{
		DoFunc: func(req *http.Request) (*http.Response, error) {
			return textResponse(http.StatusOK, `{"law": {"조문제목": ""}, "result": "none"}`), nil
		},
	}
	lawClient := newTestClient(mockClient, "")

	_, err := lawClient.FetchArticle(context.Background(), "001823", citation.Numbering{Article: 999})
	assert.ErrorIs(t, err, ErrArticleNotFound)
	assert.Zero(t, lawClient.articleCache.Len())
}

func TestFetchArticleRejectsMissingNumbering(t *testing.T) {
	mockClient := &MockHTTPClient{}
	lawClient := newTestClient(mockClient, "")

	_, err := lawClient.FetchArticle(context.Background(), "", citation.Numbering{Article: 1})
	assert.ErrorIs(t, err, ErrArticleNotFound)
	_, err = lawClient.FetchArticle(context.Background(), "001823", citation.Numbering{})
	assert.ErrorIs(t, err, ErrArticleNotFound)
	assert.Empty(t, mockClient.Requests())
}
