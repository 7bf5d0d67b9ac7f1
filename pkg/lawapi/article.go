package lawapi

import (
	"context"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

// FetchArticle fetches the structured content of the cited article from the
// lawjosub JSON endpoint. Successful results are cached by law ID and
// encoded numbering.
func (lawClient *Client) FetchArticle(ctx context.Context, lawID string, numbering citation.Numbering) (Article, error) {
	if lawID == "" || numbering.Article <= 0 {
		return Article{}, fmt.Errorf("%w: law %q article %d", ErrArticleNotFound, lawID, numbering.Article)
	}

	cacheKey := EncodeArticle(numbering).CacheKey(lawID)
	if article, found := lawClient.articleCache.Get(cacheKey); found {
		return article, nil
	}

	body, err := lawClient.FetchText(ctx, lawClient.ArticleJSONURL(lawID, numbering))
	if err != nil {
		return Article{}, fmt.Errorf("fetch article %s %s: %w", lawID, numbering.ArticleKey(), err)
	}

	article, err := ParseArticleJSON(body)
	if err != nil {
		lawClient.logger.Debug("article JSON unusable",
			zap.String("law_id", lawID),
			zap.String("article", numbering.String()),
			zap.Error(err),
		)
		return Article{}, fmt.Errorf("article %s %s: %w", lawID, numbering.ArticleKey(), err)
	}

	lawClient.articleCache.Set(cacheKey, article)
	return article, nil
}

// ParseArticleJSON decodes a lawjosub JSON response. The article may sit
// under "law", "Law", or at the document root; clauses, items and sub-items
// may each be a single object or an array.
func ParseArticleJSON(body string) (Article, error) {
	if !gjson.Valid(body) {
		return Article{}, fmt.Errorf("%w: response is not JSON", ErrArticleNotFound)
	}

	root := gjson.Parse(body)
	for _, wrapper := range []string{"law", "Law"} {
		if wrapped := root.Get(wrapper); wrapped.IsObject() {
			root = wrapped
			break
		}
	}

	article := Article{
		Title: trimmed(root, "조문제목"),
		Text:  trimmed(root, "조문내용"),
	}
	forEachObject(root.Get("항"), func(clauseJSON gjson.Result) {
		clause := Clause{
			Number: trimmed(clauseJSON, "항번호"),
			Text:   trimmed(clauseJSON, "항내용"),
		}
		forEachObject(clauseJSON.Get("호"), func(itemJSON gjson.Result) {
			item := Item{
				Number: trimmed(itemJSON, "호번호"),
				Text:   trimmed(itemJSON, "호내용"),
			}
			forEachObject(itemJSON.Get("목"), func(subItemJSON gjson.Result) {
				item.SubItems = append(item.SubItems, SubItem{
					Number: trimmed(subItemJSON, "목번호"),
					Text:   trimmed(subItemJSON, "목내용"),
				})
			})
			clause.Items = append(clause.Items, item)
		})
		article.Clauses = append(article.Clauses, clause)
	})

	if article.IsEmpty() {
		return Article{}, ErrArticleNotFound
	}
	return article, nil
}

func trimmed(value gjson.Result, path string) string {
	return strings.TrimSpace(value.Get(path).String())
}
