package lawapi

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

const (
	// minPageLength is the shortest page that can hold law text.
	minPageLength = 200

	// Snippet window around the article key, in runes.
	snippetBefore = 400
	snippetAfter  = 1600
)

var (
	lineBreaks     = regexp.MustCompile(`\r?\n`)
	whitespaceRuns = regexp.MustCompile(`\s{2,}`)
	markupTags     = regexp.MustCompile(`<[^>]+>`)
)

// FullTextSnippet returns the full-document HTML around the cited article.
// The fragment is raw page markup and must be sanitized before embedding.
func (lawClient *Client) FullTextSnippet(ctx context.Context, lawID string, numbering citation.Numbering) (string, error) {
	page, err := lawClient.FetchText(ctx, lawClient.FullTextURL(lawID))
	if err != nil {
		return "", fmt.Errorf("fetch full text of %s: %w", lawID, err)
	}
	if len(page) <= minPageLength || IsFailPage(page) {
		return "", fmt.Errorf("%w: full text of %s unavailable", ErrSnippetNotFound, lawID)
	}

	snippet, found := window(page, numbering.ArticleKey())
	if !found {
		return "", fmt.Errorf("%w: %s not in full text of %s", ErrSnippetNotFound, numbering.ArticleKey(), lawID)
	}
	return snippet, nil
}

// PublicSnippet returns text around the cited article from the public
// law.go.kr page. The key is looked up in the page markup first and in its
// tag-stripped text second.
func (lawClient *Client) PublicSnippet(ctx context.Context, lawName string, numbering citation.Numbering) (string, error) {
	page, err := lawClient.FetchText(ctx, PublicURL(lawName))
	if err != nil {
		return "", fmt.Errorf("fetch public page of %s: %w", lawName, err)
	}
	if len(page) < minPageLength {
		return "", fmt.Errorf("%w: public page of %s too short", ErrSnippetNotFound, lawName)
	}

	clean := whitespaceRuns.ReplaceAllString(lineBreaks.ReplaceAllString(page, " "), " ")
	key := numbering.ArticleKey()
	if snippet, found := window(clean, key); found {
		return snippet, nil
	}
	stripped := whitespaceRuns.ReplaceAllString(markupTags.ReplaceAllString(clean, ""), " ")
	if snippet, found := window(stripped, key); found {
		return snippet, nil
	}
	return "", fmt.Errorf("%w: %s not on public page of %s", ErrSnippetNotFound, key, lawName)
}

// window cuts snippetBefore runes before and snippetAfter runes after the
// first occurrence of key.
func window(text, key string) (string, bool) {
	index := strings.Index(text, key)
	if index < 0 {
		return "", false
	}

	start := index
	for i := 0; i < snippetBefore && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := index
	for i := 0; i < snippetAfter && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end], true
}
