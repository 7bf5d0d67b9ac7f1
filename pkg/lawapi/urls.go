package lawapi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

const (
	// DefaultBaseURL is the DRF open API root.
	DefaultBaseURL = "https://www.law.go.kr/DRF"

	// PublicLawBaseURL is the prefix of the human-facing law pages.
	PublicLawBaseURL = "https://www.law.go.kr/법령/"

	searchPath  = "/lawSearch.do"
	servicePath = "/lawService.do"

	// searchDisplay is the number of rows requested per search.
	searchDisplay = "10"
)

// ArticleParams is the DRF encoding of an article numbering.
type ArticleParams struct {
	// JO is the article zero-padded to 4 digits plus the article suffix
	// zero-padded to 2 ("002200", "000902").
	JO string
	// HANG is the clause padded to 6 digits, "000000" when only an item is
	// given, and empty otherwise.
	HANG string
	// HO is the item padded to 6 digits, or empty.
	HO string
	// MOK is the sub-item label, or empty.
	MOK string
}

// EncodeArticle converts a numbering into DRF query parameters.
func EncodeArticle(numbering citation.Numbering) ArticleParams {
	params := ArticleParams{
		JO: pad(numbering.Article, 4) + pad(numbering.ArticleSuffix, 2),
	}
	switch {
	case numbering.Clause > 0:
		params.HANG = pad(numbering.Clause, 6)
	case numbering.Item > 0:
		params.HANG = "000000"
	}
	if numbering.Item > 0 {
		params.HO = pad(numbering.Item, 6)
	}
	if citation.IsSubItemLabel(numbering.SubItem) {
		params.MOK = numbering.SubItem
	}
	return params
}

// CacheKey identifies an article request for caching.
func (params ArticleParams) CacheKey(lawID string) string {
	return strings.Join([]string{lawID, params.JO, params.HANG, params.HO, params.MOK}, "|")
}

func (params ArticleParams) apply(values url.Values) {
	values.Set("JO", params.JO)
	setIfPresent(values, "HANG", params.HANG)
	setIfPresent(values, "HO", params.HO)
	setIfPresent(values, "MOK", params.MOK)
}

func pad(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}

func setIfPresent(values url.Values, key, value string) {
	if value != "" {
		values.Set(key, value)
	}
}

// buildURL joins the API root with path and the non-empty parameters. The
// OC key is always added when configured.
func (lawClient *Client) buildURL(path string, values url.Values) string {
	if lawClient.oc != "" {
		values.Set("OC", lawClient.oc)
	}
	return lawClient.baseURL + path + "?" + values.Encode()
}

func (lawClient *Client) searchURL(format, query string) string {
	return lawClient.buildURL(searchPath, url.Values{
		"target":  {"law"},
		"type":    {format},
		"query":   {query},
		"display": {searchDisplay},
	})
}

func (lawClient *Client) articleURL(format, lawID string, numbering citation.Numbering) string {
	values := url.Values{
		"target": {"lawjosub"},
		"type":   {format},
		"ID":     {lawID},
	}
	EncodeArticle(numbering).apply(values)
	return lawClient.buildURL(servicePath, values)
}

// ArticleURL is the HTML page of a single article, suitable for opening in a
// browser.
func (lawClient *Client) ArticleURL(lawID string, numbering citation.Numbering) string {
	return lawClient.articleURL("HTML", lawID, numbering)
}

// ArticleJSONURL is the structured article endpoint.
func (lawClient *Client) ArticleJSONURL(lawID string, numbering citation.Numbering) string {
	return lawClient.articleURL("JSON", lawID, numbering)
}

// FullTextURL is the full-document HTML of a law.
func (lawClient *Client) FullTextURL(lawID string) string {
	return lawClient.buildURL(servicePath, url.Values{
		"target": {"law"},
		"type":   {"HTML"},
		"ID":     {lawID},
	})
}

// PublicURL is the public law.go.kr page for a law name.
func PublicURL(lawName string) string {
	return PublicLawBaseURL + url.PathEscape(lawName)
}

// WithProxy routes target through a "?url=" style proxy. The base gets a
// query separator and a url parameter when it lacks them.
func WithProxy(target, base string) string {
	proxy := strings.TrimSpace(base)
	if !strings.Contains(proxy, "?") {
		if !strings.HasSuffix(proxy, "/") {
			proxy += "/"
		}
		proxy += "?"
	}
	if !proxyURLParam.MatchString(proxy) {
		if !strings.HasSuffix(proxy, "?") && !strings.HasSuffix(proxy, "&") {
			proxy += "&"
		}
		proxy += "url="
	}
	return proxy + url.QueryEscape(target)
}
