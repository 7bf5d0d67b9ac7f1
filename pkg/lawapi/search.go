package lawapi

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
)

const (
	suffixDecree = "시행령"
	suffixRule   = "시행규칙"
)

var (
	// nonNameCharacters is everything a search query may drop.
	nonNameCharacters = regexp.MustCompile(`[^가-힣A-Za-z0-9]`)

	// trailingFamilySuffix strips a family suffix to recover the Act name.
	trailingFamilySuffix = regexp.MustCompile(`\s*(?:시행령|시행규칙)$`)

	// idParameter extracts the law ID from a search result link.
	idParameter = regexp.MustCompile(`ID=([^&]+)`)
)

// searchFormat fetches one search response format and returns its rows.
type searchFormat struct {
	name  string
	parse func(body string) ([]LawRow, error)
}

var searchFormats = []searchFormat{
	{"JSON", parseSearchJSON},
	{"XML", parseSearchXML},
	{"HTML", parseSearchHTML},
}

// SearchLaw finds the law row that best matches query. Results are cached by
// the refined query. Each query variant is tried against the JSON, XML and
// HTML search formats in turn; the first variant that yields rows wins.
//
// When the query names an Enforcement Decree or Rule and nothing matches,
// the search is retried once with "<Act> 시행령" or "<Act> 시행규칙".
func (lawClient *Client) SearchLaw(ctx context.Context, query string) (LawRow, error) {
	refinedQuery := citation.RefineLawName(query)
	if refinedQuery == "" {
		return LawRow{}, fmt.Errorf("%w: empty query", ErrLawNotFound)
	}
	if row, found := lawClient.lawCache.Get(refinedQuery); found {
		return row, nil
	}

	wantedSuffix := familySuffix(refinedQuery)
	for _, variant := range lawClient.alternatives(query) {
		row, err := lawClient.searchVariant(ctx, variant, wantedSuffix)
		if err == nil {
			lawClient.lawCache.Set(refinedQuery, row)
			return row, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return LawRow{}, ctxErr
		}
	}

	if wantedSuffix != "" {
		base := trailingFamilySuffix.ReplaceAllString(refinedQuery, "")
		forced := strings.TrimSpace(base + " " + wantedSuffix)
		row, err := lawClient.searchVariant(ctx, forced, wantedSuffix)
		if err == nil {
			lawClient.lawCache.Set(refinedQuery, row)
			return row, nil
		}
	}

	lawClient.logger.Debug("law search found nothing", zap.String("law", query))
	return LawRow{}, fmt.Errorf("%w: %s", ErrLawNotFound, query)
}

func (lawClient *Client) searchVariant(ctx context.Context, variant, wantedSuffix string) (LawRow, error) {
	wanted := searchKey(variant)
	for _, format := range searchFormats {
		body, err := lawClient.FetchText(ctx, lawClient.searchURL(format.name, variant))
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return LawRow{}, ctxErr
			}
			lawClient.logger.Debug("law search request failed",
				zap.String("law", variant),
				zap.String("format", format.name),
				zap.Error(err),
			)
			continue
		}
		rows, err := format.parse(body)
		if err != nil || len(rows) == 0 {
			continue
		}
		return pickBest(rows, wanted, wantedSuffix), nil
	}
	return LawRow{}, ErrLawNotFound
}

// alternatives returns the query variants in the order they are tried:
// aliases, the punctuation-free form, 교육/보육 swaps, the refined name, and
// the raw query. Duplicates and empty variants are dropped.
func (lawClient *Client) alternatives(query string) []string {
	compact := strings.Join(strings.Fields(citation.DisplayName(query)), "")

	var variants []string
	seen := make(map[string]bool)
	add := func(variant string) {
		if variant == "" || seen[variant] {
			return
		}
		seen[variant] = true
		variants = append(variants, variant)
	}

	for _, alias := range lawClient.aliases[citation.CanonicalName(compact)] {
		add(alias)
	}
	add(nonNameCharacters.ReplaceAllString(compact, ""))
	if strings.Contains(compact, "교육") {
		add(strings.ReplaceAll(compact, "교육", "보육"))
	}
	if strings.Contains(compact, "보육") {
		add(strings.ReplaceAll(compact, "보육", "교육"))
	}
	add(citation.RefineLawName(query))
	add(strings.TrimSpace(query))
	return variants
}

// searchKey is the comparison form of a law name.
func searchKey(name string) string {
	return citation.CanonicalName(citation.RefineLawName(name))
}

func familySuffix(name string) string {
	switch {
	case strings.HasSuffix(name, suffixDecree):
		return suffixDecree
	case strings.HasSuffix(name, suffixRule):
		return suffixRule
	default:
		return ""
	}
}

// pickBest chooses the row that best matches the wanted search key. rows
// must not be empty.
func pickBest(rows []LawRow, wanted, wantedSuffix string) LawRow {
	if wantedSuffix != "" {
		for _, row := range rows {
			if isSubordinate(row.Name) && searchKey(row.Name) == wanted {
				return row
			}
		}
		for _, row := range rows {
			if strings.HasSuffix(strings.TrimSpace(row.Name), wantedSuffix) {
				return row
			}
		}
	}

	for _, row := range rows {
		if searchKey(row.Name) == wanted {
			return row
		}
	}
	for _, row := range rows {
		key := searchKey(row.Name)
		if key == "" {
			continue
		}
		if strings.Contains(key, wanted) || strings.Contains(wanted, key) {
			return row
		}
	}
	return rows[0]
}

func isSubordinate(name string) bool {
	return strings.Contains(name, suffixDecree) || strings.Contains(name, suffixRule)
}

// parseSearchJSON reads {"LawSearch": {"law": [...]}}. The wrapper object
// is optional and "law" may be a single object.
func parseSearchJSON(body string) ([]LawRow, error) {
	if !gjson.Valid(body) {
		return nil, errors.New("invalid search JSON")
	}
	root := gjson.Parse(body)
	if wrapped := root.Get("LawSearch"); wrapped.Exists() {
		root = wrapped
	}

	var rows []LawRow
	forEachObject(root.Get("law"), func(law gjson.Result) {
		rows = append(rows, LawRow{
			Name:         strings.TrimSpace(law.Get("법령명한글").String()),
			ID:           strings.TrimSpace(law.Get("법령ID").String()),
			SerialNumber: strings.TrimSpace(law.Get("법령일련번호").String()),
			DetailLink:   strings.TrimSpace(law.Get("법령상세링크").String()),
		})
	})
	return rows, nil
}

type xmlSearchResult struct {
	Laws []struct {
		Name         string `xml:"법령명한글"`
		ID           string `xml:"법령ID"`
		SerialNumber string `xml:"법령일련번호"`
		DetailLink   string `xml:"법령상세링크"`
	} `xml:"law"`
}

// parseSearchXML reads <LawSearch><law>...</law></LawSearch>.
func parseSearchXML(body string) ([]LawRow, error) {
	var result xmlSearchResult
	if err := xml.Unmarshal([]byte(body), &result); err != nil {
		return nil, fmt.Errorf("invalid search XML: %w", err)
	}

	rows := make([]LawRow, 0, len(result.Laws))
	for _, law := range result.Laws {
		rows = append(rows, LawRow{
			Name:         strings.TrimSpace(law.Name),
			ID:           strings.TrimSpace(law.ID),
			SerialNumber: strings.TrimSpace(law.SerialNumber),
			DetailLink:   strings.TrimSpace(law.DetailLink),
		})
	}
	return rows, nil
}

// parseSearchHTML scrapes anchors whose href carries an ID parameter.
func parseSearchHTML(body string) ([]LawRow, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("invalid search HTML: %w", err)
	}

	var rows []LawRow
	for node := range doc.Descendants() {
		if node.Type != html.ElementNode || node.DataAtom != atom.A {
			continue
		}
		href := attribute(node, "href")
		match := idParameter.FindStringSubmatch(href)
		if match == nil {
			continue
		}
		id, err := url.QueryUnescape(match[1])
		if err != nil {
			id = match[1]
		}
		if id == "" {
			continue
		}
		rows = append(rows, LawRow{
			Name: strings.TrimSpace(textContent(node)),
			ID:   id,
		})
	}
	return rows, nil
}

func attribute(node *html.Node, key string) string {
	for _, attr := range node.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func textContent(node *html.Node) string {
	var sb strings.Builder
	for descendant := range node.Descendants() {
		if descendant.Type == html.TextNode {
			sb.WriteString(descendant.Data)
		}
	}
	return sb.String()
}

// forEachObject calls fn for value when it is an object, or for each object
// element when it is an array.
func forEachObject(value gjson.Result, fn func(gjson.Result)) {
	switch {
	case value.IsArray():
		for _, element := range value.Array() {
			if element.IsObject() {
				fn(element)
			}
		}
	case value.IsObject():
		fn(value)
	}
}
