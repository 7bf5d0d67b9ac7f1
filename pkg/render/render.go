// Package render turns fetched statute content into embeddable HTML
// fragments: structured articles, raw page snippets, and the sanitizer every
// fragment passes through before it is shown.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/kimjonghyeok62/law-citation-search/pkg/citation"
	"github.com/kimjonghyeok62/law-citation-search/pkg/lawapi"
)

const (
	// MaxEmbedBytes caps a sanitized fragment.
	MaxEmbedBytes = 12000

	// TruncationMarker is appended to fragments cut at MaxEmbedBytes.
	TruncationMarker = `<div class="small">…(생략)</div>`

	// EmptyContent stands in for a fragment with nothing left to show.
	EmptyContent = `<div class="small">내용이 없습니다.</div>`

	// NotLoaded is shown when no source produced article content.
	NotLoaded = `<div class="small">조문을 불러오지 못했습니다.</div>`
)

// Header notes naming where rendered content came from.
const (
	NoteJSON     = "JSON"
	NoteFullText = "HTML 폴백"
	NotePublic   = "퍼블릭 폴백"
)

// strippedElements never survive Sanitize.
var strippedElements = map[atom.Atom]bool{
	atom.Script: true,
	atom.Style:  true,
	atom.Link:   true,
	atom.Meta:   true,
	atom.Iframe: true,
	atom.Header: true,
	atom.Footer: true,
	atom.Nav:    true,
}

// Label is the header text for a citation: "건축법 시행령 · 제9조의2".
func Label(c citation.Citation) string {
	return c.LawName() + " · " + c.ArticleKey()
}

// Header appends a source note to a label: "건축법 · 제22조 (JSON)".
func Header(label, note string) string {
	if note == "" {
		return label
	}
	return label + " (" + note + ")"
}

// ArticleHTML renders structured article content under header. All text is
// escaped.
func ArticleHTML(header string, article lawapi.Article) string {
	var body strings.Builder
	if article.Title != "" {
		body.WriteString("<div><b>" + html.EscapeString(article.Title) + "</b></div>")
	}
	if article.Text != "" {
		body.WriteString(`<div style="white-space:pre-wrap">` + html.EscapeString(article.Text) + "</div>")
	}
	for _, clause := range article.Clauses {
		writeUnit(&body, "margin-top:8px", unitLabel(clause.Number, "제", "항"), clause.Text)
		for _, item := range clause.Items {
			writeUnit(&body, "margin:4px 0 0 12px", unitLabel(item.Number, "제", "호"), item.Text)
			for _, subItem := range item.SubItems {
				writeUnit(&body, "margin:2px 0 0 24px", unitLabel(subItem.Number, "", "목"), subItem.Text)
			}
		}
	}
	return wrap(html.EscapeString(header), body.String())
}

// SnippetHTML wraps a raw page snippet under header. The snippet is page
// markup and is not escaped; pass the result through Sanitize.
func SnippetHTML(header, snippet string) string {
	return wrap(html.EscapeString(header), snippet)
}

func wrap(header, body string) string {
	return `<div class="render"><div class="hdr"><div>` + header +
		`</div></div><div class="body">` + body + `</div></div>`
}

func writeUnit(body *strings.Builder, style, label, text string) {
	body.WriteString(`<div style="` + style + `"><b>` + html.EscapeString(label) + "</b>")
	if text != "" {
		body.WriteString(" " + html.EscapeString(text))
	}
	body.WriteString("</div>")
}

// unitLabel renders "제3항" for numeric labels and keeps glyph labels such
// as "③" or "가" as they are, followed by unit where that reads naturally.
func unitLabel(number, prefix, unit string) string {
	number = strings.TrimSuffix(strings.TrimSpace(number), ".")
	switch {
	case number == "":
		return unit
	case isDigits(number):
		return prefix + number + unit
	case utf8.RuneCountInString(number) == 1 && !unicode.Is(unicode.Hangul, []rune(number)[0]):
		return number
	default:
		return number + unit
	}
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Sanitize prepares a fragment for embedding: it drops script, style, link,
// meta, iframe, header, footer and nav elements and caps the result at
// MaxEmbedBytes. Unparseable input yields "".
func Sanitize(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return ""
	}

	var out strings.Builder
	for _, node := range nodes {
		if node.Type == html.ElementNode && strippedElements[node.DataAtom] {
			continue
		}
		removeStripped(node)
		if err := html.Render(&out, node); err != nil {
			return ""
		}
	}
	return truncate(out.String())
}

// Embed sanitizes fragment, substituting EmptyContent when nothing is left.
func Embed(fragment string) string {
	if sanitized := Sanitize(fragment); strings.TrimSpace(sanitized) != "" {
		return sanitized
	}
	return EmptyContent
}

func removeStripped(node *html.Node) {
	for child := node.FirstChild; child != nil; {
		next := child.NextSibling
		if child.Type == html.ElementNode && strippedElements[child.DataAtom] {
			node.RemoveChild(child)
		} else {
			removeStripped(child)
		}
		child = next
	}
}

// truncate cuts s at MaxEmbedBytes without splitting a rune.
func truncate(s string) string {
	if len(s) <= MaxEmbedBytes {
		return s
	}
	cut := MaxEmbedBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncationMarker
}
