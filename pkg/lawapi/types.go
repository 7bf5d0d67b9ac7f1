// Package lawapi is a client for the law.go.kr DRF open API: law search,
// structured article fetch, and HTML snippet fallbacks.
package lawapi

import "errors"

var (
	// ErrLawNotFound is returned when no search variant yields a law row.
	ErrLawNotFound = errors.New("lawapi: law not found")

	// ErrArticleNotFound is returned when the article endpoint has no usable
	// title, text or clauses for the requested numbering.
	ErrArticleNotFound = errors.New("lawapi: article not found")

	// ErrSnippetNotFound is returned when a fallback page does not contain
	// the article key.
	ErrSnippetNotFound = errors.New("lawapi: article snippet not found")

	// ErrEmptyResponse is returned when both the direct and proxied requests
	// produced no body.
	ErrEmptyResponse = errors.New("lawapi: empty response")
)

// LawRow is one law search result.
type LawRow struct {
	// Name is the Korean law name (법령명한글).
	Name string `json:"name" yaml:"name"`

	// ID is the law identifier (법령ID) used by the article endpoints.
	ID string `json:"id" yaml:"id"`

	// SerialNumber is the law serial number (법령일련번호), when reported.
	SerialNumber string `json:"serial_number,omitempty" yaml:"serial_number,omitempty"`

	// DetailLink is the relative detail link (법령상세링크), when reported.
	DetailLink string `json:"detail_link,omitempty" yaml:"detail_link,omitempty"`
}

// Article is the structured content of one article (조).
type Article struct {
	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Clauses []Clause `json:"clauses,omitempty" yaml:"clauses,omitempty"`
}

// IsEmpty reports whether the article carries no content at all.
func (a Article) IsEmpty() bool {
	return a.Title == "" && a.Text == "" && len(a.Clauses) == 0
}

// Clause is a paragraph (항) of an article.
type Clause struct {
	Number string `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
	Items  []Item `json:"items,omitempty" yaml:"items,omitempty"`
}

// Item is a subparagraph (호) of a clause.
type Item struct {
	Number   string    `json:"number" yaml:"number"`
	Text     string    `json:"text" yaml:"text"`
	SubItems []SubItem `json:"sub_items,omitempty" yaml:"sub_items,omitempty"`
}

// SubItem is a lettered sub-item (목) of an item.
type SubItem struct {
	Number string `json:"number" yaml:"number"`
	Text   string `json:"text" yaml:"text"`
}
