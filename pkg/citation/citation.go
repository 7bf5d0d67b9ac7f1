// Package citation extracts Korean statutory citations (law name plus
// article/clause/item/sub-item numbering) from free text.
//
// Extraction is a pure, synchronous scan: the same input always yields the
// same ordered citations, and no state survives between calls. Anaphoric
// references such as "같은 법" or "이 영" are resolved against the most
// recently named law family (Act, Enforcement Decree, Enforcement Rule).
package citation

import (
	"strconv"
	"strings"
)

// Kind classifies what a citation points at.
type Kind string

const (
	// KindArticle is the only kind the assembler emits today.
	KindArticle Kind = "article"

	// KindAttachedTable (별표) and KindAddendum (부칙) are recognized by
	// Grammar.Annexes but not turned into citations.
	KindAttachedTable Kind = "attached_table"
	KindAddendum      Kind = "addendum"
)

// Numbering locates a provision inside a law. Zero means "not present";
// statute numbering starts at 1.
type Numbering struct {
	Article       int    `json:"article" yaml:"article"`
	ArticleSuffix int    `json:"article_suffix,omitempty" yaml:"article_suffix,omitempty"`
	Clause        int    `json:"clause,omitempty" yaml:"clause,omitempty"`
	Item          int    `json:"item,omitempty" yaml:"item,omitempty"`
	SubItem       string `json:"sub_item,omitempty" yaml:"sub_item,omitempty"`
}

// String renders the numbering in statute form, e.g. "제9조의2 제3항 제1호 가목".
func (n Numbering) String() string {
	var sb strings.Builder
	sb.WriteString("제")
	sb.WriteString(strconv.Itoa(n.Article))
	sb.WriteString("조")
	if n.ArticleSuffix > 0 {
		sb.WriteString("의")
		sb.WriteString(strconv.Itoa(n.ArticleSuffix))
	}
	if n.Clause > 0 {
		sb.WriteString(" 제")
		sb.WriteString(strconv.Itoa(n.Clause))
		sb.WriteString("항")
	}
	if n.Item > 0 {
		sb.WriteString(" 제")
		sb.WriteString(strconv.Itoa(n.Item))
		sb.WriteString("호")
	}
	if n.SubItem != "" {
		sb.WriteString(" ")
		sb.WriteString(n.SubItem)
		sb.WriteString("목")
	}
	return sb.String()
}

// ArticleKey renders only the article part, e.g. "제9조의2". This is the
// string searched for inside full-text law pages.
func (n Numbering) ArticleKey() string {
	key := "제" + strconv.Itoa(n.Article) + "조"
	if n.ArticleSuffix > 0 {
		key += "의" + strconv.Itoa(n.ArticleSuffix)
	}
	return key
}

// Citation is one extracted statutory citation.
type Citation struct {
	// RawSpan is the matched text, trimmed of surrounding whitespace.
	RawSpan string `json:"raw_span" yaml:"raw_span"`

	// ResolvedSpan is set for anaphoric matches only: RawSpan with the
	// anaphoric phrase replaced by the resolved law name.
	ResolvedSpan string `json:"resolved_span,omitempty" yaml:"resolved_span,omitempty"`

	// LawNameCanonical has whitespace, quotes, brackets and interpuncts
	// removed. It is the lookup and dedup key.
	LawNameCanonical string `json:"law_name_canonical" yaml:"law_name_canonical"`

	// LawNameDisplay keeps internal whitespace, e.g. "건축법 시행령".
	LawNameDisplay string `json:"law_name_display" yaml:"law_name_display"`

	Numbering `yaml:",inline"`

	Kind Kind `json:"kind" yaml:"kind"`

	// Offset is the byte offset of RawSpan within the normalized input.
	Offset int `json:"offset" yaml:"offset"`
}

// Key is the identity used for deduplication.
type Key struct {
	LawName       string
	Article       int
	ArticleSuffix int
	Clause        int
	Item          int
	SubItem       string
	Kind          Kind
}

// Key returns the dedup identity of the citation. Span text and offset are
// deliberately not part of it.
func (c Citation) Key() Key {
	return Key{
		LawName:       c.LawNameCanonical,
		Article:       c.Article,
		ArticleSuffix: c.ArticleSuffix,
		Clause:        c.Clause,
		Item:          c.Item,
		SubItem:       c.SubItem,
		Kind:          c.Kind,
	}
}

// LawName returns the display name, falling back to the canonical name.
func (c Citation) LawName() string {
	if c.LawNameDisplay != "" {
		return c.LawNameDisplay
	}
	return c.LawNameCanonical
}

// String renders the citation as "건축법 시행령 제9조의2 제3항".
func (c Citation) String() string {
	return c.LawName() + " " + c.Numbering.String()
}
