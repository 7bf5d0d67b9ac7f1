package citation

import (
	"iter"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sub-patterns shared by every matcher. Each numbering pattern captures
// exactly one group except the article, which captures number and suffix.
const (
	// lawNamePattern is one capture group: a non-greedy run of name
	// characters ending in 법 or 법률, optionally followed by a family suffix.
	lawNamePattern = `([가-힣A-Za-z0-9·ㆍ\s]+?(?:법률|법)(?:\s*(?:시행령|시행규칙))?)`

	articlePattern = `제\s*(\d+)\s*조(?:\s*의\s*(\d+))?`
	clausePattern  = `(?:\s*제?\s*(\d+)\s*항)?`
	itemPattern    = `(?:\s*제?\s*(\d+)\s*호)?`

	// A sub-item label is glued to 목, except that labels from the
	// sub-item alphabet may also be spaced ("나 목").
	subItemPattern = `(?:\s*([가-힣]|[` + subItemAlphabet + `]\s+)목)?`

	numberingPattern = articlePattern + clausePattern + itemPattern + subItemPattern
)

// subItemAlphabet is the ordered set of sub-item labels (가목, 나목, ...).
const subItemAlphabet = "가나다라마바사아자차카타파하"

// Match is one candidate span found by a matcher.
type Match struct {
	// Raw is the matched text with surrounding whitespace trimmed.
	Raw string
	// Offset is the byte offset of Raw within the scanned text.
	Offset int
	// Name is the captured law name or anaphoric phrase, untrimmed.
	Name string
	// Numbering is zero for name-only matches.
	Numbering Numbering
}

// AnnexMatch is a syntactic mention of an attached table or addendum.
type AnnexMatch struct {
	Raw    string `json:"raw" yaml:"raw"`
	Offset int    `json:"offset" yaml:"offset"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Number int    `json:"number,omitempty" yaml:"number,omitempty"`
}

// Grammar holds the compiled citation matchers. It is immutable and safe
// for concurrent use.
type Grammar struct {
	lawNameOnly *regexp.Regexp
	quoted      *regexp.Regexp
	explicit    *regexp.Regexp
	contextual  *regexp.Regexp

	attachedTable *regexp.Regexp
	addendum      *regexp.Regexp
}

// NewGrammar compiles the citation grammar.
func NewGrammar() *Grammar {
	return &Grammar{
		// "건축법", "도로교통법 시행규칙"
		lawNameOnly: regexp.MustCompile(lawNamePattern),
		// "「유아교육법」 제2조제2호"
		quoted: regexp.MustCompile(`「\s*` + lawNamePattern + `\s*」\s*` + numberingPattern),
		// "건축법 제22조", "도로교통법 시행규칙 제6조의2 제1항 제3호 가목"
		explicit: regexp.MustCompile(lawNamePattern + `\s*` + numberingPattern),
		// "같은 법 제23조", "동법시행령 제9조의2 제3항"
		contextual: regexp.MustCompile(`(` + anaphoricAlternation() + `)\s*` + numberingPattern),

		// "별표 1", "[별표 2]"
		attachedTable: regexp.MustCompile(`별표\s*(\d+)?`),
		// "부칙", "부칙 제2조"
		addendum: regexp.MustCompile(`부칙(?:\s*제\s*(\d+)\s*조)?`),
	}
}

// LawNames yields every law-name span, ignoring numbering.
func (g *Grammar) LawNames(text string) iter.Seq[Match] {
	return g.scan(g.lawNameOnly, text, false, nil)
}

// Quoted yields citations whose name is wrapped in 「」.
func (g *Grammar) Quoted(text string) iter.Seq[Match] {
	return g.scan(g.quoted, text, true, nil)
}

// Explicit yields undelimited "name + numbering" citations. The captured
// name may still be an anaphoric phrase; callers must reject those.
func (g *Grammar) Explicit(text string) iter.Seq[Match] {
	return g.scan(g.explicit, text, true, nil)
}

// Contextual yields "anaphoric phrase + numbering" citations. A phrase
// glued to a preceding letter ("노동법" contains "동법") is not a match.
func (g *Grammar) Contextual(text string) iter.Seq[Match] {
	return g.scan(g.contextual, text, true, startsWord)
}

// Annexes yields attached-table and addendum mentions.
func (g *Grammar) Annexes(text string) iter.Seq[AnnexMatch] {
	return func(yield func(AnnexMatch) bool) {
		var annexes []AnnexMatch
		for _, pattern := range []struct {
			re   *regexp.Regexp
			kind Kind
		}{
			{g.attachedTable, KindAttachedTable},
			{g.addendum, KindAddendum},
		} {
			for _, loc := range pattern.re.FindAllStringSubmatchIndex(text, -1) {
				annexes = append(annexes, AnnexMatch{
					Raw:    text[loc[0]:loc[1]],
					Offset: loc[0],
					Kind:   pattern.kind,
					Number: optionalNumber(text, loc, 1),
				})
			}
		}
		sort.SliceStable(annexes, func(i, j int) bool {
			return annexes[i].Offset < annexes[j].Offset
		})
		for _, annex := range annexes {
			if !yield(annex) {
				return
			}
		}
	}
}

// scan lazily walks non-overlapping leftmost matches of re. Each call to
// the returned sequence restarts from the beginning of text.
func (g *Grammar) scan(re *regexp.Regexp, text string, numbered bool, accept func(text string, start int) bool) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		position := 0
		for position < len(text) {
			loc := re.FindStringSubmatchIndex(text[position:])
			if loc == nil {
				return
			}
			for i := range loc {
				if loc[i] >= 0 {
					loc[i] += position
				}
			}
			position = loc[1]

			if accept != nil && !accept(text, loc[0]) {
				continue
			}

			match, ok := buildMatch(text, loc, numbered)
			if !ok {
				continue
			}
			if !yield(match) {
				return
			}
		}
	}
}

// buildMatch converts submatch indices into a Match. Group 1 is always the
// name; groups 2..7 are article, suffix, clause, item and sub-item.
func buildMatch(text string, loc []int, numbered bool) (Match, bool) {
	start, end := loc[0], loc[1]
	raw := text[start:end]
	trimmedLeft := strings.TrimLeftFunc(raw, unicode.IsSpace)
	offset := start + len(raw) - len(trimmedLeft)

	match := Match{
		Raw:    strings.TrimRightFunc(trimmedLeft, unicode.IsSpace),
		Offset: offset,
		Name:   text[loc[2]:loc[3]],
	}
	if !numbered {
		return match, true
	}

	article := optionalNumber(text, loc, 2)
	if article == 0 {
		return Match{}, false
	}
	match.Numbering = Numbering{
		Article:       article,
		ArticleSuffix: optionalNumber(text, loc, 3),
		Clause:        optionalNumber(text, loc, 4),
		Item:          optionalNumber(text, loc, 5),
		SubItem:       subItem(text, loc, 6),
	}
	return match, true
}

// optionalNumber parses capture group n, returning 0 when the group did
// not participate or does not fit an int.
func optionalNumber(text string, loc []int, group int) int {
	if 2*group+1 >= len(loc) || loc[2*group] < 0 {
		return 0
	}
	value, err := strconv.Atoi(text[loc[2*group]:loc[2*group+1]])
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// subItem returns the captured sub-item label when it belongs to the
// sub-item alphabet, and "" otherwise.
func subItem(text string, loc []int, group int) string {
	if 2*group+1 >= len(loc) || loc[2*group] < 0 {
		return ""
	}
	label := strings.TrimRightFunc(text[loc[2*group]:loc[2*group+1]], unicode.IsSpace)
	if !IsSubItemLabel(label) {
		return ""
	}
	return label
}

// IsSubItemLabel reports whether label is a single sub-item character.
func IsSubItemLabel(label string) bool {
	if utf8.RuneCountInString(label) != 1 {
		return false
	}
	return strings.Contains(subItemAlphabet, label)
}

// startsWord rejects matches glued to a preceding letter or digit.
func startsWord(text string, start int) bool {
	if start == 0 {
		return true
	}
	previous, _ := utf8.DecodeLastRuneInString(text[:start])
	return !unicode.IsLetter(previous) && !unicode.IsDigit(previous)
}
