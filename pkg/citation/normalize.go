package citation

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

const (
	// Family suffixes appended to an Act name.
	suffixDecree = "시행령"
	suffixRule   = "시행규칙"

	// actMarker ends every Act-like token considered by RefineLawName.
	actMarker = "법"
)

// quoteStripper removes the quote and bracket glyphs that wrap law names.
var quoteStripper = strings.NewReplacer(
	`"`, "", "“", "", "”", "",
	"'", "", "‘", "", "’", "",
	"[", "", "]", "",
	"(", "", ")", "",
	"「", "", "」", "",
)

// interpunctStripper removes the two interpuncts used to join compound names
// ("초·중등교육법", "초ㆍ중등교육법").
var interpunctStripper = strings.NewReplacer("·", "", "ㆍ", "")

var (
	// leadingStopword matches a connective or particle left in front of a
	// law name by the greedy name grammar.
	leadingStopword = regexp.MustCompile(`^(?:까지|및|또는|등|관련|관한|따른|에\s*따른|에\s*의한|의)\s+`)

	// fusedFamilyToken splits "건축법시행령" into "건축법" and "시행령".
	fusedFamilyToken = regexp.MustCompile(`^(.+법(?:률)?)(시행령|시행규칙)$`)
)

// textFolder composes Hangul and folds full-width forms to their canonical
// width, so "제２２조" matches like "제22조".
var textFolder = transform.Chain(norm.NFC, width.Fold)

// NormalizeText prepares raw input for matching: NFC composition, width
// folding, and every run of non-space whitespace (tab, CR, LF, NBSP, ...)
// collapsed to a single space. Plain spaces are kept as-is because runs of
// them mark segment boundaries.
func NormalizeText(text string) string {
	folded, _, err := transform.String(textFolder, text)
	if err != nil {
		folded = text
	}

	var sb strings.Builder
	sb.Grow(len(folded))
	inRun := false
	for _, r := range folded {
		if r != ' ' && unicode.IsSpace(r) {
			if !inRun {
				sb.WriteByte(' ')
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(r)
	}
	return sb.String()
}

// DisplayName strips quote and bracket glyphs and trims surrounding
// whitespace. Internal whitespace is preserved.
func DisplayName(raw string) string {
	return strings.TrimSpace(quoteStripper.Replace(raw))
}

// CanonicalName strips whitespace, quote and bracket glyphs, and interpuncts,
// so names differing only in those respects compare equal.
func CanonicalName(raw string) string {
	stripped := interpunctStripper.Replace(quoteStripper.Replace(raw))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, stripped)
}

// RefineLawName narrows a verbose matched phrase to the shortest form that
// still identifies the law: "관련 도로교통법 시행규칙" becomes
// "도로교통법 시행규칙" and "동법시행령" becomes "동법 시행령".
//
// The last token ending in 법 wins, which isolates the name adjacent to the
// numbering that follows. This is a heuristic, not a parser.
func RefineLawName(name string) string {
	refined, _ := refineLawName(name)
	return refined
}

// refineLawName also returns the token preceding the chosen name so callers
// can tell "같은 법" (anaphoric) from a plain law called "법".
func refineLawName(name string) (refined, preceding string) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", ""
	}
	trimmed = leadingStopword.ReplaceAllString(trimmed, "")

	tokens := strings.Fields(trimmed)
	if len(tokens) == 0 {
		return "", ""
	}

	split := false
	lastIndex := len(tokens) - 1
	if parts := fusedFamilyToken.FindStringSubmatch(tokens[lastIndex]); parts != nil {
		tokens = append(tokens[:lastIndex], parts[1], parts[2])
		split = true
	}

	for i := len(tokens) - 1; i >= 0; i-- {
		if !strings.HasSuffix(tokens[i], actMarker) {
			continue
		}
		if i > 0 {
			preceding = tokens[i-1]
		}
		if i+1 < len(tokens) && isFamilySuffix(tokens[i+1]) {
			return tokens[i] + " " + tokens[i+1], preceding
		}
		return tokens[i], preceding
	}

	if split {
		return strings.Join(tokens, " "), ""
	}
	return trimmed, ""
}

func isFamilySuffix(token string) bool {
	return token == suffixDecree || token == suffixRule
}

// commonNouns end in 법 but never name a statute ("신청 방법", "위법").
var commonNouns = map[string]struct{}{
	"방법": {}, "불법": {}, "위법": {}, "적법": {}, "합법": {},
	"편법": {}, "입법": {}, "사법": {}, "수법": {}, "기법": {},
}

// isGenericName reports names that carry no law identity of their own.
func isGenericName(canonical string) bool {
	switch canonical {
	case "", "법", "법률", "법시행령", "법시행규칙", suffixDecree, suffixRule:
		return true
	}
	_, common := commonNouns[canonical]
	return common
}
