package citation

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzExtractCitations checks the invariants of extraction on arbitrary input.
// Run with: go test -fuzz=FuzzExtractCitations -fuzztime=30s ./pkg/citation/...
func FuzzExtractCitations(f *testing.F) {
	seeds := []string{
		// Explicit citations
		"건축법 제22조",
		"도로교통법 시행규칙 제6조의2 제1항 제3호 가목",
		"건축법시행령 제9조의2제3항제1호",
		"국토의 계획 및 이용에 관한 법률 제2조",

		// Quoted citations
		"「유아교육법」 제2조제2호",
		"「 초·중등교육법 」 제18조",

		// Anaphora
		"건축법 제22조, 같은법 제23조, 동법시행령 제9조의2 제3항을 적용한다.",
		"같은 법 시행령 제9조의2 제1항을 적용한다.",
		"주택법 및 같은 법 시행령 제3조",
		"이 영 제5조, 이 규칙 제2조",
		"건축법 제22조를 준용하고 이 법률 제5조를 따른다.",
		"주택법 및 같은 법률 시행령 제3조",
		"「유아교육법」 제2조제2호 나 목",

		// Edge cases
		"",
		"법",
		"제0조",
		"건축법 제0조",
		"건축법 제99999999999999999999999조",
		"같은법",
		"「」 제1조",
		"노동법 제3조",
		"건축법 제２２조",
		strings.Repeat("건축법 제1조 ", 500),
		strings.Repeat("같은 법 ", 500),

		// Annexes
		"[별표 1] 및 부칙 제2조",
	}
	for _, seed := range seeds {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}

		got := ExtractCitations(input)
		if got == nil {
			t.Fatal("ExtractCitations returned nil")
		}

		normalized := NormalizeText(input)
		seen := make(map[Key]bool, len(got))
		for _, c := range got {
			if c.Article <= 0 {
				t.Errorf("Citation with non-positive article: %+v", c)
			}
			if c.LawNameCanonical == "" {
				t.Errorf("Citation with empty law name: %+v", c)
			}
			if IsAnaphoric(c.LawNameDisplay) {
				t.Errorf("Citation kept anaphoric name: %+v", c)
			}
			if c.SubItem != "" && !IsSubItemLabel(c.SubItem) {
				t.Errorf("Citation with invalid sub-item: %+v", c)
			}
			if c.Offset < 0 || c.Offset > len(normalized) || !strings.HasPrefix(normalized[c.Offset:], c.RawSpan) {
				t.Errorf("Offset %d does not locate %q", c.Offset, c.RawSpan)
			}
			if seen[c.Key()] {
				t.Errorf("Duplicate key: %+v", c.Key())
			}
			seen[c.Key()] = true
		}
	})
}

// FuzzRefineLawName checks that refinement never grows a name.
func FuzzRefineLawName(f *testing.F) {
	for _, seed := range []string{"관련 도로교통법 시행규칙", "동법시행령", "건축법 및 주택법", "", "법률"} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, input string) {
		refined := RefineLawName(input)
		if len(CanonicalName(refined)) > len(CanonicalName(input)) {
			t.Errorf("RefineLawName(%q) = %q grew the name", input, refined)
		}
	})
}
