package citation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collect(seq func(func(Match) bool)) []Match {
	var matches []Match
	seq(func(m Match) bool {
		matches = append(matches, m)
		return true
	})
	return matches
}

func TestGrammarExplicit(t *testing.T) {
	g := NewGrammar()

	cases := []struct {
		name      string
		text      string
		raw       string
		lawName   string
		numbering Numbering
	}{
		{
			name:      "article only",
			text:      "건축법 제22조를 적용한다.",
			raw:       "건축법 제22조",
			lawName:   "건축법",
			numbering: Numbering{Article: 22},
		},
		{
			name:      "full numbering",
			text:      "도로교통법 시행규칙 제6조의2 제1항 제3호 가목을 따른다.",
			raw:       "도로교통법 시행규칙 제6조의2 제1항 제3호 가목",
			lawName:   "도로교통법 시행규칙",
			numbering: Numbering{Article: 6, ArticleSuffix: 2, Clause: 1, Item: 3, SubItem: "가"},
		},
		{
			name:      "compact numbering",
			text:      "건축법시행령 제9조의2제3항제1호",
			raw:       "건축법시행령 제9조의2제3항제1호",
			lawName:   "건축법시행령",
			numbering: Numbering{Article: 9, ArticleSuffix: 2, Clause: 3, Item: 1},
		},
		{
			name:      "clause without 제",
			text:      "건축법 제11조 1항",
			raw:       "건축법 제11조 1항",
			lawName:   "건축법",
			numbering: Numbering{Article: 11, Clause: 1},
		},
		{
			name:      "spaced article suffix",
			text:      "건축법 제 9 조 의 2",
			raw:       "건축법 제 9 조 의 2",
			lawName:   "건축법",
			numbering: Numbering{Article: 9, ArticleSuffix: 2},
		},
		{
			name:      "prose before 목 is not a sub-item",
			text:      "건축법 제3조 및 목적",
			raw:       "건축법 제3조",
			lawName:   "건축법",
			numbering: Numbering{Article: 3},
		},
		{
			name:      "spaced sub-item label",
			text:      "건축법 제3조 제1호 나 목에 따른다.",
			raw:       "건축법 제3조 제1호 나 목",
			lawName:   "건축법",
			numbering: Numbering{Article: 3, Item: 1, SubItem: "나"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matches := collect(g.Explicit(tc.text))
			if len(matches) != 1 {
				t.Fatalf("Expected 1 match, got %d: %+v", len(matches), matches)
			}
			m := matches[0]
			if m.Raw != tc.raw {
				t.Errorf("Raw: got %q, want %q", m.Raw, tc.raw)
			}
			if m.Name != tc.lawName {
				t.Errorf("Name: got %q, want %q", m.Name, tc.lawName)
			}
			if diff := cmp.Diff(tc.numbering, m.Numbering); diff != "" {
				t.Errorf("Numbering mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGrammarExplicitDropsInvalidArticles(t *testing.T) {
	g := NewGrammar()

	cases := []struct {
		name string
		text string
	}{
		{"article zero", "건축법 제0조"},
		{"article overflow", "건축법 제99999999999999999999999조"},
		{"no article", "건축법 제1항"},
		{"no law name", "제22조"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if matches := collect(g.Explicit(tc.text)); len(matches) != 0 {
				t.Errorf("Expected no matches, got %+v", matches)
			}
		})
	}
}

func TestGrammarExplicitRejectsForeignSubItemLabel(t *testing.T) {
	g := NewGrammar()

	matches := collect(g.Explicit("건축법 제3조 제1호 거목"))
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].Numbering.SubItem != "" {
		t.Errorf("Expected empty sub-item, got %q", matches[0].Numbering.SubItem)
	}
	if matches[0].Numbering.Item != 1 {
		t.Errorf("Expected item 1, got %d", matches[0].Numbering.Item)
	}
}

func TestGrammarQuoted(t *testing.T) {
	g := NewGrammar()

	matches := collect(g.Quoted("「유아교육법」 제2조제2호"))
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Name != "유아교육법" {
		t.Errorf("Name: got %q, want %q", m.Name, "유아교육법")
	}
	if m.Raw != "「유아교육법」 제2조제2호" {
		t.Errorf("Raw: got %q", m.Raw)
	}
	if diff := cmp.Diff(Numbering{Article: 2, Item: 2}, m.Numbering); diff != "" {
		t.Errorf("Numbering mismatch (-want +got):\n%s", diff)
	}
}

func TestGrammarQuotedSpacedSubItem(t *testing.T) {
	g := NewGrammar()

	matches := collect(g.Quoted("「유아교육법」 제2조제2호 나 목"))
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if diff := cmp.Diff(Numbering{Article: 2, Item: 2, SubItem: "나"}, matches[0].Numbering); diff != "" {
		t.Errorf("Numbering mismatch (-want +got):\n%s", diff)
	}
	if matches[0].Raw != "「유아교육법」 제2조제2호 나 목" {
		t.Errorf("Raw: got %q", matches[0].Raw)
	}
}

func TestGrammarContextual(t *testing.T) {
	g := NewGrammar()

	cases := []struct {
		name      string
		text      string
		phrase    string
		numbering Numbering
	}{
		{"same act", "같은법 제23조", "같은법", Numbering{Article: 23}},
		{"spaced decree", "같은 법 시행령 제9조의2 제1항", "같은 법 시행령", Numbering{Article: 9, ArticleSuffix: 2, Clause: 1}},
		{"fused decree", "동법시행령 제9조의2 제3항", "동법시행령", Numbering{Article: 9, ArticleSuffix: 2, Clause: 3}},
		{"this decree", "이 영 제5조", "이 영", Numbering{Article: 5}},
		{"this rule", "이 규칙 제2조 제1항", "이 규칙", Numbering{Article: 2, Clause: 1}},
		{"same statute", "같은 법률 제3조", "같은 법률", Numbering{Article: 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			matches := collect(g.Contextual(tc.text))
			if len(matches) != 1 {
				t.Fatalf("Expected 1 match, got %d", len(matches))
			}
			if matches[0].Name != tc.phrase {
				t.Errorf("Name: got %q, want %q", matches[0].Name, tc.phrase)
			}
			if diff := cmp.Diff(tc.numbering, matches[0].Numbering); diff != "" {
				t.Errorf("Numbering mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestGrammarContextualRequiresWordStart(t *testing.T) {
	g := NewGrammar()

	for _, text := range []string{"노동법 제3조", "공동법 제1조"} {
		if matches := collect(g.Contextual(text)); len(matches) != 0 {
			t.Errorf("%q: expected no contextual matches, got %+v", text, matches)
		}
	}
}

func TestGrammarSequencesRestart(t *testing.T) {
	g := NewGrammar()
	seq := g.Explicit("건축법 제1조, 주택법 제2조")

	first := collect(seq)
	second := collect(seq)
	if len(first) != 2 {
		t.Fatalf("Expected 2 matches, got %d", len(first))
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Second iteration differs (-first +second):\n%s", diff)
	}
}

func TestGrammarSequenceStopsEarly(t *testing.T) {
	g := NewGrammar()

	count := 0
	for range g.Explicit("건축법 제1조, 주택법 제2조, 도로법 제3조") {
		count++
		break
	}
	if count != 1 {
		t.Errorf("Expected 1 iteration, got %d", count)
	}
}

func TestGrammarLawNames(t *testing.T) {
	g := NewGrammar()

	var names []string
	for m := range g.LawNames("건축법과 주택법 시행령을 개정한다") {
		names = append(names, RefineLawName(m.Name))
	}
	want := []string{"건축법", "주택법 시행령"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("Law names mismatch (-want +got):\n%s", diff)
	}
}

func TestGrammarAnnexes(t *testing.T) {
	g := NewGrammar()

	var got []AnnexMatch
	for annex := range g.Annexes("부칙 제2조 및 [별표 1]에 따른다. 별표의 내용") {
		got = append(got, annex)
	}

	want := []AnnexMatch{
		{Raw: "부칙 제2조", Offset: 0, Kind: KindAddendum, Number: 2},
		{Raw: "별표 1", Offset: len("부칙 제2조 및 ["), Kind: KindAttachedTable, Number: 1},
		{Raw: "별표", Offset: len("부칙 제2조 및 [별표 1]에 따른다. "), Kind: KindAttachedTable},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Annexes mismatch (-want +got):\n%s", diff)
	}
}

func TestIsSubItemLabel(t *testing.T) {
	cases := []struct {
		label    string
		expected bool
	}{
		{"가", true},
		{"하", true},
		{"거", false},
		{"가나", false},
		{"", false},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			if got := IsSubItemLabel(tc.label); got != tc.expected {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}
