package citation

import (
	"sort"
	"strings"
)

// Family is the register an anaphoric phrase refers to.
type Family int

const (
	FamilyNone Family = iota
	FamilyAct
	FamilyDecree
	FamilyRule
)

func (f Family) String() string {
	switch f {
	case FamilyAct:
		return "act"
	case FamilyDecree:
		return "decree"
	case FamilyRule:
		return "rule"
	default:
		return "none"
	}
}

// anaphoricPhrases lists back-reference phrases as whitespace-separated
// tokens; any amount of whitespace (including none) may separate tokens in
// the text.
var anaphoricPhrases = []struct {
	phrase string
	family Family
}{
	{"같은 법", FamilyAct},
	{"이 법", FamilyAct},
	{"동 법", FamilyAct},
	{"같은 법률", FamilyAct},
	{"이 법률", FamilyAct},
	{"동 법률", FamilyAct},
	{"같은 법 시행령", FamilyDecree},
	{"동 법 시행령", FamilyDecree},
	{"이 법 시행령", FamilyDecree},
	{"같은 법률 시행령", FamilyDecree},
	{"동 법률 시행령", FamilyDecree},
	{"이 법률 시행령", FamilyDecree},
	{"이 영", FamilyDecree},
	{"동 시행령", FamilyDecree},
	{"같은 법 시행규칙", FamilyRule},
	{"동 법 시행규칙", FamilyRule},
	{"이 법 시행규칙", FamilyRule},
	{"같은 법률 시행규칙", FamilyRule},
	{"동 법률 시행규칙", FamilyRule},
	{"이 법률 시행규칙", FamilyRule},
	{"이 규칙", FamilyRule},
	{"동 규칙", FamilyRule},
	{"동 시행규칙", FamilyRule},
}

// anaphoricIndex maps the whitespace-free form of each phrase to its family.
var anaphoricIndex = func() map[string]Family {
	index := make(map[string]Family, len(anaphoricPhrases))
	for _, entry := range anaphoricPhrases {
		index[strings.ReplaceAll(entry.phrase, " ", "")] = entry.family
	}
	return index
}()

// anaphoricAlternation returns the regexp alternation of all phrases,
// longest first so "동 법 시행령" is preferred over "동 법".
func anaphoricAlternation() string {
	phrases := make([]string, 0, len(anaphoricPhrases))
	for _, entry := range anaphoricPhrases {
		phrases = append(phrases, entry.phrase)
	}
	sort.Slice(phrases, func(i, j int) bool {
		if len(phrases[i]) != len(phrases[j]) {
			return len(phrases[i]) > len(phrases[j])
		}
		return phrases[i] < phrases[j]
	})

	alternatives := make([]string, len(phrases))
	for i, phrase := range phrases {
		alternatives[i] = strings.Join(strings.Fields(phrase), `\s*`)
	}
	return "(?:" + strings.Join(alternatives, "|") + ")"
}

// AnaphoricFamily classifies a phrase such as "같은법" or "이 영".
// Non-anaphoric text yields FamilyNone.
func AnaphoricFamily(phrase string) Family {
	return anaphoricIndex[CanonicalName(phrase)]
}

// IsAnaphoric reports whether the phrase is a back-reference rather than a
// concrete law name.
func IsAnaphoric(phrase string) bool {
	return AnaphoricFamily(phrase) != FamilyNone
}

// ContextState is a snapshot of the tracker slots.
type ContextState struct {
	Act    string `json:"act,omitempty"`
	Decree string `json:"decree,omitempty"`
	Rule   string `json:"rule,omitempty"`
}

// ContextTracker remembers the most recently named Act, Enforcement Decree
// and Enforcement Rule. A tracker lives for one extraction run.
//
// Decree and Rule names are derived by suffixing the Act name. Statutes
// whose subordinate regulations are named differently resolve wrongly; this
// is a known limitation.
type ContextTracker struct {
	state ContextState
}

// NewContextTracker returns a tracker with all slots empty.
func NewContextTracker() *ContextTracker {
	return &ContextTracker{}
}

// Update records a concrete law name and re-derives the other two slots.
func (t *ContextTracker) Update(displayName string) {
	name := strings.TrimSpace(displayName)
	if name == "" {
		return
	}

	switch {
	case strings.HasSuffix(name, suffixDecree):
		act := strings.TrimSpace(strings.TrimSuffix(name, suffixDecree))
		if act == "" {
			return
		}
		t.state = ContextState{Act: act, Decree: name, Rule: withSuffix(act, suffixRule)}
	case strings.HasSuffix(name, suffixRule):
		act := strings.TrimSpace(strings.TrimSuffix(name, suffixRule))
		if act == "" {
			return
		}
		t.state = ContextState{Act: act, Decree: withSuffix(act, suffixDecree), Rule: name}
	default:
		t.state = ContextState{
			Act:    name,
			Decree: withSuffix(name, suffixDecree),
			Rule:   withSuffix(name, suffixRule),
		}
	}
}

// Resolve returns the law name an anaphoric phrase refers to. It reports
// false when the phrase is not anaphoric or no Act has been seen yet.
// Resolve never changes the tracker.
func (t *ContextTracker) Resolve(phrase string) (string, bool) {
	if t.state.Act == "" {
		return "", false
	}

	switch AnaphoricFamily(phrase) {
	case FamilyAct:
		return t.state.Act, true
	case FamilyDecree:
		if t.state.Decree != "" {
			return t.state.Decree, true
		}
		return withSuffix(t.state.Act, suffixDecree), true
	case FamilyRule:
		if t.state.Rule != "" {
			return t.state.Rule, true
		}
		return withSuffix(t.state.Act, suffixRule), true
	default:
		return "", false
	}
}

// State returns a copy of the current slots.
func (t *ContextTracker) State() ContextState {
	return t.state
}

func withSuffix(act, suffix string) string {
	return act + " " + suffix
}
