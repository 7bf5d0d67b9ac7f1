package citation

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Segment is a sentence-like unit of the normalized input.
type Segment struct {
	Text   string
	Offset int
}

// Segments splits text after sentence-terminal punctuation or closing
// brackets followed by whitespace, and on runs of two or more whitespace
// characters. The boundary is deliberately crude: it only orders the scan.
// Context carries across segments.
func Segments(text string) []Segment {
	var segments []Segment
	segmentStart := 0

	emit := func(end int) {
		if end > segmentStart {
			segments = append(segments, Segment{Text: text[segmentStart:end], Offset: segmentStart})
		}
	}

	position := 0
	for position < len(text) {
		r, size := utf8.DecodeRuneInString(text[position:])
		if !unicode.IsSpace(r) {
			position += size
			continue
		}

		runEnd, runLength := whitespaceRun(text, position)
		previous, _ := utf8.DecodeLastRuneInString(text[:position])
		if runLength >= 2 || (position > 0 && isSegmentTerminal(previous)) {
			emit(position)
			segmentStart = runEnd
		}
		position = runEnd
	}
	emit(len(text))

	return segments
}

// whitespaceRun returns the end of the whitespace run starting at start and
// the number of runes in it.
func whitespaceRun(text string, start int) (end, runes int) {
	end = start
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !unicode.IsSpace(r) {
			break
		}
		end += size
		runes++
	}
	return end, runes
}

func isSegmentTerminal(r rune) bool {
	switch r {
	case '.', '!', '?', '。', ')', ']', '}':
		return true
	}
	return false
}

// Extractor runs the citation grammar over text. The zero value is not
// usable; call NewExtractor. An Extractor holds no per-run state and is safe
// for concurrent use.
type Extractor struct {
	grammar *Grammar
}

// NewExtractor creates an extractor with the compiled citation grammar.
func NewExtractor() *Extractor {
	return &Extractor{grammar: NewGrammar()}
}

// Grammar exposes the extractor's compiled grammar.
func (e *Extractor) Grammar() *Grammar {
	return e.grammar
}

var defaultExtractor = NewExtractor()

// ExtractCitations extracts citations with the default extractor.
func ExtractCitations(text string) []Citation {
	return defaultExtractor.Extract(text)
}

// Extract returns the citations in text in first-seen order, deduplicated
// by Citation.Key. It never fails; unmatched input yields an empty slice.
//
// Within each segment, bare law names first advance the context, then
// quoted, explicit and contextual citations are collected in that order.
func (e *Extractor) Extract(text string) []Citation {
	run := &extractionRun{
		grammar: e.grammar,
		tracker: NewContextTracker(),
		seen:    make(map[Key]struct{}),
		cites:   []Citation{},
	}

	normalized := NormalizeText(text)
	for _, segment := range Segments(normalized) {
		run.scanSegment(segment)
	}
	return run.cites
}

// extractionRun is the mutable state of one Extract call.
type extractionRun struct {
	grammar *Grammar
	tracker *ContextTracker
	seen    map[Key]struct{}
	cites   []Citation
}

func (run *extractionRun) scanSegment(segment Segment) {
	for match := range run.grammar.LawNames(segment.Text) {
		if name, ok := concreteLawName(match.Name); ok {
			run.tracker.Update(name)
		}
	}

	for match := range run.grammar.Quoted(segment.Text) {
		name, ok := concreteLawName(match.Name)
		if !ok {
			continue
		}
		run.emit(segment, match, name, "")
		run.tracker.Update(name)
	}

	for match := range run.grammar.Explicit(segment.Text) {
		name, ok := concreteLawName(match.Name)
		if !ok {
			continue
		}
		run.emit(segment, narrowToName(match, name), name, "")
		run.tracker.Update(name)
	}

	for match := range run.grammar.Contextual(segment.Text) {
		resolved, ok := run.tracker.Resolve(match.Name)
		if !ok {
			continue
		}
		run.emit(segment, match, resolved, resolveSpan(match.Raw, resolved))
	}
}

func (run *extractionRun) emit(segment Segment, match Match, displayName, resolvedSpan string) {
	cite := Citation{
		RawSpan:          match.Raw,
		ResolvedSpan:     resolvedSpan,
		LawNameCanonical: CanonicalName(displayName),
		LawNameDisplay:   displayName,
		Numbering:        match.Numbering,
		Kind:             KindArticle,
		Offset:           segment.Offset + match.Offset,
	}

	key := cite.Key()
	if _, duplicate := run.seen[key]; duplicate {
		return
	}
	run.seen[key] = struct{}{}
	run.cites = append(run.cites, cite)
}

// concreteLawName turns a captured name into a display name, rejecting
// anaphoric phrases ("같은 법", "동법시행령", "이 법 시행령") and names with
// no identity of their own.
func concreteLawName(captured string) (string, bool) {
	display := DisplayName(captured)
	if display == "" || IsAnaphoric(display) || hasAnaphoricTail(display) {
		return "", false
	}

	refined, preceding := refineLawName(display)
	if refined == "" || IsAnaphoric(refined) {
		return "", false
	}
	if preceding != "" && IsAnaphoric(preceding+refined) {
		return "", false
	}
	if isGenericName(CanonicalName(refined)) {
		return "", false
	}
	return refined, true
}

// maxAnaphoricTokens is the token count of the longest anaphoric phrase
// ("같은 법률 시행규칙").
const maxAnaphoricTokens = 3

// hasAnaphoricTail reports whether the last one to three tokens of name,
// joined, form an anaphoric phrase: "를 준용하고 이 법률" ends in "이 법률".
func hasAnaphoricTail(name string) bool {
	tokens := strings.Fields(name)
	for n := 1; n <= maxAnaphoricTokens && n <= len(tokens); n++ {
		if IsAnaphoric(strings.Join(tokens[len(tokens)-n:], "")) {
			return true
		}
	}
	return false
}

// narrowToName drops the prose the name grammar swallowed in front of the
// law name, so "다음과 같이 건축법 제22조" becomes "건축법 제22조".
func narrowToName(match Match, refined string) Match {
	tokens := strings.Fields(refined)
	if len(tokens) == 0 {
		return match
	}
	leading := len(match.Name) - len(strings.TrimLeftFunc(match.Name, unicode.IsSpace))
	start := strings.LastIndex(match.Name, tokens[0])
	if start <= leading {
		return match
	}

	cut := start - leading
	match.Raw = match.Raw[cut:]
	match.Offset += cut
	return match
}

// resolveSpan replaces the leading anaphoric phrase of raw with the law name:
// "같은법 제23조" becomes "건축법 제23조".
func resolveSpan(raw, lawName string) string {
	phrase := contextualPhrasePrefix(raw)
	rest := strings.TrimLeftFunc(raw[len(phrase):], unicode.IsSpace)
	if rest == "" {
		return lawName
	}
	return lawName + " " + rest
}

// contextualPhrasePrefix returns the longest prefix of raw that is an
// anaphoric phrase, or "" when there is none.
func contextualPhrasePrefix(raw string) string {
	longest := ""
	for end := range raw {
		if end == 0 {
			continue
		}
		if IsAnaphoric(raw[:end]) {
			longest = raw[:end]
		}
	}
	if IsAnaphoric(raw) {
		longest = raw
	}
	return longest
}
