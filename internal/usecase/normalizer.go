package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Text limits for the two downstream consumers. Extractors tolerate more
// text than the classifier, whose signal tables saturate early.
const (
	ClassifierTextLimit = 2000
	ExtractorTextLimit  = 8000
)

// Compiled regex patterns for text normalization
var (
	// Matches empty bracket pairs, possibly with inner whitespace
	emptyBracketsPattern = regexp.MustCompile(`\(\s*\)|\[\s*\]|\{\s*\}`)

	// Runs of repeated punctuation collapse to a single character.
	// RE2 has no backreferences, so one pattern per character.
	repeatedPunctPatterns = []struct {
		pattern     *regexp.Regexp
		replacement string
	}{
		{regexp.MustCompile(`\.{2,}`), "."},
		{regexp.MustCompile(`-{2,}`), "-"},
		{regexp.MustCompile(`,{2,}`), ","},
		{regexp.MustCompile(`!{2,}`), "!"},
		{regexp.MustCompile(`\?{2,}`), "?"},
		{regexp.MustCompile(`:{2,}`), ":"},
		{regexp.MustCompile(`;{2,}`), ";"},
		{regexp.MustCompile(`_{2,}`), "_"},
		{regexp.MustCompile(`\*{2,}`), "*"},
	}
)

// Normalizer cleans raw scraped page text before extraction/classification.
type Normalizer struct {
	enableDebugLogging bool
}

// NewNormalizer creates a new text normalizer.
func NewNormalizer(enableDebugLogging bool) *Normalizer {
	return &Normalizer{enableDebugLogging: enableDebugLogging}
}

// Normalize cleans raw page text. Pure, never fails, idempotent:
// collapses whitespace/control runs, strips empty bracket pairs, collapses
// repeated punctuation, and drops isolated single alphabetic characters
// (badly-spaced DOM text noise) while keeping single digits and currency
// symbols.
func (n *Normalizer) Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	// Step 1: Map control characters and non-breaking spaces to plain spaces
	cleaned := strings.Map(func(r rune) rune {
		if r < ' ' || r == 0x7f || r == ' ' {
			return ' '
		}
		return r
	}, raw)

	// Step 2: Strip empty bracket pairs left behind by DOM scraping. Removing
	// an inner pair can expose an enclosing one ("(( ))"), so repeat until no
	// pair remains.
	for {
		next := emptyBracketsPattern.ReplaceAllString(cleaned, " ")
		if next == cleaned {
			break
		}
		cleaned = next
	}

	// Step 3: Collapse repeated punctuation
	for _, p := range repeatedPunctPatterns {
		cleaned = p.pattern.ReplaceAllString(cleaned, p.replacement)
	}

	// Step 4: Drop isolated single alphabetic characters; this also
	// collapses whitespace runs since Fields splits on them
	words := strings.Fields(cleaned)
	kept := words[:0]
	for _, word := range words {
		if isNoiseToken(word) {
			continue
		}
		kept = append(kept, word)
	}
	result := strings.Join(kept, " ")

	if n.enableDebugLogging && result != raw {
		log.Printf("[NORMALIZE] %d chars -> %d chars", len(raw), len(result))
	}

	return result
}

// NormalizeLimit normalizes and then truncates to at most maxLen bytes,
// cutting at a word boundary so no token is split. A single token longer
// than the limit is cut at a rune boundary instead, so the result is always
// valid UTF-8. Truncation always happens after normalization.
func (n *Normalizer) NormalizeLimit(raw string, maxLen int) string {
	result := n.Normalize(raw)
	if maxLen <= 0 || len(result) <= maxLen {
		return result
	}

	cut := maxLen
	for cut > 0 && !utf8.RuneStart(result[cut]) {
		cut--
	}
	result = result[:cut]
	if lastSpace := strings.LastIndex(result, " "); lastSpace > 0 {
		result = result[:lastSpace]
	}
	return strings.TrimSpace(result)
}

// isNoiseToken reports whether a token is a lone alphabetic character.
// Single digits and currency symbols are meaningful and always kept.
func isNoiseToken(word string) bool {
	if utf8.RuneCountInString(word) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsLetter(r)
}
