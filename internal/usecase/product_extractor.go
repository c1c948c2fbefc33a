package usecase

import (
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/orderlens/backend/internal/domain"
)

// Product-name candidate sources, in preference order: heading text supplied
// by the caller, quoted substrings, then Title-Case multi-word spans.
var (
	quotedSpanPattern      = regexp.MustCompile(`"([^"]{5,100})"|“([^”]{5,100})”`)
	titleCaseSpanPattern   = regexp.MustCompile(`\b[A-Z][a-z0-9]+(?:\s+(?:[A-Z][a-z0-9]+|of|the|and|for|with|\d+\w*)){1,8}\b`)
)

// Product candidate base scores
const (
	headingProductScore   = 0.7
	quotedProductScore    = 0.6
	titleCaseProductScore = 0.4
)

// Product name length bounds (runes).
const (
	minProductLen = 5
	maxProductLen = 100
)

// ProductExtractor finds product-name candidates in normalized text plus any
// heading-like DOM text the scraper collected.
type ProductExtractor struct {
	enableDebugLogging bool
}

// NewProductExtractor creates a new product-name extractor.
func NewProductExtractor(enableDebugLogging bool) *ProductExtractor {
	return &ProductExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract returns scored product-name candidates, best first.
func (e *ProductExtractor) Extract(text string, headings []string) []domain.Candidate {
	var candidates []domain.Candidate

	for _, heading := range headings {
		heading = strings.TrimSpace(heading)
		if !productLengthOK(heading) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Value: heading, Score: headingProductScore, Method: "product-heading",
		})
	}

	for _, match := range quotedSpanPattern.FindAllStringSubmatch(text, -1) {
		quoted := match[1]
		if quoted == "" {
			quoted = match[2]
		}
		quoted = strings.TrimSpace(quoted)
		if !productLengthOK(quoted) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Value: quoted, Score: quotedProductScore, Method: "product-quoted",
		})
	}

	for _, span := range titleCaseSpanPattern.FindAllString(text, -1) {
		span = strings.TrimSpace(span)
		if !productLengthOK(span) {
			continue
		}
		candidates = append(candidates, domain.Candidate{
			Value: span, Score: titleCaseProductScore, Method: "product-titlecase",
		})
	}

	candidates = dedupeCandidates(candidates)
	sortCandidates(candidates)

	if e.enableDebugLogging && len(candidates) > 0 {
		log.Printf("[EXTRACT] product: best %q (%.2f, %s)",
			candidates[0].Value, candidates[0].Score, candidates[0].Method)
	}

	return candidates
}

func productLengthOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= minProductLen && n <= maxProductLen
}
