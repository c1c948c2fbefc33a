package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

// keywordPattern is one ranked rule of a KeywordTokenExtractor: a regex whose
// first capture group is the token, with a base score keyed on the context
// word the pattern anchors to.
type keywordPattern struct {
	re     *regexp.Regexp
	base   float64
	method string
}

// KeywordTokenExtractor extracts alphanumeric tokens that follow known
// context keywords. The pattern table is injectable, so order-id and
// tracking-number extraction share one implementation instead of two
// near-identical copies.
type KeywordTokenExtractor struct {
	patterns           []keywordPattern
	enableDebugLogging bool
}

// Order-id rules, ranked by how strongly the context word implies an order
// identifier. Captured tokens are alphanumeric (hyphens allowed), length >= 5.
var orderIDPatterns = []keywordPattern{
	{regexp.MustCompile(`(?i)\border(?:\s+(?:number|no\.?|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{4,})`), 0.5, "order-keyword"},
	{regexp.MustCompile(`(?i)\binvoice(?:\s+(?:number|no\.?|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{4,})`), 0.45, "invoice-keyword"},
	{regexp.MustCompile(`(?i)\bconfirmation(?:\s+(?:number|no\.?|code|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{4,})`), 0.4, "confirmation-keyword"},
	{regexp.MustCompile(`(?i)\btransaction(?:\s+(?:number|no\.?|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{4,})`), 0.35, "transaction-keyword"},
	{regexp.MustCompile(`(?i)\breference(?:\s+(?:number|no\.?|code|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{4,})`), 0.3, "reference-keyword"},
}

// Tracking-number rules. Carrier tracking codes run longer than order ids.
var trackingPatterns = []keywordPattern{
	{regexp.MustCompile(`(?i)\btracking(?:\s+(?:number|no\.?|id|code))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{7,})`), 0.5, "tracking-keyword"},
	{regexp.MustCompile(`(?i)\b(?:awb|consignment|shipment)(?:\s+(?:number|no\.?|id))?\s*[:#]?\s*([A-Za-z0-9][A-Za-z0-9-]{7,})`), 0.4, "shipment-keyword"},
}

// NewOrderIDExtractor builds the extractor for order identifiers.
func NewOrderIDExtractor(enableDebugLogging bool) *KeywordTokenExtractor {
	return &KeywordTokenExtractor{patterns: orderIDPatterns, enableDebugLogging: enableDebugLogging}
}

// NewTrackingExtractor builds the extractor for shipment tracking numbers.
func NewTrackingExtractor(enableDebugLogging bool) *KeywordTokenExtractor {
	return &KeywordTokenExtractor{patterns: trackingPatterns, enableDebugLogging: enableDebugLogging}
}

// Extract scans normalized text and returns scored token candidates, best
// first. Equal scores keep first-occurrence order. Never fails; no match is
// an empty result.
func (e *KeywordTokenExtractor) Extract(text string) []domain.Candidate {
	if text == "" {
		return nil
	}

	var candidates []domain.Candidate
	for _, p := range e.patterns {
		for _, match := range p.re.FindAllStringSubmatch(text, -1) {
			token := strings.Trim(match[1], "-")
			if len(token) < 5 {
				continue
			}
			candidates = append(candidates, domain.Candidate{
				Value:  token,
				Score:  clamp01(p.base + tokenShapeBonus(token)),
				Method: p.method,
			})
		}
	}

	candidates = dedupeCandidates(candidates)
	sortCandidates(candidates)

	if e.enableDebugLogging && len(candidates) > 0 {
		log.Printf("[EXTRACT] %s: %d candidate(s), best %q (%.2f)",
			candidates[0].Method, len(candidates), candidates[0].Value, candidates[0].Score)
	}

	return candidates
}

// tokenShapeBonus rewards tokens that look like real identifiers:
// +0.2 for mixing letters and digits, +0.1 for a hyphen, +0.1 for length >= 8.
func tokenShapeBonus(token string) float64 {
	bonus := 0.0
	hasLetter := strings.ContainsFunc(token, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	hasDigit := strings.ContainsFunc(token, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if hasLetter && hasDigit {
		bonus += 0.2
	}
	if strings.Contains(token, "-") {
		bonus += 0.1
	}
	if len(token) >= 8 {
		bonus += 0.1
	}
	return bonus
}
