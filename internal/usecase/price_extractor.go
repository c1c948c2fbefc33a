package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

// Price patterns: currency-symbol or currency-code prefixed amounts, plus
// bare amounts that follow a price keyword.
var (
	symbolPricePattern  = regexp.MustCompile(`[$€£₹]\s?\d[\d,]*(?:\.\d{1,2})?`)
	codePricePattern    = regexp.MustCompile(`(?i)\b(?:USD|EUR|GBP|INR|Rs\.?)\s?\d[\d,]*(?:\.\d{1,2})?`)
	keywordPricePattern = regexp.MustCompile(`(?i)\b(?:total|subtotal|amount|price)\b\s*[:\-]?\s*(\d[\d,]*(?:\.\d{1,2})?)`)

	subtotalContextPattern = regexp.MustCompile(`(?i)\bsub\s?total\b`)
	totalContextPattern    = regexp.MustCompile(`(?i)\btotal\b`)
	amountContextPattern   = regexp.MustCompile(`(?i)\bamount\b`)
	penaltyContextPattern  = regexp.MustCompile(`(?i)\b(?:shipping|tax)\b`)
)

// priceContextWindow is how far back (in bytes) context words influence a
// price match. Keeps "Subtotal: $5.00 ... Total: $49.99" from bleeding
// context across line items.
const priceContextWindow = 50

// Context boosts and penalties
const (
	totalBoost      = 0.5
	subtotalBoost   = 0.3
	amountBoost     = 0.2
	lineItemPenalty = 0.3 // shipping/tax lines are not the grand total
)

// PriceExtractor finds the order's grand total among the price-like tokens
// on the page. The value stays as display text, currency prefix included.
type PriceExtractor struct {
	enableDebugLogging bool
}

// NewPriceExtractor creates a new price extractor.
func NewPriceExtractor(enableDebugLogging bool) *PriceExtractor {
	return &PriceExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract returns scored price candidates, best first. A candidate's score
// reflects the context window before it: "total"/"subtotal"/"amount" boost,
// "shipping"/"tax" penalize.
func (e *PriceExtractor) Extract(text string) []domain.Candidate {
	if text == "" {
		return nil
	}

	var candidates []domain.Candidate

	appendMatches := func(locs [][]int, group int, base float64, method string) {
		for _, loc := range locs {
			start, end := loc[0], loc[1]
			if group > 0 {
				start, end = loc[2*group], loc[2*group+1]
			}
			if start < 0 {
				continue
			}
			value := strings.TrimSpace(text[start:end])
			score := base + contextScore(text, start)
			candidates = append(candidates, domain.Candidate{
				Value:  value,
				Score:  clamp01(score),
				Method: method,
			})
		}
	}

	appendMatches(symbolPricePattern.FindAllStringIndex(text, -1), 0, 0.35, "currency-symbol")
	appendMatches(codePricePattern.FindAllStringIndex(text, -1), 0, 0.35, "currency-code")
	appendMatches(keywordPricePattern.FindAllStringSubmatchIndex(text, -1), 1, 0.25, "price-keyword")

	candidates = dedupeCandidates(candidates)
	sortCandidates(candidates)

	if e.enableDebugLogging {
		for _, c := range candidates {
			log.Printf("[EXTRACT] price: %q score=%.2f (%s)", c.Value, c.Score, c.Method)
		}
	}

	return candidates
}

// contextScore sums the boost of every price keyword found in the window of
// text preceding the amount, minus the penalty when a shipping/tax word
// shares the window. On a receipt the grand-total line trails the subtotal
// and shipping lines, so its window collects both boosts and still outscores
// them.
func contextScore(text string, matchStart int) float64 {
	windowStart := matchStart - priceContextWindow
	if windowStart < 0 {
		windowStart = 0
	}
	window := text[windowStart:matchStart]

	score := 0.0
	if totalContextPattern.MatchString(window) {
		score += totalBoost
	}
	if subtotalContextPattern.MatchString(window) {
		score += subtotalBoost
	}
	if amountContextPattern.MatchString(window) {
		score += amountBoost
	}
	if penaltyContextPattern.MatchString(window) {
		score -= lineItemPenalty
	}
	return score
}
