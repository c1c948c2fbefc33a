package usecase

import (
	"log"
	"regexp"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

// Seller keyword anchor; the organization name is matched separately so the
// capture stays case-sensitive while the keyword is not.
var (
	sellerKeywordPattern = regexp.MustCompile(`(?i)\b(?:sold\s+by|shipped\s+by|seller|brand)\b[\s:\-]*`)

	// A capitalized organization-like span starting right at the anchor:
	// up to five capitalized words, allowing &, ., ' and connective words.
	orgSpanPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9&'.-]*(?:\s+(?:[A-Z][A-Za-z0-9&'.-]*|of|and|the)){0,4}`)

	// Fallback: any capitalized multi-word span in the text.
	capitalizedSpanPattern = regexp.MustCompile(`\b[A-Z][a-z0-9&'.-]+(?:\s+[A-Z][a-z0-9&'.-]+){1,3}\b`)

	orgSuffixPattern = regexp.MustCompile(`\b(?:Inc|Corp|Ltd|LLC|Pvt|Co)\.?$`)
)

// knownPlatforms are e-commerce marketplaces whose names show up as sellers.
var knownPlatforms = []string{
	"Amazon", "Flipkart", "Myntra", "Snapdeal", "eBay", "Walmart",
	"Etsy", "AliExpress", "Shopify", "Meesho", "Ajio", "Nykaa", "Target",
}

// Seller scores
const (
	sellerKeywordScore  = 0.6
	sellerOrgSpanScore  = 0.45 // capitalized span ending in an org suffix
	sellerPlainSpanScore = 0.3 // bare capitalized multi-word span
	platformBonus       = 0.1
)

// SellerExtractor finds the merchant name in normalized text.
type SellerExtractor struct {
	enableDebugLogging bool
}

// NewSellerExtractor creates a new seller extractor.
func NewSellerExtractor(enableDebugLogging bool) *SellerExtractor {
	return &SellerExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract returns scored seller candidates, best first. Keyword-anchored
// matches win; without any, a lightweight named-entity heuristic over
// capitalized spans and known platform names is the fallback.
func (e *SellerExtractor) Extract(text string) []domain.Candidate {
	if text == "" {
		return nil
	}

	var candidates []domain.Candidate

	for _, loc := range sellerKeywordPattern.FindAllStringIndex(text, -1) {
		rest := text[loc[1]:]
		org := orgSpanPattern.FindString(rest)
		org = trimOrgSpan(org)
		if org == "" {
			continue
		}
		score := sellerKeywordScore
		if isKnownPlatform(org) {
			score += platformBonus
		}
		candidates = append(candidates, domain.Candidate{
			Value: org, Score: clamp01(score), Method: "seller-keyword",
		})
	}

	if len(candidates) == 0 {
		candidates = e.fallbackEntities(text)
	}

	candidates = dedupeCandidates(candidates)
	sortCandidates(candidates)

	if e.enableDebugLogging && len(candidates) > 0 {
		log.Printf("[EXTRACT] seller: best %q (%.2f, %s)",
			candidates[0].Value, candidates[0].Score, candidates[0].Method)
	}

	return candidates
}

// fallbackEntities applies the rule-based named-entity heuristic: known
// platform names anywhere in the text, then capitalized multi-word spans.
func (e *SellerExtractor) fallbackEntities(text string) []domain.Candidate {
	var candidates []domain.Candidate

	for _, platform := range knownPlatforms {
		if containsWord(text, platform) {
			candidates = append(candidates, domain.Candidate{
				Value: platform, Score: clamp01(sellerPlainSpanScore + platformBonus), Method: "seller-platform",
			})
		}
	}

	for _, span := range capitalizedSpanPattern.FindAllString(text, -1) {
		span = trimOrgSpan(span)
		if span == "" {
			continue
		}
		score := sellerPlainSpanScore
		if orgSuffixPattern.MatchString(span) {
			score = sellerOrgSpanScore
		}
		candidates = append(candidates, domain.Candidate{
			Value: span, Score: score, Method: "seller-entity",
		})
	}

	return candidates
}

// trimOrgSpan strips trailing connective words and punctuation left by the
// greedy span match.
func trimOrgSpan(span string) string {
	span = strings.TrimSpace(span)
	for {
		trimmed := strings.TrimSuffix(span, " and")
		trimmed = strings.TrimSuffix(trimmed, " of")
		trimmed = strings.TrimSuffix(trimmed, " the")
		trimmed = strings.TrimRight(trimmed, ".,-")
		if trimmed == span {
			return span
		}
		span = trimmed
	}
}

// containsWord reports a case-insensitive whole-word occurrence.
func containsWord(text, word string) bool {
	lower := strings.ToLower(text)
	target := strings.ToLower(word)
	idx := 0
	for {
		i := strings.Index(lower[idx:], target)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(target)
		beforeOK := start == 0 || !isWordByte(lower[start-1])
		afterOK := end == len(lower) || !isWordByte(lower[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// isKnownPlatform checks the extracted seller against the platform list.
func isKnownPlatform(name string) bool {
	lower := strings.ToLower(name)
	for _, platform := range knownPlatforms {
		if strings.Contains(lower, strings.ToLower(platform)) {
			return true
		}
	}
	return false
}
