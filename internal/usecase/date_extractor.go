package usecase

import (
	"log"
	"regexp"
	"sort"

	"github.com/orderlens/backend/internal/domain"
)

// Date token patterns: numeric DD/MM/YYYY-like forms and spelled-out
// "Month DD, YYYY" / "DD Month YYYY" forms.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}(?:st|nd|rd|th)?\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`),
}

// Bucket keywords. The nearest preceding keyword decides whether a date is
// the order date or the delivery date; unclassified dates default to order.
var (
	orderDateContextPattern    = regexp.MustCompile(`(?i)\b(?:placed|ordered|confirmed|purchased?)\b`)
	deliveryDateContextPattern = regexp.MustCompile(`(?i)\b(?:delivered|delivery|shipping|shipped|arriv\w*|expected|dispatch\w*)\b`)
)

// dateContextWindow bounds how far back a bucket keyword can sit.
const dateContextWindow = 80

// Date candidate scores
const (
	keywordDateScore = 0.7 // a bucket keyword precedes the date
	defaultDateScore = 0.4 // unclassified, defaulted to the order bucket
)

// DateExtractor finds order and delivery dates in normalized text.
type DateExtractor struct {
	enableDebugLogging bool
}

// NewDateExtractor creates a new date extractor.
func NewDateExtractor(enableDebugLogging bool) *DateExtractor {
	return &DateExtractor{enableDebugLogging: enableDebugLogging}
}

// dateMatch is one date token with its position in the text.
type dateMatch struct {
	value string
	start int
}

// Extract returns order-date and delivery-date candidates. Only the first
// date per bucket is kept; values stay as display text.
func (e *DateExtractor) Extract(text string) (orderDates, deliveryDates []domain.Candidate) {
	if text == "" {
		return nil, nil
	}

	var matches []dateMatch
	seen := make(map[int]bool)
	for _, pattern := range datePatterns {
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			if seen[loc[0]] {
				continue
			}
			seen[loc[0]] = true
			matches = append(matches, dateMatch{value: text[loc[0]:loc[1]], start: loc[0]})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].start < matches[j].start })

	for _, m := range matches {
		windowStart := m.start - dateContextWindow
		if windowStart < 0 {
			windowStart = 0
		}
		window := text[windowStart:m.start]

		orderLoc := lastMatchEnd(orderDateContextPattern, window)
		deliveryLoc := lastMatchEnd(deliveryDateContextPattern, window)

		switch {
		case deliveryLoc > orderLoc:
			if deliveryDates == nil {
				deliveryDates = append(deliveryDates, domain.Candidate{
					Value: m.value, Score: keywordDateScore, Method: "delivery-keyword",
				})
			}
		case orderLoc > deliveryLoc:
			if orderDates == nil {
				orderDates = append(orderDates, domain.Candidate{
					Value: m.value, Score: keywordDateScore, Method: "order-keyword",
				})
			}
		default:
			// No bucket keyword nearby: default to the order bucket.
			if orderDates == nil {
				orderDates = append(orderDates, domain.Candidate{
					Value: m.value, Score: defaultDateScore, Method: "order-default",
				})
			}
		}
	}

	if e.enableDebugLogging {
		log.Printf("[EXTRACT] dates: %d order, %d delivery (from %d matches)",
			len(orderDates), len(deliveryDates), len(matches))
	}

	return orderDates, deliveryDates
}

// lastMatchEnd returns the end offset of the last match of re in s, or -1.
// The later the keyword sits, the nearer it is to the date token.
func lastMatchEnd(re *regexp.Regexp, s string) int {
	end := -1
	for _, loc := range re.FindAllStringIndex(s, -1) {
		if loc[1] > end {
			end = loc[1]
		}
	}
	return end
}
