package usecase

import (
	"log"
	"regexp"

	"github.com/orderlens/backend/internal/domain"
)

// Contact patterns: standard email, one 10-digit local phone format, one
// separated local format, and an international +country-code format.
var (
	emailPattern      = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	intlPhonePattern  = regexp.MustCompile(`\+\d{1,3}[\s-]?\d{3,5}[\s-]?\d{3,6}\b`)
	localPhonePattern = regexp.MustCompile(`\b\d{10}\b`)
	sepPhonePattern   = regexp.MustCompile(`\b\d{3}[-.\s]\d{3}[-.\s]\d{4}\b`)
)

// Contact candidate scores
const (
	emailScore     = 0.9
	intlPhoneScore = 0.7
	sepPhoneScore  = 0.6
	localPhoneScore = 0.55
)

// ContactExtractor finds customer email addresses and phone numbers.
type ContactExtractor struct {
	enableDebugLogging bool
}

// NewContactExtractor creates a new contact extractor.
func NewContactExtractor(enableDebugLogging bool) *ContactExtractor {
	return &ContactExtractor{enableDebugLogging: enableDebugLogging}
}

// Extract returns email and phone candidates, best first.
func (e *ContactExtractor) Extract(text string) (emails, phones []domain.Candidate) {
	if text == "" {
		return nil, nil
	}

	for _, match := range emailPattern.FindAllString(text, -1) {
		emails = append(emails, domain.Candidate{Value: match, Score: emailScore, Method: "contact-email"})
	}

	for _, match := range intlPhonePattern.FindAllString(text, -1) {
		phones = append(phones, domain.Candidate{Value: match, Score: intlPhoneScore, Method: "contact-phone-intl"})
	}
	for _, match := range sepPhonePattern.FindAllString(text, -1) {
		phones = append(phones, domain.Candidate{Value: match, Score: sepPhoneScore, Method: "contact-phone-sep"})
	}
	for _, match := range localPhonePattern.FindAllString(text, -1) {
		phones = append(phones, domain.Candidate{Value: match, Score: localPhoneScore, Method: "contact-phone-local"})
	}

	emails = dedupeCandidates(emails)
	phones = dedupeCandidates(phones)
	sortCandidates(emails)
	sortCandidates(phones)

	if e.enableDebugLogging {
		log.Printf("[EXTRACT] contact: %d email(s), %d phone(s)", len(emails), len(phones))
	}

	return emails, phones
}
