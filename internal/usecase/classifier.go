package usecase

import (
	"log"
	"regexp"

	"github.com/orderlens/backend/internal/domain"
)

// Signal weights per tier
const (
	strongSignalWeight   = 0.4
	mediumSignalWeight   = 0.2
	weakSignalWeight     = 0.1
	negativeSignalWeight = -0.15
)

// Default classification thresholds: permissive for informational scoring,
// strict for gating auto-extraction so false positives don't pollute the
// record store.
const (
	DefaultPermissiveThreshold = 0.5
	DefaultStrictThreshold     = 0.7
)

// Signal is one weighted classification rule.
type Signal struct {
	Tag     string
	Weight  float64
	Pattern *regexp.Regexp
}

// defaultSignals is the built-in rule table. Each signal fires at most once
// per page regardless of how often its pattern occurs.
var defaultSignals = []Signal{
	// Strong: explicit order-page phrasing
	{"order-number-label", strongSignalWeight, regexp.MustCompile(`(?i)\border\s+(?:number|no\.?|id)\s*[:#]`)},
	{"invoice-label", strongSignalWeight, regexp.MustCompile(`(?i)\binvoice\s+(?:number|no\.?|confirmed)\b`)},
	{"order-confirmed", strongSignalWeight, regexp.MustCompile(`(?i)\border\s+confirm(?:ed|ation)\b`)},
	{"thank-you-order", strongSignalWeight, regexp.MustCompile(`(?i)thank you for your (?:order|purchase)`)},

	// Medium: order-page furniture
	{"total-amount", mediumSignalWeight, regexp.MustCompile(`(?i)\btotal\s*:?\s*[$€£₹]`)},
	{"tracking-number", mediumSignalWeight, regexp.MustCompile(`(?i)\btracking\s+(?:number|no\.?|id)\b`)},
	{"payment-method", mediumSignalWeight, regexp.MustCompile(`(?i)\bpayment\s+method\b`)},
	{"delivery-detail", mediumSignalWeight, regexp.MustCompile(`(?i)\bdelivery\s+(?:date|address)\b`)},
	{"order-summary", mediumSignalWeight, regexp.MustCompile(`(?i)\border\s+summary\b`)},

	// Weak: bare commerce vocabulary
	{"word-order", weakSignalWeight, regexp.MustCompile(`(?i)\border\b`)},
	{"word-invoice", weakSignalWeight, regexp.MustCompile(`(?i)\binvoice\b`)},
	{"word-receipt", weakSignalWeight, regexp.MustCompile(`(?i)\breceipt\b`)},
	{"word-purchase", weakSignalWeight, regexp.MustCompile(`(?i)\bpurchase\b`)},

	// Negative: catalog/browse pages, not completed purchases
	{"add-to-cart", negativeSignalWeight, regexp.MustCompile(`(?i)add\s+to\s+cart`)},
	{"search-results", negativeSignalWeight, regexp.MustCompile(`(?i)search\s+results`)},
	{"browse", negativeSignalWeight, regexp.MustCompile(`(?i)\bbrowse\b`)},
	{"buy-now", negativeSignalWeight, regexp.MustCompile(`(?i)buy\s+now`)},
	{"wishlist", negativeSignalWeight, regexp.MustCompile(`(?i)\bwish\s?list\b`)},
}

// ClassifierConfig holds configuration for the page classifier.
type ClassifierConfig struct {
	PermissiveThreshold float64
	StrictThreshold     float64
	Signals             []Signal // nil uses the built-in table
	EnableDebugLogging  bool
}

// Classifier scores whether page text belongs to an order page. Stateless
// and deterministic: identical text always yields an identical result.
type Classifier struct {
	permissiveThreshold float64
	strictThreshold     float64
	signals             []Signal
	enableDebugLogging  bool
}

// NewClassifier creates a classifier, defaulting unset thresholds and the
// signal table.
func NewClassifier(config ClassifierConfig) *Classifier {
	permissive := config.PermissiveThreshold
	if permissive <= 0 {
		permissive = DefaultPermissiveThreshold
	}
	strict := config.StrictThreshold
	if strict <= 0 {
		strict = DefaultStrictThreshold
	}
	signals := config.Signals
	if signals == nil {
		signals = defaultSignals
	}
	return &Classifier{
		permissiveThreshold: permissive,
		strictThreshold:     strict,
		signals:             signals,
		enableDebugLogging:  config.EnableDebugLogging,
	}
}

// Classify scores the text against the permissive threshold.
func (c *Classifier) Classify(text string) domain.ClassificationResult {
	return c.classify(text, c.permissiveThreshold)
}

// ClassifyStrict scores the text against the strict threshold used to gate
// auto-extraction storage.
func (c *Classifier) ClassifyStrict(text string) domain.ClassificationResult {
	return c.classify(text, c.strictThreshold)
}

func (c *Classifier) classify(text string, threshold float64) domain.ClassificationResult {
	score := 0.0
	var matched []string

	for _, signal := range c.signals {
		if signal.Pattern.MatchString(text) {
			score += signal.Weight
			matched = append(matched, signal.Tag)
		}
	}

	score = clamp01(score)
	result := domain.ClassificationResult{
		IsOrderPage:    score >= threshold,
		Confidence:     score,
		MatchedSignals: matched,
		Source:         "Engine",
	}

	if c.enableDebugLogging {
		log.Printf("[CLASSIFY] score=%.2f threshold=%.2f order=%v signals=%v",
			score, threshold, result.IsOrderPage, matched)
	}

	return result
}
