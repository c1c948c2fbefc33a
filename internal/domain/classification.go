package domain

import "time"

// ClassificationResult is the page classifier's verdict on one page.
type ClassificationResult struct {
	IsOrderPage    bool      `json:"isOrderPage"`
	Confidence     float64   `json:"confidence"`               // weighted signal score, clamped to [0,1]
	MatchedSignals []string  `json:"matchedSignals,omitempty"` // tags of the rule groups that fired
	Source         string    `json:"source,omitempty"`         // "Engine" or "Cache"
	CachedAt       time.Time `json:"cachedAt,omitempty"`
}
