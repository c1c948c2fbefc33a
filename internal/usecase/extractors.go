package usecase

import (
	"sort"

	"github.com/orderlens/backend/internal/domain"
)

// Minimum score floors per extractor. A field only lands in the record when
// at least one candidate clears its extractor's floor.
const (
	minOrderIDScore  = 0.3
	minTrackingScore = 0.3
	minPriceScore    = 0.3
	minDateScore     = 0.2
	minSellerScore   = 0.25
	minProductScore  = 0.3
	minContactScore  = 0.4
)

// sortCandidates orders candidates by score descending. The sort is stable,
// so equal scores keep first-occurrence order in the text.
func sortCandidates(candidates []domain.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
}

// bestCandidate returns the highest-scoring candidate at or above the floor.
func bestCandidate(candidates []domain.Candidate, floor float64) (domain.Candidate, bool) {
	for _, c := range candidates {
		if c.Score >= floor {
			return c, true
		}
	}
	return domain.Candidate{}, false
}

// dedupeCandidates keeps the best-scored entry per value, preserving order.
func dedupeCandidates(candidates []domain.Candidate) []domain.Candidate {
	best := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		if s, ok := best[c.Value]; !ok || c.Score > s {
			best[c.Value] = c.Score
		}
	}
	var out []domain.Candidate
	seen := make(map[string]bool, len(best))
	for _, c := range candidates {
		if seen[c.Value] || c.Score < best[c.Value] {
			continue
		}
		seen[c.Value] = true
		out = append(out, c)
	}
	return out
}

// clamp01 clamps a score into [0,1].
func clamp01(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
