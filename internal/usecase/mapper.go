package usecase

import (
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/orderlens/backend/internal/domain"
)

var (
	nonAlnumPattern = regexp.MustCompile(`[^a-z0-9]`)
	numberPattern   = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

	// Whole word only: "Other (please specify)" qualifies, "Mother's Day"
	// does not.
	otherOptionPattern = regexp.MustCompile(`(?i)\bother\b`)
)

// MapperConfig holds configuration for the field-to-selector mapper.
type MapperConfig struct {
	EnableDebugLogging bool
}

// MapperService picks the best target-form control for one logical field.
// Pure with respect to its inputs: the DOM adapter enumerates candidates and
// later applies the chosen value (dispatching a change notification on
// select controls afterwards).
type MapperService struct {
	enableDebugLogging bool
}

// NewMapperService creates a new mapper service.
func NewMapperService(config MapperConfig) *MapperService {
	return &MapperService{enableDebugLogging: config.EnableDebugLogging}
}

// MapField runs the matching cascade and returns the chosen candidate, or
// nil when nothing matches (a soft miss, not an error). Invisible candidates
// are never selected. Cascade, first success wins:
//
//  1. exact match of the field name against name/id
//  2. substring match of the field name against name/id/placeholder/label
//  3. for selects: option display-text matching (exact, then bidirectional
//     substring, then an "Other" option with a nearby free-text overflow)
//  4. numeric-range heuristic for monetary values
func (s *MapperService) MapField(fieldName, value string, candidates []domain.FieldCandidate) *domain.FillPlanEntry {
	if fieldName == "" || value == "" {
		return nil
	}

	visible := make([]*domain.FieldCandidate, 0, len(candidates))
	for i := range candidates {
		if candidates[i].Visible {
			visible = append(visible, &candidates[i])
		}
	}

	entry := s.matchByAttribute(fieldName, value, visible, true)
	if entry == nil {
		entry = s.matchByAttribute(fieldName, value, visible, false)
	}
	if entry == nil {
		entry = s.matchSelectOptions(value, visible)
	}
	if entry == nil {
		entry = s.matchNumericRange(value, visible)
	}

	if s.enableDebugLogging {
		if entry != nil {
			log.Printf("[MAP] %s -> %s (%s)", fieldName, entry.Candidate.ElementRef, entry.Strategy)
		} else {
			log.Printf("[MAP] %s: no candidate matched", fieldName)
		}
	}

	return entry
}

// matchByAttribute covers cascade stages 1 and 2. A matched select still
// needs a resolvable option; otherwise the stage fails for that candidate.
func (s *MapperService) matchByAttribute(fieldName, value string, candidates []*domain.FieldCandidate, exact bool) *domain.FillPlanEntry {
	target := normalizeAttr(fieldName)
	if target == "" {
		return nil
	}

	for i, c := range candidates {
		var strategy string
		if exact {
			if normalizeAttr(c.Name) != target && normalizeAttr(c.ID) != target {
				continue
			}
			strategy = domain.StrategyExact
		} else {
			if !attrContains(c.Name, target) && !attrContains(c.ID, target) &&
				!attrContains(c.Placeholder, target) && !attrContains(c.Label, target) {
				continue
			}
			strategy = domain.StrategySubstring
		}

		if c.Kind != domain.KindSelect {
			return &domain.FillPlanEntry{Candidate: c, Strategy: strategy}
		}
		if optionValue, optStrategy, ok := resolveOption(value, c); ok {
			entry := &domain.FillPlanEntry{Candidate: c, Strategy: optStrategy, MatchedOptionValue: optionValue}
			if optStrategy == domain.StrategyOptionOther {
				entry.Overflow = nextTextControl(candidates, i)
			}
			return entry
		}
	}
	return nil
}

// matchSelectOptions covers cascade stage 3: the control is chosen because
// its options match the value, not because of its attributes.
func (s *MapperService) matchSelectOptions(value string, candidates []*domain.FieldCandidate) *domain.FillPlanEntry {
	// Exact option text first across every select, then substring.
	for _, c := range candidates {
		if c.Kind != domain.KindSelect {
			continue
		}
		for _, opt := range c.Options {
			if strings.EqualFold(strings.TrimSpace(opt.Text), strings.TrimSpace(value)) {
				return &domain.FillPlanEntry{Candidate: c, Strategy: domain.StrategyOptionExact, MatchedOptionValue: opt.Value}
			}
		}
	}

	for _, c := range candidates {
		if c.Kind != domain.KindSelect {
			continue
		}
		for _, opt := range c.Options {
			if optionTextMatches(opt.Text, value) {
				return &domain.FillPlanEntry{Candidate: c, Strategy: domain.StrategyOptionSubstring, MatchedOptionValue: opt.Value}
			}
		}
	}

	// "Other" fallback: portals pair a closed dropdown with an overflow
	// free-text box. Select the Other option and route the raw value to the
	// nearest following text control.
	for i, c := range candidates {
		if c.Kind != domain.KindSelect {
			continue
		}
		for _, opt := range c.Options {
			if !otherOptionPattern.MatchString(opt.Text) {
				continue
			}
			entry := &domain.FillPlanEntry{Candidate: c, Strategy: domain.StrategyOptionOther, MatchedOptionValue: opt.Value}
			entry.Overflow = nextTextControl(candidates, i)
			return entry
		}
	}

	return nil
}

// matchNumericRange covers cascade stage 4: a monetary value against range
// options like "Above ₹50,000" or "Rs. 10,000 - 50,000".
func (s *MapperService) matchNumericRange(value string, candidates []*domain.FieldCandidate) *domain.FillPlanEntry {
	amount, ok := parseAmount(value)
	if !ok {
		return nil
	}

	for _, c := range candidates {
		if c.Kind != domain.KindSelect {
			continue
		}
		for _, opt := range c.Options {
			if rangeMatches(opt.Text, amount) {
				return &domain.FillPlanEntry{Candidate: c, Strategy: domain.StrategyNumericRange, MatchedOptionValue: opt.Value}
			}
		}
	}
	return nil
}

// normalizeAttr lowercases and strips non-alphanumerics so "order_id",
// "order-id" and "orderId" compare equal.
func normalizeAttr(s string) string {
	return nonAlnumPattern.ReplaceAllString(strings.ToLower(s), "")
}

func attrContains(attr, target string) bool {
	norm := normalizeAttr(attr)
	if norm == "" {
		return false
	}
	return strings.Contains(norm, target) || strings.Contains(target, norm)
}

// resolveOption matches the value against a select's option display texts:
// exact, then bidirectional substring, then the "Other" fallback.
func resolveOption(value string, c *domain.FieldCandidate) (optionValue, strategy string, ok bool) {
	trimmed := strings.TrimSpace(value)
	for _, opt := range c.Options {
		if strings.EqualFold(strings.TrimSpace(opt.Text), trimmed) {
			return opt.Value, domain.StrategyOptionExact, true
		}
	}
	for _, opt := range c.Options {
		if optionTextMatches(opt.Text, trimmed) {
			return opt.Value, domain.StrategyOptionSubstring, true
		}
	}
	for _, opt := range c.Options {
		if otherOptionPattern.MatchString(opt.Text) {
			return opt.Value, domain.StrategyOptionOther, true
		}
	}
	return "", "", false
}

// optionTextMatches reports a case-insensitive containment either way, with
// short option texts excluded to avoid degenerate one-letter matches.
func optionTextMatches(optionText, value string) bool {
	o := strings.ToLower(strings.TrimSpace(optionText))
	v := strings.ToLower(strings.TrimSpace(value))
	if len(o) < 3 || len(v) < 3 {
		return false
	}
	return strings.Contains(o, v) || strings.Contains(v, o)
}

// nextTextControl returns the first visible free-text control after position
// i, which is where portal forms place the "Other (please specify)" box.
func nextTextControl(candidates []*domain.FieldCandidate, i int) *domain.FieldCandidate {
	for _, c := range candidates[i+1:] {
		if c.Kind == domain.KindTextInput || c.Kind == domain.KindTextarea {
			return c
		}
	}
	return nil
}

// parseAmount pulls a number out of a display-text price ("₹1,499.00").
// Currency is never normalized at extraction time, so the tolerant parse
// happens here, at comparison time only.
func parseAmount(value string) (float64, bool) {
	match := numberPattern.FindString(value)
	if match == "" {
		return 0, false
	}
	amount, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

// rangeMatches checks an option text like "Above 50,000" or "10,000 - 50,000"
// against an amount.
func rangeMatches(optionText string, amount float64) bool {
	lower := strings.ToLower(optionText)
	nums := numberPattern.FindAllString(lower, -1)
	if len(nums) == 0 {
		return false
	}

	parse := func(s string) float64 {
		f, _ := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
		return f
	}

	first := parse(nums[0])
	switch {
	case strings.Contains(lower, "above") || strings.Contains(lower, "over") || strings.Contains(lower, "more than"):
		return amount > first
	case strings.Contains(lower, "below") || strings.Contains(lower, "under") ||
		strings.Contains(lower, "less than") || strings.Contains(lower, "upto") || strings.Contains(lower, "up to"):
		return amount <= first
	case len(nums) >= 2:
		return amount >= first && amount <= parse(nums[1])
	}
	return false
}
