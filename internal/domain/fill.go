package domain

// Candidate element kinds reported by the form adapter.
const (
	KindTextInput = "text-input"
	KindSelect    = "select"
	KindTextarea  = "textarea"
)

// SelectOption is one entry of a select-kind candidate, in document order.
type SelectOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

// FieldCandidate describes one fillable control on the target portal form.
// The engine never touches a DOM; the adapter that enumerated the form
// supplies these and later applies the chosen values.
type FieldCandidate struct {
	ElementRef  string         `json:"elementRef"` // opaque handle, e.g. a CSS selector
	Name        string         `json:"name,omitempty"`
	ID          string         `json:"id,omitempty"`
	Placeholder string         `json:"placeholder,omitempty"`
	Label       string         `json:"label,omitempty"` // associated <label> text
	Kind        string         `json:"kind"`
	Visible     bool           `json:"visible"`
	Options     []SelectOption `json:"options,omitempty"` // select kind only
}

// Match strategies, in cascade order.
const (
	StrategyExact           = "exact"
	StrategySubstring       = "substring"
	StrategyOptionExact     = "option-exact"
	StrategyOptionSubstring = "option-substring"
	StrategyOptionOther     = "option-other"
	StrategyNumericRange    = "numeric-range"
)

// FillPlanEntry is the mapper's choice for one logical field.
//
// For select candidates the caller must, after assigning MatchedOptionValue,
// dispatch a change notification on the underlying control so the portal's
// own validation reacts as if a human picked the option.
type FillPlanEntry struct {
	Candidate          *FieldCandidate `json:"candidate"`
	Strategy           string          `json:"matchStrategy"`
	MatchedOptionValue string          `json:"matchedOptionValue,omitempty"`
	// Overflow is the nearby free-text control to receive the raw value
	// when the "Other" option of a closed dropdown was selected.
	Overflow *FieldCandidate `json:"overflow,omitempty"`
}

// FillPlan maps logical field name to the chosen candidate. At most one
// candidate per field, and one candidate is never claimed by two fields in
// the same pass.
type FillPlan map[string]FillPlanEntry

// FieldOutcome is the per-field result of applying a FillPlan.
type FieldOutcome struct {
	Success      bool   `json:"success"`
	Reason       string `json:"reason,omitempty"`
	AppliedValue string `json:"appliedValue,omitempty"`
}

// FillOutcome maps logical field name to its outcome for one fill pass.
type FillOutcome map[string]FieldOutcome

// SuccessCount returns how many fields were filled.
func (o FillOutcome) SuccessCount() int {
	count := 0
	for _, out := range o {
		if out.Success {
			count++
		}
	}
	return count
}

// FieldApplier writes a mapped value onto the underlying control. Implemented
// by the DOM adapter; errors are recorded per field and never abort a pass.
type FieldApplier interface {
	Apply(candidate *FieldCandidate, value string, entry FillPlanEntry) error
}
