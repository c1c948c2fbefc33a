// Package htmlform enumerates fillable controls from portal-form HTML so the
// mapping cascade stays a pure function over plain data.
package htmlform

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/orderlens/backend/internal/domain"
)

// input types that can never receive an extracted value
var skippedInputTypes = map[string]bool{
	"submit": true, "button": true, "reset": true, "image": true,
	"checkbox": true, "radio": true, "file": true,
}

// Parse extracts field candidates from an HTML fragment or document, in
// document order. Hidden controls are kept but marked invisible, so the
// mapper can honor its never-fill-invisible invariant.
func Parse(html string) ([]domain.FieldCandidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse form html: %w", err)
	}

	// <label for="..."> text keyed by target id
	labelsByID := make(map[string]string)
	doc.Find("label[for]").Each(func(_ int, sel *goquery.Selection) {
		if forID, ok := sel.Attr("for"); ok && forID != "" {
			labelsByID[forID] = cleanLabel(sel.Text())
		}
	})

	var candidates []domain.FieldCandidate
	doc.Find("input, select, textarea").Each(func(i int, sel *goquery.Selection) {
		tag := goquery.NodeName(sel)
		inputType, _ := sel.Attr("type")
		inputType = strings.ToLower(inputType)

		var kind string
		switch tag {
		case "select":
			kind = domain.KindSelect
		case "textarea":
			kind = domain.KindTextarea
		default:
			if skippedInputTypes[inputType] {
				return
			}
			kind = domain.KindTextInput
		}

		name, _ := sel.Attr("name")
		id, _ := sel.Attr("id")
		placeholder, _ := sel.Attr("placeholder")

		label := labelsByID[id]
		if label == "" {
			// Controls wrapped in their label carry no for= attribute.
			if wrapped := sel.ParentsFiltered("label").First(); wrapped.Length() > 0 {
				label = cleanLabel(wrapped.Text())
			}
		}

		candidate := domain.FieldCandidate{
			ElementRef:  elementRef(tag, name, id, i),
			Name:        name,
			ID:          id,
			Placeholder: placeholder,
			Label:       label,
			Kind:        kind,
			Visible:     isVisible(sel, inputType),
		}

		if kind == domain.KindSelect {
			sel.Find("option").Each(func(_ int, opt *goquery.Selection) {
				text := cleanLabel(opt.Text())
				value, ok := opt.Attr("value")
				if !ok {
					value = text
				}
				candidate.Options = append(candidate.Options, domain.SelectOption{
					Value: value,
					Text:  text,
				})
			})
		}

		candidates = append(candidates, candidate)
	})

	return candidates, nil
}

// elementRef builds an opaque handle the adapter can resolve back to the
// control: id selector, name selector, or a positional fallback.
func elementRef(tag, name, id string, index int) string {
	switch {
	case id != "":
		return "#" + id
	case name != "":
		return fmt.Sprintf(`%s[name=%q]`, tag, name)
	default:
		return fmt.Sprintf("%s:nth(%d)", tag, index)
	}
}

// isVisible applies the static visibility checks available without a render:
// type=hidden, the hidden attribute, and inline display/visibility styles.
func isVisible(sel *goquery.Selection, inputType string) bool {
	if inputType == "hidden" {
		return false
	}
	if _, hidden := sel.Attr("hidden"); hidden {
		return false
	}
	style, _ := sel.Attr("style")
	style = strings.ReplaceAll(strings.ToLower(style), " ", "")
	if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
		return false
	}
	return true
}

func cleanLabel(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
