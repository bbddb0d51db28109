// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package detect

import (
	"fmt"
	"log/slog"

	"github.com/pdiddy/budget-engine/pkg/types"
)

// markerKey identifies a claimed section across the scan.
type markerKey struct {
	category types.MarkerCategory
	number   int
}

// Detect scans the document's pages in order and returns one SectionMarker
// per section, attributed to the page its heading first appears on.
//
// The first candidate on a page in reading order wins; further candidates are
// logged as low-confidence alternatives, never silently dropped. Budget books
// repeat the current section's heading on every page of its body, so a
// candidate matching the most recently claimed section is a continuation
// header and is skipped. Any other duplicate (category, number) pair, or a
// number that is not strictly greater than the previous one in its category,
// is a BoundaryOrderingError: the document or the rule needs manual
// inspection, and retrying cannot help.
//
// resetThreshold is the section number at or above which a drop back to 1 is
// read as the revenue→expenditure transition on keyword-free pages; values
// below 1 select the default.
func Detect(doc *types.Document, rule Rule, resetThreshold int, log *slog.Logger) ([]types.SectionMarker, error) {
	if log == nil {
		log = slog.Default()
	}
	if resetThreshold <= 0 {
		resetThreshold = types.DefaultResetThreshold
	}

	var (
		markers  []types.SectionMarker
		claimed  = map[markerKey]int{} // key → page index of first claim
		current  = types.MarkerRevenue // books open with the revenue part
		lastKey  markerKey
		haveLast bool
		prevNum  int
	)

	for _, page := range doc.Pages {
		candidates := rule.Match(page.Text)
		if len(candidates) == 0 {
			continue
		}

		for _, alt := range candidates[1:] {
			log.Warn("low-confidence heading candidate ignored",
				"page", page.Index+1,
				"line", alt.Line,
				"number", alt.Number,
				"name", alt.Name)
		}

		cand := candidates[0]

		// Resolve the category: page context wins; otherwise a drop from a
		// high section number back to 1 marks the revenue→expenditure
		// transition.
		category := cand.Category
		if category == types.MarkerOther {
			if current == types.MarkerRevenue && prevNum >= resetThreshold && cand.Number == 1 {
				current = types.MarkerExpenditure
			}
			category = current
		} else {
			current = category
		}

		key := markerKey{category: category, number: cand.Number}
		prevNum = cand.Number

		if haveLast && key == lastKey {
			continue // continuation header inside the current section body
		}

		if firstPage, dup := claimed[key]; dup {
			return nil, &types.BoundaryOrderingError{
				Category: category,
				Number:   cand.Number,
				Page:     page.Index,
				Reason:   formatDuplicate(firstPage),
			}
		}
		if last, ok := lastNumber(markers, category); ok && cand.Number <= last {
			return nil, &types.BoundaryOrderingError{
				Category: category,
				Number:   cand.Number,
				Page:     page.Index,
				Reason:   "section number not strictly increasing within category",
			}
		}

		markers = append(markers, types.SectionMarker{
			PageIndex: page.Index,
			Category:  category,
			Number:    cand.Number,
			Name:      cand.Name,
		})
		claimed[key] = page.Index
		lastKey = key
		haveLast = true

		log.Debug("section boundary",
			"page", page.Index+1,
			"category", category,
			"number", cand.Number,
			"name", cand.Name)
	}

	return markers, nil
}

// lastNumber returns the number of the most recent marker in the given
// category.
func lastNumber(markers []types.SectionMarker, category types.MarkerCategory) (int, bool) {
	for i := len(markers) - 1; i >= 0; i-- {
		if markers[i].Category == category {
			return markers[i].Number, true
		}
	}
	return 0, false
}

func formatDuplicate(firstPage int) string {
	// 1-based in messages, matching how the source document is paginated.
	return fmt.Sprintf("duplicate section heading, first claimed on page %d", firstPage+1)
}
