// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package detect locates top-level section (款) boundaries in extracted
// page text.
package detect

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/budget-engine/pkg/types"
)

// Candidate is one heading occurrence found on a page, in reading order.
type Candidate struct {
	// Number is the section's numeric identifier.
	Number int

	// Name is the section title, truncated at the first whitespace.
	Name string

	// Line is the zero-based line offset of the heading within the page.
	Line int

	// Category is the category pinned by page context, or MarkerOther when
	// the page text does not decide it.
	Category types.MarkerCategory
}

// Rule recognizes section headings in page text. Detection logic varies with
// each fiscal year's formatting, so the rule is injected rather than baked
// into the scanner.
type Rule interface {
	// Match returns every heading candidate on the page, top to bottom.
	Match(pageText string) []Candidate
}

// kanPattern matches a 1-2 digit section number (ASCII or full-width)
// followed by 款 and the section name.
var kanPattern = regexp.MustCompile(`([１-９][０-９]?|[0-9]{1,2})款[\s　]*(\S+)`)

// fullwidthDigits maps full-width digit runes to their ASCII values.
var fullwidthDigits = strings.NewReplacer(
	"０", "0", "１", "1", "２", "2", "３", "3", "４", "4",
	"５", "5", "６", "6", "７", "7", "８", "8", "９", "9",
)

// KanRule is the default heading rule for Japanese municipal budget books.
type KanRule struct {
	cfg types.DetectConfig
}

// NewKanRule builds the default rule from config, filling defaults for any
// zero-valued field.
func NewKanRule(cfg types.DetectConfig) *KanRule {
	return &KanRule{cfg: cfg.WithDefaults()}
}

// Match scans the page line by line for 款 headings. The category is pinned
// when exactly one of the revenue/expenditure context keywords appears on the
// page; otherwise it is left undecided for the scanner's running state.
func (r *KanRule) Match(pageText string) []Candidate {
	category := r.pageCategory(pageText)

	var out []Candidate
	for lineNr, line := range strings.Split(pageText, "\n") {
		for _, m := range kanPattern.FindAllStringSubmatch(line, -1) {
			num, err := strconv.Atoi(fullwidthDigits.Replace(m[1]))
			if err != nil || num == 0 {
				continue
			}
			out = append(out, Candidate{
				Number:   num,
				Name:     sectionName(m[2]),
				Line:     lineNr,
				Category: category,
			})
		}
	}
	return out
}

// pageCategory pins the category from context keywords. Pages mentioning
// both keywords (e.g. summary tables) decide nothing.
func (r *KanRule) pageCategory(pageText string) types.MarkerCategory {
	hasRevenue := strings.Contains(pageText, r.cfg.RevenueKeyword)
	hasExpenditure := strings.Contains(pageText, r.cfg.ExpenditureKeyword)
	switch {
	case hasRevenue && !hasExpenditure:
		return types.MarkerRevenue
	case hasExpenditure && !hasRevenue:
		return types.MarkerExpenditure
	default:
		return types.MarkerOther
	}
}

// sectionName strips everything from the first whitespace onward, keeping
// only the section title and dropping trailing column text.
func sectionName(raw string) string {
	if i := strings.IndexAny(raw, " \t　"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
