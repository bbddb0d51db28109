// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble converts an ordered marker list into a complete, gap-free
// partition of the page range into labeled segments.
package assemble

import (
	"fmt"
	"strings"

	"github.com/pdiddy/budget-engine/pkg/types"
)

// Fixed labels for the leading and trailing segments.
const (
	OverviewLabel = "00_overview"
	AppendixLabel = "99_appendix"
)

// Assemble partitions [0, pageCount-1] into ordered segments. It is a pure
// function of its inputs: calling it twice with the same arguments yields
// identical segment lists.
//
// With no markers the whole document becomes a single overview segment.
// Otherwise pages before the first marker form the overview (omitted when the
// first marker starts on page 0), each marker claims pages up to the next
// marker's page, and the last marker runs to the final page. appendixStart,
// when >= 0, caps the last section at appendixStart-1 and emits an appendix
// segment for the trailing pages; pass a negative value to disable.
func Assemble(pageCount int, markers []types.SectionMarker, appendixStart int) ([]types.Segment, error) {
	if pageCount <= 0 {
		return nil, fmt.Errorf("assembling segments: document has %d pages", pageCount)
	}

	var segments []types.Segment
	add := func(label string, category types.SegmentCategory, start, end int) {
		segments = append(segments, types.Segment{
			Label:      label,
			Category:   category,
			StartPage:  start,
			EndPage:    end,
			OrderIndex: len(segments),
		})
	}

	if len(markers) == 0 {
		add(OverviewLabel, types.SegmentOverview, 0, pageCount-1)
		return segments, nil
	}

	lastPage := pageCount - 1
	if appendixStart >= 0 {
		if appendixStart <= markers[len(markers)-1].PageIndex || appendixStart > lastPage {
			return nil, fmt.Errorf("assembling segments: appendix start %d outside (%d, %d]",
				appendixStart, markers[len(markers)-1].PageIndex, lastPage)
		}
		lastPage = appendixStart - 1
	}

	if first := markers[0].PageIndex; first > 0 {
		add(OverviewLabel, types.SegmentOverview, 0, first-1)
	}

	for i, m := range markers {
		end := lastPage
		if i+1 < len(markers) {
			end = markers[i+1].PageIndex - 1
		}
		if end < m.PageIndex {
			return nil, &types.BoundaryOrderingError{
				Category: m.Category,
				Number:   m.Number,
				Page:     m.PageIndex,
				Reason:   "marker pages not strictly increasing",
			}
		}
		add(SectionLabel(m), segmentCategory(m.Category), m.PageIndex, end)
	}

	if appendixStart >= 0 {
		add(AppendixLabel, types.SegmentAppendix, appendixStart, pageCount-1)
	}

	return segments, nil
}

// segmentCategory maps a marker category onto the segment category. The
// detector resolves MarkerOther before emitting, so markers reaching assembly
// are revenue or expenditure.
func segmentCategory(c types.MarkerCategory) types.SegmentCategory {
	if c == types.MarkerExpenditure {
		return types.SegmentExpenditure
	}
	return types.SegmentRevenue
}

// SectionLabel derives the deterministic output base name for a marker:
// category, zero-padded number, and the sanitized section name.
func SectionLabel(m types.SectionMarker) string {
	return fmt.Sprintf("%s_%02d_%s", m.Category, m.Number, sanitizeName(m.Name))
}

// sanitizeName makes a section name safe as a filename component. Path
// separators become 中黒 as in the source workbooks.
func sanitizeName(name string) string {
	name = strings.ReplaceAll(name, "/", "・")
	name = strings.ReplaceAll(name, "\\", "・")
	if name == "" {
		name = "unnamed"
	}
	return name
}

// Validate checks the partition invariants on an assembled segment list:
// ordered by start page, no empty segment, contiguous, and covering exactly
// [0, pageCount-1]. Assemble output always passes; this guards alternative
// segment sources (manual adjustment files) before export.
func Validate(segments []types.Segment, pageCount int) error {
	if len(segments) == 0 {
		return fmt.Errorf("validating segments: empty segment list")
	}
	next := 0
	for i, s := range segments {
		if s.OrderIndex != i {
			return fmt.Errorf("validating segments: %s has order index %d, want %d", s.Label, s.OrderIndex, i)
		}
		if s.StartPage != next {
			return fmt.Errorf("validating segments: %s starts at page %d, want %d", s.Label, s.StartPage, next)
		}
		if s.EndPage < s.StartPage {
			return fmt.Errorf("validating segments: %s is empty (%d > %d)", s.Label, s.StartPage, s.EndPage)
		}
		next = s.EndPage + 1
	}
	if next != pageCount {
		return fmt.Errorf("validating segments: cover [0, %d], document has %d pages", next-1, pageCount)
	}
	return nil
}
