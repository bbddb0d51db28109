// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// MarkerCategory classifies a detected section heading.
type MarkerCategory string

const (
	MarkerRevenue     MarkerCategory = "revenue"
	MarkerExpenditure MarkerCategory = "expenditure"
	MarkerOther       MarkerCategory = "other"
)

// SectionMarker records one detected top-level section (款) heading.
// Markers are emitted in scan order, so PageIndex is strictly increasing
// across a valid marker sequence.
type SectionMarker struct {
	// PageIndex is the zero-based page the heading begins on.
	PageIndex int `json:"page_index" yaml:"page_index"`

	// Category separates revenue sections from expenditure sections.
	Category MarkerCategory `json:"category" yaml:"category"`

	// Number is the section's numeric identifier within its category.
	Number int `json:"number" yaml:"number"`

	// Name is the section title with trailing column text stripped.
	Name string `json:"name" yaml:"name"`
}

// SegmentCategory classifies an assembled segment.
type SegmentCategory string

const (
	SegmentOverview    SegmentCategory = "overview"
	SegmentRevenue     SegmentCategory = "revenue"
	SegmentExpenditure SegmentCategory = "expenditure"
	SegmentAppendix    SegmentCategory = "appendix"
)

// Segment is a contiguous, labeled page range exported as one PDF/text pair.
// A valid segment list partitions [0, N-1] exactly: segments are ordered by
// OrderIndex, StartPage <= EndPage, and each segment starts on the page after
// its predecessor's EndPage.
type Segment struct {
	// Label is the deterministic output base name, unique across the list.
	Label string `json:"label" yaml:"label"`

	// Category is overview, revenue, expenditure, or appendix.
	Category SegmentCategory `json:"category" yaml:"category"`

	// StartPage and EndPage bound the segment, zero-based and inclusive.
	StartPage int `json:"start_page" yaml:"start_page"`
	EndPage   int `json:"end_page" yaml:"end_page"`

	// OrderIndex is the segment's position in the assembled list, matching
	// ascending StartPage.
	OrderIndex int `json:"order_index" yaml:"order_index"`
}

// PageCount returns the number of pages the segment spans.
func (s Segment) PageCount() int {
	return s.EndPage - s.StartPage + 1
}

// ExportStatus indicates the outcome of exporting a single segment.
type ExportStatus string

const (
	ExportOK     ExportStatus = "ok"
	ExportFailed ExportStatus = "failed"
)

// ExportResult holds the outcome of one segment export.
type ExportResult struct {
	Segment Segment `json:"segment" yaml:"segment"`

	// PDFPath and TextPath are the written artifact paths, empty on failure.
	PDFPath  string `json:"pdf_path,omitempty" yaml:"pdf_path,omitempty"`
	TextPath string `json:"text_path,omitempty" yaml:"text_path,omitempty"`

	Status ExportStatus `json:"status" yaml:"status"`

	// Error describes the failure when Status is ExportFailed.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// RunReport summarizes one complete segmentation run. Results are ordered by
// segment OrderIndex regardless of export scheduling.
type RunReport struct {
	Source     string         `json:"source" yaml:"source"`
	OutputDir  string         `json:"output_dir" yaml:"output_dir"`
	Pages      int            `json:"pages" yaml:"pages"`
	Workers    int            `json:"workers" yaml:"workers"`
	StartedAt  time.Time      `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time      `json:"finished_at" yaml:"finished_at"`
	Results    []ExportResult `json:"results" yaml:"results"`
}

// Exported returns the number of segments exported successfully.
func (r RunReport) Exported() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == ExportOK {
			n++
		}
	}
	return n
}

// Failed returns the number of segments that failed to export.
func (r RunReport) Failed() int {
	return len(r.Results) - r.Exported()
}

// HasFailures reports whether any segment export failed.
func (r RunReport) HasFailures() bool {
	return r.Failed() > 0
}
