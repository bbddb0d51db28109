// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data model shared by the segmentation pipeline
// stages: extracted documents, section markers, segments, and export results.
package types

// Page holds the extracted text of a single document page.
type Page struct {
	// Index is the zero-based page position within the document.
	Index int `json:"index" yaml:"index"`

	// Text is the extracted plain text of the page, empty if the page
	// carries no text layer.
	Text string `json:"text" yaml:"text"`
}

// Document is an ordered sequence of extracted pages. It is produced once by
// the text extractor and treated as read-only by every later stage, so it may
// be shared across export workers without locking.
type Document struct {
	// Path is the filesystem path of the source PDF.
	Path string `json:"path" yaml:"path"`

	// Pages holds one entry per source page, in reading order.
	Pages []Page `json:"pages" yaml:"pages"`
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// PageText returns the text of the page at the given zero-based index, or the
// empty string if the index is out of range.
func (d *Document) PageText(index int) string {
	if index < 0 || index >= len(d.Pages) {
		return ""
	}
	return d.Pages[index].Text
}
