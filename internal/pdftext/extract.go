// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftext extracts per-page plain text from budget PDFs.
//
// Extraction is two-tier: the primary pass uses ledongthuc/pdf, which handles
// well-formed text layers; pages it cannot read fall back to decoding the raw
// pdfcpu content stream. A document where neither tier produces any text has
// no text layer at all and is rejected as unreadable — OCR and structural
// repair belong upstream.
package pdftext

import (
	"strings"

	pdflib "github.com/ledongthuc/pdf"

	"github.com/pdiddy/budget-engine/pkg/types"
)

// Extract reads the PDF at path and returns one Page per source page, in
// order. It returns an UnreadableDocumentError if the file cannot be opened
// or no page yields any extractable text.
func Extract(path string) (*types.Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, &types.UnreadableDocumentError{Path: path, Reason: err.Error()}
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, &types.UnreadableDocumentError{Path: path, Reason: "document has no pages"}
	}

	doc := &types.Document{Path: path, Pages: make([]types.Page, numPages)}
	sawText := false

	// Lazily opened pdfcpu context for the fallback tier. Opening it costs a
	// full cross-reference parse, so skip it when the primary tier suffices.
	var fallback *streamExtractor

	for i := 1; i <= numPages; i++ {
		text := primaryPageText(reader, i)
		if strings.TrimSpace(text) == "" {
			if fallback == nil {
				fallback = openStreamExtractor(path)
			}
			text = fallback.pageText(i)
		}
		doc.Pages[i-1] = types.Page{Index: i - 1, Text: text}
		if strings.TrimSpace(text) != "" {
			sawText = true
		}
	}

	if !sawText {
		return nil, &types.UnreadableDocumentError{
			Path:   path,
			Reason: "no extractable text on any page (scanned or image-only PDF)",
		}
	}
	return doc, nil
}

// primaryPageText extracts one page via ledongthuc/pdf. Pages the library
// cannot decode return the empty string and are handled by the fallback tier.
func primaryPageText(reader *pdflib.Reader, pageNr int) string {
	page := reader.Page(pageNr)
	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}
