// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the segmentation pipeline. The first three classes are
// fatal and abort the run before any export fan-out; SegmentExportError is
// recovered per segment and reported in aggregate.
var (
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrBoundaryOrdering   = errors.New("boundary ordering violation")
	ErrNamingCollision    = errors.New("naming collision")
	ErrSegmentExport      = errors.New("segment export failed")
)

// UnreadableDocumentError indicates the source PDF could not be opened or has
// no extractable text layer. The fix lives upstream (repair or OCR), not here.
type UnreadableDocumentError struct {
	Path   string
	Reason string
}

func (e *UnreadableDocumentError) Error() string {
	return fmt.Sprintf("unreadable document %s: %s", e.Path, e.Reason)
}

func (e *UnreadableDocumentError) Is(target error) bool {
	return target == ErrUnreadableDocument
}

// BoundaryOrderingError indicates the detected markers violate monotonicity
// or uniqueness. Segmentation as a whole is untrustworthy at that point, so
// this is never retried; the document and detection rule need inspection.
type BoundaryOrderingError struct {
	Category MarkerCategory
	Number   int
	Page     int
	Reason   string
}

func (e *BoundaryOrderingError) Error() string {
	return fmt.Sprintf("boundary ordering: %s section %d at page %d: %s",
		e.Category, e.Number, e.Page+1, e.Reason)
}

func (e *BoundaryOrderingError) Is(target error) bool {
	return target == ErrBoundaryOrdering
}

// NamingCollisionError indicates two segments resolve to the same output
// base name, which would silently overwrite an artifact.
type NamingCollisionError struct {
	Label string
}

func (e *NamingCollisionError) Error() string {
	return fmt.Sprintf("naming collision: two segments share label %q", e.Label)
}

func (e *NamingCollisionError) Is(target error) bool {
	return target == ErrNamingCollision
}

// SegmentExportError wraps a failure rendering or writing a single segment.
// Sibling exports continue; the run reports the failure in its summary.
type SegmentExportError struct {
	Label string
	Err   error
}

func (e *SegmentExportError) Error() string {
	return fmt.Sprintf("exporting segment %s: %v", e.Label, e.Err)
}

func (e *SegmentExportError) Unwrap() error {
	return e.Err
}

func (e *SegmentExportError) Is(target error) bool {
	return target == ErrSegmentExport
}
