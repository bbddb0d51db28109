// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders each assembled segment as a page-range sub-PDF plus
// a plain-text file, fanning the per-segment work out across a bounded
// worker pool.
package export

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/budget-engine/pkg/types"
)

// reportFile is the run report written alongside the segment artifacts.
const reportFile = "report.yaml"

// Renderer produces a sub-PDF containing exactly the pages
// [startPage, endPage] of the source document, in original order. Rendering
// must not alter page content beyond range restriction.
type Renderer interface {
	RenderRange(srcPath string, startPage, endPage int, w io.Writer) error
}

// Exporter writes segment artifacts under deterministic names. The source
// document is read-only and shared across workers; each worker owns its
// output buffers exclusively until written.
type Exporter struct {
	renderer Renderer
	cfg      types.ExportConfig
	log      *slog.Logger
}

// New builds an Exporter. A nil logger falls back to slog.Default.
func New(renderer Renderer, cfg types.ExportConfig, log *slog.Logger) *Exporter {
	if log == nil {
		log = slog.Default()
	}
	return &Exporter{renderer: renderer, cfg: cfg.WithDefaults(), log: log}
}

// Run exports every segment and returns the run report, printing per-segment
// status lines to w in segment order. A failure exporting one segment marks
// that result failed and does not abort siblings; the returned error is
// non-nil only for fatal conditions detected before fan-out (naming
// collisions, unwritable output directory).
func (e *Exporter) Run(doc *types.Document, segments []types.Segment, w io.Writer) (*types.RunReport, error) {
	if err := checkLabels(segments); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(e.cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", e.cfg.OutputDir, err)
	}

	report := &types.RunReport{
		Source:    doc.Path,
		OutputDir: e.cfg.OutputDir,
		Pages:     doc.PageCount(),
		Workers:   e.cfg.Workers,
		StartedAt: time.Now().UTC(),
		Results:   make([]types.ExportResult, len(segments)),
	}

	// Scatter/gather: each segment's result lands in its own index-keyed
	// slot, so the report never depends on completion order or worker count.
	jobs := make(chan int)
	var wg sync.WaitGroup
	for range e.cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				report.Results[idx] = e.exportSegment(doc, segments[idx])
			}
		}()
	}
	for idx := range segments {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	report.FinishedAt = time.Now().UTC()

	for _, res := range report.Results {
		if res.Status == types.ExportOK {
			fmt.Fprintf(w, "exported: %s (pages %d-%d)\n",
				res.Segment.Label, res.Segment.StartPage+1, res.Segment.EndPage+1)
		} else {
			fmt.Fprintf(w, "failed:  %s (%s)\n", res.Segment.Label, res.Error)
		}
	}
	fmt.Fprintf(w, "\nRun summary: %d exported, %d failed (total: %d)\n",
		report.Exported(), report.Failed(), len(report.Results))

	if err := e.writeReport(report); err != nil {
		return report, err
	}
	return report, nil
}

// exportSegment renders the sub-PDF and writes the text artifact for one
// segment. Failures are captured in the result, never propagated across the
// worker boundary.
func (e *Exporter) exportSegment(doc *types.Document, seg types.Segment) types.ExportResult {
	res := types.ExportResult{Segment: seg, Status: types.ExportOK}

	pdfPath := filepath.Join(e.cfg.OutputDir, seg.Label+".pdf")
	textPath := filepath.Join(e.cfg.OutputDir, seg.Label+".txt")

	var buf bytes.Buffer
	if err := e.renderer.RenderRange(doc.Path, seg.StartPage, seg.EndPage, &buf); err != nil {
		return e.failed(seg, fmt.Errorf("rendering pages %d-%d: %w", seg.StartPage+1, seg.EndPage+1, err))
	}
	if err := writeAtomic(pdfPath, buf.Bytes()); err != nil {
		return e.failed(seg, err)
	}

	if err := writeAtomic(textPath, []byte(e.segmentText(doc, seg))); err != nil {
		// The PDF half landed; remove it so a failed segment leaves no
		// partial artifact pair behind.
		os.Remove(pdfPath)
		return e.failed(seg, err)
	}

	res.PDFPath = pdfPath
	res.TextPath = textPath
	e.log.Debug("segment exported", "label", seg.Label, "pages", seg.PageCount())
	return res
}

func (e *Exporter) failed(seg types.Segment, err error) types.ExportResult {
	exportErr := &types.SegmentExportError{Label: seg.Label, Err: err}
	e.log.Error("segment export failed", "label", seg.Label, "error", err)
	return types.ExportResult{Segment: seg, Status: types.ExportFailed, Error: exportErr.Error()}
}

// segmentText concatenates the segment's page texts with the page separator,
// preserving reading order verbatim. This text is the sole raw material for
// the downstream JSON authoring step, so no markup is added.
func (e *Exporter) segmentText(doc *types.Document, seg types.Segment) string {
	texts := make([]string, 0, seg.PageCount())
	for p := seg.StartPage; p <= seg.EndPage; p++ {
		texts = append(texts, doc.PageText(p))
	}
	return strings.Join(texts, e.cfg.PageSeparator)
}

// checkLabels verifies the segment labels are injective before any worker
// starts; a collision would silently overwrite an artifact.
func checkLabels(segments []types.Segment) error {
	seen := make(map[string]struct{}, len(segments))
	for _, s := range segments {
		if _, dup := seen[s.Label]; dup {
			return &types.NamingCollisionError{Label: s.Label}
		}
		seen[s.Label] = struct{}{}
	}
	return nil
}

func (e *Exporter) writeReport(report *types.RunReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling run report: %w", err)
	}
	return writeAtomic(filepath.Join(e.cfg.OutputDir, reportFile), data)
}

// writeAtomic writes data to path via a temp file and rename, so a crashed
// run never leaves a truncated artifact under a final name.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".export-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file for %s: %w", path, closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file to %s: %w", path, err)
	}
	return nil
}
