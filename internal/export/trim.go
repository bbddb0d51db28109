// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// TrimRenderer renders page ranges with pdfcpu's trim operation, which keeps
// the selected pages byte-for-byte and drops the rest.
type TrimRenderer struct {
	conf *model.Configuration
}

// NewTrimRenderer builds a renderer with pdfcpu's default configuration.
// Validation is relaxed: budget books straight out of scanners and print
// shops are rarely strictly conformant.
func NewTrimRenderer() *TrimRenderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &TrimRenderer{conf: conf}
}

// RenderRange writes a sub-PDF containing pages [startPage, endPage]
// (zero-based, inclusive) of the PDF at srcPath. Each call opens its own
// reader, so concurrent calls on the same source never share a seek offset.
func (r *TrimRenderer) RenderRange(srcPath string, startPage, endPage int, w io.Writer) error {
	if startPage < 0 || endPage < startPage {
		return fmt.Errorf("invalid page range [%d, %d]", startPage, endPage)
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("opening %s: %w", srcPath, err)
	}
	defer f.Close()

	selection := []string{fmt.Sprintf("%d-%d", startPage+1, endPage+1)}
	if err := api.Trim(f, w, selection, r.conf); err != nil {
		return fmt.Errorf("trimming %s to pages %s: %w", srcPath, selection[0], err)
	}
	return nil
}
