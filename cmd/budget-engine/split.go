// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/budget-engine/internal/assemble"
	"github.com/pdiddy/budget-engine/internal/catalog"
	"github.com/pdiddy/budget-engine/internal/detect"
	"github.com/pdiddy/budget-engine/internal/export"
	"github.com/pdiddy/budget-engine/internal/pdftext"
	"github.com/pdiddy/budget-engine/pkg/types"
)

var splitCmd = &cobra.Command{
	Use:   "split <input.pdf>",
	Short: "Split a budget PDF into per-section sub-documents",
	Long: `Split runs the full segmentation pipeline: extract page text, detect
section boundaries, assemble the page-range partition, and export every
segment as a sub-PDF plus a text file under deterministic names.

Boundary detection errors are fatal and mean the document (or the detection
rule) needs manual inspection. A failure exporting one segment does not stop
the others; the run then exits non-zero with a per-segment failure summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().String("out", "", "output directory (default: <input dir>/sections)")
	splitCmd.Flags().IntP("workers", "w", 0, "export worker pool size (default 4)")
	splitCmd.Flags().Bool("no-catalog", false, "skip recording the run in the catalog")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	input := args[0]
	log := newLogger()

	outDir, _ := cmd.Flags().GetString("out")
	if outDir == "" {
		outDir = viper.GetString("export.output_dir")
	}
	if outDir == "" {
		outDir = filepath.Join(filepath.Dir(input), "sections")
	}
	workers, _ := cmd.Flags().GetInt("workers")
	noCatalog, _ := cmd.Flags().GetBool("no-catalog")

	detectCfg := detectConfigFromViper()
	exportCfg := exportConfigFromViper(outDir, workers)

	fmt.Fprintf(os.Stdout, "Splitting %s\n", input)

	doc, err := pdftext.Extract(input)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Extracted text from %d pages\n", doc.PageCount())

	markers, err := detect.Detect(doc, detect.NewKanRule(detectCfg), detectCfg.ResetThreshold, log)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Detected %d section boundaries\n", len(markers))

	segments, err := assemble.Assemble(doc.PageCount(), markers, -1)
	if err != nil {
		return err
	}
	if err := assemble.Validate(segments, doc.PageCount()); err != nil {
		return err
	}

	exporter := export.New(export.NewTrimRenderer(), exportCfg, log)
	report, err := exporter.Run(doc, segments, os.Stdout)
	if err != nil {
		return err
	}

	if !noCatalog && !viper.GetBool("catalog.disabled") {
		if err := recordRun(report); err != nil {
			// Catalog trouble must not mask a successful export.
			log.Warn("recording run in catalog failed", "error", err)
		}
	}

	if report.HasFailures() {
		return fmt.Errorf("%d segment(s) failed export", report.Failed())
	}
	return nil
}

func detectConfigFromViper() types.DetectConfig {
	return types.DetectConfig{
		RevenueKeyword:     viper.GetString("detect.revenue_keyword"),
		ExpenditureKeyword: viper.GetString("detect.expenditure_keyword"),
		ResetThreshold:     viper.GetInt("detect.reset_threshold"),
	}.WithDefaults()
}

// exportConfigFromViper builds the export config, letting a non-zero workers
// flag override the config file.
func exportConfigFromViper(outDir string, workers int) types.ExportConfig {
	if workers == 0 {
		workers = viper.GetInt("export.workers")
	}
	return types.ExportConfig{
		OutputDir:     outDir,
		Workers:       workers,
		PageSeparator: viper.GetString("export.page_separator"),
	}.WithDefaults()
}

func recordRun(report *types.RunReport) error {
	store, err := catalog.NewStore(types.CatalogConfig{StateDir: viper.GetString("catalog.state_dir")})
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Record(context.Background(), report)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Recorded as run %d\n", id)
	return nil
}
