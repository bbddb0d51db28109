package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/budget-engine/internal/assemble"
	"github.com/pdiddy/budget-engine/internal/detect"
	"github.com/pdiddy/budget-engine/internal/pdftext"
)

var detectCmd = &cobra.Command{
	Use:   "detect <input.pdf>",
	Short: "Preview section boundaries without writing anything",
	Long: `Detect runs boundary detection and assembly only, printing the planned
segment table. Use it to inspect where the split positions fall before
running a full export, and to diagnose a drifting boundary by checking the
page text manually.`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)
}

func runDetect(cmd *cobra.Command, args []string) error {
	input := args[0]
	log := newLogger()

	doc, err := pdftext.Extract(input)
	if err != nil {
		return err
	}

	detectCfg := detectConfigFromViper()
	markers, err := detect.Detect(doc, detect.NewKanRule(detectCfg), detectCfg.ResetThreshold, log)
	if err != nil {
		return err
	}

	segments, err := assemble.Assemble(doc.PageCount(), markers, -1)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "%s: %d pages, %d sections, %d segments\n\n",
		input, doc.PageCount(), len(markers), len(segments))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tCATEGORY\tPAGES\tCOUNT")
	for _, s := range segments {
		fmt.Fprintf(w, "%s\t%s\t%d-%d\t%d\n",
			s.Label, s.Category, s.StartPage+1, s.EndPage+1, s.PageCount())
	}
	return w.Flush()
}
