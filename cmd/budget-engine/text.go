package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/budget-engine/internal/pdftext"
	"github.com/pdiddy/budget-engine/pkg/types"
)

var textCmd = &cobra.Command{
	Use:   "text <input.pdf>",
	Short: "Extract page text from a PDF",
	Long: `Text extracts the plain text of every page, joined with form-feed page
separators, and prints it to stdout or writes it with --out. Useful for
inspecting what the boundary detector actually sees on each page.`,
	Args: cobra.ExactArgs(1),
	RunE: runText,
}

func init() {
	textCmd.Flags().String("out", "", "write text to this file instead of stdout")

	rootCmd.AddCommand(textCmd)
}

func runText(cmd *cobra.Command, args []string) error {
	doc, err := pdftext.Extract(args[0])
	if err != nil {
		return err
	}

	texts := make([]string, len(doc.Pages))
	for i, page := range doc.Pages {
		texts[i] = page.Text
	}
	content := strings.Join(texts, types.DefaultPageSeparator)

	outPath, _ := cmd.Flags().GetString("out")
	if outPath == "" {
		fmt.Fprintln(os.Stdout, content)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d pages to %s\n", doc.PageCount(), outPath)
	return nil
}
