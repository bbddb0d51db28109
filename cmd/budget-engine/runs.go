// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/budget-engine/internal/catalog"
	"github.com/pdiddy/budget-engine/pkg/types"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect the catalog of past segmentation runs",
	Long: `Runs lists recorded segmentation runs and shows per-segment outcomes of
a specific run. Re-running split on an unchanged input should reproduce a
previous run's segment table exactly; the catalog makes that checkable.`,
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded runs, most recent first",
	RunE:  runRunsList,
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one run's per-segment outcomes",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

func init() {
	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func openCatalog() (*catalog.Store, error) {
	return catalog.NewStore(types.CatalogConfig{StateDir: viper.GetString("catalog.state_dir")})
}

func runRunsList(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No recorded runs.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tPAGES\tSEGMENTS\tFAILED\tSTATUS\tSTARTED")
	for _, r := range runs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, r.Source, r.Pages, r.Segments, r.Failed, r.Status,
			r.StartedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid run id %q", args[0])
	}

	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	run, segments, err := store.Show(context.Background(), id)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Run %d: %s → %s\n", run.ID, run.Source, run.OutputDir)
	fmt.Fprintf(os.Stdout, "Pages: %d  Workers: %d  Status: %s  Duration: %s\n\n",
		run.Pages, run.Workers, run.Status, run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LABEL\tCATEGORY\tPAGES\tSTATUS\tERROR")
	for _, s := range segments {
		fmt.Fprintf(w, "%s\t%s\t%d-%d\t%s\t%s\n",
			s.Label, s.Category, s.StartPage+1, s.EndPage+1, s.Status, s.Error)
	}
	return w.Flush()
}
