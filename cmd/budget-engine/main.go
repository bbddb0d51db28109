// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the budget-engine CLI, the
// segmentation/export engine of the municipal budget digitization pipeline.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the budget-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "budget-engine",
	Short: "Split municipal budget PDFs into per-section sub-documents",
	Long: `budget-engine locates top-level section (款) boundaries in a budget book
PDF, partitions the document into ordered page ranges (overview, revenue
sections, expenditure sections, appendix), and exports each range as a
sub-PDF plus a plain-text file under deterministic names.

The plain-text artifacts are the raw material for the downstream JSON
authoring step; PDF repair and OCR belong upstream.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./budget-engine.yaml or ~/.config/budget-engine/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("budget-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "budget-engine"))
		}
	}

	viper.SetEnvPrefix("BUDGET_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the CLI's structured logger. Stage packages log
// machine-relevant events (low-confidence heading candidates, per-segment
// export failures) through it; progress lines go to stdout separately.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose, _ := rootCmd.PersistentFlags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
