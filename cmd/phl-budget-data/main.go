// Command phl-budget-data parses City of Philadelphia financial report
// cell dumps into tidy per-family datasets, checks the City's publication
// pages for new reports, and exports the published datasets.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/phl-budget-data/pkg/config"
)

var (
	cfg     *config.Config
	logger  *slog.Logger
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:          "phl-budget-data",
	Short:        "City of Philadelphia budget and revenue data pipeline",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
