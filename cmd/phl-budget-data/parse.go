package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/phl-budget-data/internal/dataset"
	"github.com/FACorreiaa/phl-budget-data/internal/ingest"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
	"github.com/FACorreiaa/phl-budget-data/internal/taxonomy"
)

var parseFlags struct {
	family         string
	year           int
	month          int
	quarter        int
	overwrite      bool
	toleranceCents int64
}

var parseCmd = &cobra.Command{
	Use:   "parse <cells-path>",
	Short: "Parse a report cell dump and merge it into the family dataset",
	Long: `Parse runs the full pipeline for one report: assemble the cell grid
from a cell dump (a single CSV or a directory of per-page CSVs), parse it
with the family's layout, reconcile the parsed lines against the report's
printed totals, normalize labels through the category taxonomy, and merge
the records into the family's published dataset.

Monthly collections reports take --year and --month (calendar date);
quarterly QCMR reports take --year (fiscal) and --quarter; the budget
summary and the tax-year BIRT sector table take --year alone.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		family, err := report.ParseFamily(parseFlags.family)
		if err != nil {
			return err
		}
		period, err := periodFor(family)
		if err != nil {
			return err
		}

		store, err := dataset.NewStore(cfg.Data.Dir)
		if err != nil {
			return err
		}
		normalizer, err := loadNormalizer()
		if err != nil {
			return err
		}

		tolerance := parseFlags.toleranceCents
		if tolerance == 0 {
			tolerance = cfg.Reconcile.ToleranceCents
		}
		svc := ingest.New(store, normalizer, logger)
		res, err := svc.Run(cmd.Context(), family, period, args[0], ingest.Options{
			Overwrite:      parseFlags.overwrite,
			ToleranceCents: tolerance,
		})
		if err != nil {
			return err
		}

		fmt.Printf("parsed %s %s: %d records, %d totals reconciled -> %s\n",
			res.Family, period.Label(), res.Records, res.Totals, res.DatasetPath)
		return nil
	},
}

// periodFor builds the report period from the parse flags, enforcing the
// flag shape each family's reports are dated by.
func periodFor(family report.Family) (report.Period, error) {
	if parseFlags.year == 0 {
		return report.Period{}, fmt.Errorf("--year is required")
	}
	switch family {
	case report.FamilyCashReport, report.FamilyObligations,
		report.FamilyPositions, report.FamilyPersonalServices:
		if parseFlags.quarter == 0 {
			return report.Period{}, fmt.Errorf("family %s is quarterly; --quarter is required", family)
		}
		return report.Quarterly(parseFlags.year, parseFlags.quarter)
	case report.FamilyBudgetSummary:
		// Dated by fiscal year alone; pin the calendar fields to the
		// fiscal year's closing month.
		return report.Period{
			CalendarYear:  parseFlags.year,
			CalendarMonth: time.June,
			FiscalYear:    parseFlags.year,
		}, nil
	case report.FamilyBirtSector:
		// Dated by tax year alone; pin the calendar fields to the tax
		// year's closing month.
		return report.Monthly(parseFlags.year, time.December), nil
	default:
		if parseFlags.month < 1 || parseFlags.month > 12 {
			return report.Period{}, fmt.Errorf("family %s is monthly; --month (1-12) is required", family)
		}
		return report.Monthly(parseFlags.year, time.Month(parseFlags.month)), nil
	}
}

// loadNormalizer builds the taxonomy from the configured alias table, or
// the embedded one when no path is configured.
func loadNormalizer() (*taxonomy.Normalizer, error) {
	if cfg.Taxonomy.AliasPath == "" {
		return taxonomy.Default(), nil
	}
	return taxonomy.LoadFile(cfg.Taxonomy.AliasPath)
}

func init() {
	parseCmd.Flags().StringVar(&parseFlags.family, "family", "", "report family (required)")
	parseCmd.Flags().IntVar(&parseFlags.year, "year", 0, "calendar year for monthly reports, fiscal year otherwise")
	parseCmd.Flags().IntVar(&parseFlags.month, "month", 0, "calendar month for monthly reports")
	parseCmd.Flags().IntVar(&parseFlags.quarter, "quarter", 0, "fiscal quarter for QCMR reports")
	parseCmd.Flags().BoolVar(&parseFlags.overwrite, "force-overwrite", false, "replace already-published records for the report's period")
	parseCmd.Flags().Int64Var(&parseFlags.toleranceCents, "tolerance-cents", 0, "override the family's reconciliation tolerance")
	_ = parseCmd.MarkFlagRequired("family")
	rootCmd.AddCommand(parseCmd)
}
