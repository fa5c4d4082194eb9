package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/phl-budget-data/internal/dataset"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

var exportFlags struct {
	format string
	family string
	out    string
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export published datasets",
	Long: `Export writes the published datasets out for consumers. The csv
format prints the per-family dataset paths (datasets are stored as CSV);
the xlsx format gathers the selected families into one workbook, a sheet
per family.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := dataset.NewStore(cfg.Data.Dir)
		if err != nil {
			return err
		}

		families := report.Families()
		if exportFlags.family != "" {
			f, err := report.ParseFamily(exportFlags.family)
			if err != nil {
				return err
			}
			families = []report.Family{f}
		}

		var datasets []*dataset.Dataset
		for _, f := range families {
			ds, err := store.Load(f)
			if err != nil {
				return err
			}
			if len(ds.Records) == 0 {
				continue
			}
			ds.Family = f
			datasets = append(datasets, ds)
		}
		if len(datasets) == 0 {
			return fmt.Errorf("no published datasets under %s", cfg.Data.Dir)
		}

		switch exportFlags.format {
		case "csv":
			// Re-save through the store so published files pick up the
			// current sort order and column set.
			for _, ds := range datasets {
				if err := store.Save(ds); err != nil {
					return err
				}
				fmt.Printf("%s\t%d records\t%s\n", ds.Family, len(ds.Records), store.Path(ds.Family))
			}
			return nil
		case "xlsx":
			if err := dataset.ExportXLSX(exportFlags.out, datasets...); err != nil {
				return err
			}
			fmt.Printf("wrote %d families to %s\n", len(datasets), exportFlags.out)
			return nil
		default:
			return fmt.Errorf("unknown export format %q (csv or xlsx)", exportFlags.format)
		}
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFlags.format, "format", "csv", "export format: csv or xlsx")
	exportCmd.Flags().StringVar(&exportFlags.family, "family", "", "limit to one report family")
	exportCmd.Flags().StringVar(&exportFlags.out, "out", "phl-budget-data.xlsx", "output path for xlsx export")
	rootCmd.AddCommand(exportCmd)
}
