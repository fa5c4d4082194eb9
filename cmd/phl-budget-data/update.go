package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
	"github.com/FACorreiaa/phl-budget-data/internal/sentinel"
	"github.com/FACorreiaa/phl-budget-data/pkg/cron"
	"github.com/FACorreiaa/phl-budget-data/pkg/storage"
)

var updateFlags struct {
	family string
	watch  string
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Check the City's publication pages for new reports",
	Long: `Update looks for the report following the newest raw PDF already on
disk and downloads it when the City has published it. With --watch, the
check repeats on a cron schedule until interrupted. Downloaded PDFs still
need cell extraction before they can be parsed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		families := []report.Family{
			report.FamilyCityTax, report.FamilySchool, report.FamilyWageSector,
		}
		if updateFlags.family != "" {
			f, err := report.ParseFamily(updateFlags.family)
			if err != nil {
				return err
			}
			families = []report.Family{f}
		}

		store, err := storage.NewLocalStore(cfg.Data.RawDir)
		if err != nil {
			return err
		}
		client := &http.Client{Timeout: time.Duration(cfg.Sentinel.TimeoutSeconds) * time.Second}
		checker := sentinel.New(client, cfg.Sentinel.BaseURL, cfg.Sentinel.UserAgent, logger)

		if updateFlags.watch == "" {
			return checkFamilies(cmd.Context(), checker, store, families)
		}

		sched := cron.NewScheduler(logger)
		err = sched.AddJob(updateFlags.watch, "report-update-check", func() {
			if err := checkFamilies(context.Background(), checker, store, families); err != nil {
				logger.Error("update check failed", slog.Any("error", err))
			}
		})
		if err != nil {
			return err
		}
		sched.Start()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		<-sched.Stop().Done()
		return nil
	},
}

// checkFamilies runs one sentinel pass over the given families.
func checkFamilies(ctx context.Context, checker *sentinel.Checker, store storage.Store, families []report.Family) error {
	for _, family := range families {
		year, month, err := sentinel.NextPeriod(ctx, store, family, time.Now())
		if err != nil {
			return err
		}
		finding, err := checker.Check(ctx, family, year, month)
		if err != nil {
			return err
		}
		if finding == nil {
			continue
		}
		art, err := checker.Download(ctx, finding, store)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %s %d-%02d -> %s\n",
			family, finding.CalendarYear, int(finding.CalendarMonth), art.Path)
	}
	return nil
}

func init() {
	updateCmd.Flags().StringVar(&updateFlags.family, "family", "", "limit to one report family")
	updateCmd.Flags().StringVar(&updateFlags.watch, "watch", "", "cron schedule to repeat the check on (e.g. \"0 9 * * *\")")
	rootCmd.AddCommand(updateCmd)
}
