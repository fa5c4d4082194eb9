// Package ingest runs the per-report pipeline: assemble the cell grid,
// parse it with the family's state machine, reconcile the parsed lines
// against the report's printed totals, normalize categories through the
// taxonomy, and merge the result into the family's published dataset.
// Every step is fail-fast; nothing reaches the dataset unless the whole
// report survived.
package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/FACorreiaa/phl-budget-data/internal/dataset"
	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/reconcile"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
	"github.com/FACorreiaa/phl-budget-data/internal/report/budget"
	"github.com/FACorreiaa/phl-budget-data/internal/report/collections"
	"github.com/FACorreiaa/phl-budget-data/internal/report/qcmr"
	"github.com/FACorreiaa/phl-budget-data/internal/taxonomy"
)

// parsers maps each report family to its parser constructor.
var parsers = map[report.Family]func() report.Parser{
	report.FamilyCityTax:          collections.NewCityTax,
	report.FamilyCityNonTax:       collections.NewCityNonTax,
	report.FamilyCityOtherGovts:   collections.NewCityOtherGovts,
	report.FamilySchool:           collections.NewSchool,
	report.FamilyWageSector:       collections.NewWageSector,
	report.FamilySalesSector:      collections.NewSalesSector,
	report.FamilyRTTSector:        collections.NewRTTSector,
	report.FamilyBirtSector:       collections.NewBirtSector,
	report.FamilyCashReport:       qcmr.NewCash,
	report.FamilyObligations:      qcmr.NewObligations,
	report.FamilyPositions:        qcmr.NewPositions,
	report.FamilyPersonalServices: qcmr.NewPersonalServices,
	report.FamilyBudgetSummary:    budget.NewSummary,
}

// ParserFor returns the parser for a family.
func ParserFor(f report.Family) (report.Parser, error) {
	ctor, ok := parsers[f]
	if !ok {
		return nil, fmt.Errorf("no parser registered for family %q", f)
	}
	return ctor(), nil
}

// familyTolerances widens the reconciliation tolerance for reports whose
// amounts are printed in thousands, where the source's own rounding drifts
// further than the default.
var familyTolerances = map[report.Family]int64{
	report.FamilyCashReport:       50_000,
	report.FamilyObligations:      300_000,
	report.FamilyPositions:        300_000,
	report.FamilyPersonalServices: 300_000,
}

// Options tune one pipeline run.
type Options struct {
	// Overwrite selects overwrite-period merge mode, replacing any
	// already-published records for the report's periods.
	Overwrite bool

	// ToleranceCents overrides the family's reconciliation tolerance.
	ToleranceCents int64
}

// Result summarizes one completed run.
type Result struct {
	RunID       string
	Family      report.Family
	Records     int
	Totals      int
	DatasetPath string
}

// Service wires the pipeline's collaborators together.
type Service struct {
	store      *dataset.Store
	normalizer *taxonomy.Normalizer
	log        *slog.Logger
}

// New builds an ingest service. A nil normalizer selects the embedded
// alias table; a nil logger selects the default slog logger.
func New(store *dataset.Store, normalizer *taxonomy.Normalizer, log *slog.Logger) *Service {
	if normalizer == nil {
		normalizer = taxonomy.Default()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, normalizer: normalizer, log: log}
}

// Run executes the full pipeline for one report. cellsPath is a cell dump
// file or a directory of per-page dumps from the extraction collaborator.
func (s *Service) Run(ctx context.Context, family report.Family, period report.Period, cellsPath string, opts Options) (*Result, error) {
	runID := uuid.NewString()
	log := s.log.With(
		slog.String("run_id", runID),
		slog.String("family", string(family)),
		slog.String("period", period.Label()),
	)

	parser, err := ParserFor(family)
	if err != nil {
		return nil, err
	}

	cells, err := grid.LoadCells(cellsPath)
	if err != nil {
		return nil, fmt.Errorf("loading cells: %w", err)
	}
	g, err := grid.Build(cells, nil, parser.Layout())
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "grid assembled", slog.Int("rows", len(g.Rows())))

	parsed, err := parser.Parse(g, period)
	if err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "report parsed",
		slog.Int("records", len(parsed.Records)),
		slog.Int("totals", len(parsed.Totals)))

	// Reconcile against the printed totals while the labels are still
	// raw, since total rows reference the labels as printed.
	tolerance := opts.ToleranceCents
	if tolerance <= 0 {
		tolerance = familyTolerances[family]
	}
	if err := reconcile.Validate(parsed.Records, parsed.Totals, tolerance); err != nil {
		return nil, err
	}

	records, err := s.normalize(parsed.Records, runID)
	if err != nil {
		return nil, err
	}

	ds, err := s.store.Load(family)
	if err != nil {
		return nil, err
	}
	ds.Family = family
	if err := ds.Merge(records, opts.Overwrite); err != nil {
		return nil, err
	}
	if err := s.store.Save(ds); err != nil {
		return nil, err
	}
	log.InfoContext(ctx, "dataset published",
		slog.Int("dataset_records", len(ds.Records)),
		slog.String("path", s.store.Path(family)))

	return &Result{
		RunID:       runID,
		Family:      family,
		Records:     len(records),
		Totals:      len(parsed.Totals),
		DatasetPath: s.store.Path(family),
	}, nil
}

// normalize rewrites raw report labels to canonical category keys and
// stamps the run's source report ID.
func (s *Service) normalize(records []report.LineRecord, runID string) ([]report.LineRecord, error) {
	out := make([]report.LineRecord, len(records))
	for i, r := range records {
		category, err := s.normalizer.Normalize(r.Kind, r.Category, r.CalendarYear)
		if err != nil {
			return nil, err
		}
		parent := ""
		if r.ParentCategory != "" {
			parent, err = s.normalizer.Normalize(r.Kind, r.ParentCategory, r.CalendarYear)
			if err != nil {
				return nil, err
			}
		}
		r.Category = category
		r.ParentCategory = parent
		r.SourceReportID = runID
		out[i] = r
	}
	return out, nil
}
