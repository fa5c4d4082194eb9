package qcmr

import (
	"github.com/FACorreiaa/phl-budget-data/internal/fiscal"
	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// The cash flow forecast prints four stacked sections. Revenue and
// spending carry 12 fiscal-month columns plus a printed full-year total;
// net cash flow and fund balances carry the 12 months only.
type cashSection struct {
	name string

	// anchors locate the section. anchorIsData marks sections whose
	// first data row doubles as the section heading.
	anchors      []string
	anchorIsData bool

	// stop is the section's closing row, itself a data row.
	stop string

	totalColumn bool
}

var cashSections = []cashSection{
	{
		name:        "revenue",
		anchors:     []string{"REVENUES"},
		stop:        "TOTAL CASH RECEIPTS",
		totalColumn: true,
	},
	{
		name:        "spending",
		anchors:     []string{"EXPENSES AND OBLIGATIONS"},
		stop:        "TOTAL DISBURSEMENTS",
		totalColumn: true,
	},
	{
		name:         "net-cash-flow",
		anchors:      []string{"EXCESS OF RECEIPTS"},
		anchorIsData: true,
		stop:         "CLOSING BALANCE",
	},
	{
		name:    "fund-balances",
		anchors: []string{"FUND BALANCES", "FUND EQUITY"},
		stop:    "TOTAL FUND EQUITY",
	},
}

const cashMonths = 12

// cashParser parses the General Fund cash flow forecast.
type cashParser struct{}

// NewCash returns the cash flow forecast parser.
func NewCash() report.Parser { return &cashParser{} }

func (p *cashParser) Family() report.Family { return report.FamilyCashReport }

func (p *cashParser) Layout() grid.Layout {
	// Width varies by section: 12 months plus an optional printed total.
	return grid.Layout{Family: string(report.FamilyCashReport)}
}

func (p *cashParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(report.FamilyCashReport, period, g)
	res := &report.Result{}

	for _, section := range cashSections {
		first, err := s.SeekAnchor(section.anchors, 0)
		if err != nil {
			return nil, err
		}

		row, pending := first, section.anchorIsData
		for {
			if !pending {
				var ok bool
				row, ok = s.Next()
				if !ok {
					return nil, &report.HeaderNotFoundError{
						Family:  report.FamilyCashReport,
						Period:  period.Label(),
						Anchors: []string{section.stop},
						Window:  len(g.Rows()),
					}
				}
			}
			pending = false

			if !report.IsNumericRow(row.Cells, 1, true) {
				continue
			}

			if err := p.emitRow(res, s, row, section, period); err != nil {
				return nil, err
			}

			if report.MatchLabel(row.Label(), section.stop) {
				if section.name == "revenue" {
					if err := s.MarkTerminal(section.stop); err != nil {
						return nil, err
					}
				}
				break
			}
		}
	}

	// A repeated forecast page shows up as a second revenue section
	// after the fund balances.
	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		if report.MatchLabel(row.Label(), "TOTAL CASH RECEIPTS") {
			if err := s.MarkTerminal("TOTAL CASH RECEIPTS"); err != nil {
				return nil, err
			}
		}
	}

	return res, nil
}

// emitRow turns one category row into 12 fiscal-month records, plus a
// reconciliation total when the section prints a full-year column.
func (p *cashParser) emitRow(res *report.Result, s *report.Scanner, row grid.Row, section cashSection, period report.Period) error {
	label := row.Label()

	for fm := 1; fm <= cashMonths; fm++ {
		amount, err := s.Amount(row, fm, true)
		if err != nil {
			return err
		}
		cy, cm := fiscal.FromFiscal(period.FiscalYear, fm)
		res.Records = append(res.Records, report.LineRecord{
			Category:      label,
			Dimension:     section.name,
			Amount:        amount,
			CalendarYear:  cy,
			CalendarMonth: int(cm),
			FiscalYear:    period.FiscalYear,
			FiscalMonth:   fm,
			FiscalQuarter: period.Quarter,
			Kind:          report.KindCash,
		})
	}

	if section.totalColumn && len(row.Cells) > cashMonths+1 {
		total, err := s.Amount(row, cashMonths+1, true)
		if err != nil {
			return err
		}
		res.Totals = append(res.Totals, report.TotalLine{
			Scope: report.ScopeCategory, Key: label, Label: label, Amount: total,
		})
	}
	return nil
}
