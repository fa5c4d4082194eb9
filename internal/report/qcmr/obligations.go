package qcmr

import (
	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// deptTableParser handles the departmental obligations and full-time
// positions tables: one row per General Fund department, one column per
// (fiscal year, variable, time period) as derived by deptColumns, closed
// by a TOTAL GENERAL FUND row.
//
// Departments with a line-item breakdown print the breakdown indented
// under the department row; the department row already carries the
// rolled-up figures, so indented rows are skipped.
type deptTableParser struct {
	family report.Family
	kind   report.Kind
}

// NewObligations returns the departmental obligations summary parser.
func NewObligations() report.Parser {
	return &deptTableParser{family: report.FamilyObligations, kind: report.KindSpending}
}

// NewPositions returns the full-time positions report parser. Amounts are
// filled-position counts rather than dollars.
func NewPositions() report.Parser {
	return &deptTableParser{family: report.FamilyPositions, kind: report.KindStaffing}
}

const deptTerminal = "TOTAL GENERAL FUND"

func (p *deptTableParser) Family() report.Family { return p.family }

func (p *deptTableParser) Layout() grid.Layout {
	// Column count depends on the quarter; checked per row against the
	// derived column set instead.
	return grid.Layout{Family: string(p.family)}
}

func (p *deptTableParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(p.family, period, g)
	res := &report.Result{}
	cols := deptColumns(period.FiscalYear, period.Quarter)

	baseIndent := -1
	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		if !report.IsNumericRow(row.Cells, 1, true) {
			// Page headers and footnotes.
			continue
		}

		label := row.Label()
		if report.MatchLabel(label, deptTerminal) {
			if err := s.MarkTerminal(deptTerminal); err != nil {
				return nil, err
			}
			for i, col := range cols {
				amount, err := s.Amount(row, i+1, true)
				if err != nil {
					return nil, err
				}
				res.Totals = append(res.Totals, report.TotalLine{
					Scope: report.ScopeDimension, Key: col.Dimension(),
					Label: label, Amount: amount,
				})
			}
			continue
		}
		if s.TerminalSeen() {
			continue
		}

		if baseIndent < 0 {
			baseIndent = row.Indent
		}
		if row.Indent > baseIndent {
			// Line-item breakdown under the department row.
			continue
		}

		for i, col := range cols {
			amount, err := s.Amount(row, i+1, true)
			if err != nil {
				return nil, err
			}
			// The column's fiscal year lives in the dimension; the
			// record's fiscal fields date the report itself, so they
			// always agree with the calendar date.
			res.Records = append(res.Records, report.LineRecord{
				Category:      label,
				Dimension:     col.Dimension(),
				Amount:        amount,
				CalendarYear:  period.CalendarYear,
				CalendarMonth: int(period.CalendarMonth),
				FiscalYear:    period.FiscalYear,
				FiscalMonth:   period.FiscalMonth(),
				FiscalQuarter: period.Quarter,
				Kind:          p.kind,
			})
		}
	}

	if !s.TerminalSeen() {
		return nil, &report.HeaderNotFoundError{
			Family:  p.family,
			Period:  period.Label(),
			Anchors: []string{deptTerminal},
			Window:  len(g.Rows()),
		}
	}
	return res, nil
}
