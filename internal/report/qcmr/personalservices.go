package qcmr

import (
	"fmt"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// The personal services summary prints each department as a block of four
// rows: the department name, then one row each for filled full-time
// positions, class 100 payroll, and class 100 overtime. The metric rows
// are positional within the block; their own labels vary by vintage.
var psMetrics = []string{
	"full-time-positions",
	"class-100-total",
	"class-100-overtime",
}

type personalServicesParser struct{}

// NewPersonalServices returns the personal services summary parser.
func NewPersonalServices() report.Parser { return &personalServicesParser{} }

func (p *personalServicesParser) Family() report.Family {
	return report.FamilyPersonalServices
}

func (p *personalServicesParser) Layout() grid.Layout {
	return grid.Layout{Family: string(report.FamilyPersonalServices)}
}

func (p *personalServicesParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(report.FamilyPersonalServices, period, g)
	res := &report.Result{}
	cols := personalServicesColumns(period.FiscalYear, period.Quarter)

	dept := ""
	metric := 0
	for {
		row, ok := s.Next()
		if !ok {
			break
		}

		if !report.IsNumericRow(row.Cells, 1, true) {
			label := row.Label()
			if label == "" {
				continue
			}
			dept = label
			metric = 0
			if report.MatchLabel(label, deptTerminal) {
				if err := s.MarkTerminal(deptTerminal); err != nil {
					return nil, err
				}
			}
			continue
		}

		if dept == "" {
			continue
		}
		if metric >= len(psMetrics) {
			return nil, fmt.Errorf("%s %s: department %q has more than %d metric rows",
				report.FamilyPersonalServices, period.Label(), dept, len(psMetrics))
		}

		dims := psMetrics[metric]
		isTotal := report.MatchLabel(dept, deptTerminal)
		for i, col := range cols {
			amount, err := s.Amount(row, i+1, true)
			if err != nil {
				return nil, err
			}
			dimension := dims + "-" + col.Dimension()
			if isTotal {
				res.Totals = append(res.Totals, report.TotalLine{
					Scope: report.ScopeDimension, Key: dimension,
					Label: dept, Amount: amount,
				})
				continue
			}
			res.Records = append(res.Records, report.LineRecord{
				Category:      dept,
				Dimension:     dimension,
				Amount:        amount,
				CalendarYear:  period.CalendarYear,
				CalendarMonth: int(period.CalendarMonth),
				FiscalYear:    period.FiscalYear,
				FiscalMonth:   period.FiscalMonth(),
				FiscalQuarter: period.Quarter,
				Kind:          report.KindStaffing,
			})
		}
		metric++
	}

	if !s.TerminalSeen() {
		return nil, &report.HeaderNotFoundError{
			Family:  report.FamilyPersonalServices,
			Period:  period.Label(),
			Anchors: []string{deptTerminal},
			Window:  len(g.Rows()),
		}
	}
	return res, nil
}
