// Package collections parses the City's monthly revenue collections
// reports: the comparative statement sections for city tax, city non-tax,
// other-government and school district revenue, and the wage, sales and
// realty-transfer collections broken out by sector.
//
// The monthly comparative statement prints each revenue source either as a
// group of Current / Prior / Total tax-year rows under a label row, or as
// a single standalone row. Both shapes are handled by one label-driven
// state machine; row positions are never hardcoded, so a vintage that adds
// or drops a source parses without a code change as long as the labels
// keep their meaning.
package collections

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// monthlyColumns is the comparative statement shape: label, report-month
// amount for the current and prior fiscal year, fiscal year-to-date for
// both years, net change, budget requirement, percent of budget.
const monthlyColumns = 8

// monthAmountCol is the current fiscal year's report-month column, the one
// published as the monthly series.
const monthAmountCol = 1

// Tax-year dimensions of a grouped revenue source.
const (
	dimCurrent = "current"
	dimPrior   = "prior"
	dimTotal   = "total"
)

// dimensionOf classifies a row label inside a revenue-source group.
func dimensionOf(label string) string {
	l := strings.ToUpper(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "CURRENT"):
		return dimCurrent
	case strings.HasPrefix(l, "PRIOR"):
		return dimPrior
	case strings.HasPrefix(l, "TOTAL"):
		return dimTotal
	default:
		return ""
	}
}

// monthlySpec declares one comparative-statement section.
type monthlySpec struct {
	family report.Family

	// anchors locate the section start. When anchorIsData is set the
	// matched row is the first data row; otherwise it is the previous
	// section's closing row and data starts after it.
	anchors      []string
	anchorIsData bool

	// grouped selects the Current/Prior/Total state machine; flat
	// sections emit one record per row.
	grouped bool

	// terminal closes the section and carries the section grand total.
	terminal string

	// skip lists intermediate subtotal labels that are neither records
	// nor reconciled totals (they restate sums the source prints twice).
	skip []string
}

// anchorWindow bounds the header scan. Comparative statements put the
// first data row within the first few dozen extracted rows.
const anchorWindow = 60

type monthlyParser struct {
	spec monthlySpec
}

func (p *monthlyParser) Family() report.Family { return p.spec.family }

func (p *monthlyParser) Layout() grid.Layout {
	return grid.Layout{Family: string(p.spec.family), Columns: monthlyColumns}
}

func (p *monthlyParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(p.spec.family, period, g)

	first, err := s.SeekAnchor(p.spec.anchors, anchorWindow)
	if err != nil {
		return nil, err
	}

	res := &report.Result{}
	group := ""

	emit := func(category, dimension string, amount decimal.Decimal) {
		res.Records = append(res.Records, report.LineRecord{
			Category:      category,
			Dimension:     dimension,
			Amount:        amount,
			CalendarYear:  period.CalendarYear,
			CalendarMonth: int(period.CalendarMonth),
			FiscalYear:    period.FiscalYear,
			FiscalMonth:   period.FiscalMonth(),
			Kind:          p.spec.family.Kind(),
		})
	}

	handle := func(row grid.Row) (done bool, err error) {
		label := row.Label()

		if report.MatchLabel(label, p.spec.terminal) {
			amount, err := s.Amount(row, monthAmountCol, false)
			if err != nil {
				return false, err
			}
			if err := s.MarkTerminal(p.spec.terminal); err != nil {
				return false, err
			}
			scope := report.ScopeAll
			key := ""
			if p.spec.grouped {
				// Grouped sections reconcile against the per-source
				// Total rows, one per revenue source.
				scope = report.ScopeDimension
				key = dimTotal
			}
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: scope, Key: key, Label: label, Amount: amount,
			})
			return true, nil
		}

		if report.MatchAny(label, p.spec.skip) {
			group = ""
			return false, nil
		}

		if p.spec.grouped {
			if !report.IsNumericRow(row.Cells, 1, false) {
				group = label
				return false, nil
			}
			if dim := dimensionOf(label); dim != "" && group != "" {
				amount, err := s.Amount(row, monthAmountCol, false)
				if err != nil {
					return false, err
				}
				emit(group, dim, amount)
				return false, nil
			}
			group = ""
		}

		amount, err := s.Amount(row, monthAmountCol, false)
		if err != nil {
			return false, err
		}
		emit(label, dimTotal, amount)
		return false, nil
	}

	if p.spec.anchorIsData {
		if done, err := handle(first); err != nil {
			return nil, err
		} else if done {
			return res, nil
		}
	}

	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		if done, err := handle(row); err != nil {
			return nil, err
		} else if done {
			break
		}
	}

	if !s.TerminalSeen() {
		return nil, &report.HeaderNotFoundError{
			Family:  p.spec.family,
			Period:  period.Label(),
			Anchors: []string{p.spec.terminal},
			Window:  len(g.Rows()),
		}
	}

	// A second copy of the section later in the dump shows up as a
	// repeated terminal row.
	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		if report.MatchLabel(row.Label(), p.spec.terminal) {
			if err := s.MarkTerminal(p.spec.terminal); err != nil {
				return nil, err
			}
		}
	}
	return res, nil
}
