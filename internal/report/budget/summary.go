// Package budget parses the budget-in-brief department spending summary:
// per-department blocks of major-class appropriation lines, each block
// closed by a Total row, with a TOTAL GENERAL FUND row closing the table.
package budget

import (
	"strings"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// The summary prints, per line, the actual two years back, the current
// estimate columns, and the budgeted amount for the document's fiscal
// year. Only the budgeted column is published as a series.
const (
	summaryColumns    = 7
	budgetedAmountCol = 5
)

const summaryTerminal = "TOTAL GENERAL FUND"

type summaryParser struct{}

// NewSummary returns the budget-in-brief department summary parser.
func NewSummary() report.Parser { return &summaryParser{} }

func (p *summaryParser) Family() report.Family { return report.FamilyBudgetSummary }

func (p *summaryParser) Layout() grid.Layout {
	return grid.Layout{Family: string(report.FamilyBudgetSummary), Columns: summaryColumns}
}

// Parse walks the department blocks. Records carry the major class as
// Category and the department as ParentCategory, so one department's
// classes reconcile against its printed Total row.
func (p *summaryParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(report.FamilyBudgetSummary, period, g)
	res := &report.Result{}

	dept := ""
	lastWasHeader := false
	for {
		row, ok := s.Next()
		if !ok {
			break
		}
		label := row.Label()

		if report.MatchLabel(label, summaryTerminal) {
			amount, err := s.Amount(row, budgetedAmountCol, true)
			if err != nil {
				return nil, err
			}
			if err := s.MarkTerminal(summaryTerminal); err != nil {
				return nil, err
			}
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: report.ScopeAll, Label: label, Amount: amount,
			})
			continue
		}

		if !report.IsNumericRow(row.Cells, 1, true) {
			// Department header; a name spanning two printed lines
			// arrives as consecutive header rows.
			if lastWasHeader && dept != "" {
				dept += " " + label
			} else {
				dept = label
			}
			lastWasHeader = true
			continue
		}
		lastWasHeader = false

		if foldEqual(label, "Total") {
			amount, err := s.Amount(row, budgetedAmountCol, true)
			if err != nil {
				return nil, err
			}
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: report.ScopeParent, Key: dept, Label: dept, Amount: amount,
			})
			dept = ""
			continue
		}

		amount, err := s.Amount(row, budgetedAmountCol, true)
		if err != nil {
			return nil, err
		}
		res.Records = append(res.Records, report.LineRecord{
			Category:       label,
			ParentCategory: dept,
			Dimension:      "budgeted",
			Amount:         amount,
			CalendarYear:   period.CalendarYear,
			CalendarMonth:  int(period.CalendarMonth),
			FiscalYear:     period.FiscalYear,
			FiscalMonth:    period.FiscalMonth(),
			Kind:           report.KindSpending,
		})
	}

	if !s.TerminalSeen() {
		return nil, &report.HeaderNotFoundError{
			Family:  report.FamilyBudgetSummary,
			Period:  period.Label(),
			Anchors: []string{summaryTerminal},
			Window:  len(g.Rows()),
		}
	}
	return res, nil
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
