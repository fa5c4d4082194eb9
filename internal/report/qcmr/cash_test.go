package qcmr

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/reconcile"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

func buildGrid(t *testing.T, rows [][]string) *grid.Grid {
	t.Helper()
	var cells []grid.Cell
	for r, row := range rows {
		for c, text := range row {
			cells = append(cells, grid.Cell{Page: 1, Row: r, Col: c, Text: text})
		}
	}
	g, err := grid.Build(cells, nil, grid.Layout{Family: "qcmr"})
	require.NoError(t, err)
	return g
}

// monthsRow renders a label row with twelve identical month amounts and an
// optional printed full-year total.
func monthsRow(label string, monthly int, withTotal bool) []string {
	row := []string{label}
	for i := 0; i < 12; i++ {
		row = append(row, strconv.Itoa(monthly))
	}
	if withTotal {
		row = append(row, strconv.Itoa(monthly*12))
	}
	return row
}

func cashFixture() [][]string {
	return [][]string{
		{"QUARTERLY CITY MANAGER'S REPORT"},
		{"CASH FLOW FORECAST - GENERAL FUND"},
		{"REVENUES"},
		monthsRow("Real Estate Tax", 10, true),
		monthsRow("Wage, Earnings, Net Profits", 30, true),
		monthsRow("TOTAL CASH RECEIPTS", 40, true),
		{"EXPENSES AND OBLIGATIONS"},
		monthsRow("Payroll", 25, true),
		monthsRow("TOTAL DISBURSEMENTS", 25, true),
		monthsRow("Excess of Receipts over Disbursements", 15, false),
		monthsRow("OPENING BALANCE", 100, false),
		monthsRow("CLOSING BALANCE", 115, false),
		{"FUND BALANCES"},
		monthsRow("General Fund", 115, false),
		monthsRow("TOTAL FUND EQUITY", 115, false),
	}
}

func TestCashParse(t *testing.T) {
	p := NewCash()
	period, err := report.Quarterly(2023, 1)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, cashFixture()), period)
	require.NoError(t, err)

	// Ten category rows, twelve fiscal months each.
	require.Len(t, res.Records, 10*12)

	bySection := map[string]int{}
	for _, r := range res.Records {
		bySection[r.Dimension]++
		assert.Equal(t, report.KindCash, r.Kind)
		assert.Equal(t, 2023, r.FiscalYear)
		// The publishing quarter is part of each record's identity, so
		// successive forecast vintages land side by side in the dataset.
		assert.Equal(t, 1, r.FiscalQuarter)
	}
	assert.Equal(t, 3*12, bySection["revenue"])
	assert.Equal(t, 2*12, bySection["spending"])
	assert.Equal(t, 3*12, bySection["net-cash-flow"])
	assert.Equal(t, 2*12, bySection["fund-balances"])

	// Fiscal month 1 is calendar July of the prior calendar year.
	first := res.Records[0]
	assert.Equal(t, 1, first.FiscalMonth)
	assert.Equal(t, 2022, first.CalendarYear)
	assert.Equal(t, 7, first.CalendarMonth)

	// Revenue and spending rows reconcile against the printed total column.
	require.Len(t, res.Totals, 5)
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestCashBlankMeansZero(t *testing.T) {
	rows := cashFixture()
	// Blank out one future month of the payroll forecast.
	rows[7][12] = ""
	rows[7][13] = "275"

	p := NewCash()
	period, err := report.Quarterly(2023, 1)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, rows), period)
	require.NoError(t, err)

	for _, r := range res.Records {
		if r.Category == "Payroll" && r.FiscalMonth == 12 {
			assert.True(t, r.Amount.IsZero())
		}
	}
}

func TestCashDuplicateTable(t *testing.T) {
	rows := append(cashFixture(), monthsRow("TOTAL CASH RECEIPTS", 40, true))

	p := NewCash()
	period, err := report.Quarterly(2023, 2)
	require.NoError(t, err)

	_, err = p.Parse(buildGrid(t, rows), period)
	var dupErr *report.DuplicateTableError
	require.ErrorAs(t, err, &dupErr)
}

func TestCashMissingSection(t *testing.T) {
	rows := cashFixture()[:6] // revenue section only

	p := NewCash()
	period, err := report.Quarterly(2023, 1)
	require.NoError(t, err)

	_, err = p.Parse(buildGrid(t, rows), period)
	var hdrErr *report.HeaderNotFoundError
	require.ErrorAs(t, err, &hdrErr)
}
