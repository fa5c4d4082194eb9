package qcmr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/phl-budget-data/internal/fiscal"
	"github.com/FACorreiaa/phl-budget-data/internal/reconcile"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

func TestDeptColumns(t *testing.T) {
	q2 := deptColumns(2023, 2)
	require.Len(t, q2, 6)
	assert.Equal(t, "fy2022-actual-full-year", q2[0].Dimension())
	assert.Equal(t, "fy2023-target-budget-ytd", q2[1].Dimension())
	assert.Equal(t, "fy2023-actual-ytd", q2[2].Dimension())
	assert.Equal(t, "fy2023-adopted-budget-full-year", q2[3].Dimension())
	assert.Equal(t, "fy2023-target-budget-full-year", q2[4].Dimension())
	assert.Equal(t, "fy2023-current-projection-full-year", q2[5].Dimension())

	// The fourth quarter closes the year: no year-to-date columns.
	q4 := deptColumns(2023, 4)
	require.Len(t, q4, 4)
	assert.Equal(t, "fy2022-actual-full-year", q4[0].Dimension())
	assert.Equal(t, "fy2023-adopted-budget-full-year", q4[1].Dimension())
}

func TestPersonalServicesColumns(t *testing.T) {
	cols := personalServicesColumns(2023, 1)
	require.Len(t, cols, 8)
	assert.Equal(t, "fy2020-actual-full-year", cols[0].Dimension())
	assert.Equal(t, "fy2021-actual-full-year", cols[1].Dimension())
	assert.Equal(t, "fy2022-actual-full-year", cols[2].Dimension())
}

// A Q2 obligations page: six numeric columns per department.
func obligationsFixture() [][]string {
	return [][]string{
		{"DEPARTMENTAL OBLIGATIONS SUMMARY"},
		{"Police", "700,000", "380,000", "390,000", "760,000", "770,000", "775,000"},
		{"Fire", "300,000", "145,000", "150,000", "290,000", "295,000", "300,000"},
		{"TOTAL GENERAL FUND", "1,000,000", "525,000", "540,000", "1,050,000", "1,065,000", "1,075,000"},
	}
}

func TestObligationsParse(t *testing.T) {
	p := NewObligations()
	period, err := report.Quarterly(2023, 2)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, obligationsFixture()), period)
	require.NoError(t, err)

	// Two departments, six columns each.
	require.Len(t, res.Records, 12)
	require.Len(t, res.Totals, 6)

	var police report.LineRecord
	for _, r := range res.Records {
		if r.Category == "Police" && r.Dimension == "fy2023-actual-ytd" {
			police = r
		}
	}
	assert.Equal(t, "390000", police.Amount.String())
	assert.Equal(t, 2023, police.FiscalYear)
	assert.Equal(t, 6, police.FiscalMonth)
	assert.Equal(t, 2, police.FiscalQuarter)
	assert.Equal(t, report.KindSpending, police.Kind)

	// A prior-year column keeps its year in the dimension; the record's
	// fiscal fields date the report itself and agree with the calendar
	// date.
	prior := res.Records[0]
	assert.Equal(t, "fy2022-actual-full-year", prior.Dimension)
	assert.Equal(t, 2022, prior.CalendarYear)
	assert.Equal(t, 12, prior.CalendarMonth)
	fy, fm := fiscal.ToFiscal(prior.CalendarYear, time.Month(prior.CalendarMonth))
	assert.Equal(t, fy, prior.FiscalYear)
	assert.Equal(t, fm, prior.FiscalMonth)

	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestObligationsSkipsLineItems(t *testing.T) {
	rows := [][]string{
		{"Police", "700,000", "380,000", "390,000", "760,000", "770,000", "775,000"},
		{"   Overtime", "50,000", "20,000", "25,000", "55,000", "55,000", "56,000"},
		{"TOTAL GENERAL FUND", "700,000", "380,000", "390,000", "760,000", "770,000", "775,000"},
	}

	p := NewObligations()
	period, err := report.Quarterly(2023, 2)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, rows), period)
	require.NoError(t, err)

	// The indented breakdown restates figures the department row carries.
	require.Len(t, res.Records, 6)
	for _, r := range res.Records {
		assert.Equal(t, "Police", r.Category)
	}
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestObligationsMissingTerminal(t *testing.T) {
	p := NewObligations()
	period, err := report.Quarterly(2023, 2)
	require.NoError(t, err)

	_, err = p.Parse(buildGrid(t, obligationsFixture()[:3]), period)
	var hdrErr *report.HeaderNotFoundError
	require.ErrorAs(t, err, &hdrErr)
}

func TestPositionsParse(t *testing.T) {
	rows := [][]string{
		{"FULL TIME POSITIONS REPORT"},
		{"Police", "6,300", "6,400", "6,350", "6,500", "6,450", "6,400"},
		{"TOTAL GENERAL FUND", "6,300", "6,400", "6,350", "6,500", "6,450", "6,400"},
	}

	p := NewPositions()
	period, err := report.Quarterly(2023, 3)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, rows), period)
	require.NoError(t, err)
	require.Len(t, res.Records, 6)
	assert.Equal(t, report.KindStaffing, res.Records[0].Kind)
	assert.Equal(t, 9, res.Records[0].FiscalMonth)
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestPersonalServicesParse(t *testing.T) {
	// Q1 blocks: eight numeric columns per metric row.
	rows := [][]string{
		{"PERSONAL SERVICES SUMMARY"},
		{"Police"},
		{"Full-Time Positions", "6,100", "6,200", "6,300", "6,250", "6,280", "6,400", "6,380", "6,350"},
		{"Class 100 Total", "500,000", "510,000", "520,000", "130,000", "132,000", "530,000", "528,000", "526,000"},
		{"Overtime", "40,000", "42,000", "45,000", "11,000", "12,000", "44,000", "44,500", "46,000"},
		{"Fire"},
		{"Full-Time Positions", "2,100", "2,200", "2,300", "2,250", "2,280", "2,400", "2,380", "2,350"},
		{"Class 100 Total", "200,000", "210,000", "220,000", "55,000", "56,000", "230,000", "228,000", "226,000"},
		{"Overtime", "10,000", "12,000", "15,000", "4,000", "4,200", "14,000", "14,500", "16,000"},
		{"TOTAL GENERAL FUND"},
		{"Full-Time Positions", "8,200", "8,400", "8,600", "8,500", "8,560", "8,800", "8,760", "8,700"},
		{"Class 100 Total", "700,000", "720,000", "740,000", "185,000", "188,000", "760,000", "756,000", "752,000"},
		{"Overtime", "50,000", "54,000", "60,000", "15,000", "16,200", "58,000", "59,000", "62,000"},
	}

	p := NewPersonalServices()
	period, err := report.Quarterly(2023, 1)
	require.NoError(t, err)

	res, err := p.Parse(buildGrid(t, rows), period)
	require.NoError(t, err)

	// Two departments, three metrics, eight columns each.
	require.Len(t, res.Records, 2*3*8)
	require.Len(t, res.Totals, 3*8)

	var found report.LineRecord
	for _, r := range res.Records {
		if r.Category == "Police" && r.Dimension == "full-time-positions-fy2023-actual-ytd" {
			found = r
		}
	}
	assert.Equal(t, "6280", found.Amount.String())
	assert.Equal(t, report.KindStaffing, found.Kind)

	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestPersonalServicesTooManyMetricRows(t *testing.T) {
	rows := [][]string{
		{"Police"},
		{"Full-Time Positions", "1", "1", "1", "1", "1", "1", "1", "1"},
		{"Class 100 Total", "1", "1", "1", "1", "1", "1", "1", "1"},
		{"Overtime", "1", "1", "1", "1", "1", "1", "1", "1"},
		{"Extra Row", "1", "1", "1", "1", "1", "1", "1", "1"},
	}

	p := NewPersonalServices()
	period, err := report.Quarterly(2023, 1)
	require.NoError(t, err)

	_, err = p.Parse(buildGrid(t, rows), period)
	assert.ErrorContains(t, err, "more than 3 metric rows")
}
