// Package qcmr parses the tables of the Quarterly City Manager's Report:
// the General Fund cash flow forecast, the departmental obligations
// summary, the full-time positions report, and the personal services
// summary. QCMR tables are identified by fiscal year and quarter, and a
// blank cell means zero, a convention these layouts declare explicitly.
package qcmr

import "fmt"

// colSpec describes one numeric column of a departmental QCMR table: which
// fiscal year it covers, which budgeting variable it reports, and whether
// it is a year-to-date or full-year figure.
type colSpec struct {
	FiscalYear int
	Variable   string
	TimePeriod string
}

// Variables and time periods as the source prints them.
const (
	varActual     = "actual"
	varTarget     = "target-budget"
	varAdopted    = "adopted-budget"
	varProjection = "current-projection"

	periodFullYear = "full-year"
	periodYTD      = "ytd"
)

// Dimension renders the column as a record dimension key.
func (c colSpec) Dimension() string {
	return fmt.Sprintf("fy%d-%s-%s", c.FiscalYear, c.Variable, c.TimePeriod)
}

// deptColumns returns the numeric columns of the obligations and positions
// tables for one report: the prior year's actual, the year-to-date target
// and actual (absent in Q4, when the year is over), and the full-year
// adopted budget, target budget, and current projection.
func deptColumns(fiscalYear, quarter int) []colSpec {
	cols := []colSpec{
		{fiscalYear - 1, varActual, periodFullYear},
	}
	if quarter != 4 {
		cols = append(cols,
			colSpec{fiscalYear, varTarget, periodYTD},
			colSpec{fiscalYear, varActual, periodYTD},
		)
	}
	return append(cols,
		colSpec{fiscalYear, varAdopted, periodFullYear},
		colSpec{fiscalYear, varTarget, periodFullYear},
		colSpec{fiscalYear, varProjection, periodFullYear},
	)
}

// personalServicesColumns returns the numeric columns of the personal
// services summary, which adds two more years of actuals in front.
func personalServicesColumns(fiscalYear, quarter int) []colSpec {
	cols := []colSpec{
		{fiscalYear - 3, varActual, periodFullYear},
		{fiscalYear - 2, varActual, periodFullYear},
	}
	return append(cols, deptColumns(fiscalYear, quarter)...)
}
