// Package report defines the shared vocabulary of the report parsers: the
// typed line records they emit, the period metadata callers supply, the
// structural parse errors, and the row-scanning helpers every per-family
// state machine is built from.
package report

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/phl-budget-data/internal/fiscal"
	"github.com/FACorreiaa/phl-budget-data/internal/grid"
)

// Kind is the broad revenue/spending classification of a report family.
type Kind string

const (
	KindTax             Kind = "tax"
	KindNonTax          Kind = "non-tax"
	KindOtherGovernment Kind = "other-government"
	KindCash            Kind = "cash"
	KindStaffing        Kind = "staffing"
	KindSpending        Kind = "spending"
)

// Family identifies one known report family. Each family has a dedicated
// parser; unknown layouts are a hard error, never a best-effort parse.
type Family string

const (
	FamilyCityTax          Family = "city-tax"
	FamilyCityNonTax       Family = "city-nontax"
	FamilyCityOtherGovts   Family = "city-other-govts"
	FamilySchool           Family = "school"
	FamilyWageSector       Family = "wage-sector"
	FamilySalesSector      Family = "sales-sector"
	FamilyRTTSector        Family = "rtt-sector"
	FamilyBirtSector       Family = "birt-sector"
	FamilyCashReport       Family = "qcmr-cash"
	FamilyObligations      Family = "qcmr-obligations"
	FamilyPositions        Family = "qcmr-positions"
	FamilyPersonalServices Family = "qcmr-personal-services"
	FamilyBudgetSummary    Family = "budget-summary"
)

// Families lists every known report family.
func Families() []Family {
	return []Family{
		FamilyCityTax, FamilyCityNonTax, FamilyCityOtherGovts, FamilySchool,
		FamilyWageSector, FamilySalesSector, FamilyRTTSector, FamilyBirtSector,
		FamilyCashReport, FamilyObligations, FamilyPositions,
		FamilyPersonalServices, FamilyBudgetSummary,
	}
}

// ParseFamily resolves a family name from CLI or config input.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families() {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown report family %q", s)
}

// Kind returns the classification for the family.
func (f Family) Kind() Kind {
	switch f {
	case FamilyCityTax, FamilySchool, FamilyWageSector, FamilySalesSector, FamilyRTTSector, FamilyBirtSector:
		return KindTax
	case FamilyCityNonTax:
		return KindNonTax
	case FamilyCityOtherGovts:
		return KindOtherGovernment
	case FamilyCashReport:
		return KindCash
	case FamilyPositions, FamilyPersonalServices:
		return KindStaffing
	default:
		return KindSpending
	}
}

// Period is the caller-supplied period metadata for one report. File names
// and listing pages carry the period, not the page content, so the caller
// always declares it. Monthly reports are identified by calendar year and
// month; QCMR and budget reports by fiscal year (and quarter).
type Period struct {
	CalendarYear  int
	CalendarMonth time.Month
	FiscalYear    int
	Quarter       int
}

// Monthly builds the period for a monthly report from a calendar date.
func Monthly(calendarYear int, calendarMonth time.Month) Period {
	fy, _ := fiscal.ToFiscal(calendarYear, calendarMonth)
	return Period{
		CalendarYear:  calendarYear,
		CalendarMonth: calendarMonth,
		FiscalYear:    fy,
	}
}

// Quarterly builds the period for a fiscal-quarter report. The calendar
// fields are set to the quarter's closing month.
func Quarterly(fiscalYear, quarter int) (Period, error) {
	months, err := fiscal.QuarterMonths(quarter)
	if err != nil {
		return Period{}, err
	}
	cy, cm := fiscal.FromFiscal(fiscalYear, months[2])
	return Period{
		CalendarYear:  cy,
		CalendarMonth: cm,
		FiscalYear:    fiscalYear,
		Quarter:       quarter,
	}, nil
}

// FiscalMonth returns the fiscal month (1 = July) of the period's
// calendar date.
func (p Period) FiscalMonth() int {
	_, fm := fiscal.ToFiscal(p.CalendarYear, p.CalendarMonth)
	return fm
}

// Label renders the period the way source documents name it.
func (p Period) Label() string {
	if p.Quarter > 0 {
		return fmt.Sprintf("%s Q%d", fiscal.Tag(p.FiscalYear), p.Quarter)
	}
	return fmt.Sprintf("%d-%02d", p.CalendarYear, int(p.CalendarMonth))
}

// LineRecord is one parsed (category, amount, period) observation. Parsers
// emit records with the raw source label in Category/ParentCategory; the
// taxonomy normalizer rewrites them to canonical keys before any record
// reaches a dataset. Amount is never missing: blank source cells only become
// zero where the family's layout declares the blank-as-zero convention.
//
// FiscalQuarter is the publishing quarter of quarterly reports and zero for
// monthly and annual families. Quarterly forecasts restate the same fiscal
// months every quarter, so the quarter is part of a record's identity: a Q2
// vintage is new data, not a re-publication of Q1.
type LineRecord struct {
	Category       string          `csv:"category"`
	ParentCategory string          `csv:"parent_category"`
	Dimension      string          `csv:"dimension"`
	Amount         decimal.Decimal `csv:"amount"`
	CalendarYear   int             `csv:"calendar_year"`
	CalendarMonth  int             `csv:"calendar_month"`
	FiscalYear     int             `csv:"fiscal_year"`
	FiscalMonth    int             `csv:"fiscal_month"`
	FiscalQuarter  int             `csv:"fiscal_quarter"`
	Kind           Kind            `csv:"report_kind"`
	SourceReportID string          `csv:"source_report_id"`
}

// TotalScope says which records a captured subtotal/total row covers.
type TotalScope string

const (
	// ScopeAll covers every data record of the parse.
	ScopeAll TotalScope = "all"
	// ScopeParent covers records whose ParentCategory equals Key.
	ScopeParent TotalScope = "parent"
	// ScopeCategory covers records whose Category equals Key, summed
	// across fiscal months (the QCMR cash total column).
	ScopeCategory TotalScope = "category"
	// ScopeDimension covers records whose Dimension equals Key.
	ScopeDimension TotalScope = "dimension"
)

// TotalLine is a subtotal/total row captured from the source for
// reconciliation. Total rows are never emitted as LineRecords.
type TotalLine struct {
	Scope  TotalScope
	Key    string
	Label  string
	Amount decimal.Decimal
}

// Result is the output of one parser invocation.
type Result struct {
	Records []LineRecord
	Totals  []TotalLine
}

// Parser is implemented once per report family.
type Parser interface {
	Family() Family
	Layout() grid.Layout
	Parse(g *grid.Grid, p Period) (*Result, error)
}
