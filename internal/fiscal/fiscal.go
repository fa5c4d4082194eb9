// Package fiscal converts between the calendar and the City of Philadelphia's
// fiscal calendar. The fiscal year begins in July: fiscal month 1 is calendar
// July, and calendar dates from July onward belong to the next fiscal year.
//
// This is the single conversion implementation in the repository; parsers must
// not carry their own inline conversions.
package fiscal

import (
	"fmt"
	"strings"
	"time"
)

// ToFiscal converts a calendar (year, month) to the City's fiscal
// (year, month). Calendar July of 2020 is fiscal month 1 of FY2021.
func ToFiscal(calendarYear int, calendarMonth time.Month) (fiscalYear int, fiscalMonth int) {
	fiscalMonth = (int(calendarMonth)+5)%12 + 1
	fiscalYear = calendarYear
	if calendarMonth >= time.July {
		fiscalYear++
	}
	return fiscalYear, fiscalMonth
}

// FromFiscal is the inverse of ToFiscal.
func FromFiscal(fiscalYear, fiscalMonth int) (calendarYear int, calendarMonth time.Month) {
	calendarMonth = time.Month((fiscalMonth+5)%12 + 1)
	calendarYear = fiscalYear
	if calendarMonth >= time.July {
		calendarYear--
	}
	return calendarYear, calendarMonth
}

// QuarterMonths returns the three fiscal months of a fiscal quarter.
func QuarterMonths(quarter int) ([3]int, error) {
	if quarter < 1 || quarter > 4 {
		return [3]int{}, fmt.Errorf("fiscal quarter must be 1-4, got %d", quarter)
	}
	start := (quarter-1)*3 + 1
	return [3]int{start, start + 1, start + 2}, nil
}

// MonthAbbr returns the lowercase three-letter abbreviation the source
// reports use for a calendar month ("jan" ... "dec").
func MonthAbbr(m time.Month) string {
	return strings.ToLower(m.String()[:3])
}

// ParseMonthAbbr resolves a lowercase month abbreviation back to its
// calendar month number.
func ParseMonthAbbr(abbr string) (time.Month, error) {
	abbr = strings.ToLower(strings.TrimSpace(abbr))
	for m := time.January; m <= time.December; m++ {
		if MonthAbbr(m) == abbr {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unrecognized month abbreviation %q", abbr)
}

// Tag renders a fiscal year the way the source documents abbreviate it,
// e.g. Tag(2021) == "FY21".
func Tag(fiscalYear int) string {
	return fmt.Sprintf("FY%02d", fiscalYear%100)
}
