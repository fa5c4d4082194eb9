// Package dataset maintains the published historical series. A dataset is
// the full history of one report family as a flat slice of line records;
// new reports are merged in append-only, so published history never changes
// shape underneath a consumer. The one sanctioned exception is an explicit
// period overwrite, used to replace a misparsed month after a parser fix.
package dataset

import (
	"fmt"
	"sort"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// Key identifies one record in the series. One dataset holds at most one
// amount per key. FiscalQuarter separates quarterly forecast vintages that
// restate the same calendar months; it is zero for monthly families.
type Key struct {
	CalendarYear  int
	CalendarMonth int
	FiscalQuarter int
	Category      string
	Dimension     string
}

func (k Key) String() string {
	s := fmt.Sprintf("%d-%02d", k.CalendarYear, k.CalendarMonth)
	if k.FiscalQuarter > 0 {
		s += fmt.Sprintf(" Q%d", k.FiscalQuarter)
	}
	if k.Dimension != "" {
		return fmt.Sprintf("%s %s/%s", s, k.Category, k.Dimension)
	}
	return fmt.Sprintf("%s %s", s, k.Category)
}

// keyOf builds the identity key for a record.
func keyOf(r report.LineRecord) Key {
	return Key{
		CalendarYear:  r.CalendarYear,
		CalendarMonth: r.CalendarMonth,
		FiscalQuarter: r.FiscalQuarter,
		Category:      r.Category,
		Dimension:     r.Dimension,
	}
}

// period is the merge granularity: a report is merged or rejected as a
// whole, never record by record. For monthly families that is the calendar
// month; quarterly reports restate the same calendar months each quarter,
// so the publishing quarter is part of the period and a new quarter's
// vintage lands beside the previous one instead of colliding with it.
type period struct{ year, month, quarter int }

// DuplicatePeriodError means an append-only merge tried to add a period the
// dataset already holds. Re-running ingestion over an already-published
// report is a no-op failure, not a silent rewrite.
type DuplicatePeriodError struct {
	Family        report.Family
	CalendarYear  int
	CalendarMonth int
	FiscalQuarter int
}

func (e *DuplicatePeriodError) Error() string {
	label := fmt.Sprintf("%d-%02d", e.CalendarYear, e.CalendarMonth)
	if e.FiscalQuarter > 0 {
		label += fmt.Sprintf(" Q%d", e.FiscalQuarter)
	}
	return fmt.Sprintf("%s: period %s already published (use overwrite to replace it)",
		e.Family, label)
}

// InvariantViolationError means a merge produced a dataset that breaks the
// published-series guarantees (duplicate keys). It indicates a parser bug,
// and the merge is abandoned before anything is written.
type InvariantViolationError struct {
	Family report.Family
	Key    Key
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("%s: merge produced duplicate record for %s", e.Family, e.Key)
}

// Dataset is the in-memory working copy of one family's published series.
type Dataset struct {
	Family  report.Family
	Records []report.LineRecord
}

// New returns an empty dataset for the family.
func New(f report.Family) *Dataset {
	return &Dataset{Family: f}
}

// Periods lists the (year, month, quarter) periods present, in order. The
// quarter is zero for monthly families.
func (d *Dataset) Periods() [][3]int {
	seen := make(map[period]bool)
	var out [][3]int
	for _, r := range d.Records {
		p := period{r.CalendarYear, r.CalendarMonth, r.FiscalQuarter}
		if !seen[p] {
			seen[p] = true
			out = append(out, [3]int{p.year, p.month, p.quarter})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		for k := 0; k < 3; k++ {
			if out[i][k] != out[j][k] {
				return out[i][k] < out[j][k]
			}
		}
		return false
	})
	return out
}

// Merge folds incoming records into the series. In append-only mode (the
// default) any incoming period already present fails with
// DuplicatePeriodError and the dataset is left untouched. With overwrite
// set, existing records for the incoming periods are dropped first.
// Either way the result is re-sorted and checked for key uniqueness before
// it replaces the working copy.
func (d *Dataset) Merge(incoming []report.LineRecord, overwrite bool) error {
	if len(incoming) == 0 {
		return nil
	}

	incomingPeriods := make(map[period]bool)
	for _, r := range incoming {
		incomingPeriods[period{r.CalendarYear, r.CalendarMonth, r.FiscalQuarter}] = true
	}

	existing := make(map[period]bool)
	for _, r := range d.Records {
		existing[period{r.CalendarYear, r.CalendarMonth, r.FiscalQuarter}] = true
	}

	if !overwrite {
		for p := range incomingPeriods {
			if existing[p] {
				return &DuplicatePeriodError{
					Family:        d.Family,
					CalendarYear:  p.year,
					CalendarMonth: p.month,
					FiscalQuarter: p.quarter,
				}
			}
		}
	}

	merged := make([]report.LineRecord, 0, len(d.Records)+len(incoming))
	for _, r := range d.Records {
		if overwrite && incomingPeriods[period{r.CalendarYear, r.CalendarMonth, r.FiscalQuarter}] {
			continue
		}
		merged = append(merged, r)
	}
	merged = append(merged, incoming...)

	sortRecords(merged)

	seen := make(map[Key]bool, len(merged))
	for _, r := range merged {
		k := keyOf(r)
		if seen[k] {
			return &InvariantViolationError{Family: d.Family, Key: k}
		}
		seen[k] = true
	}

	d.Records = merged
	return nil
}

// sortRecords orders the series by date, then category, then dimension, so
// published files diff cleanly between releases.
func sortRecords(records []report.LineRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.CalendarYear != b.CalendarYear {
			return a.CalendarYear < b.CalendarYear
		}
		if a.CalendarMonth != b.CalendarMonth {
			return a.CalendarMonth < b.CalendarMonth
		}
		if a.FiscalQuarter != b.FiscalQuarter {
			return a.FiscalQuarter < b.FiscalQuarter
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Dimension < b.Dimension
	})
}
