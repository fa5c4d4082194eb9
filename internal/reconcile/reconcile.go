// Package reconcile checks parsed line records against the subtotal and
// total rows captured from the same report. Totals printed in the source
// are treated as ground truth: if the parsed lines do not add back up to
// them, the parse misread a cell or missed a row, and the whole report is
// rejected rather than published with a silent hole.
package reconcile

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// DefaultToleranceCents absorbs the rounding slack the City's own tables
// carry: printed totals are rounded independently of the lines, so sums
// drift by a few dollars. Anything past $5.00 is a real misparse.
const DefaultToleranceCents int64 = 500

// DiscrepancyError reports one total row whose covered records do not sum
// back to it within tolerance.
type DiscrepancyError struct {
	Scope    report.TotalScope
	Key      string
	Label    string
	Expected decimal.Decimal
	Computed decimal.Decimal
	Covered  int
}

func (e *DiscrepancyError) Error() string {
	return fmt.Sprintf("total %q (%s %s): source says %s, %d parsed lines sum to %s (off by %s)",
		e.Label, e.Scope, e.Key,
		display(e.Expected), e.Covered, display(e.Computed),
		display(e.Expected.Sub(e.Computed).Abs()))
}

// display renders a decimal dollar amount for error text.
func display(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0)
	return money.New(cents.IntPart(), money.USD).Display()
}

// Validate checks every captured total against the records it covers.
// toleranceCents <= 0 selects DefaultToleranceCents. All discrepancies are
// reported, not just the first: a shifted column usually breaks several
// totals at once, and the full set localizes the misread.
func Validate(records []report.LineRecord, totals []report.TotalLine, toleranceCents int64) error {
	if toleranceCents <= 0 {
		toleranceCents = DefaultToleranceCents
	}
	tolerance := decimal.New(toleranceCents, -2)

	var errs []error
	for _, t := range totals {
		computed, covered := sumScope(records, t)
		if t.Amount.Sub(computed).Abs().GreaterThan(tolerance) {
			errs = append(errs, &DiscrepancyError{
				Scope:    t.Scope,
				Key:      t.Key,
				Label:    t.Label,
				Expected: t.Amount,
				Computed: computed,
				Covered:  covered,
			})
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Discrepancies: errs}
	}
	return nil
}

// sumScope sums the records a total line covers.
func sumScope(records []report.LineRecord, t report.TotalLine) (decimal.Decimal, int) {
	sum := decimal.Zero
	covered := 0
	for _, r := range records {
		if !covers(t, r) {
			continue
		}
		sum = sum.Add(r.Amount)
		covered++
	}
	return sum, covered
}

func covers(t report.TotalLine, r report.LineRecord) bool {
	switch t.Scope {
	case report.ScopeAll:
		return true
	case report.ScopeParent:
		return r.ParentCategory == t.Key
	case report.ScopeCategory:
		return r.Category == t.Key
	case report.ScopeDimension:
		return r.Dimension == t.Key
	default:
		return false
	}
}

// ValidationError aggregates every discrepancy found in one report.
type ValidationError struct {
	Discrepancies []error
}

func (e *ValidationError) Error() string {
	if len(e.Discrepancies) == 1 {
		return e.Discrepancies[0].Error()
	}
	return fmt.Sprintf("%d totals failed reconciliation; first: %v",
		len(e.Discrepancies), e.Discrepancies[0])
}

// Unwrap exposes the individual discrepancies to errors.As.
func (e *ValidationError) Unwrap() []error { return e.Discrepancies }
