package report

import (
	"fmt"
	"strings"
)

// HeaderNotFoundError means no declared anchor label was found within the
// bounded scan window. The report layout changed; the family needs a new
// parser variant rather than a silent misparse.
type HeaderNotFoundError struct {
	Family  Family
	Period  string
	Anchors []string
	Window  int
}

func (e *HeaderNotFoundError) Error() string {
	return fmt.Sprintf("%s %s: no header anchor %q within first %d rows",
		e.Family, e.Period, strings.Join(e.Anchors, "|"), e.Window)
}

// CellParseError means a single cell that should hold a number held
// something that is neither numeric nor blank. Fatal: substituting zero
// would corrupt totals.
type CellParseError struct {
	Family Family
	Period string
	Label  string
	Column int
	Text   string
	Err    error
}

func (e *CellParseError) Error() string {
	return fmt.Sprintf("%s %s: row %q column %d: cannot parse %q: %v",
		e.Family, e.Period, e.Label, e.Column, e.Text, e.Err)
}

func (e *CellParseError) Unwrap() error { return e.Err }

// DuplicateTableError means the terminal label was reached twice, which
// indicates duplicate or overlapping table regions in the declared pages.
type DuplicateTableError struct {
	Family   Family
	Period   string
	Terminal string
}

func (e *DuplicateTableError) Error() string {
	return fmt.Sprintf("%s %s: terminal row %q matched more than once",
		e.Family, e.Period, e.Terminal)
}
