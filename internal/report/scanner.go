package report

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
)

// maxAnchorRank bounds how far a fuzzy anchor match may drift from the
// declared label. Extraction output drops or doubles the odd character;
// anything beyond a few edits is a different row.
const maxAnchorRank = 3

// MatchLabel reports whether a row label matches a declared anchor or
// terminal pattern: case-insensitive containment first, then a bounded
// fuzzy match to absorb extraction noise.
func MatchLabel(label, pattern string) bool {
	l := strings.ToUpper(strings.TrimSpace(label))
	p := strings.ToUpper(strings.TrimSpace(pattern))
	if l == "" || p == "" {
		return false
	}
	if strings.Contains(l, p) {
		return true
	}
	if r := fuzzy.RankMatchFold(l, p); r >= 0 && r <= maxAnchorRank {
		return true
	}
	if r := fuzzy.RankMatchFold(p, l); r >= 0 && r <= maxAnchorRank {
		return true
	}
	return false
}

// MatchAny reports whether the label matches any of the patterns.
func MatchAny(label string, patterns []string) bool {
	for _, p := range patterns {
		if MatchLabel(label, p) {
			return true
		}
	}
	return false
}

// Scanner drives the shared row-walking portion of every family state
// machine: header scan to an anchor, sequential data rows, and
// once-only terminal detection.
type Scanner struct {
	family   Family
	period   Period
	rows     []grid.Row
	pos      int
	terminal bool
}

// NewScanner wraps a grid for one parse.
func NewScanner(f Family, p Period, g *grid.Grid) *Scanner {
	return &Scanner{family: f, period: p, rows: g.Rows()}
}

// SeekAnchor skips rows until one matches an anchor, consuming the anchor
// row. At most window rows are examined; running past the window fails with
// HeaderNotFoundError.
func (s *Scanner) SeekAnchor(anchors []string, window int) (grid.Row, error) {
	limit := s.pos + window
	if window <= 0 || limit > len(s.rows) {
		limit = len(s.rows)
	}
	for ; s.pos < limit; s.pos++ {
		row := s.rows[s.pos]
		if MatchAny(row.Label(), anchors) {
			s.pos++
			return row, nil
		}
	}
	return grid.Row{}, &HeaderNotFoundError{
		Family:  s.family,
		Period:  s.period.Label(),
		Anchors: anchors,
		Window:  window,
	}
}

// Next returns the next row, if any.
func (s *Scanner) Next() (grid.Row, bool) {
	if s.pos >= len(s.rows) {
		return grid.Row{}, false
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true
}

// Peek returns the next row without consuming it.
func (s *Scanner) Peek() (grid.Row, bool) {
	if s.pos >= len(s.rows) {
		return grid.Row{}, false
	}
	return s.rows[s.pos], true
}

// MarkTerminal records that the declared terminal label was reached. The
// terminal state is reached exactly once per parse; a second match means
// duplicate or overlapping table regions.
func (s *Scanner) MarkTerminal(label string) error {
	if s.terminal {
		return &DuplicateTableError{
			Family:   s.family,
			Period:   s.period.Label(),
			Terminal: label,
		}
	}
	s.terminal = true
	return nil
}

// TerminalSeen reports whether the terminal label was reached.
func (s *Scanner) TerminalSeen() bool { return s.terminal }

// Amount parses the numeric cell at column col of row, wrapping failures
// with the row's label for error context.
func (s *Scanner) Amount(row grid.Row, col int, blankAsZero bool) (decimal.Decimal, error) {
	if col >= len(row.Cells) {
		if blankAsZero {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, &CellParseError{
			Family: s.family, Period: s.period.Label(),
			Label: row.Label(), Column: col, Text: "", Err: ErrBlankCell,
		}
	}
	d, perr := ParseAmount(row.Cells[col], blankAsZero)
	if perr != nil {
		return decimal.Decimal{}, &CellParseError{
			Family: s.family, Period: s.period.Label(),
			Label: row.Label(), Column: col, Text: row.Cells[col], Err: perr,
		}
	}
	return d, nil
}
