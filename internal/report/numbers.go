package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrBlankCell marks a blank cell in a numeric column of a family that does
// not declare the blank-as-zero convention. Callers wrap it in a
// CellParseError with row context.
var ErrBlankCell = errors.New("blank cell where number expected")

// dashes the sources use to print an explicit zero line.
var zeroDashes = map[string]bool{"-": true, "–": true, "—": true, "--": true}

// ParseAmount parses one numeric cell in the City's report conventions:
// optional leading $, thousands separators, parenthesized negatives, and an
// em-dash for an explicit zero. OCR output sometimes doubles parentheses;
// those are collapsed first. blankAsZero applies the family's declared
// blank-as-zero convention ("N/A" counts as blank); families without it get
// ErrBlankCell so an unparsed cell is never silently zero.
func ParseAmount(text string, blankAsZero bool) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)

	if s == "" || strings.EqualFold(s, "N/A") {
		if blankAsZero {
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, ErrBlankCell
	}
	if zeroDashes[s] {
		return decimal.Zero, nil
	}

	s = strings.ReplaceAll(s, "((", "(")
	s = strings.ReplaceAll(s, "))", ")")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}

	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("not a currency amount: %q", text)
	}
	if negative {
		d = d.Neg()
	}
	return d, nil
}

// IsNumericRow reports whether cells[from:] holds at least one amount and
// nothing that fails to parse as one. Parsers use it to tell label header
// rows (no amounts) from data rows; blank cells are tolerated here either
// way and only rejected later, cell by cell, in families without the
// blank-as-zero convention.
func IsNumericRow(cells []string, from int, blankAsZero bool) bool {
	if from >= len(cells) {
		return false
	}
	seen := false
	for _, c := range cells[from:] {
		if strings.TrimSpace(c) == "" {
			continue
		}
		if _, err := ParseAmount(c, blankAsZero); err != nil {
			return false
		}
		seen = true
	}
	return seen
}
