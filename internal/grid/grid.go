// Package grid adapts the raw per-page cell output of the PDF table
// extraction collaborator into uniform row/column grids that the report
// parsers consume. It trims cell whitespace (remembering the leading
// indentation depth, which sector reports use for hierarchy), applies the
// layout-specific column-merge rules a report family declares, and rejects
// pages whose shape does not match the declared layout.
package grid

import (
	"fmt"
	"sort"
	"strings"
)

// Cell is one raw text cell from the extraction collaborator, addressed by
// page, row and column. Cells are immutable and consumed only within a
// single parser invocation.
type Cell struct {
	Page int
	Row  int
	Col  int
	Text string
}

// Layout declares the expected table shape for one report family.
type Layout struct {
	// Family names the report family, for error context.
	Family string

	// Columns is the expected column count on every declared page.
	// Zero disables the check.
	Columns int

	// MergeInto lists column indices (post-assembly) whose text is folded
	// into the column to their left, separated by a single space. Sources
	// sometimes split one visual column across two extracted columns; the
	// rule is declared per family, never inferred.
	MergeInto []int
}

// LayoutError reports a page whose observed shape does not match the
// declared layout. It is fatal: it means the report format changed and the
// family needs a new parser variant.
type LayoutError struct {
	Family string
	Page   int
	Got    int
	Want   int
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("%s: page %d has %d columns, layout declares %d",
		e.Family, e.Page, e.Got, e.Want)
}

// Row is one assembled table row. Cells are whitespace-trimmed; Indent
// preserves the leading-space depth of the first cell so parsers can infer
// parent/child nesting.
type Row struct {
	Page   int
	Cells  []string
	Indent int
}

// Label returns the first cell, the row's label column.
func (r Row) Label() string {
	if len(r.Cells) == 0 {
		return ""
	}
	return r.Cells[0]
}

// Grid is the assembled table for the declared page range of one report.
type Grid struct {
	rows []Row
}

// Rows returns the assembled rows in page/row order.
func (g *Grid) Rows() []Row { return g.rows }

// Build assembles raw cells into a Grid for the declared pages, in order.
// Pages not listed are ignored; a listed page with a column count different
// from the layout's fails with LayoutError.
func Build(cells []Cell, pages []int, layout Layout) (*Grid, error) {
	wanted := make(map[int]bool, len(pages))
	for _, p := range pages {
		wanted[p] = true
	}

	// Group cells by (page, row), tracking the max column per row.
	type rowKey struct{ page, row int }
	byRow := make(map[rowKey]map[int]string)
	for _, c := range cells {
		if len(wanted) > 0 && !wanted[c.Page] {
			continue
		}
		k := rowKey{c.Page, c.Row}
		if byRow[k] == nil {
			byRow[k] = make(map[int]string)
		}
		byRow[k][c.Col] = c.Text
	}

	keys := make([]rowKey, 0, len(byRow))
	for k := range byRow {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].page != keys[j].page {
			return keys[i].page < keys[j].page
		}
		return keys[i].row < keys[j].row
	})

	g := &Grid{rows: make([]Row, 0, len(keys))}
	for _, k := range keys {
		cols := byRow[k]
		width := 0
		for c := range cols {
			if c+1 > width {
				width = c + 1
			}
		}

		raw := make([]string, width)
		for c, text := range cols {
			raw[c] = text
		}

		raw = applyMerges(raw, layout.MergeInto)

		if layout.Columns > 0 && len(raw) != layout.Columns {
			// Rows that are entirely blank padding are tolerated; a
			// populated row of the wrong width is a layout change.
			if !isBlank(raw) {
				return nil, &LayoutError{
					Family: layout.Family,
					Page:   k.page,
					Got:    len(raw),
					Want:   layout.Columns,
				}
			}
			continue
		}

		row := Row{
			Page:   k.page,
			Cells:  make([]string, len(raw)),
			Indent: leadingIndent(raw),
		}
		for i, text := range raw {
			row.Cells[i] = strings.TrimSpace(text)
		}
		if isBlank(row.Cells) {
			continue
		}
		g.rows = append(g.rows, row)
	}

	return g, nil
}

// applyMerges folds each listed column into its left neighbor.
func applyMerges(cells []string, mergeInto []int) []string {
	if len(mergeInto) == 0 {
		return cells
	}
	merge := make(map[int]bool, len(mergeInto))
	for _, c := range mergeInto {
		merge[c] = true
	}

	out := make([]string, 0, len(cells))
	for i, text := range cells {
		if merge[i] && len(out) > 0 {
			left := strings.TrimRight(out[len(out)-1], " ")
			if t := strings.TrimSpace(text); t != "" {
				if left == "" {
					left = t
				} else {
					left = left + " " + t
				}
			}
			out[len(out)-1] = left
			continue
		}
		out = append(out, text)
	}
	return out
}

func leadingIndent(cells []string) int {
	for _, c := range cells {
		if strings.TrimSpace(c) == "" {
			continue
		}
		return len(c) - len(strings.TrimLeft(c, " \t"))
	}
	return 0
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
