package collections

import (
	"strings"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// sectorSpec declares one by-sector collections table.
type sectorSpec struct {
	family  report.Family
	columns int // expected column count; 0 leaves the shape unchecked

	// amountCol is the column holding the report period's collections.
	amountCol int

	// anchors locate the first sector row.
	anchors []string

	// terminal is the optional grand-total row closing the table.
	terminal string

	// skip lists rows dropped outright, for tables whose printed grand
	// total restates sums the parent rows already carry.
	skip []string

	// subtotals maps flat subtotal row labels to the parent-sector key
	// they restate, for tables that print subtotal rows instead of
	// indenting members (sales and realty transfer).
	subtotals map[string]string

	// parentOf assigns a parent sector to a flat row label. Nil selects
	// indentation-based nesting instead.
	parentOf func(label string) string
}

// sectorParser parses a by-sector table into one record per sector.
// Parent/child structure comes either from the indentation the source
// prints (a sector is a child of the nearest preceding sector indented
// strictly less than it) or, for flat tables, from a declared label rule.
// A parent's own row doubles as the subtotal of its children and is
// captured for reconciliation.
type sectorParser struct {
	spec sectorSpec
}

func (p *sectorParser) Family() report.Family { return p.spec.family }

func (p *sectorParser) Layout() grid.Layout {
	return grid.Layout{Family: string(p.spec.family), Columns: p.spec.columns}
}

func (p *sectorParser) Parse(g *grid.Grid, period report.Period) (*report.Result, error) {
	s := report.NewScanner(p.spec.family, period, g)

	first, err := s.SeekAnchor(p.spec.anchors, anchorWindow)
	if err != nil {
		return nil, err
	}

	res := &report.Result{}

	type frame struct {
		label  string
		indent int
	}
	var stack []frame

	handle := func(row grid.Row) (done bool, err error) {
		label := row.Label()

		if p.spec.terminal != "" && foldEqual(label, p.spec.terminal) {
			amount, err := s.Amount(row, p.spec.amountCol, false)
			if err != nil {
				return false, err
			}
			if err := s.MarkTerminal(p.spec.terminal); err != nil {
				return false, err
			}
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: report.ScopeAll, Label: label, Amount: amount,
			})
			return true, nil
		}

		for _, skip := range p.spec.skip {
			if foldEqual(label, skip) {
				return false, nil
			}
		}

		if parent, ok := p.subtotalFor(label); ok {
			amount, err := s.Amount(row, p.spec.amountCol, false)
			if err != nil {
				return false, err
			}
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: report.ScopeParent, Key: parent, Label: label, Amount: amount,
			})
			return false, nil
		}

		if !report.IsNumericRow(row.Cells, 1, false) {
			return false, nil
		}

		amount, err := s.Amount(row, p.spec.amountCol, false)
		if err != nil {
			return false, err
		}

		var parent string
		if p.spec.parentOf != nil {
			parent = p.spec.parentOf(label)
		} else {
			for len(stack) > 0 && stack[len(stack)-1].indent >= row.Indent {
				stack = stack[:len(stack)-1]
			}
			if len(stack) > 0 {
				parent = stack[len(stack)-1].label
			}
			stack = append(stack, frame{label: label, indent: row.Indent})
		}

		res.Records = append(res.Records, report.LineRecord{
			Category:       label,
			ParentCategory: parent,
			Dimension:      dimTotal,
			Amount:         amount,
			CalendarYear:   period.CalendarYear,
			CalendarMonth:  int(period.CalendarMonth),
			FiscalYear:     period.FiscalYear,
			FiscalMonth:    period.FiscalMonth(),
			Kind:           p.spec.family.Kind(),
		})
		return false, nil
	}

	if done, err := handle(first); err != nil {
		return nil, err
	} else if !done {
		for {
			row, ok := s.Next()
			if !ok {
				break
			}
			if done, err := handle(row); err != nil {
				return nil, err
			} else if done {
				break
			}
		}
	}

	if p.spec.terminal != "" && !s.TerminalSeen() {
		return nil, &report.HeaderNotFoundError{
			Family:  p.spec.family,
			Period:  period.Label(),
			Anchors: []string{p.spec.terminal},
			Window:  len(g.Rows()),
		}
	}

	// A parent's own amount is the subtotal of its children, whether the
	// nesting came from indentation or a declared label rule.
	parents := make(map[string]bool)
	for _, r := range res.Records {
		if r.ParentCategory != "" {
			parents[r.ParentCategory] = true
		}
	}
	for _, r := range res.Records {
		if parents[r.Category] {
			res.Totals = append(res.Totals, report.TotalLine{
				Scope: report.ScopeParent, Key: r.Category, Label: r.Category, Amount: r.Amount,
			})
		}
	}

	return res, nil
}

func (p *sectorParser) subtotalFor(label string) (string, bool) {
	for pattern, parent := range p.spec.subtotals {
		if foldEqual(label, pattern) {
			return parent, true
		}
	}
	return "", false
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// NewWageSector parses the wage and earnings collections by sector table:
// 52 sectors, current and three prior years of collections plus growth
// columns. Sub-sectors print indented under their parent sector.
func NewWageSector() report.Parser {
	return &sectorParser{spec: sectorSpec{
		family:    report.FamilyWageSector,
		amountCol: 1,
		anchors:   []string{"CONSTRUCTION"},
	}}
}

// salesRetailMembers ties the flat retail rows of the sales table to the
// Retail subtotal the source prints after them.
func salesParent(label string) string {
	l := strings.ToUpper(strings.TrimSpace(label))
	if strings.HasSuffix(l, "RETAIL") {
		return "Retail"
	}
	return ""
}

// NewSalesSector parses the annual sales tax collections by sector table.
// Retail rows reconcile against the printed retail subtotal.
func NewSalesSector() report.Parser {
	return &sectorParser{spec: sectorSpec{
		family:    report.FamilySalesSector,
		amountCol: 1,
		anchors:   []string{"ALL OTHER SECTORS", "APPLIANCE"},
		subtotals: map[string]string{
			"Total Retail": "Retail",
			"Subtotal":     "Retail",
		},
		parentOf: salesParent,
	}}
}

// birtParents nests the BIRT sub-sectors under the three sectors whose own
// rows carry the rolled-up figures.
var birtParents = map[string]string{
	"FOOD AND BEVERAGE PRODUCTS":             "Manufacturing",
	"CHEMICALS, PHARMACEUTICALS & PETROLEUM": "Manufacturing",
	"OTHER MANUFACTURING":                    "Manufacturing",
	"PUBLISHING":                             "Information",
	"BROADCASTING (TV AND RADIO)":            "Information",
	"TELECOMMUNICATIONS":                     "Information",
	"OTHER INFORMATION":                      "Information",
	"LEGAL SERVICES":                         "Professional Services",
	"ACCOUNTING, TAX AND PAYROLL SERVICES":   "Professional Services",
	"ARCHITECT AND ENGINEERING":              "Professional Services",
	"COMPUTER SERVICES":                      "Professional Services",
	"MANAGEMENT AND TECHNICAL CONSULTING":    "Professional Services",
	"ADVERTISING":                            "Professional Services",
	"OTHER PROFESSIONAL SERVICES":            "Professional Services",
}

// NewBirtSector parses the tax-year BIRT collections by sector table: one
// row per sector with account counts, net income and gross receipts ahead
// of total collections. The table is flat; Manufacturing, Information and
// Professional Services rows carry the rolled-up figures for the
// sub-sector rows declared under them. The printed Total row restates the
// top-level rows and is dropped.
func NewBirtSector() report.Parser {
	return &sectorParser{spec: sectorSpec{
		family:    report.FamilyBirtSector,
		amountCol: 4,
		anchors:   []string{"CONSTRUCTION"},
		skip:      []string{"Total"},
		parentOf: func(label string) string {
			return birtParents[strings.ToUpper(strings.TrimSpace(label))]
		},
	}}
}

// rttParents mirrors the residential / non-residential halves of the
// realty transfer table.
var rttParents = map[string]string{
	"GENERAL COMMERCIAL":                   "Non-Residential",
	"OFFICE BUILDINGS, HOTELS AND GARAGES": "Non-Residential",
	"INDUSTRIAL":                           "Non-Residential",
	"OTHER NON-RESIDENTIAL":                "Non-Residential",
	"CONDOS":                               "Residential",
	"CONDOMINIUMS":                         "Residential",
	"APARTMENTS":                           "Residential",
	"SINGLE/MULTI-FAMILY HOMES":            "Residential",
}

// NewRTTSector parses the realty transfer tax collections by sector table.
// The table is flat; Total Non-Residential and Total Residential rows
// subtotal the two halves ahead of the grand total.
func NewRTTSector() report.Parser {
	return &sectorParser{spec: sectorSpec{
		family:    report.FamilyRTTSector,
		amountCol: 2,
		anchors:   []string{"GENERAL COMMERCIAL"},
		terminal:  "Total",
		subtotals: map[string]string{
			"Total Non-Residential": "Non-Residential",
			"Total Residential":     "Residential",
		},
		parentOf: func(label string) string {
			return rttParents[strings.ToUpper(strings.TrimSpace(label))]
		},
	}}
}
