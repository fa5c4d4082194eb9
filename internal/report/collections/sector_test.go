package collections

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/phl-budget-data/internal/grid"
	"github.com/FACorreiaa/phl-budget-data/internal/reconcile"
	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

// indentGrid builds a grid preserving leading spaces in the label column,
// which the wage table uses for sub-sector nesting.
func indentGrid(t *testing.T, rows [][]string) *grid.Grid {
	t.Helper()
	var cells []grid.Cell
	for r, row := range rows {
		for c, text := range row {
			cells = append(cells, grid.Cell{Page: 1, Row: r, Col: c, Text: text})
		}
	}
	g, err := grid.Build(cells, nil, grid.Layout{Family: "sector"})
	require.NoError(t, err)
	return g
}

func TestWageSectorParse(t *testing.T) {
	p := NewWageSector()
	g := indentGrid(t, [][]string{
		{"WAGE AND EARNINGS TAX COLLECTIONS BY INDUSTRY"},
		{"Construction", "5,000", "4,800", "4,500", "4,200", "4.2"},
		{"Health and Social Services", "9,000", "8,700", "8,300", "8,000", "3.4"},
		{"   Hospitals", "4,000", "3,900", "3,700", "3,500", "2.6"},
		{"   Nursing Homes", "5,000", "4,800", "4,600", "4,500", "4.2"},
		{"Retail Trade", "2,000", "1,900", "1,850", "1,800", "5.3"},
	})

	res, err := p.Parse(g, report.Monthly(2021, time.January))
	require.NoError(t, err)
	require.Len(t, res.Records, 5)

	hospitals := recordFor(t, res.Records, "Hospitals", "total")
	assert.Equal(t, "Health and Social Services", hospitals.ParentCategory)
	assert.Equal(t, "4000", hospitals.Amount.String())

	construction := recordFor(t, res.Records, "Construction", "total")
	assert.Empty(t, construction.ParentCategory)

	// The parent sector's own row doubles as its children's subtotal.
	require.Len(t, res.Totals, 1)
	assert.Equal(t, report.ScopeParent, res.Totals[0].Scope)
	assert.Equal(t, "Health and Social Services", res.Totals[0].Key)
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestSalesSectorParse(t *testing.T) {
	p := NewSalesSector()
	g := indentGrid(t, [][]string{
		{"SALES TAX COLLECTIONS BY INDUSTRY"},
		{"Appliance Stores Retail", "100", "95"},
		{"Clothing Retail", "200", "190"},
		{"Subtotal", "300", "285"},
		{"Restaurants", "400", "380"},
		{"All Other Sectors", "500", "475"},
	})

	res, err := p.Parse(g, report.Monthly(2022, time.March))
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	appliance := recordFor(t, res.Records, "Appliance Stores Retail", "total")
	assert.Equal(t, "Retail", appliance.ParentCategory)
	restaurants := recordFor(t, res.Records, "Restaurants", "total")
	assert.Empty(t, restaurants.ParentCategory)

	require.Len(t, res.Totals, 1)
	assert.Equal(t, report.ScopeParent, res.Totals[0].Scope)
	assert.Equal(t, "Retail", res.Totals[0].Key)
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestBirtSectorParse(t *testing.T) {
	// One tax-year panel: accounts, net income, gross receipts, total.
	p := NewBirtSector()
	g := indentGrid(t, [][]string{
		{"BUSINESS INCOME AND RECEIPTS TAX COLLECTIONS BY SECTOR"},
		{"", "Tax Year 2017"},
		{"Construction", "1,200", "40", "60", "100"},
		{"Manufacturing", "800", "250", "350", "600"},
		{"Food and Beverage Products", "200", "40", "60", "100"},
		{"Chemicals, Pharmaceuticals & Petroleum", "100", "90", "110", "200"},
		{"Other Manufacturing", "500", "120", "180", "300"},
		{"Wholesale Trade", "400", "20", "30", "50"},
		{"Total", "2,400", "310", "440", "750"},
	})

	res, err := p.Parse(g, report.Monthly(2017, time.December))
	require.NoError(t, err)
	require.Len(t, res.Records, 6)

	food := recordFor(t, res.Records, "Food and Beverage Products", "total")
	assert.Equal(t, "Manufacturing", food.ParentCategory)
	assert.Equal(t, "100", food.Amount.String())

	construction := recordFor(t, res.Records, "Construction", "total")
	assert.Empty(t, construction.ParentCategory)
	assert.Equal(t, report.KindTax, construction.Kind)

	// The Total row restates the top-level sectors and is dropped.
	for _, r := range res.Records {
		assert.NotEqual(t, "Total", r.Category)
	}

	// The Manufacturing row's own figure subtotals its sub-sectors.
	require.Len(t, res.Totals, 1)
	assert.Equal(t, report.ScopeParent, res.Totals[0].Scope)
	assert.Equal(t, "Manufacturing", res.Totals[0].Key)
	assert.Equal(t, "600", res.Totals[0].Amount.String())
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestRTTSectorParse(t *testing.T) {
	p := NewRTTSector()
	g := indentGrid(t, [][]string{
		{"REALTY TRANSFER TAX COLLECTIONS"},
		{"General Commercial", "10", "1,000"},
		{"Industrial", "5", "500"},
		{"Total Non-Residential", "15", "1,500"},
		{"Condominiums", "3", "300"},
		{"Single/Multi-Family Homes", "7", "700"},
		{"Total Residential", "10", "1,000"},
		{"Total", "25", "2,500"},
	})

	res, err := p.Parse(g, report.Monthly(2021, time.June))
	require.NoError(t, err)
	require.Len(t, res.Records, 4)

	commercial := recordFor(t, res.Records, "General Commercial", "total")
	assert.Equal(t, "Non-Residential", commercial.ParentCategory)
	assert.Equal(t, "1000", commercial.Amount.String())
	condos := recordFor(t, res.Records, "Condominiums", "total")
	assert.Equal(t, "Residential", condos.ParentCategory)

	require.Len(t, res.Totals, 3)
	assert.NoError(t, reconcile.Validate(res.Records, res.Totals, 0))
}

func TestRTTSectorMissingTotal(t *testing.T) {
	p := NewRTTSector()
	g := indentGrid(t, [][]string{
		{"General Commercial", "10", "1,000"},
		{"Industrial", "5", "500"},
	})

	_, err := p.Parse(g, report.Monthly(2021, time.June))
	var hdrErr *report.HeaderNotFoundError
	require.ErrorAs(t, err, &hdrErr)
}
