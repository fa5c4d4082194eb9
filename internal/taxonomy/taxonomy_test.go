package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/phl-budget-data/internal/report"
)

func TestNormalize(t *testing.T) {
	n := Default()

	tests := []struct {
		name  string
		kind  report.Kind
		label string
		year  int
		want  string
	}{
		{"canonical label", report.KindTax, "Real Estate", 2021, "real_estate"},
		{"uppercase source label", report.KindTax, "REAL ESTATE", 2021, "real_estate"},
		{"footnote marker stripped", report.KindTax, "Total Wage*", 2021, "wage"},
		{"trailing punctuation stripped", report.KindTax, "Total Wage..", 2021, "wage"},
		{"collapsed whitespace", report.KindTax, "Real   Estate", 2021, "real_estate"},
		{"pre-rename vintage", report.KindTax, "Business Privilege", 2010, "birt"},
		{"modern beverage tax", report.KindTax, "Beverage", 2018, "soda"},
		{"non-tax rename old label", report.KindNonTax, "Nonprofit Contribution", 2017, "payments_in_lieu_of_taxes"},
		{"non-tax rename new label", report.KindNonTax, "Payments in Lieu of Taxes", 2020, "payments_in_lieu_of_taxes"},
		{"interest rename", report.KindNonTax, "Interest Income", 2015, "interest_earnings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := n.Normalize(tt.kind, tt.label, tt.year)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	n := Default()
	first, err := n.Normalize(report.KindTax, "Real Estate", 2021)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		got, err := n.Normalize(report.KindTax, "Real Estate", 2021)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestNormalizeUnknownLabel(t *testing.T) {
	n := Default()

	_, err := n.Normalize(report.KindTax, "Parking Meteors", 2021)
	var unknown *UnknownCategoryError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, report.KindTax, unknown.Kind)
	assert.Equal(t, "Parking Meteors", unknown.Label)
	assert.Equal(t, 2021, unknown.Year)
}

func TestNormalizeOutsideYearRange(t *testing.T) {
	n := Default()

	// Business Privilege only names the tax through 2011.
	_, err := n.Normalize(report.KindTax, "Business Privilege", 2015)
	var unknown *UnknownCategoryError
	assert.ErrorAs(t, err, &unknown)

	// The beverage tax does not exist before 2017.
	_, err = n.Normalize(report.KindTax, "Beverage", 2015)
	assert.ErrorAs(t, err, &unknown)
}

func TestLoad(t *testing.T) {
	table := []byte(`
aliases:
  tax:
    - {label: "Wage", canonical: wage}
    - {label: "Earnings", canonical: wage, last_year: 1999}
`)
	n, err := Load(table)
	require.NoError(t, err)

	got, err := n.Normalize(report.KindTax, "Earnings", 1998)
	require.NoError(t, err)
	assert.Equal(t, "wage", got)

	_, err = n.Normalize(report.KindTax, "Earnings", 2005)
	assert.Error(t, err)
}

func TestLoadRejectsIncompleteEntries(t *testing.T) {
	_, err := Load([]byte(`
aliases:
  tax:
    - {label: "Wage"}
`))
	assert.Error(t, err)
}
