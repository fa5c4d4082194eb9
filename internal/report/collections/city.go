package collections

import "github.com/FACorreiaa/phl-budget-data/internal/report"

// NewCityTax parses the tax section of the monthly city collections
// comparative statement. Major taxes print as Current/Prior/Total tax-year
// groups; smaller taxes print as a single total row. The wage/earnings/net
// profits combination rows restate sums already carried by the per-tax
// Total rows, so they are skipped rather than double counted.
func NewCityTax() report.Parser {
	return &monthlyParser{spec: monthlySpec{
		family:       report.FamilyCityTax,
		anchors:      []string{"REAL ESTATE"},
		anchorIsData: true,
		grouped:      true,
		terminal:     "TOTAL TAX REVENUE",
		skip: []string{
			"TOTAL WAGE",
			"TOTAL EARNINGS",
			"TOTAL NET PROFITS",
			"WAGE, EARNINGS, NET PROFITS",
			"CITY, PICA WAGE",
			"TAX TO PICA",
			"DATA WAREHOUSE",
		},
	}}
}

// NewCityNonTax parses the locally generated non-tax section, which starts
// right after the tax section's closing row.
func NewCityNonTax() report.Parser {
	return &monthlyParser{spec: monthlySpec{
		family:   report.FamilyCityNonTax,
		anchors:  []string{"TOTAL TAX REVENUE"},
		terminal: "TOTAL LOCAL NON",
	}}
}

// NewCityOtherGovts parses the revenue-from-other-governments section.
func NewCityOtherGovts() report.Parser {
	return &monthlyParser{spec: monthlySpec{
		family:       report.FamilyCityOtherGovts,
		anchors:      []string{"U.S. GOVERNMENT", "US GOVERNMENT"},
		anchorIsData: true,
		terminal:     "TOTAL REVENUE FROM OTHER GOVERNMENTS",
	}}
}
