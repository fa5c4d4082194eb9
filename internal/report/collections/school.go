package collections

import "github.com/FACorreiaa/phl-budget-data/internal/report"

// NewSchool parses the monthly School District collections statement. Same
// comparative shape as the city report: the big four taxes print as
// Current/Prior/Total groups, PILOTs and other non-tax as standalone rows.
func NewSchool() report.Parser {
	return &monthlyParser{spec: monthlySpec{
		family:       report.FamilySchool,
		anchors:      []string{"REAL ESTATE"},
		anchorIsData: true,
		grouped:      true,
		terminal:     "TOTAL REVENUE",
	}}
}
