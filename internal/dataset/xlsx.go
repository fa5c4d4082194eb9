package dataset

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// columns in published order; kept in sync with the csv tags on LineRecord.
var xlsxHeader = []string{
	"category", "parent_category", "dimension", "amount",
	"calendar_year", "calendar_month", "fiscal_year", "fiscal_month",
	"fiscal_quarter", "report_kind", "source_report_id",
}

// ExportXLSX writes one or more datasets to a single workbook, one sheet
// per family. Spreadsheet export exists for analysts who live in Excel;
// the CSV remains the canonical published artifact.
func ExportXLSX(path string, datasets ...*Dataset) error {
	if len(datasets) == 0 {
		return fmt.Errorf("xlsx export: no datasets")
	}

	wb := excelize.NewFile()
	defer wb.Close()

	for i, d := range datasets {
		sheet := string(d.Family)
		if i == 0 {
			if err := wb.SetSheetName(wb.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("xlsx export: %w", err)
			}
		} else if _, err := wb.NewSheet(sheet); err != nil {
			return fmt.Errorf("xlsx export: %w", err)
		}

		for col, name := range xlsxHeader {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("xlsx export: %w", err)
			}
			if err := wb.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("xlsx export: %w", err)
			}
		}

		for i, r := range d.Records {
			amount, _ := r.Amount.Float64()
			values := []any{
				r.Category, r.ParentCategory, r.Dimension, amount,
				r.CalendarYear, r.CalendarMonth, r.FiscalYear, r.FiscalMonth,
				r.FiscalQuarter, string(r.Kind), r.SourceReportID,
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, i+2)
				if err != nil {
					return fmt.Errorf("xlsx export: %w", err)
				}
				if err := wb.SetCellValue(sheet, cell, v); err != nil {
					return fmt.Errorf("xlsx export: %w", err)
				}
			}
		}
	}

	if err := wb.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx export: %w", err)
	}
	return nil
}
