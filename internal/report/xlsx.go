package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Red Flags"

// ExportXLSX writes the report as a spreadsheet workbook at path. The
// amount column holds the raw milliunit integer next to the display
// value, keeping the export machine-recomputable.
func (r *Report) ExportXLSX(path string, order SortOrder) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"date", "payee", "category", "amount", "amount_milliunits", "memo"}
	for i, name := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"808080"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}

	for i, t := range r.Transactions(order) {
		rowNum := i + 2
		display, _ := strconv.ParseFloat(t.Amount.Display(), 64)
		values := []any{
			t.Date.String(),
			t.PayeeName,
			t.CategoryName,
			display,
			int64(t.Amount),
			t.Memo,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return fmt.Errorf("row cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", rowNum, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}
	return nil
}
