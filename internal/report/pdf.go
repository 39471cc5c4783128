package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"
)

// Column widths in mm for the letter-sized grid.
var pdfWidths = []float64{25, 45, 40, 25, 60}

// ExportPDF writes the report as a paginated PDF document: title,
// generation timestamp, computed total, then the rows as a grid with a
// shaded header. A zero-row report still yields a valid document with an
// explicit empty-state line.
func (r *Report) ExportPDF(path string, order SortOrder) error {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Red Flag Transaction Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on: "+r.generatedAt.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total amount: "+r.Total().StringFixed(2), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	if r.Count() == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.CellFormat(0, 8, "No red-flagged transactions matched the selected criteria.", "", 1, "L", false, 0, "")
		return outputPDF(pdf, path)
	}

	// Header row, white on grey.
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, name := range columns {
		pdf.CellFormat(pdfWidths[i], 8, name, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFillColor(245, 245, 220)
	for _, t := range r.Transactions(order) {
		for i, cell := range row(t) {
			align := "L"
			if i == 3 {
				align = "R"
			}
			pdf.CellFormat(pdfWidths[i], 7, cell, "1", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}

	return outputPDF(pdf, path)
}

func outputPDF(pdf *fpdf.Fpdf, path string) error {
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
