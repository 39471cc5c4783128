package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvHeader extends the shared columns with the raw milliunit amount so
// downstream tools can recompute sums exactly from the export.
var csvHeader = []string{"date", "payee", "category", "amount", "amount_milliunits", "memo"}

// ExportCSV writes the report as a CSV file at path. Write failures
// propagate; a report job's whole purpose is the artifact.
func (r *Report) ExportCSV(path string, order SortOrder) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, t := range r.Transactions(order) {
		record := []string{
			t.Date.String(),
			t.PayeeName,
			t.CategoryName,
			t.Amount.Display(),
			strconv.FormatInt(int64(t.Amount), 10),
			t.Memo,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
