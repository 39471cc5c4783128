// Package report renders a filtered transaction list into durable
// artifacts: CSV, spreadsheet, and a paginated PDF document.
//
// A Report is immutable once built. The total is derived exactly once
// from the full milliunit sum; re-rendering to another format never
// mutates or resums the source list.
package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"redflag/internal/core"
)

// SortOrder selects the row order at render time. Sorting is a rendering
// parameter only; the underlying list keeps its input order.
type SortOrder int

const (
	OrderInput SortOrder = iota
	OrderNewestFirst
)

// Columns shared by every tabular rendering.
var columns = []string{"Date", "Payee", "Category", "Amount", "Memo"}

type Report struct {
	txns        []core.Transaction
	total       core.Milliunits
	generatedAt time.Time
}

// New builds a report from a transaction list. The list is copied, so
// later changes to the caller's slice cannot affect the report.
func New(txns []core.Transaction) *Report {
	copied := make([]core.Transaction, len(txns))
	copy(copied, txns)
	return &Report{
		txns:        copied,
		total:       core.SumMilliunits(copied),
		generatedAt: time.Now(),
	}
}

// Count returns the number of transactions in the report.
func (r *Report) Count() int {
	return len(r.txns)
}

// Total returns the sum of all amounts in display units. The sum happens
// in integral milliunits before the single conversion, so per-row display
// rounding can never drift the total.
func (r *Report) Total() decimal.Decimal {
	return r.total.Decimal()
}

// TotalMilliunits returns the raw integral sum.
func (r *Report) TotalMilliunits() core.Milliunits {
	return r.total
}

// Transactions returns the rows in the requested order. The result is a
// fresh slice each call.
func (r *Report) Transactions(order SortOrder) []core.Transaction {
	out := make([]core.Transaction, len(r.txns))
	copy(out, r.txns)
	if order == OrderNewestFirst {
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Date.After(out[j].Date.Time)
		})
	}
	return out
}

// row renders one transaction's display cells in column order.
func row(t core.Transaction) []string {
	return []string{
		t.Date.String(),
		t.PayeeName,
		t.CategoryName,
		t.Amount.Display(),
		t.Memo,
	}
}
