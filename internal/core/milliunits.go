// Package core holds the transaction domain model shared by the client,
// filter, and report layers.
//
// Amounts are kept as integral milliunits (1/1000 of a currency unit, the
// budget service's fixed-point representation) for all storage and summation.
// Conversion to display units happens only at render time.
package core

import (
	"github.com/shopspring/decimal"
)

// Milliunits is a signed fixed-point currency amount where 1000 units
// equal one display-currency unit.
type Milliunits int64

// Decimal converts the amount to display units without loss: -50000
// milliunits become -50.
func (m Milliunits) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -3)
}

// Display renders the amount in display units with two decimal places,
// rounded half-up. Presentation only; never feed the result back into sums.
func (m Milliunits) Display() string {
	return m.Decimal().StringFixed(2)
}

// SumMilliunits adds amounts exactly in the integer domain. Summing before
// any display rounding avoids cumulative drift across rows.
func SumMilliunits(txns []Transaction) Milliunits {
	var total Milliunits
	for _, t := range txns {
		total += t.Amount
	}
	return total
}
