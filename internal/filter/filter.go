// Package filter narrows a raw transaction list down to the red-flagged
// subset matching the caller's constraints.
package filter

import (
	"redflag/internal/core"
)

// Criteria holds the optional constraints applied after the red-flag
// check. Zero values mean "no constraint".
type Criteria struct {
	StartDate  core.Date
	EndDate    core.Date
	CategoryID string
	AccountID  string
}

// RedFlagged returns the red-flagged transactions satisfying every
// supplied criterion. Input order is preserved; the input slice is never
// modified. Date bounds are inclusive and compared as calendar days.
func RedFlagged(txns []core.Transaction, c Criteria) []core.Transaction {
	out := make([]core.Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Flag.IsRedFlagged() {
			continue
		}
		if !c.StartDate.IsZero() && !t.Date.OnOrAfter(c.StartDate) {
			continue
		}
		if !c.EndDate.IsZero() && !t.Date.OnOrBefore(c.EndDate) {
			continue
		}
		if c.CategoryID != "" && t.CategoryID != c.CategoryID {
			continue
		}
		if c.AccountID != "" && t.AccountID != c.AccountID {
			continue
		}
		out = append(out, t)
	}
	return out
}
