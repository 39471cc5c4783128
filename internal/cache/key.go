package cache

import (
	"fmt"

	"redflag/internal/core"
)

// Kind identifies the remote operation a cached payload came from.
type Kind string

const (
	KindTransactions   Kind = "transactions"
	KindAccounts       Kind = "accounts"
	KindCategoryGroups Kind = "category_groups"
	KindBudgetID       Kind = "budget_id"
)

// Key is the composite cache key for a request shape. Optional fields are
// part of the key even when absent so that two requests differing only in
// one filter never collide.
type Key struct {
	Kind       Kind
	SinceDate  core.Date
	EndDate    core.Date
	CategoryID string
	AccountID  string
}

// String renders the key deterministically. Every field keeps its labeled
// slot, so an absent value ("cat=") can never collide with a present one
// or shift a neighbouring field.
func (k Key) String() string {
	since := ""
	if !k.SinceDate.IsZero() {
		since = k.SinceDate.String()
	}
	end := ""
	if !k.EndDate.IsZero() {
		end = k.EndDate.String()
	}
	return fmt.Sprintf("%s|since=%s|end=%s|cat=%s|acct=%s", k.Kind, since, end, k.CategoryID, k.AccountID)
}
