package core

import (
	"errors"
	"time"
)

// Flag colors as the budget service reports them. Only red matters for
// report selection; older exports used "red_flag" for the same marker.
const (
	FlagRed       FlagColor = "red"
	FlagRedLegacy FlagColor = "red_flag"
	FlagYellow    FlagColor = "yellow"
	FlagGreen     FlagColor = "green"
)

type (
	FlagColor string

	// Date is a calendar day with no time-of-day component. All
	// comparisons happen at day granularity in UTC.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID           string
		Date         Date
		PayeeName    string
		CategoryID   string
		CategoryName string
		AccountID    string
		AccountName  string
		Amount       Milliunits
		Flag         FlagColor
		Memo         string
	}

	Account struct {
		ID       string
		Name     string
		Type     string
		Balance  Milliunits
		OnBudget bool
		Closed   bool
	}

	Category struct {
		ID     string
		Name   string
		Hidden bool
	}

	CategoryGroup struct {
		ID         string
		Name       string
		Categories []Category
	}
)

var (
	ErrMissingToken = errors.New("no API token configured: set YNAB_API_TOKEN in the environment or .env file")
	ErrNoBudgets    = errors.New("no budgets found for this account: create a budget in the service first")
	ErrUnauthorized = errors.New("API token rejected: check YNAB_API_TOKEN and generate a new personal access token if needed")
	ErrRateLimited  = errors.New("rate limit exceeded: wait before retrying")
)

// IsRedFlagged reports whether the marker is the red flag, accepting the
// legacy spelling as equivalent.
func (f FlagColor) IsRedFlagged() bool {
	return f == FlagRed || f == FlagRedLegacy
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO calendar date string (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

// String renders the date back to ISO form.
func (d Date) String() string {
	return d.Format("2006-01-02")
}

// OnOrAfter reports d >= other at calendar-day granularity.
func (d Date) OnOrAfter(other Date) bool {
	return !d.Time.Before(other.Time)
}

// OnOrBefore reports d <= other at calendar-day granularity.
func (d Date) OnOrBefore(other Date) bool {
	return !d.Time.After(other.Time)
}

// IsZero reports whether the date is unset (used for optional bounds).
func (d Date) IsZero() bool {
	return d.Time.IsZero()
}
