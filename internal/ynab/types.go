package ynab

import (
	"redflag/internal/core"
)

// Wire types for the budget service's v1 REST API. Every response nests
// its payload under a "data" envelope; nullable fields come back as JSON
// null and are modeled as pointers.

type budgetsResponse struct {
	Data struct {
		Budgets []budgetJSON `json:"budgets"`
	} `json:"data"`
}

type budgetJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type transactionsResponse struct {
	Data struct {
		Transactions []transactionJSON `json:"transactions"`
	} `json:"data"`
}

type transactionJSON struct {
	ID           string  `json:"id"`
	Date         string  `json:"date"`
	Amount       int64   `json:"amount"`
	Memo         *string `json:"memo"`
	FlagColor    *string `json:"flag_color"`
	AccountID    string  `json:"account_id"`
	AccountName  string  `json:"account_name"`
	PayeeName    *string `json:"payee_name"`
	CategoryID   *string `json:"category_id"`
	CategoryName *string `json:"category_name"`
	Deleted      bool    `json:"deleted"`
}

type accountsResponse struct {
	Data struct {
		Accounts []accountJSON `json:"accounts"`
	} `json:"data"`
}

type accountJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Balance  int64  `json:"balance"`
	OnBudget bool   `json:"on_budget"`
	Closed   bool   `json:"closed"`
	Deleted  bool   `json:"deleted"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups []categoryGroupJSON `json:"category_groups"`
	} `json:"data"`
}

type categoryGroupJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Hidden     bool           `json:"hidden"`
	Deleted    bool           `json:"deleted"`
	Categories []categoryJSON `json:"categories"`
}

type categoryJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Hidden  bool   `json:"hidden"`
	Deleted bool   `json:"deleted"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (t transactionJSON) toDomain() (core.Transaction, error) {
	date, err := core.ParseDate(t.Date)
	if err != nil {
		return core.Transaction{}, err
	}
	return core.Transaction{
		ID:           t.ID,
		Date:         date,
		PayeeName:    deref(t.PayeeName),
		CategoryID:   deref(t.CategoryID),
		CategoryName: deref(t.CategoryName),
		AccountID:    t.AccountID,
		AccountName:  t.AccountName,
		Amount:       core.Milliunits(t.Amount),
		Flag:         core.FlagColor(deref(t.FlagColor)),
		Memo:         deref(t.Memo),
	}, nil
}

func (a accountJSON) toDomain() core.Account {
	return core.Account{
		ID:       a.ID,
		Name:     a.Name,
		Type:     a.Type,
		Balance:  core.Milliunits(a.Balance),
		OnBudget: a.OnBudget,
		Closed:   a.Closed,
	}
}

func (g categoryGroupJSON) toDomain() core.CategoryGroup {
	group := core.CategoryGroup{
		ID:   g.ID,
		Name: g.Name,
	}
	for _, c := range g.Categories {
		if c.Deleted {
			continue
		}
		group.Categories = append(group.Categories, core.Category{
			ID:     c.ID,
			Name:   c.Name,
			Hidden: c.Hidden,
		})
	}
	return group
}
