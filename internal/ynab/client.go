// Package ynab is the read-only client for the remote budget service.
//
// The client is a pure request/response boundary: it holds no response
// cache (the services layer wraps it with one) and reports every failure
// as a typed error so callers can tell an outage from an empty result.
// The only exception is the resolved budget ID, which the API contract
// says to remember for the freshness window.
package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"redflag/internal/cache"
	"redflag/internal/core"
)

// DefaultBaseURL is the public v1 API endpoint.
const DefaultBaseURL = "https://api.ynab.com/v1"

// Config carries the explicit client configuration. No environment is
// read here; cmd wiring resolves env into this struct so tests can build
// clients against fakes.
type Config struct {
	Token    string
	BudgetID string
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string

	// Explicitly configured budget, if any. When empty the first budget
	// on the account is used and remembered in budgetIDs.
	budgetID  string
	budgetIDs *cache.Store[string]
}

// New builds a client. A missing token is a configuration error, caught
// at startup rather than on the first request. Passing a nil httpClient
// uses a default with the configured timeout.
func New(cfg Config, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, core.ErrMissingToken
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      cfg.Token,
		budgetID:   cfg.BudgetID,
		budgetIDs:  cache.NewStore[string](cfg.CacheTTL),
	}, nil
}

// BudgetID resolves the budget to operate against: the explicitly
// configured ID wins, otherwise the first budget on the account is used
// and cached for the freshness window.
func (c *Client) BudgetID(ctx context.Context) (string, error) {
	if c.budgetID != "" {
		return c.budgetID, nil
	}

	key := cache.Key{Kind: cache.KindBudgetID}
	if id, found := c.budgetIDs.Get(key); found {
		return id, nil
	}

	var resp budgetsResponse
	if err := c.get(ctx, "/budgets", nil, &resp); err != nil {
		return "", fmt.Errorf("list budgets: %w", err)
	}
	if len(resp.Data.Budgets) == 0 {
		return "", core.ErrNoBudgets
	}

	id := resp.Data.Budgets[0].ID
	c.budgetIDs.Set(key, id)
	return id, nil
}

// FetchTransactions lists the budget's transactions, optionally since a
// given date. The service only filters on the lower bound; anything
// narrower is the filter pipeline's job.
func (c *Client) FetchTransactions(ctx context.Context, since core.Date) ([]core.Transaction, error) {
	budgetID, err := c.BudgetID(ctx)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if !since.IsZero() {
		params.Set("since_date", since.String())
	}

	var resp transactionsResponse
	if err := c.get(ctx, "/budgets/"+budgetID+"/transactions", params, &resp); err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}

	txns := make([]core.Transaction, 0, len(resp.Data.Transactions))
	for _, wire := range resp.Data.Transactions {
		if wire.Deleted {
			continue
		}
		t, err := wire.toDomain()
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", wire.ID, err)
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// FetchAccounts lists the budget's accounts.
func (c *Client) FetchAccounts(ctx context.Context) ([]core.Account, error) {
	budgetID, err := c.BudgetID(ctx)
	if err != nil {
		return nil, err
	}

	var resp accountsResponse
	if err := c.get(ctx, "/budgets/"+budgetID+"/accounts", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}

	accounts := make([]core.Account, 0, len(resp.Data.Accounts))
	for _, wire := range resp.Data.Accounts {
		if wire.Deleted {
			continue
		}
		accounts = append(accounts, wire.toDomain())
	}
	return accounts, nil
}

// FetchCategoryGroups lists the budget's category groups with their
// categories.
func (c *Client) FetchCategoryGroups(ctx context.Context) ([]core.CategoryGroup, error) {
	budgetID, err := c.BudgetID(ctx)
	if err != nil {
		return nil, err
	}

	var resp categoriesResponse
	if err := c.get(ctx, "/budgets/"+budgetID+"/categories", nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch category groups: %w", err)
	}

	groups := make([]core.CategoryGroup, 0, len(resp.Data.CategoryGroups))
	for _, wire := range resp.Data.CategoryGroups {
		if wire.Deleted {
			continue
		}
		groups = append(groups, wire.toDomain())
	}
	return groups, nil
}

// get issues an authorized GET and decodes the response, translating
// authorization and throttling statuses to their sentinel errors.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return core.ErrUnauthorized
	case http.StatusTooManyRequests:
		return core.ErrRateLimited
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, path, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}

// IsFatal reports whether the error must stop the calling operation
// (configuration, authorization, throttling) rather than being treated
// as a transient transport failure.
func IsFatal(err error) bool {
	return errors.Is(err, core.ErrMissingToken) ||
		errors.Is(err, core.ErrNoBudgets) ||
		errors.Is(err, core.ErrUnauthorized) ||
		errors.Is(err, core.ErrRateLimited)
}
