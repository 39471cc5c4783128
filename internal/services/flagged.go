// Package services orchestrates retrieval: remote client, freshness
// cache, and filter pipeline behind one API for the CLI and worker.
package services

import (
	"context"
	"log/slog"
	"time"

	"redflag/internal/cache"
	"redflag/internal/core"
	"redflag/internal/filter"
	"redflag/internal/ynab"
)

// Fetcher is the remote read boundary. *ynab.Client satisfies it; tests
// substitute fakes.
type Fetcher interface {
	FetchTransactions(ctx context.Context, since core.Date) ([]core.Transaction, error)
	FetchAccounts(ctx context.Context) ([]core.Account, error)
	FetchCategoryGroups(ctx context.Context) ([]core.CategoryGroup, error)
}

// Query is the caller's constraint set for a red-flag retrieval.
type Query struct {
	StartDate  core.Date
	EndDate    core.Date
	CategoryID string
	AccountID  string
}

func (q Query) criteria() filter.Criteria {
	return filter.Criteria{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		CategoryID: q.CategoryID,
		AccountID:  q.AccountID,
	}
}

func (q Query) cacheKey() cache.Key {
	return cache.Key{
		Kind:       cache.KindTransactions,
		SinceDate:  q.StartDate,
		EndDate:    q.EndDate,
		CategoryID: q.CategoryID,
		AccountID:  q.AccountID,
	}
}

// FlaggedService serves red-flagged transaction sets and the account and
// category listings needed to build filters for them.
//
// Error contract: configuration, authorization, and throttling errors
// propagate; any other fetch failure is logged and collapses to an empty
// result, so a scheduled report cycle degrades to "no data" instead of
// crashing. Callers that must tell the two apart use the client directly.
type FlaggedService struct {
	client       Fetcher
	transactions *cache.Store[[]core.Transaction]
	accounts     *cache.Store[[]core.Account]
	groups       *cache.Store[[]core.CategoryGroup]
}

func NewFlaggedService(client Fetcher, ttl time.Duration) *FlaggedService {
	return &FlaggedService{
		client:       client,
		transactions: cache.NewStore[[]core.Transaction](ttl),
		accounts:     cache.NewStore[[]core.Account](ttl),
		groups:       cache.NewStore[[]core.CategoryGroup](ttl),
	}
}

// RedFlagged returns the red-flagged transactions matching the query.
// With useCache a fresh cached result for the same query shape is
// returned without a network call; useCache=false always fetches but
// still refreshes the cache on success.
func (s *FlaggedService) RedFlagged(ctx context.Context, q Query, useCache bool) ([]core.Transaction, error) {
	key := q.cacheKey()
	if useCache {
		if cached, found := s.transactions.Get(key); found {
			return cached, nil
		}
	}

	raw, err := s.client.FetchTransactions(ctx, q.StartDate)
	if err != nil {
		if ynab.IsFatal(err) {
			return nil, err
		}
		slog.ErrorContext(ctx, "Transaction fetch failed, returning empty result",
			"component", "services",
			"error", err)
		return []core.Transaction{}, nil
	}

	flagged := filter.RedFlagged(raw, q.criteria())
	s.transactions.Set(key, flagged)
	return flagged, nil
}

// Accounts lists the budget's accounts under the same cache and error
// contract as RedFlagged.
func (s *FlaggedService) Accounts(ctx context.Context, useCache bool) ([]core.Account, error) {
	key := cache.Key{Kind: cache.KindAccounts}
	if useCache {
		if cached, found := s.accounts.Get(key); found {
			return cached, nil
		}
	}

	accounts, err := s.client.FetchAccounts(ctx)
	if err != nil {
		if ynab.IsFatal(err) {
			return nil, err
		}
		slog.ErrorContext(ctx, "Account fetch failed, returning empty result",
			"component", "services",
			"error", err)
		return []core.Account{}, nil
	}

	s.accounts.Set(key, accounts)
	return accounts, nil
}

// CategoryGroups lists the budget's category groups under the same cache
// and error contract as RedFlagged.
func (s *FlaggedService) CategoryGroups(ctx context.Context, useCache bool) ([]core.CategoryGroup, error) {
	key := cache.Key{Kind: cache.KindCategoryGroups}
	if useCache {
		if cached, found := s.groups.Get(key); found {
			return cached, nil
		}
	}

	groups, err := s.client.FetchCategoryGroups(ctx)
	if err != nil {
		if ynab.IsFatal(err) {
			return nil, err
		}
		slog.ErrorContext(ctx, "Category group fetch failed, returning empty result",
			"component", "services",
			"error", err)
		return []core.CategoryGroup{}, nil
	}

	s.groups.Set(key, groups)
	return groups, nil
}
