package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"redflag/internal/core"
)

type fakeFetcher struct {
	transactions []core.Transaction
	accounts     []core.Account
	groups       []core.CategoryGroup
	err          error

	txnCalls     int
	accountCalls int
	groupCalls   int
	lastSince    core.Date
}

func (f *fakeFetcher) FetchTransactions(_ context.Context, since core.Date) ([]core.Transaction, error) {
	f.txnCalls++
	f.lastSince = since
	if f.err != nil {
		return nil, f.err
	}
	return f.transactions, nil
}

func (f *fakeFetcher) FetchAccounts(context.Context) ([]core.Account, error) {
	f.accountCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.accounts, nil
}

func (f *fakeFetcher) FetchCategoryGroups(context.Context) ([]core.CategoryGroup, error) {
	f.groupCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.groups, nil
}

func flaggedFixture() []core.Transaction {
	return []core.Transaction{
		{ID: "t1", Date: core.NewDate(2024, 1, 5), Amount: -50000, Flag: core.FlagRed},
		{ID: "t2", Date: core.NewDate(2024, 2, 10), Amount: -12500, Flag: core.FlagRed},
		{ID: "t3", Date: core.NewDate(2024, 1, 20), Amount: -30000, Flag: core.FlagYellow},
	}
}

func TestRedFlagged_FiltersAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{transactions: flaggedFixture()}
	svc := NewFlaggedService(fetcher, time.Minute)

	q := Query{StartDate: core.NewDate(2024, 1, 1), EndDate: core.NewDate(2024, 1, 31)}

	first, err := svc.RedFlagged(context.Background(), q, true)
	if err != nil {
		t.Fatalf("RedFlagged returned error: %v", err)
	}
	if len(first) != 1 || first[0].ID != "t1" {
		t.Fatalf("got %+v, want only t1 (t2 out of range, t3 not red)", first)
	}
	if fetcher.lastSince.String() != "2024-01-01" {
		t.Errorf("since date passed to client = %s, want the query start date", fetcher.lastSince)
	}

	second, err := svc.RedFlagged(context.Background(), q, true)
	if err != nil {
		t.Fatalf("RedFlagged returned error: %v", err)
	}
	if len(second) != 1 || second[0] != first[0] {
		t.Errorf("cached result differs from first: %+v", second)
	}
	if fetcher.txnCalls != 1 {
		t.Errorf("issued %d network calls, want 1 inside the freshness window", fetcher.txnCalls)
	}
}

func TestRedFlagged_CacheBypassStillFetches(t *testing.T) {
	fetcher := &fakeFetcher{transactions: flaggedFixture()}
	svc := NewFlaggedService(fetcher, time.Minute)
	q := Query{CategoryID: "none-match"}

	for i := 0; i < 3; i++ {
		if _, err := svc.RedFlagged(context.Background(), q, false); err != nil {
			t.Fatalf("RedFlagged returned error: %v", err)
		}
	}

	if fetcher.txnCalls != 3 {
		t.Errorf("issued %d network calls, want 3 with useCache=false", fetcher.txnCalls)
	}
}

func TestRedFlagged_BypassWritesThrough(t *testing.T) {
	fetcher := &fakeFetcher{transactions: flaggedFixture()}
	svc := NewFlaggedService(fetcher, time.Minute)
	q := Query{}

	if _, err := svc.RedFlagged(context.Background(), q, false); err != nil {
		t.Fatalf("RedFlagged returned error: %v", err)
	}
	// A bypassed read still populated the cache for the next caller.
	if _, err := svc.RedFlagged(context.Background(), q, true); err != nil {
		t.Fatalf("RedFlagged returned error: %v", err)
	}

	if fetcher.txnCalls != 1 {
		t.Errorf("issued %d network calls, want 1 (bypass writes still populate the cache)", fetcher.txnCalls)
	}
}

func TestRedFlagged_DistinctQueriesDistinctEntries(t *testing.T) {
	fetcher := &fakeFetcher{transactions: flaggedFixture()}
	svc := NewFlaggedService(fetcher, time.Minute)

	if _, err := svc.RedFlagged(context.Background(), Query{}, true); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RedFlagged(context.Background(), Query{CategoryID: "cat-a"}, true); err != nil {
		t.Fatal(err)
	}

	if fetcher.txnCalls != 2 {
		t.Errorf("issued %d network calls, want 2 for distinct query shapes", fetcher.txnCalls)
	}
}

func TestRedFlagged_TransportFailureReturnsEmpty(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection reset")}
	svc := NewFlaggedService(fetcher, time.Minute)

	got, err := svc.RedFlagged(context.Background(), Query{}, true)
	if err != nil {
		t.Fatalf("transport failures must not propagate, got %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}

	// A failed fetch is not cached: the next call retries the network.
	fetcher.err = nil
	fetcher.transactions = flaggedFixture()
	got, err = svc.RedFlagged(context.Background(), Query{}, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("recovered fetch returned %d transactions, want 2", len(got))
	}
}

func TestRedFlagged_FatalErrorsPropagate(t *testing.T) {
	fatal := []error{core.ErrUnauthorized, core.ErrRateLimited, core.ErrNoBudgets}

	for _, want := range fatal {
		fetcher := &fakeFetcher{err: want}
		svc := NewFlaggedService(fetcher, time.Minute)

		_, err := svc.RedFlagged(context.Background(), Query{}, true)
		if !errors.Is(err, want) {
			t.Errorf("RedFlagged = %v, want %v to propagate", err, want)
		}
	}
}

func TestAccounts_CachedListing(t *testing.T) {
	fetcher := &fakeFetcher{accounts: []core.Account{{ID: "acc-1", Name: "Checking"}}}
	svc := NewFlaggedService(fetcher, time.Minute)

	for i := 0; i < 2; i++ {
		accounts, err := svc.Accounts(context.Background(), true)
		if err != nil {
			t.Fatalf("Accounts returned error: %v", err)
		}
		if len(accounts) != 1 || accounts[0].ID != "acc-1" {
			t.Errorf("got %+v", accounts)
		}
	}
	if fetcher.accountCalls != 1 {
		t.Errorf("issued %d account calls, want 1", fetcher.accountCalls)
	}
}

func TestCategoryGroups_TransportFailureReturnsEmpty(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("dns failure")}
	svc := NewFlaggedService(fetcher, time.Minute)

	groups, err := svc.CategoryGroups(context.Background(), true)
	if err != nil {
		t.Fatalf("transport failures must not propagate, got %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("got %+v, want empty", groups)
	}
	if fetcher.groupCalls != 1 {
		t.Errorf("issued %d calls, want 1", fetcher.groupCalls)
	}
}
