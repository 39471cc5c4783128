package ynab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"redflag/internal/core"
)

const budgetsBody = `{"data":{"budgets":[{"id":"budget-1","name":"Main"},{"id":"budget-2","name":"Other"}]}}`

const transactionsBody = `{"data":{"transactions":[
	{"id":"t1","date":"2024-01-05","amount":-50000,"memo":"groceries","flag_color":"red",
	 "account_id":"acc-1","account_name":"Checking","payee_name":"Store","category_id":"cat-a","category_name":"Food","deleted":false},
	{"id":"t2","date":"2024-01-20","amount":-30000,"memo":null,"flag_color":null,
	 "account_id":"acc-1","account_name":"Checking","payee_name":null,"category_id":null,"category_name":null,"deleted":false},
	{"id":"t3","date":"2024-01-21","amount":-1000,"memo":null,"flag_color":"red",
	 "account_id":"acc-1","account_name":"Checking","payee_name":"Gone","category_id":null,"category_name":null,"deleted":true}
]}}`

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(Config{Token: "test-token", BaseURL: srv.URL}, srv.Client())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNew_MissingToken(t *testing.T) {
	_, err := New(Config{Token: "  "}, nil)
	if !errors.Is(err, core.ErrMissingToken) {
		t.Errorf("New with blank token = %v, want ErrMissingToken", err)
	}
}

func TestClient_BudgetID_ExplicitWins(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(budgetsBody))
	}))
	client.budgetID = "explicit-budget"

	id, err := client.BudgetID(context.Background())
	if err != nil {
		t.Fatalf("BudgetID returned error: %v", err)
	}
	if id != "explicit-budget" {
		t.Errorf("BudgetID = %q, want explicit-budget", id)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("explicit budget ID must not hit the network")
	}
}

func TestClient_BudgetID_FirstBudgetCached(t *testing.T) {
	var calls int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/budgets" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(budgetsBody))
	}))

	for i := 0; i < 3; i++ {
		id, err := client.BudgetID(context.Background())
		if err != nil {
			t.Fatalf("BudgetID returned error: %v", err)
		}
		if id != "budget-1" {
			t.Errorf("BudgetID = %q, want first budget", id)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("budget lookup issued %d calls, want 1 (cached for freshness window)", got)
	}
}

func TestClient_BudgetID_NoBudgets(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"budgets":[]}}`))
	}))

	_, err := client.BudgetID(context.Background())
	if !errors.Is(err, core.ErrNoBudgets) {
		t.Errorf("BudgetID = %v, want ErrNoBudgets", err)
	}
}

func TestClient_FetchTransactions(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budgets":
			w.Write([]byte(budgetsBody))
		case "/budgets/budget-1/transactions":
			if got := r.URL.Query().Get("since_date"); got != "2024-01-01" {
				t.Errorf("since_date = %q, want 2024-01-01", got)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
				t.Errorf("Authorization = %q", got)
			}
			w.Write([]byte(transactionsBody))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))

	txns, err := client.FetchTransactions(context.Background(), core.NewDate(2024, 1, 1))
	if err != nil {
		t.Fatalf("FetchTransactions returned error: %v", err)
	}

	if len(txns) != 2 {
		t.Fatalf("got %d transactions, want 2 (deleted rows dropped)", len(txns))
	}

	first := txns[0]
	if first.ID != "t1" || first.Amount != -50000 || !first.Flag.IsRedFlagged() {
		t.Errorf("unexpected first transaction: %+v", first)
	}
	if first.Date.String() != "2024-01-05" {
		t.Errorf("date = %s, want 2024-01-05", first.Date)
	}

	// Null fields come through as empty strings, not panics.
	second := txns[1]
	if second.PayeeName != "" || second.CategoryID != "" || second.Memo != "" {
		t.Errorf("null fields should map to empty strings: %+v", second)
	}
}

func TestClient_FetchTransactions_NoSinceDate(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budgets":
			w.Write([]byte(budgetsBody))
		default:
			if r.URL.Query().Has("since_date") {
				t.Error("since_date must be omitted when no start date is given")
			}
			w.Write([]byte(`{"data":{"transactions":[]}}`))
		}
	}))

	if _, err := client.FetchTransactions(context.Background(), core.Date{}); err != nil {
		t.Fatalf("FetchTransactions returned error: %v", err)
	}
}

func TestClient_ErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, core.ErrUnauthorized},
		{"forbidden", http.StatusForbidden, core.ErrUnauthorized},
		{"throttled", http.StatusTooManyRequests, core.ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			_, err := client.FetchAccounts(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("FetchAccounts = %v, want %v", err, tt.want)
			}
			if !IsFatal(err) {
				t.Errorf("IsFatal(%v) = false, want true", err)
			}
		})
	}
}

func TestClient_TransportErrorIsNotFatal(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := client.FetchCategoryGroups(context.Background())
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
	if IsFatal(err) {
		t.Errorf("IsFatal(%v) = true, want false for transport failures", err)
	}
}

func TestClient_FetchAccounts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budgets":
			w.Write([]byte(budgetsBody))
		case "/budgets/budget-1/accounts":
			w.Write([]byte(`{"data":{"accounts":[
				{"id":"acc-1","name":"Checking","type":"checking","balance":125000,"on_budget":true,"closed":false,"deleted":false},
				{"id":"acc-2","name":"Old","type":"savings","balance":0,"on_budget":false,"closed":true,"deleted":true}
			]}}`))
		default:
			http.NotFound(w, r)
		}
	}))

	accounts, err := client.FetchAccounts(context.Background())
	if err != nil {
		t.Fatalf("FetchAccounts returned error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("got %d accounts, want 1", len(accounts))
	}
	if accounts[0].Balance != 125000 || !accounts[0].OnBudget {
		t.Errorf("unexpected account: %+v", accounts[0])
	}
}

func TestClient_FetchCategoryGroups(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/budgets":
			w.Write([]byte(budgetsBody))
		case "/budgets/budget-1/categories":
			w.Write([]byte(`{"data":{"category_groups":[
				{"id":"grp-1","name":"Everyday","hidden":false,"deleted":false,"categories":[
					{"id":"cat-a","name":"Food","hidden":false,"deleted":false},
					{"id":"cat-b","name":"Retired","hidden":true,"deleted":true}
				]}
			]}}`))
		default:
			http.NotFound(w, r)
		}
	}))

	groups, err := client.FetchCategoryGroups(context.Background())
	if err != nil {
		t.Fatalf("FetchCategoryGroups returned error: %v", err)
	}
	if len(groups) != 1 || len(groups[0].Categories) != 1 {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if groups[0].Categories[0].Name != "Food" {
		t.Errorf("category = %+v, want Food", groups[0].Categories[0])
	}
}

func TestClient_ContextTimeout(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(budgetsBody))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.FetchAccounts(ctx)
	if err == nil {
		t.Fatal("expected error when the context deadline passes")
	}
	if IsFatal(err) {
		t.Errorf("timeouts are transport failures, IsFatal(%v) should be false", err)
	}
}
