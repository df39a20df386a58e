package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/picanha/dash/internal/domain"
)

func TestEnsureUsesSampleWithoutSource(t *testing.T) {
	svc := NewService(nil)

	if err := svc.Ensure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txs := svc.Transactions()
	if len(txs) != 9 {
		t.Fatalf("len(txs) = %d, want 9", len(txs))
	}
	if txs[0].ID != "tx-1" || txs[0].Asset != "EUR" || txs[0].Total != 15000 {
		t.Errorf("unexpected first transaction: %+v", txs[0])
	}
	if svc.Summary() != nil {
		t.Error("sample ledger has no summary")
	}
}

func TestEnsureFetchesRemoteLedger(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"transactions": [
				{"id":"r-1","date":"2025-01-01T00:00:00Z","type":"buy","asset":"EUR","amount":100,"price":1,"total":100,"status":"completed"}
			],
			"summary": {"count": 1}
		}`))
	}))
	defer server.Close()

	svc := NewService(NewClient(server.URL))
	if err := svc.Ensure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txs := svc.Transactions()
	if len(txs) != 1 || txs[0].ID != "r-1" {
		t.Errorf("txs = %+v, want the remote ledger", txs)
	}
	if string(svc.Summary()) != `{"count": 1}` {
		t.Errorf("summary = %s, want the remote summary block", svc.Summary())
	}
}

func TestEnsureFallsBackOnRemoteFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	svc := NewService(NewClient(server.URL))
	if err := svc.Ensure(context.Background()); err != nil {
		t.Fatalf("fallback must not surface an error: %v", err)
	}

	if len(svc.Transactions()) != 9 {
		t.Errorf("expected sample ledger fallback, got %d transactions", len(svc.Transactions()))
	}
}

func TestEnsureLoadsOnce(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"transactions":[{"id":"r-1","type":"buy","asset":"EUR","total":1,"status":"completed"}]}`))
	}))
	defer server.Close()

	svc := NewService(NewClient(server.URL))
	for range 3 {
		if err := svc.Ensure(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if calls != 1 {
		t.Errorf("remote calls = %d, want 1", calls)
	}
}

func TestTransactionsReturnsCopy(t *testing.T) {
	svc := NewService(nil)
	if err := svc.Ensure(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	txs := svc.Transactions()
	txs[0] = domain.Transaction{ID: "mutated"}

	if svc.Transactions()[0].ID != "tx-1" {
		t.Error("callers must not be able to mutate the session ledger")
	}
}
