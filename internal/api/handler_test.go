package api

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/picanha/dash/internal/assets"
	"github.com/picanha/dash/internal/balance"
	"github.com/picanha/dash/internal/coinbase"
	"github.com/picanha/dash/internal/domain"
	"github.com/picanha/dash/internal/ledger"
	"github.com/picanha/dash/internal/rates"
	"github.com/picanha/dash/internal/snapshot"
	"github.com/picanha/dash/internal/watchlist"
)

// newTestServer wires real services against a fake Coinbase upstream and the
// built-in sample ledger, mirroring the production wiring in cmd/dash.
func newTestServer(t *testing.T, upstream http.HandlerFunc, adminKey string) http.Handler {
	t.Helper()

	var client *coinbase.Client
	if upstream != nil {
		server := httptest.NewServer(upstream)
		t.Cleanup(server.Close)
		client = coinbase.NewClient(server.URL, 0, 0)
	} else {
		client = coinbase.NewClient("http://127.0.0.1:0", 0, 0)
	}

	rateStore := rates.NewStore(client, "EUR", 0)
	assetSvc := assets.NewService(client)
	ledgerSvc := ledger.NewService(nil)
	balanceSvc := balance.NewService(ledgerSvc)
	wl := watchlist.New()

	h := NewHandler(rateStore, assetSvc, ledgerSvc, balanceSvc, wl)

	repo := &memRepo{}
	snapHandler := NewSnapshotHandler(snapshot.NewService(balanceSvc, repo))

	return NewServer("0", h, snapHandler, adminKey).Handler
}

// memRepo is an in-memory snapshot.Repository for handler tests.
type memRepo struct {
	saved []snapshot.Snapshot
}

func (m *memRepo) Save(_ context.Context, date time.Time, fiat, crypto, total decimal.Decimal, data json.RawMessage) error {
	m.saved = append(m.saved, snapshot.Snapshot{
		SnapshotDate: date, FiatBalance: fiat, CryptoBalance: crypto, TotalValue: total, Data: data,
	})
	return nil
}

func (m *memRepo) GetLatest(_ context.Context) (*snapshot.Snapshot, error) {
	if len(m.saved) == 0 {
		return nil, snapshot.ErrNotFound
	}
	return &m.saved[len(m.saved)-1], nil
}

func (m *memRepo) GetByDate(_ context.Context, date time.Time) (*snapshot.Snapshot, error) {
	for i := range m.saved {
		if m.saved[i].SnapshotDate.Equal(date) {
			return &m.saved[i], nil
		}
	}
	return nil, snapshot.ErrNotFound
}

func (m *memRepo) List(_ context.Context, limit int) ([]snapshot.Snapshot, error) {
	if limit > len(m.saved) {
		limit = len(m.saved)
	}
	return m.saved[:limit], nil
}

func doRequest(t *testing.T, handler http.Handler, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestGetRatesInitiallyIdle(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/rates", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var snap rates.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.State != rates.StateIdle {
		t.Errorf("state = %q, want idle", snap.State)
	}
}

func TestRefreshRates(t *testing.T) {
	handler := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"currency":"EUR","rates":{"BTC":"0.000024","USD":"1.08"}}}`))
	}, "")

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/rates/refresh", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var snap rates.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.State != rates.StateReady || len(snap.Rates) != 2 {
		t.Errorf("snapshot = %+v, want ready with 2 rates", snap)
	}
	if snap.LastUpdated == nil {
		t.Error("lastUpdated missing after refresh")
	}
}

func TestRefreshRatesUpstreamError(t *testing.T) {
	handler := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}, "")

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/rates/refresh", nil)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	var snap rates.Snapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if snap.State != rates.StateFailed || !strings.Contains(snap.Error, "500") {
		t.Errorf("snapshot = %+v, want failed state mentioning HTTP 500", snap)
	}
}

func TestGetAssets(t *testing.T) {
	handler := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/currencies/crypto":
			w.Write([]byte(`{"data":[{"code":"BTC","name":"Bitcoin"}]}`))
		case "/currencies":
			w.Write([]byte(`{"data":[{"id":"EUR","name":"Euro","min_size":"0.01"}]}`))
		default:
			http.NotFound(w, r)
		}
	}, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/assets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var payload struct {
		Assets []domain.Asset `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Assets) != 2 {
		t.Fatalf("len(assets) = %d, want 2", len(payload.Assets))
	}
	if payload.Assets[0].Code != "BTC" || payload.Assets[1].Code != "EUR" {
		t.Errorf("assets not sorted by code: %+v", payload.Assets)
	}
}

func TestGetTransactionsUsesSampleLedger(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/transactions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Transactions []domain.Transaction `json:"transactions"`
		Assets       []string             `json:"assets"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Transactions) != 9 {
		t.Errorf("len(transactions) = %d, want 9", len(payload.Transactions))
	}
	if len(payload.Assets) != 4 {
		t.Errorf("distinct assets = %v, want [EUR SOL BTC DOGE]", payload.Assets)
	}
}

func TestGetBalances(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/balances", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var b domain.BalanceSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if math.Abs(b.TotalValue-(b.FiatBalance+b.CryptoBalance)) > 1e-9 {
		t.Errorf("total %v != fiat %v + crypto %v", b.TotalValue, b.FiatBalance, b.CryptoBalance)
	}
	if math.Abs(b.TotalValue-14000) > 1e-6 {
		t.Errorf("TotalValue = %v, want ~14000 for the sample ledger", b.TotalValue)
	}
}

func TestGetBalanceSeries(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/balances/series?type=crypto", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var payload struct {
		Type   string               `json:"type"`
		Points []domain.SeriesPoint `json:"points"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Type != "crypto" {
		t.Errorf("type = %q, want crypto", payload.Type)
	}
	if len(payload.Points) != 9 {
		t.Errorf("len(points) = %d, want 9", len(payload.Points))
	}
}

func TestGetBalanceSeriesInvalidType(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/balances/series?type=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestWatchlistLifecycle(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodPut, "/api/v1/watchlist/btc", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("add status = %d, want 200", rec.Code)
	}
	// Re-add with different casing is a no-op.
	doRequest(t, handler, http.MethodPut, "/api/v1/watchlist/BTC", nil)

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/watchlist", nil)
	var payload struct {
		Symbols []string `json:"symbols"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Symbols) != 1 || payload.Symbols[0] != "BTC" {
		t.Errorf("symbols = %v, want [BTC]", payload.Symbols)
	}

	rec = doRequest(t, handler, http.MethodDelete, "/api/v1/watchlist/ETH", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("removing an absent symbol must be a no-op, got %d", rec.Code)
	}

	doRequest(t, handler, http.MethodDelete, "/api/v1/watchlist/btc", nil)
	rec = doRequest(t, handler, http.MethodGet, "/api/v1/watchlist", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(payload.Symbols) != 0 {
		t.Errorf("symbols = %v, want empty", payload.Symbols)
	}
}

func TestSnapshotGenerateAndFetch(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/snapshots/generate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, handler, http.MethodGet, "/api/v1/snapshots/latest", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("latest status = %d, want 200", rec.Code)
	}
}

func TestSnapshotLatestNotFound(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/snapshots/latest", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestSnapshotGenerateRequiresAuth(t *testing.T) {
	handler := newTestServer(t, nil, "sekrit")

	rec := doRequest(t, handler, http.MethodPost, "/api/v1/snapshots/generate", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without bearer token", rec.Code)
	}

	rec = doRequest(t, handler, http.MethodPost, "/api/v1/snapshots/generate", map[string]string{
		"Authorization": "Bearer sekrit",
	})
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 with valid token", rec.Code)
	}
}

func TestSnapshotByDateInvalidFormat(t *testing.T) {
	handler := newTestServer(t, nil, "")

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/snapshots/not-a-date", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
