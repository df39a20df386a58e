package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/picanha/dash/internal/assets"
	"github.com/picanha/dash/internal/balance"
	"github.com/picanha/dash/internal/domain"
	"github.com/picanha/dash/internal/ledger"
	"github.com/picanha/dash/internal/rates"
	"github.com/picanha/dash/internal/watchlist"
)

// Handler provides the portfolio HTTP endpoints.
type Handler struct {
	rates     *rates.Store
	assets    *assets.Service
	ledger    *ledger.Service
	balances  *balance.Service
	watchlist *watchlist.Watchlist
}

// NewHandler creates a new API handler.
func NewHandler(r *rates.Store, a *assets.Service, l *ledger.Service, b *balance.Service, w *watchlist.Watchlist) *Handler {
	return &Handler{rates: r, assets: a, ledger: l, balances: b, watchlist: w}
}

// GetRates handles GET /api/v1/rates.
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.rates.Snapshot())
}

// RefreshRates handles POST /api/v1/rates/refresh. An optional ?base=USD
// switches the base currency for this and subsequent refreshes.
func (h *Handler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	if err := h.rates.Refresh(r.Context(), base); err != nil {
		slog.Error("rate refresh failed", "base", base, "error", err)
		writeJSON(w, http.StatusBadGateway, h.rates.Snapshot())
		return
	}
	writeJSON(w, http.StatusOK, h.rates.Snapshot())
}

// GetAssets handles GET /api/v1/assets. The directory is loaded on first use.
func (h *Handler) GetAssets(w http.ResponseWriter, r *http.Request) {
	if err := h.assets.Ensure(r.Context()); err != nil {
		slog.Error("asset directory load failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	var lastUpdated *time.Time
	if t := h.assets.LastUpdated(); !t.IsZero() {
		lastUpdated = &t
	}
	writeJSON(w, http.StatusOK, struct {
		Assets      []domain.Asset `json:"assets"`
		LastUpdated *time.Time     `json:"lastUpdated,omitempty"`
	}{h.assets.Assets(), lastUpdated})
}

// GetTransactions handles GET /api/v1/transactions.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.Ensure(r.Context()); err != nil {
		slog.Error("ledger load failed", "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	txs := h.ledger.Transactions()
	writeJSON(w, http.StatusOK, struct {
		Transactions []domain.Transaction `json:"transactions"`
		Assets       []string             `json:"assets"`
		Summary      json.RawMessage      `json:"summary,omitempty"`
	}{txs, domain.LedgerAssets(txs), h.ledger.Summary()})
}

// GetBalances handles GET /api/v1/balances.
func (h *Handler) GetBalances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.balances.Balances(r.Context())
	if err != nil {
		slog.Error("balance computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, balances)
}

// GetBalanceSeries handles GET /api/v1/balances/series?type=total|fiat|crypto.
func (h *Handler) GetBalanceSeries(w http.ResponseWriter, r *http.Request) {
	kind := domain.SeriesTotal
	switch t := r.URL.Query().Get("type"); t {
	case "", "total":
	case "fiat":
		kind = domain.SeriesFiat
	case "crypto":
		kind = domain.SeriesCrypto
	default:
		writeError(w, http.StatusBadRequest, "invalid series type, expected total, fiat or crypto")
		return
	}

	series, err := h.balances.Series(r.Context(), kind)
	if err != nil {
		slog.Error("series computation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Type   domain.SeriesKind    `json:"type"`
		Points []domain.SeriesPoint `json:"points"`
	}{kind, series})
}

// GetWatchlist handles GET /api/v1/watchlist.
func (h *Handler) GetWatchlist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, watchlistPayload(h.watchlist))
}

// AddWatchlistSymbol handles PUT /api/v1/watchlist/{symbol}. Adding an
// already-tracked symbol is a no-op, not an error.
func (h *Handler) AddWatchlistSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := r.PathValue("symbol")
	if symbol == "" {
		writeError(w, http.StatusBadRequest, "missing symbol")
		return
	}
	h.watchlist.Add(symbol)
	writeJSON(w, http.StatusOK, watchlistPayload(h.watchlist))
}

// RemoveWatchlistSymbol handles DELETE /api/v1/watchlist/{symbol}.
func (h *Handler) RemoveWatchlistSymbol(w http.ResponseWriter, r *http.Request) {
	h.watchlist.Remove(r.PathValue("symbol"))
	writeJSON(w, http.StatusOK, watchlistPayload(h.watchlist))
}

func watchlistPayload(wl *watchlist.Watchlist) any {
	return struct {
		Symbols []string `json:"symbols"`
	}{wl.Symbols()}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("failed to marshal JSON response", "error", err)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		slog.Warn("failed to write HTTP response body", "error", err)
		return
	}
	_, _ = w.Write([]byte("\n"))
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
