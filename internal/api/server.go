package api

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"
)

// NewServer creates an HTTP server with all routes configured. snapshots may
// be nil when no database is configured; the snapshot routes are then absent.
func NewServer(port string, h *Handler, snapshots *SnapshotHandler, adminAPIKey string) *http.Server {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/rates", h.GetRates)
	mux.HandleFunc("POST /api/v1/rates/refresh", h.RefreshRates)
	mux.HandleFunc("GET /api/v1/assets", h.GetAssets)
	mux.HandleFunc("GET /api/v1/transactions", h.GetTransactions)
	mux.HandleFunc("GET /api/v1/balances", h.GetBalances)
	mux.HandleFunc("GET /api/v1/balances/series", h.GetBalanceSeries)
	mux.HandleFunc("GET /api/v1/watchlist", h.GetWatchlist)
	mux.HandleFunc("PUT /api/v1/watchlist/{symbol}", h.AddWatchlistSymbol)
	mux.HandleFunc("DELETE /api/v1/watchlist/{symbol}", h.RemoveWatchlistSymbol)

	if snapshots != nil {
		mux.HandleFunc("GET /api/v1/snapshots", snapshots.List)
		mux.HandleFunc("GET /api/v1/snapshots/latest", snapshots.GetLatest)
		mux.HandleFunc("GET /api/v1/snapshots/{date}", snapshots.GetByDate)

		generate := http.HandlerFunc(snapshots.Generate)
		if adminAPIKey != "" {
			mux.Handle("POST /api/v1/snapshots/generate", requireAuth(adminAPIKey, generate))
		} else {
			mux.Handle("POST /api/v1/snapshots/generate", generate)
		}
	}

	return &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func requireAuth(apiKey string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimPrefix(auth, "Bearer ")
		if !strings.HasPrefix(auth, "Bearer ") || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}
