package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/picanha/dash/internal/snapshot"
)

// SnapshotHandler provides HTTP endpoints for stored balance snapshots.
type SnapshotHandler struct {
	snapshots *snapshot.Service
}

// NewSnapshotHandler creates a new snapshot handler.
func NewSnapshotHandler(snapshots *snapshot.Service) *SnapshotHandler {
	return &SnapshotHandler{snapshots: snapshots}
}

// List handles GET /api/v1/snapshots.
func (h *SnapshotHandler) List(w http.ResponseWriter, r *http.Request) {
	const maxLimit = 365
	limit := 30
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = min(n, maxLimit)
		}
	}

	snapshots, err := h.snapshots.List(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list snapshots", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// GetLatest handles GET /api/v1/snapshots/latest.
func (h *SnapshotHandler) GetLatest(w http.ResponseWriter, r *http.Request) {
	s, err := h.snapshots.GetLatest(r.Context())
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "no snapshots found")
			return
		}
		slog.Error("failed to get latest snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// GetByDate handles GET /api/v1/snapshots/{date}.
func (h *SnapshotHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.PathValue("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
		return
	}

	s, err := h.snapshots.GetByDate(r.Context(), date)
	if err != nil {
		if errors.Is(err, snapshot.ErrNotFound) {
			writeError(w, http.StatusNotFound, "snapshot not found for date")
			return
		}
		slog.Error("failed to get snapshot by date", "date", dateStr, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Generate handles POST /api/v1/snapshots/generate.
func (h *SnapshotHandler) Generate(w http.ResponseWriter, r *http.Request) {
	balances, err := h.snapshots.Generate(r.Context(), time.Now())
	if err != nil {
		slog.Error("failed to generate snapshot", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate snapshot")
		return
	}
	writeJSON(w, http.StatusOK, balances)
}
