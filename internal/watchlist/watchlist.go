package watchlist

import (
	"slices"
	"strings"
	"sync"
)

// Watchlist is the set of asset codes a user tracks. Codes are normalized
// to uppercase on every operation; insertion order is preserved for display.
// Symbols are not validated against the rate map or the directory — that
// check, when wanted, belongs to the caller.
type Watchlist struct {
	mu      sync.RWMutex
	symbols []string
}

// New creates an empty watchlist.
func New() *Watchlist {
	return &Watchlist{}
}

// Add inserts the symbol unless already present. Re-adding is a no-op.
func (w *Watchlist) Add(symbol string) {
	normalized := normalize(symbol)
	if normalized == "" {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if slices.Contains(w.symbols, normalized) {
		return
	}
	w.symbols = append(w.symbols, normalized)
}

// Remove deletes the symbol if present; removing an absent one is a no-op.
func (w *Watchlist) Remove(symbol string) {
	normalized := normalize(symbol)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.symbols = slices.DeleteFunc(w.symbols, func(s string) bool {
		return s == normalized
	})
}

// Contains reports membership, case-insensitively.
func (w *Watchlist) Contains(symbol string) bool {
	normalized := normalize(symbol)

	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Contains(w.symbols, normalized)
}

// Symbols returns the tracked codes in insertion order.
func (w *Watchlist) Symbols() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return slices.Clone(w.symbols)
}

// Len returns the number of tracked symbols.
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.symbols)
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
