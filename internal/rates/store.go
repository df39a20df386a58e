package rates

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/picanha/dash/internal/coinbase"
	"github.com/picanha/dash/internal/domain"
)

// State is the lifecycle state of the rate store.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateFailed  State = "failed"
)

// Fetcher defines the subset of the Coinbase client used by the store.
type Fetcher interface {
	FetchExchangeRates(ctx context.Context, base string) (coinbase.ExchangeRates, error)
}

// Snapshot is a point-in-time copy of the store for read-only consumers.
type Snapshot struct {
	State       State          `json:"state"`
	Base        string         `json:"base"`
	Rates       domain.RateMap `json:"rates"`
	Error       string         `json:"error,omitempty"`
	LastUpdated *time.Time     `json:"lastUpdated,omitempty"`
}

// Store holds the shared exchange-rate state. Concurrent Refresh calls for
// the same base coalesce into one request, and every request carries a
// sequence number so a slow stale response never overwrites a newer one.
type Store struct {
	fetcher Fetcher
	cache   *rateCache

	mu          sync.Mutex
	state       State
	base        string
	rates       domain.RateMap
	errMsg      string
	lastUpdated time.Time
	nextSeq     uint64
	appliedSeq  uint64
	inflight    map[string]chan struct{}
}

// NewStore creates a rate store with the given default base currency.
func NewStore(fetcher Fetcher, base string, cacheTTL time.Duration) *Store {
	return &Store{
		fetcher:  fetcher,
		cache:    newRateCache(cacheTTL),
		state:    StateIdle,
		base:     strings.ToUpper(base),
		rates:    domain.RateMap{},
		inflight: make(map[string]chan struct{}),
	}
}

// SetBase changes the default base currency for subsequent refreshes.
// Already-loaded rates stay untouched until the next Refresh.
func (s *Store) SetBase(base string) {
	base = strings.ToUpper(strings.TrimSpace(base))
	if base == "" {
		return
	}
	s.mu.Lock()
	s.base = base
	s.mu.Unlock()
}

// Snapshot returns a copy of the current store state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		State: s.state,
		Base:  s.base,
		Rates: make(domain.RateMap, len(s.rates)),
		Error: s.errMsg,
	}
	for code, rate := range s.rates {
		snap.Rates[code] = rate
	}
	if !s.lastUpdated.IsZero() {
		t := s.lastUpdated
		snap.LastUpdated = &t
	}
	return snap
}

// Refresh fetches rates for the given base (the store default when empty).
// On failure the previous rate map is left untouched and the error is both
// returned and recorded in the store state.
func (s *Store) Refresh(ctx context.Context, base string) error {
	base = strings.ToUpper(strings.TrimSpace(base))

	s.mu.Lock()
	if base == "" {
		base = s.base
	}

	if entry, ok := s.cache.get(base); ok {
		s.nextSeq++
		s.appliedSeq = s.nextSeq
		s.applyLocked(entry.base, entry.rates)
		s.mu.Unlock()
		return nil
	}

	if done, ok := s.inflight[base]; ok {
		s.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
		return nil
	}

	done := make(chan struct{})
	s.inflight[base] = done
	s.nextSeq++
	seq := s.nextSeq
	s.state = StateLoading
	s.errMsg = ""
	s.mu.Unlock()

	result, err := s.fetcher.FetchExchangeRates(ctx, base)

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, base)
	close(done)

	// A request that started later has already been applied; this
	// response is stale and must not win.
	if seq <= s.appliedSeq {
		slog.Debug("discarding stale rate response", "base", base, "seq", seq)
		return err
	}
	s.appliedSeq = seq

	if err != nil {
		s.state = StateFailed
		s.errMsg = err.Error()
		return err
	}

	s.cache.set(base, result.Rates, result.Base)
	s.applyLocked(result.Base, result.Rates)
	return nil
}

func (s *Store) applyLocked(base string, rates domain.RateMap) {
	s.state = StateReady
	s.base = base
	s.rates = rates
	s.errMsg = ""
	s.lastUpdated = time.Now()
}
