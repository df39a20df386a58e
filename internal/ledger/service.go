package ledger

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/picanha/dash/internal/domain"
)

// Source fetches the ledger from a remote endpoint.
type Source interface {
	FetchTransactions(ctx context.Context) ([]domain.Transaction, json.RawMessage, error)
}

// Service owns the session ledger. It is loaded once, from the remote
// source when one is configured, and treated as immutable afterwards.
// A failed remote load falls back to the built-in sample ledger.
type Service struct {
	source Source

	mu      sync.RWMutex
	loaded  bool
	txs     []domain.Transaction
	summary json.RawMessage
}

// NewService creates a ledger service. source may be nil, in which case the
// built-in sample ledger is used.
func NewService(source Source) *Service {
	return &Service{source: source}
}

// Ensure loads the ledger on first call; later calls are no-ops.
func (s *Service) Ensure(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	txs := SampleLedger()
	var summary json.RawMessage

	if s.source != nil {
		remote, remoteSummary, err := s.source.FetchTransactions(ctx)
		if err != nil {
			slog.Warn("remote ledger fetch failed, using sample data", "error", err)
		} else if len(remote) > 0 {
			txs = remote
			summary = remoteSummary
		}
	}

	s.mu.Lock()
	if !s.loaded {
		s.txs = txs
		s.summary = summary
		s.loaded = true
	}
	s.mu.Unlock()
	return nil
}

// Transactions returns a copy of the session ledger.
func (s *Service) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Summary returns the raw summary block from the remote endpoint, nil when
// the sample ledger is in use.
func (s *Service) Summary() json.RawMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
