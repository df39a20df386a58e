package balance

import (
	"context"
	"fmt"

	"github.com/picanha/dash/internal/domain"
)

// LedgerSource provides the session ledger.
type LedgerSource interface {
	Ensure(ctx context.Context) error
	Transactions() []domain.Transaction
}

// Service derives balances from the ledger on demand. Nothing is cached:
// the computation is a single O(n) pass, cheap enough to redo per read.
type Service struct {
	ledger LedgerSource
}

// NewService creates a balance service on top of a ledger source.
func NewService(ledger LedgerSource) *Service {
	return &Service{ledger: ledger}
}

// Balances computes the current balance snapshot from the session ledger.
func (s *Service) Balances(ctx context.Context) (domain.BalanceSnapshot, error) {
	if err := s.ledger.Ensure(ctx); err != nil {
		return domain.BalanceSnapshot{}, fmt.Errorf("loading ledger: %w", err)
	}
	return domain.ComputeBalances(s.ledger.Transactions()), nil
}

// Series computes the running balance series of the given kind.
func (s *Service) Series(ctx context.Context, kind domain.SeriesKind) ([]domain.SeriesPoint, error) {
	if err := s.ledger.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return domain.BalanceSeries(s.ledger.Transactions(), kind), nil
}

// LedgerAssets lists the distinct asset codes referenced by the ledger.
func (s *Service) LedgerAssets(ctx context.Context) ([]string, error) {
	if err := s.ledger.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("loading ledger: %w", err)
	}
	return domain.LedgerAssets(s.ledger.Transactions()), nil
}
