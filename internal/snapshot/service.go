package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/picanha/dash/internal/domain"
)

// BalanceSource provides derived balances and series for snapshotting.
type BalanceSource interface {
	Balances(ctx context.Context) (domain.BalanceSnapshot, error)
	Series(ctx context.Context, kind domain.SeriesKind) ([]domain.SeriesPoint, error)
}

// Service manages balance snapshot generation and retrieval.
type Service struct {
	balances BalanceSource
	repo     Repository
}

// NewService creates a new snapshot service.
func NewService(balances BalanceSource, repo Repository) *Service {
	return &Service{balances: balances, repo: repo}
}

// snapshotData is the JSON payload stored alongside the numeric columns.
type snapshotData struct {
	Balances domain.BalanceSnapshot `json:"balances"`
	Series   []domain.SeriesPoint   `json:"series"`
}

// Generate computes the current balances and stores them under the given
// date (truncated to the day). Rerunning for the same day overwrites.
func (s *Service) Generate(ctx context.Context, date time.Time) (domain.BalanceSnapshot, error) {
	balances, err := s.balances.Balances(ctx)
	if err != nil {
		return domain.BalanceSnapshot{}, fmt.Errorf("computing balances: %w", err)
	}

	series, err := s.balances.Series(ctx, domain.SeriesTotal)
	if err != nil {
		return domain.BalanceSnapshot{}, fmt.Errorf("computing series: %w", err)
	}

	data, err := json.Marshal(snapshotData{Balances: balances, Series: series})
	if err != nil {
		return domain.BalanceSnapshot{}, fmt.Errorf("marshaling snapshot data: %w", err)
	}

	day := date.UTC().Truncate(24 * time.Hour)
	err = s.repo.Save(ctx, day,
		decimal.NewFromFloat(balances.FiatBalance),
		decimal.NewFromFloat(balances.CryptoBalance),
		decimal.NewFromFloat(balances.TotalValue),
		data)
	if err != nil {
		return domain.BalanceSnapshot{}, err
	}

	slog.Info("balance snapshot stored", "date", day.Format("2006-01-02"), "total", balances.TotalValue)
	return balances, nil
}

// GetLatest returns the most recent stored snapshot.
func (s *Service) GetLatest(ctx context.Context) (*Snapshot, error) {
	return s.repo.GetLatest(ctx)
}

// GetByDate returns the snapshot stored for the given day.
func (s *Service) GetByDate(ctx context.Context, date time.Time) (*Snapshot, error) {
	return s.repo.GetByDate(ctx, date.UTC().Truncate(24*time.Hour))
}

// List returns up to limit stored snapshots, newest first.
func (s *Service) List(ctx context.Context, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, limit)
}
