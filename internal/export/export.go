package export

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/picanha/dash/internal/domain"
)

// TransactionRow is one formatted ledger row. All money columns are
// rendered with two decimal places at this boundary only; the ledger
// itself stays plain floats.
type TransactionRow struct {
	ID     string
	Date   string
	Type   string
	Asset  string
	Amount string
	Price  string
	Total  string
	Status string
}

// Report is the full payload handed to a ReportWriter.
type Report struct {
	GeneratedAt   time.Time
	FiatBalance   string
	CryptoBalance string
	TotalValue    string
	Transactions  []TransactionRow
}

// ReportWriter writes a report to a spreadsheet destination.
type ReportWriter interface {
	Write(ctx context.Context, r Report) error
}

// LedgerSource provides the session ledger.
type LedgerSource interface {
	Ensure(ctx context.Context) error
	Transactions() []domain.Transaction
}

// Service builds portfolio reports and delegates writing to a ReportWriter.
type Service struct {
	ledger LedgerSource
	writer ReportWriter
}

// NewService creates a new export service.
func NewService(ledger LedgerSource, writer ReportWriter) *Service {
	return &Service{ledger: ledger, writer: writer}
}

// Export builds a report from the ledger and the given balances and writes
// it out. Implements worker.AfterSnapshotHook.
func (s *Service) Export(ctx context.Context, balances domain.BalanceSnapshot) error {
	if err := s.ledger.Ensure(ctx); err != nil {
		return fmt.Errorf("loading ledger: %w", err)
	}

	report := BuildReport(s.ledger.Transactions(), balances, time.Now())
	if err := s.writer.Write(ctx, report); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// BuildReport formats the ledger and balances into a Report.
func BuildReport(txs []domain.Transaction, balances domain.BalanceSnapshot, now time.Time) Report {
	rows := lo.Map(txs, func(tx domain.Transaction, _ int) TransactionRow {
		return TransactionRow{
			ID:     tx.ID,
			Date:   tx.Date,
			Type:   string(tx.Type),
			Asset:  tx.Asset,
			Amount: decimal.NewFromFloat(tx.Amount).String(),
			Price:  money(tx.Price),
			Total:  money(tx.Total),
			Status: string(tx.Status),
		}
	})

	return Report{
		GeneratedAt:   now,
		FiatBalance:   money(balances.FiatBalance),
		CryptoBalance: money(balances.CryptoBalance),
		TotalValue:    money(balances.TotalValue),
		Transactions:  rows,
	}
}

// money renders a base-currency value with two decimal places.
func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
