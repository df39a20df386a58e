package domain

import "github.com/samber/lo"

// fiatCurrencies is the closed-world set of codes treated as fiat by the
// balance math. Deliberately independent from the directory's Kind field:
// the ledger may reference codes the directory fetch never returned.
var fiatCurrencies = []string{"EUR", "USD", "GBP", "CHF", "JPY", "CNY"}

// IsFiat reports whether code is one of the known fiat currencies.
func IsFiat(code string) bool {
	return lo.Contains(fiatCurrencies, code)
}

// BalanceSnapshot holds the three balances derived from the ledger.
// TotalValue is always FiatBalance + CryptoBalance.
type BalanceSnapshot struct {
	FiatBalance   float64 `json:"fiatBalance"`
	CryptoBalance float64 `json:"cryptoBalance"`
	TotalValue    float64 `json:"totalValue"`
}

// apply folds a single transaction into the snapshot. Sign rules:
// a fiat buy is a deposit, a fiat sell a withdrawal; a crypto buy spends
// fiat and grows the crypto wallet, a crypto sell does the reverse.
func (b BalanceSnapshot) apply(tx Transaction) BalanceSnapshot {
	switch {
	case IsFiat(tx.Asset):
		if tx.Type == TransactionSell {
			b.FiatBalance -= tx.Total
		} else {
			b.FiatBalance += tx.Total
		}
	default:
		if tx.Type == TransactionSell {
			b.FiatBalance += tx.Total
			b.CryptoBalance -= tx.Total
		} else {
			b.FiatBalance -= tx.Total
			b.CryptoBalance += tx.Total
		}
	}
	b.TotalValue = b.FiatBalance + b.CryptoBalance
	return b
}

// ComputeBalances derives the portfolio balances from the ledger in a single
// pass. Only completed transactions contribute; pending ones are ignored.
func ComputeBalances(ledger []Transaction) BalanceSnapshot {
	return lo.Reduce(ledger, func(acc BalanceSnapshot, tx Transaction, _ int) BalanceSnapshot {
		if tx.Status != StatusCompleted {
			return acc
		}
		return acc.apply(tx)
	}, BalanceSnapshot{})
}

// SeriesKind selects which running balance a series tracks.
type SeriesKind string

const (
	SeriesFiat   SeriesKind = "fiat"
	SeriesCrypto SeriesKind = "crypto"
	SeriesTotal  SeriesKind = "total"
)

// SeriesPoint is one step of a running balance series.
type SeriesPoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// BalanceSeries replays the ledger in order and emits the running balance
// selected by kind after each completed transaction. At every step the
// total series value equals the fiat value plus the crypto value.
func BalanceSeries(ledger []Transaction, kind SeriesKind) []SeriesPoint {
	points := make([]SeriesPoint, 0, len(ledger))
	var acc BalanceSnapshot
	for _, tx := range ledger {
		if tx.Status != StatusCompleted {
			continue
		}
		acc = acc.apply(tx)
		p := SeriesPoint{Date: tx.Date}
		switch kind {
		case SeriesFiat:
			p.Value = acc.FiatBalance
		case SeriesCrypto:
			p.Value = acc.CryptoBalance
		default:
			p.Value = acc.TotalValue
		}
		points = append(points, p)
	}
	return points
}

// LedgerAssets returns the distinct asset codes present in the ledger,
// in first-appearance order.
func LedgerAssets(ledger []Transaction) []string {
	return lo.Uniq(lo.Map(ledger, func(tx Transaction, _ int) string {
		return tx.Asset
	}))
}
