package ledger

import "github.com/picanha/dash/internal/domain"

// sampleLedger is the built-in demo ledger used when no remote endpoint is
// configured or the remote fetch fails. Values mirror the demo dataset.
var sampleLedger = []domain.Transaction{
	{ID: "tx-1", Date: "2025-01-01T14:03:22.852Z", Type: domain.TransactionBuy, Asset: "EUR", Amount: 15000, Price: 1, Total: 15000, Status: domain.StatusCompleted},
	{ID: "tx-2", Date: "2025-02-06T13:04:10.852Z", Type: domain.TransactionBuy, Asset: "SOL", Amount: 54.81955795934622, Price: 140.87660422940456, Total: 5.793170669723, Status: domain.StatusCompleted},
	{ID: "tx-3", Date: "2025-05-05T18:08:10.852Z", Type: domain.TransactionBuy, Asset: "EUR", Amount: 15000, Price: 1, Total: 15000, Status: domain.StatusCompleted},
	{ID: "tx-4", Date: "2025-05-05T19:04:10.852Z", Type: domain.TransactionBuy, Asset: "BTC", Amount: 0.02, Price: 100000, Total: 20000, Status: domain.StatusCompleted},
	{ID: "tx-5", Date: "2025-10-05T05:04:10.852Z", Type: domain.TransactionSell, Asset: "BTC", Amount: 0.01, Price: 100000, Total: 10000, Status: domain.StatusCompleted},
	{ID: "tx-6", Date: "2025-10-05T06:03:22.852Z", Type: domain.TransactionSell, Asset: "EUR", Amount: 15000, Price: 1, Total: 15000, Status: domain.StatusCompleted},
	{ID: "tx-7", Date: "2025-12-10T06:03:22.852Z", Type: domain.TransactionSell, Asset: "EUR", Amount: 1000, Price: 1, Total: 1000, Status: domain.StatusCompleted},
	{ID: "tx-8", Date: "2025-12-10T07:03:22.852Z", Type: domain.TransactionBuy, Asset: "SOL", Amount: 54.81955795934622, Price: 140.87660422940456, Total: 2300, Status: domain.StatusCompleted},
	{ID: "tx-9", Date: "2025-12-11T07:03:22.852Z", Type: domain.TransactionBuy, Asset: "DOGE", Amount: 666, Price: 1, Total: 666, Status: domain.StatusCompleted},
}

// SampleLedger returns a copy of the built-in demo ledger.
func SampleLedger() []domain.Transaction {
	out := make([]domain.Transaction, len(sampleLedger))
	copy(out, sampleLedger)
	return out
}
