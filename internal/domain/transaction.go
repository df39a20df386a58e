package domain

// TransactionType is the direction of a ledger transaction.
type TransactionType string

const (
	TransactionBuy  TransactionType = "buy"
	TransactionSell TransactionType = "sell"
)

// TransactionStatus is the settlement state of a ledger transaction.
type TransactionStatus string

const (
	StatusCompleted TransactionStatus = "completed"
	StatusPending   TransactionStatus = "pending"
)

// Transaction is one row of the portfolio ledger. Date is an ISO-8601
// timestamp string as delivered by the demo endpoint. Total is the
// base-currency value of the transaction (Amount × Price at trade time);
// the aggregator consults only Type, Asset, Status and Total.
type Transaction struct {
	ID     string            `json:"id"`
	Date   string            `json:"date"`
	Type   TransactionType   `json:"type"`
	Asset  string            `json:"asset"`
	Amount float64           `json:"amount"`
	Price  float64           `json:"price"`
	Total  float64           `json:"total"`
	Status TransactionStatus `json:"status"`
}
