package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/picanha/dash/internal/domain"
)

// transactionsResponse mirrors the demo transactions endpoint.
type transactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	Summary      json.RawMessage      `json:"summary"`
}

// Client fetches the transaction ledger from the demo endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a ledger client for the given endpoint URL.
func NewClient(url string) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// FetchTransactions retrieves the full ledger and its summary block.
func (c *Client) FetchTransactions(ctx context.Context) ([]domain.Transaction, json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching transactions: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.url)
	}

	var parsed transactionsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("parsing transactions: %w", err)
	}

	return parsed.Transactions, parsed.Summary, nil
}
