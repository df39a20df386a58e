package coinbase

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/picanha/dash/internal/domain"
)

// exchangeRatesResponse mirrors GET /exchange-rates. Rates arrive as
// stringified numbers keyed by asset code.
type exchangeRatesResponse struct {
	Data struct {
		Currency string            `json:"currency"`
		Rates    map[string]string `json:"rates"`
	} `json:"data"`
}

// ExchangeRates holds the parsed rates for one base currency.
type ExchangeRates struct {
	Base  string
	Rates domain.RateMap
}

// FetchExchangeRates fetches all rates for the given base currency.
// Entries whose value does not parse to a finite number are dropped;
// the fetch still succeeds as long as the envelope parses.
func (c *Client) FetchExchangeRates(ctx context.Context, base string) (ExchangeRates, error) {
	base = strings.ToUpper(base)

	var resp exchangeRatesResponse
	path := "/exchange-rates?currency=" + url.QueryEscape(base)
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return ExchangeRates{}, fmt.Errorf("fetching exchange rates for %s: %w", base, err)
	}

	rates := make(domain.RateMap, len(resp.Data.Rates))
	for code, raw := range resp.Data.Rates {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
			continue
		}
		rates[code] = v
	}

	result := ExchangeRates{Base: resp.Data.Currency, Rates: rates}
	if result.Base == "" {
		result.Base = base
	}
	return result, nil
}
