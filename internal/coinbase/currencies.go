package coinbase

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/picanha/dash/internal/domain"
)

// currenciesResponse mirrors GET /currencies and GET /currencies/crypto.
type currenciesResponse struct {
	Data []currencyEntry `json:"data"`
}

// currencyEntry is one raw directory row. Crypto rows carry the code in
// "code", fiat rows in "id"; both are tried.
type currencyEntry struct {
	ID      string `json:"id"`
	Code    string `json:"code"`
	Name    string `json:"name"`
	MinSize string `json:"min_size"`
}

// FetchCryptoCurrencies fetches the crypto-classified currency directory.
func (c *Client) FetchCryptoCurrencies(ctx context.Context) ([]domain.Asset, error) {
	return c.fetchCurrencies(ctx, "/currencies/crypto", domain.AssetKindCrypto)
}

// FetchFiatCurrencies fetches the fiat currency directory.
func (c *Client) FetchFiatCurrencies(ctx context.Context) ([]domain.Asset, error) {
	return c.fetchCurrencies(ctx, "/currencies", domain.AssetKindFiat)
}

func (c *Client) fetchCurrencies(ctx context.Context, path string, kind domain.AssetKind) ([]domain.Asset, error) {
	var resp currenciesResponse
	if err := c.getJSON(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("fetching %s currencies: %w", kind, err)
	}

	assets := lo.FilterMap(resp.Data, func(e currencyEntry, _ int) (domain.Asset, bool) {
		code := e.ID
		if code == "" {
			code = e.Code
		}
		// Rows without any usable identifier are dropped.
		if code == "" {
			return domain.Asset{}, false
		}
		code = strings.ToUpper(code)

		name := e.Name
		if name == "" {
			name = code
		}

		return domain.Asset{
			Code:    code,
			Name:    name,
			Kind:    kind,
			MinSize: e.MinSize,
		}, true
	})

	return assets, nil
}
