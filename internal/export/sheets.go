package export

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"
)

// SheetsWriter implements ReportWriter using the Google Sheets API.
type SheetsWriter struct {
	spreadsheetID string
	svc           *sheets.Service
}

// NewSheetsWriter creates a SheetsWriter authenticated with a service account JSON.
func NewSheetsWriter(ctx context.Context, spreadsheetID, credentialsJSON string) (*SheetsWriter, error) {
	creds, err := google.CredentialsFromJSON(
		ctx,
		[]byte(credentialsJSON),
		sheets.SpreadsheetsScope,
	)
	if err != nil {
		return nil, fmt.Errorf("parsing google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}

	return &SheetsWriter{spreadsheetID: spreadsheetID, svc: svc}, nil
}

// Write ensures the required sheets exist, then clears and rewrites them.
func (w *SheetsWriter) Write(ctx context.Context, r Report) error {
	if err := w.ensureSheets(ctx, "TRANSACTIONS", "BALANCES"); err != nil {
		return err
	}

	_, err := w.svc.Spreadsheets.Values.BatchClear(
		w.spreadsheetID,
		&sheets.BatchClearValuesRequest{
			Ranges: []string{"TRANSACTIONS!A:H", "BALANCES!A:B"},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("clearing sheets: %w", err)
	}

	_, err = w.svc.Spreadsheets.Values.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateValuesRequest{
			ValueInputOption: "USER_ENTERED",
			Data: []*sheets.ValueRange{
				{Range: "TRANSACTIONS!A1", Values: buildTransactionValues(r)},
				{Range: "BALANCES!A1", Values: buildBalanceValues(r)},
			},
		},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("writing sheets: %w", err)
	}

	return nil
}

// buildTransactionValues builds the TRANSACTIONS sheet data.
func buildTransactionValues(r Report) [][]any {
	data := make([][]any, 0, len(r.Transactions)+1)

	header := make([]any, len(transactionHeader))
	for i, h := range transactionHeader {
		header[i] = h
	}
	data = append(data, header)

	for _, tx := range r.Transactions {
		data = append(data, []any{tx.ID, tx.Date, tx.Type, tx.Asset, tx.Amount, tx.Price, tx.Total, tx.Status})
	}
	return data
}

// buildBalanceValues builds the BALANCES sheet data.
func buildBalanceValues(r Report) [][]any {
	return [][]any{
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Fiat Balance", r.FiatBalance},
		{"Crypto Wallet", r.CryptoBalance},
		{"Total Value", r.TotalValue},
	}
}

// ensureSheets creates any of the named sheets that do not already exist.
func (w *SheetsWriter) ensureSheets(ctx context.Context, names ...string) error {
	spreadsheet, err := w.svc.Spreadsheets.Get(w.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("getting spreadsheet metadata: %w", err)
	}

	existing := make(map[string]bool, len(spreadsheet.Sheets))
	for _, s := range spreadsheet.Sheets {
		existing[s.Properties.Title] = true
	}

	var requests []*sheets.Request
	for _, name := range names {
		if !existing[name] {
			requests = append(requests, &sheets.Request{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{Title: name},
				},
			})
		}
	}

	if len(requests) == 0 {
		return nil
	}

	_, err = w.svc.Spreadsheets.BatchUpdate(
		w.spreadsheetID,
		&sheets.BatchUpdateSpreadsheetRequest{Requests: requests},
	).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("creating sheets: %w", err)
	}

	return nil
}
