package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
)

var transactionHeader = []string{"ID", "Date", "Type", "Asset", "Amount", "Price", "Total", "Status"}

// XLSXWriter implements ReportWriter by writing an .xlsx workbook with a
// Transactions sheet and a Balances sheet.
type XLSXWriter struct {
	path string
}

// NewXLSXWriter creates an XLSXWriter targeting the given file path.
func NewXLSXWriter(path string) *XLSXWriter {
	return &XLSXWriter{path: path}
}

// Write renders the report and saves the workbook.
func (w *XLSXWriter) Write(_ context.Context, r Report) error {
	f := excelize.NewFile()
	defer f.Close()

	const txSheet = "Transactions"
	if err := f.SetSheetName("Sheet1", txSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}

	if err := f.SetSheetRow(txSheet, "A1", &transactionHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, tx := range r.Transactions {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		row := []any{tx.ID, tx.Date, tx.Type, tx.Asset, tx.Amount, tx.Price, tx.Total, tx.Status}
		if err := f.SetSheetRow(txSheet, cell, &row); err != nil {
			return fmt.Errorf("writing transaction row %d: %w", i+1, err)
		}
	}

	const balSheet = "Balances"
	if _, err := f.NewSheet(balSheet); err != nil {
		return fmt.Errorf("creating balances sheet: %w", err)
	}
	balRows := [][]any{
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04:05")},
		{"Fiat Balance", r.FiatBalance},
		{"Crypto Wallet", r.CryptoBalance},
		{"Total Value", r.TotalValue},
	}
	for i, row := range balRows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("computing cell: %w", err)
		}
		if err := f.SetSheetRow(balSheet, cell, &row); err != nil {
			return fmt.Errorf("writing balance row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(w.path); err != nil {
		return fmt.Errorf("saving workbook to %s: %w", w.path, err)
	}
	return nil
}
