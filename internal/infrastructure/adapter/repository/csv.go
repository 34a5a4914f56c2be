package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/ledgervault/ledgervault/internal/domain/port/store"
)

// csvHeader matches the legacy export column order
var csvHeader = []string{"Date", "Description", "Category", "Type", "Amount"}

// ExportCSV renders the filtered transactions as CSV, one row per
// transaction in list order. Output is RFC 4180: descriptions containing
// commas or quotes are quoted properly. Amounts are plain numbers with no
// currency symbol.
func (g *Gateway) ExportCSV(ctx context.Context, userID uint64, filter *store.TransactionFilter) ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	transactions, err := g.listTransactions(ctx, userID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, t := range transactions {
		description := t.Note
		if description == "" {
			description = t.Category
		}
		record := []string{
			t.Date,
			description,
			t.Category,
			string(t.Kind),
			t.Amount.String(),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
