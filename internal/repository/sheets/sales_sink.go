package sheets

import (
	"context"
	"fmt"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// SalesRange is the table financial mirror records are appended to.
// Columns: date, counterparty, item, amount, direction, notes, source transaction id.
const SalesRange = "Sales!A:G"

// SalesSink writes financial mirror records as spreadsheet rows.
type SalesSink struct {
	repo       Repository
	sheetRange string
}

// NewSalesSink builds a mirror sink over repo using SalesRange.
func NewSalesSink(repo Repository) *SalesSink {
	return &SalesSink{repo: repo, sheetRange: SalesRange}
}

// Emit appends one row for record.
func (s *SalesSink) Emit(ctx context.Context, record models.FinancialMirrorRecord) error {
	if err := s.repo.WriteRow(ctx, s.sheetRange, recordRow(record)); err != nil {
		return fmt.Errorf("write sales row for transaction %s: %w", record.SourceTransactionID, err)
	}
	return nil
}

func recordRow(record models.FinancialMirrorRecord) []interface{} {
	return []interface{}{
		record.Date,
		record.Counterparty,
		record.ItemName,
		record.Amount.String(),
		string(record.Direction),
		record.Notes,
		record.SourceTransactionID,
	}
}
