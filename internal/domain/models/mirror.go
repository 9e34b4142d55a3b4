package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MirrorDirection tells whether a financial mirror record is a sale or a purchase.
type MirrorDirection string

const (
	DirectionSale     MirrorDirection = "sale"
	DirectionPurchase MirrorDirection = "purchase"
)

// DirectionFor maps a transaction type to its mirror direction. ADJUST has none.
func DirectionFor(t TransactionType) (MirrorDirection, bool) {
	switch t {
	case TransactionOut:
		return DirectionSale, true
	case TransactionIn:
		return DirectionPurchase, true
	default:
		return "", false
	}
}

// FinancialMirrorRecord is the sales/purchase record emitted when an IN or OUT
// transaction is first added. It has its own lifecycle: later edits or deletes
// of the originating transaction never touch it.
type FinancialMirrorRecord struct {
	ID                  string          `json:"id"`
	SourceTransactionID string          `json:"source_transaction_id"`
	Date                string          `json:"date"`
	Counterparty        string          `json:"counterparty"`
	ItemName            string          `json:"item_name"`
	Amount              decimal.Decimal `json:"amount"`
	Direction           MirrorDirection `json:"direction"`
	Notes               string          `json:"notes"`
	CreatedAt           time.Time       `json:"created_at"`
}
