package mongodb

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// transactionDocument is the write shape of a ledger entry.
type transactionDocument struct {
	ID           string               `bson:"_id"`
	Type         string               `bson:"type"`
	ItemName     string               `bson:"item_name"`
	ItemCode     string               `bson:"item_code"`
	Quantity     primitive.Decimal128 `bson:"quantity"`
	Unit         string               `bson:"unit"`
	UnitPrice    primitive.Decimal128 `bson:"unit_price"`
	TotalAmount  primitive.Decimal128 `bson:"total_amount"`
	Date         string               `bson:"date"`
	Counterparty *string              `bson:"counterparty"`
	Notes        string               `bson:"notes"`
	CreatedAt    time.Time            `bson:"created_at"`
}

// storedTransaction is the read shape. Numeric fields stay raw so documents
// written by other clients with strings or doubles still decode.
type storedTransaction struct {
	ID           string        `bson:"_id"`
	Type         string        `bson:"type"`
	ItemName     string        `bson:"item_name"`
	ItemCode     string        `bson:"item_code"`
	Quantity     bson.RawValue `bson:"quantity"`
	Unit         string        `bson:"unit"`
	UnitPrice    bson.RawValue `bson:"unit_price"`
	TotalAmount  bson.RawValue `bson:"total_amount"`
	Date         string        `bson:"date"`
	Counterparty *string       `bson:"counterparty"`
	Notes        string        `bson:"notes"`
	CreatedAt    time.Time     `bson:"created_at"`
}

type salesRecordDocument struct {
	ID                  string               `bson:"_id"`
	SourceTransactionID string               `bson:"source_transaction_id"`
	Date                string               `bson:"date"`
	Counterparty        string               `bson:"counterparty"`
	ItemName            string               `bson:"item_name"`
	Amount              primitive.Decimal128 `bson:"amount"`
	Direction           string               `bson:"direction"`
	Notes               string               `bson:"notes"`
	CreatedAt           time.Time            `bson:"created_at"`
}

func toTransactionDocument(tx models.Transaction) transactionDocument {
	return transactionDocument{
		ID:           tx.ID,
		Type:         string(tx.Type),
		ItemName:     tx.ItemName,
		ItemCode:     tx.ItemCode,
		Quantity:     toDecimal128(tx.Quantity),
		Unit:         tx.Unit,
		UnitPrice:    toDecimal128(tx.UnitPrice),
		TotalAmount:  toDecimal128(tx.TotalAmount),
		Date:         tx.Date,
		Counterparty: tx.Counterparty,
		Notes:        tx.Notes,
		CreatedAt:    tx.CreatedAt,
	}
}

func (d storedTransaction) toModel() models.Transaction {
	return models.Transaction{
		ID:           d.ID,
		Type:         models.TransactionType(strings.ToUpper(d.Type)),
		ItemName:     d.ItemName,
		ItemCode:     d.ItemCode,
		Quantity:     decimalFromRaw(d.Quantity),
		Unit:         d.Unit,
		UnitPrice:    decimalFromRaw(d.UnitPrice),
		TotalAmount:  decimalFromRaw(d.TotalAmount),
		Date:         d.Date,
		Counterparty: d.Counterparty,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
	}
}

func toSalesRecordDocument(record models.FinancialMirrorRecord) salesRecordDocument {
	return salesRecordDocument{
		ID:                  record.ID,
		SourceTransactionID: record.SourceTransactionID,
		Date:                record.Date,
		Counterparty:        record.Counterparty,
		ItemName:            record.ItemName,
		Amount:              toDecimal128(record.Amount),
		Direction:           string(record.Direction),
		Notes:               record.Notes,
		CreatedAt:           record.CreatedAt,
	}
}

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	value, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return value
}

// decimalFromRaw reads any numeric BSON value. Missing or malformed values become zero.
func decimalFromRaw(value bson.RawValue) decimal.Decimal {
	if d, ok := value.Decimal128OK(); ok {
		parsed, err := decimal.NewFromString(d.String())
		if err != nil {
			return decimal.Zero
		}
		return parsed
	}
	if f, ok := value.DoubleOK(); ok {
		return decimal.NewFromFloat(f)
	}
	if i, ok := value.Int32OK(); ok {
		return decimal.NewFromInt32(i)
	}
	if i, ok := value.Int64OK(); ok {
		return decimal.NewFromInt(i)
	}
	if s, ok := value.StringValueOK(); ok {
		parsed, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return decimal.Zero
		}
		return parsed
	}
	return decimal.Zero
}
