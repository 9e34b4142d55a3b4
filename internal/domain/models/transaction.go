package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the fixed-width calendar date format used by ledger entries.
const DateLayout = "2006-01-02"

// TransactionType enumerates supported inventory movements.
type TransactionType string

const (
	// TransactionIn represents an inbound movement (purchase, receipt).
	TransactionIn TransactionType = "IN"
	// TransactionOut represents an outbound movement (delivery, sale).
	TransactionOut TransactionType = "OUT"
	// TransactionAdjust carries a signed correction delta.
	TransactionAdjust TransactionType = "ADJUST"
)

// ParseTransactionType normalizes free-form input into a TransactionType.
func ParseTransactionType(value string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(value))) {
	case TransactionIn:
		return TransactionIn, true
	case TransactionOut:
		return TransactionOut, true
	case TransactionAdjust:
		return TransactionAdjust, true
	default:
		return "", false
	}
}

// Transaction is one persisted inventory movement.
//
// For IN and OUT the quantity is a magnitude. For ADJUST it is the signed
// delta to apply to the projected stock.
type Transaction struct {
	ID           string          `json:"id"`
	Type         TransactionType `json:"type"`
	ItemName     string          `json:"item_name"`
	ItemCode     string          `json:"item_code,omitempty"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Date         string          `json:"date"`
	Counterparty *string         `json:"counterparty,omitempty"`
	Notes        string          `json:"notes"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ItemKey returns the accumulation key: the item code when present, else the name.
func (t Transaction) ItemKey() string {
	if code := strings.TrimSpace(t.ItemCode); code != "" {
		return code
	}
	return strings.TrimSpace(t.ItemName)
}

// SignedQuantity returns the quantity as it contributes to the stock level.
func (t Transaction) SignedQuantity() decimal.Decimal {
	if t.Type == TransactionOut {
		return t.Quantity.Neg()
	}
	return t.Quantity
}

// CounterpartyName dereferences Counterparty, returning "" when unset.
func (t Transaction) CounterpartyName() string {
	if t.Counterparty == nil {
		return ""
	}
	return *t.Counterparty
}

// Recompute refreshes the redundant total amount from quantity and unit price.
func (t *Transaction) Recompute() {
	t.TotalAmount = t.Quantity.Mul(t.UnitPrice)
}

// ValidationRules tunes Validate.
type ValidationRules struct {
	RequireItemCode bool
}

// Validate checks that the transaction may be persisted.
func (t Transaction) Validate(rules ValidationRules) error {
	const op = "transaction.validate"

	switch t.Type {
	case TransactionIn, TransactionOut, TransactionAdjust:
	default:
		return NewValidationError(op, "unknown transaction type %q", t.Type)
	}

	if t.ItemKey() == "" {
		return NewValidationError(op, "item code or item name is required")
	}
	if rules.RequireItemCode && strings.TrimSpace(t.ItemCode) == "" {
		return NewValidationError(op, "item code is required")
	}

	if t.Type == TransactionAdjust {
		if t.Quantity.IsZero() {
			return NewValidationError(op, "adjustment quantity must be non zero")
		}
	} else if !t.Quantity.IsPositive() {
		return NewValidationError(op, "%s quantity must be greater than zero", t.Type)
	}

	if t.Date != "" {
		if _, err := time.Parse(DateLayout, t.Date); err != nil {
			return NewValidationError(op, "date %q must use YYYY-MM-DD", t.Date)
		}
	}

	return nil
}

// TransactionPatch lists the mutable fields of a transaction. Nil fields are left untouched.
type TransactionPatch struct {
	Type         *TransactionType
	ItemName     *string
	ItemCode     *string
	Quantity     *decimal.Decimal
	Unit         *string
	UnitPrice    *decimal.Decimal
	Date         *string
	Counterparty *string
	Notes        *string
}

// Apply returns a copy of tx with the patch applied and the total recomputed.
func (p TransactionPatch) Apply(tx Transaction) Transaction {
	if p.Type != nil {
		tx.Type = *p.Type
	}
	if p.ItemName != nil {
		tx.ItemName = *p.ItemName
	}
	if p.ItemCode != nil {
		tx.ItemCode = *p.ItemCode
	}
	if p.Quantity != nil {
		tx.Quantity = *p.Quantity
	}
	if p.Unit != nil {
		tx.Unit = *p.Unit
	}
	if p.UnitPrice != nil {
		tx.UnitPrice = *p.UnitPrice
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Counterparty != nil {
		if *p.Counterparty == "" {
			tx.Counterparty = nil
		} else {
			value := *p.Counterparty
			tx.Counterparty = &value
		}
	}
	if p.Notes != nil {
		tx.Notes = *p.Notes
	}
	tx.Recompute()
	return tx
}

// TypeBucket selects which transaction types a listing returns.
type TypeBucket string

const (
	BucketAll    TypeBucket = "all"
	BucketIn     TypeBucket = "in"
	BucketOut    TypeBucket = "out"
	BucketAdjust TypeBucket = "adjust"
)

// ParseTypeBucket maps query input to a bucket, defaulting to BucketAll.
func ParseTypeBucket(value string) (TypeBucket, bool) {
	switch TypeBucket(strings.ToLower(strings.TrimSpace(value))) {
	case "", BucketAll:
		return BucketAll, true
	case BucketIn:
		return BucketIn, true
	case BucketOut:
		return BucketOut, true
	case BucketAdjust:
		return BucketAdjust, true
	default:
		return BucketAll, false
	}
}

// Includes reports whether transactions of type t fall in the bucket.
func (b TypeBucket) Includes(t TransactionType) bool {
	switch b {
	case BucketIn:
		return t == TransactionIn
	case BucketOut:
		return t == TransactionOut
	case BucketAdjust:
		return t == TransactionAdjust
	default:
		return true
	}
}

// TransactionFilter is a stateless listing query. Empty dates leave that side open.
type TransactionFilter struct {
	From   string
	To     string
	Bucket TypeBucket
}

// Matches reports whether tx satisfies the filter. Dates compare lexicographically,
// which is chronological for YYYY-MM-DD.
func (f TransactionFilter) Matches(tx Transaction) bool {
	if !f.Bucket.Includes(tx.Type) {
		return false
	}
	if f.From != "" && tx.Date < f.From {
		return false
	}
	if f.To != "" && tx.Date > f.To {
		return false
	}
	return true
}
