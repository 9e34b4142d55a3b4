package models

import "github.com/shopspring/decimal"

// Product is the subset of the product catalog used to pre-fill new transactions.
type Product struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Code             string          `json:"code"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Unit             string          `json:"unit"`
	CounterpartyName string          `json:"counterparty_name"`
	DirectionHint    string          `json:"direction_hint"`
	Status           string          `json:"status"`
}
