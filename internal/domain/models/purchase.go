package models

import "github.com/shopspring/decimal"

// PurchaseStatusReceived is the terminal status of the purchase approval workflow
// that produces an inbound transaction.
const PurchaseStatusReceived = "received"

// PurchaseEvent is pushed by the purchase approval workflow on status changes.
type PurchaseEvent struct {
	RequestID    string          `json:"request_id" validate:"required"`
	Status       string          `json:"status" validate:"required"`
	ItemName     string          `json:"item_name" validate:"required_without=ItemCode"`
	ItemCode     string          `json:"item_code"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gt=0"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price" validate:"gte=0"`
	Supplier     string          `json:"supplier"`
	ReceivedDate string          `json:"received_date" validate:"omitempty,datetime=2006-01-02"`
}
