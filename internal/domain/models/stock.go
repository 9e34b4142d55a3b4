package models

import "github.com/shopspring/decimal"

// ItemStockView is the projected stock of one item. It is derived on every
// request and never persisted.
type ItemStockView struct {
	ItemKey       string          `json:"item_key"`
	ItemCode      string          `json:"item_code,omitempty"`
	DisplayName   string          `json:"display_name"`
	Unit          string          `json:"unit"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	LastUnitPrice decimal.Decimal `json:"last_unit_price"`
}
