package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary aggregates the IN and OUT amounts of a single day.
type DailySummary struct {
	Date           string          `json:"date"`
	InboundAmount  decimal.Decimal `json:"inbound_amount"`
	OutboundAmount decimal.Decimal `json:"outbound_amount"`
	Net            decimal.Decimal `json:"net"`
}

// MonthlySummary aggregates purchase and sales totals of a calendar month.
type MonthlySummary struct {
	Month         string          `json:"month"`
	PurchaseTotal decimal.Decimal `json:"purchase_total"`
	SalesTotal    decimal.Decimal `json:"sales_total"`
}

// Summaries bundles the daily and monthly views for one reference date.
type Summaries struct {
	Daily   DailySummary   `json:"daily"`
	Monthly MonthlySummary `json:"monthly"`
}

// DailyReport is the snapshot persisted by the scheduled report job.
type DailyReport struct {
	Date              string    `bson:"date" json:"date"`
	InboundAmount     float64   `bson:"inbound_amount" json:"inbound_amount"`
	OutboundAmount    float64   `bson:"outbound_amount" json:"outbound_amount"`
	Net               float64   `bson:"net" json:"net"`
	MonthPurchases    float64   `bson:"month_purchases" json:"month_purchases"`
	MonthSales        float64   `bson:"month_sales" json:"month_sales"`
	MirroredSales     float64   `bson:"mirrored_sales" json:"mirrored_sales"`
	MirroredPurchases float64   `bson:"mirrored_purchases" json:"mirrored_purchases"`
	ItemCount         int       `bson:"item_count" json:"item_count"`
	NegativeItems     []string  `bson:"negative_items" json:"negative_items"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
