package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// DailySummary totals IN and OUT amounts of transactions dated exactly today.
func DailySummary(transactions []models.Transaction, today string) models.DailySummary {
	summary := models.DailySummary{Date: today}

	for _, tx := range transactions {
		if tx.Date != today {
			continue
		}
		switch tx.Type {
		case models.TransactionIn:
			summary.InboundAmount = summary.InboundAmount.Add(tx.TotalAmount)
		case models.TransactionOut:
			summary.OutboundAmount = summary.OutboundAmount.Add(tx.TotalAmount)
		}
	}

	summary.Net = summary.InboundAmount.Sub(summary.OutboundAmount)
	return summary
}

// MonthlySummary totals IN (purchases) and OUT (sales) amounts over the calendar
// month containing referenceDate.
func MonthlySummary(transactions []models.Transaction, referenceDate string) models.MonthlySummary {
	start, end, ok := monthBounds(referenceDate)
	if !ok {
		return models.MonthlySummary{}
	}

	summary := models.MonthlySummary{Month: referenceDate[:7]}
	purchases, sales := decimal.Zero, decimal.Zero

	for _, tx := range transactions {
		if tx.Date < start || tx.Date > end {
			continue
		}
		switch tx.Type {
		case models.TransactionIn:
			purchases = purchases.Add(tx.TotalAmount)
		case models.TransactionOut:
			sales = sales.Add(tx.TotalAmount)
		}
	}

	summary.PurchaseTotal = purchases
	summary.SalesTotal = sales
	return summary
}

// monthBounds returns the inclusive YYYY-MM-DD window of the month of date.
// Day 31 is a safe upper bound for every month under lexicographic comparison.
func monthBounds(date string) (string, string, bool) {
	if len(date) < 7 || date[4] != '-' {
		return "", "", false
	}
	month := date[:7]
	return month + "-01", month + "-31", true
}
