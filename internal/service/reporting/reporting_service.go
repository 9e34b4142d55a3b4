package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	mongorepo "github.com/mamadbah2/stockledger/internal/repository/mongodb"
	repo "github.com/mamadbah2/stockledger/internal/repository/sheets"
)

const dateLayout = models.DateLayout

// Ledger is the read side of the ledger gateway used by reports.
type Ledger interface {
	Summaries(ctx context.Context, date string) (models.Summaries, error)
	CurrentStock(ctx context.Context) ([]models.ItemStockView, error)
}

// Service builds the end-of-day ledger report.
type Service struct {
	ledger  Ledger
	reports mongorepo.ReportRepository
	sheet   repo.Repository
	logger  *zap.Logger
}

// NewService wires a reporting service. reports and sheet may be nil; without
// reports snapshots are not persisted and without sheet mirrored totals stay zero.
func NewService(ledger Ledger, reports mongorepo.ReportRepository, sheet repo.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger, reports: reports, sheet: sheet, logger: logger}
}

// GenerateDailyReport computes the report for the calendar day of now, saves it
// when a report repository is configured and returns it with its text rendering.
func (s *Service) GenerateDailyReport(ctx context.Context, now time.Time) (models.DailyReport, string, error) {
	date := now.Format(dateLayout)

	summaries, err := s.ledger.Summaries(ctx, date)
	if err != nil {
		return models.DailyReport{}, "", fmt.Errorf("load summaries: %w", err)
	}

	stock, err := s.ledger.CurrentStock(ctx)
	if err != nil {
		return models.DailyReport{}, "", fmt.Errorf("load stock: %w", err)
	}

	report := models.DailyReport{
		Date:           date,
		InboundAmount:  summaries.Daily.InboundAmount.InexactFloat64(),
		OutboundAmount: summaries.Daily.OutboundAmount.InexactFloat64(),
		Net:            summaries.Daily.Net.InexactFloat64(),
		MonthPurchases: summaries.Monthly.PurchaseTotal.InexactFloat64(),
		MonthSales:     summaries.Monthly.SalesTotal.InexactFloat64(),
		ItemCount:      len(stock),
		NegativeItems:  []string{},
		CreatedAt:      now.UTC(),
	}
	for _, view := range stock {
		if view.CurrentStock.IsNegative() {
			report.NegativeItems = append(report.NegativeItems, view.ItemKey)
		}
	}

	if s.sheet != nil {
		sales, purchases, err := s.MirroredTotals(ctx, date)
		if err != nil {
			s.logger.Warn("mirrored totals unavailable", zap.String("date", date), zap.Error(err))
		} else {
			report.MirroredSales = sales.InexactFloat64()
			report.MirroredPurchases = purchases.InexactFloat64()
		}
	}

	if s.reports != nil {
		if err := s.reports.SaveDailyReport(ctx, report); err != nil {
			return report, "", fmt.Errorf("save daily report: %w", err)
		}
	}

	return report, Render(report), nil
}

// MirroredTotals sums the sales and purchase rows of the mirror sheet for date.
// Rows with an unreadable date or amount are skipped.
func (s *Service) MirroredTotals(ctx context.Context, date string) (sales, purchases decimal.Decimal, err error) {
	rows, err := s.sheet.ReadRange(ctx, repo.SalesRange)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("load sales range: %w", err)
	}

	for _, row := range rows {
		if len(row) < 5 {
			continue
		}

		rowDate, err := parseDate(row[0])
		if err != nil {
			s.logger.Debug("skip sales row with invalid date", zap.Any("value", row[0]), zap.Error(err))
			continue
		}
		if rowDate.Format(dateLayout) != date {
			continue
		}

		amount, err := parseDecimal(row[3])
		if err != nil {
			s.logger.Debug("skip sales row with invalid amount", zap.Any("value", row[3]), zap.Error(err))
			continue
		}

		switch models.MirrorDirection(fmt.Sprint(row[4])) {
		case models.DirectionSale:
			sales = sales.Add(amount)
		case models.DirectionPurchase:
			purchases = purchases.Add(amount)
		}
	}

	return sales, purchases, nil
}

// Render formats a report as a short plain-text digest.
func Render(report models.DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Ledger report %s\n", report.Date)
	fmt.Fprintf(&b, "Inbound %.2f, outbound %.2f, net %.2f.\n", report.InboundAmount, report.OutboundAmount, report.Net)
	fmt.Fprintf(&b, "Month to date: purchases %.2f, sales %.2f.\n", report.MonthPurchases, report.MonthSales)
	fmt.Fprintf(&b, "%d items tracked.", report.ItemCount)
	if len(report.NegativeItems) > 0 {
		fmt.Fprintf(&b, " Negative stock: %s.", strings.Join(report.NegativeItems, ", "))
	}
	return b.String()
}

func parseDate(value interface{}) (time.Time, error) {
	str := fmt.Sprint(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	return time.Parse(dateLayout, str)
}

func parseDecimal(value interface{}) (decimal.Decimal, error) {
	str := strings.ReplaceAll(strings.TrimSpace(fmt.Sprint(value)), ",", "")
	if str == "" {
		return decimal.Zero, fmt.Errorf("empty numeric value")
	}
	return decimal.NewFromString(str)
}
