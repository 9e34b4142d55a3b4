package ledger

import (
	"slices"
	"strings"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// PricePolicy decides which transaction supplies an item's last unit price.
type PricePolicy string

const (
	// PriceByStoreOrder takes the price of the last transaction in store iteration order.
	PriceByStoreOrder PricePolicy = "store_order"
	// PriceByLatestDate takes the price of the transaction with the greatest date,
	// ties going to the later one in store order.
	PriceByLatestDate PricePolicy = "latest_date"
)

// ParsePricePolicy maps configuration input to a PricePolicy.
func ParsePricePolicy(value string) (PricePolicy, bool) {
	switch PricePolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", PriceByStoreOrder:
		return PriceByStoreOrder, true
	case PriceByLatestDate:
		return PriceByLatestDate, true
	default:
		return PriceByStoreOrder, false
	}
}

// Projection maps item keys to their projected stock.
type Projection map[string]models.ItemStockView

// Project folds the full transaction set into per-item stock using store order
// for the last unit price.
func Project(transactions []models.Transaction) Projection {
	return ProjectWith(transactions, PriceByStoreOrder)
}

// ProjectWith folds the transaction set once. IN and ADJUST quantities are
// added, OUT quantities subtracted. It never fails.
func ProjectWith(transactions []models.Transaction, policy PricePolicy) Projection {
	projection := make(Projection)
	priceDates := make(map[string]string)

	for _, tx := range transactions {
		key := tx.ItemKey()
		if key == "" {
			continue
		}

		view, seen := projection[key]
		if !seen {
			view = models.ItemStockView{
				ItemKey:     key,
				ItemCode:    strings.TrimSpace(tx.ItemCode),
				DisplayName: strings.TrimSpace(tx.ItemName),
				Unit:        tx.Unit,
			}
		}
		if view.DisplayName == "" {
			view.DisplayName = strings.TrimSpace(tx.ItemName)
		}
		if view.Unit == "" {
			view.Unit = tx.Unit
		}

		view.CurrentStock = view.CurrentStock.Add(tx.SignedQuantity())

		switch policy {
		case PriceByLatestDate:
			if !seen || tx.Date >= priceDates[key] {
				view.LastUnitPrice = tx.UnitPrice
				priceDates[key] = tx.Date
			}
		default:
			view.LastUnitPrice = tx.UnitPrice
		}

		projection[key] = view
	}

	for key, view := range projection {
		if view.DisplayName == "" {
			view.DisplayName = key
			projection[key] = view
		}
	}

	return projection
}

// Sorted returns the projected views ordered by item key.
func (p Projection) Sorted() []models.ItemStockView {
	views := make([]models.ItemStockView, 0, len(p))
	for _, view := range p {
		views = append(views, view)
	}
	slices.SortFunc(views, func(a, b models.ItemStockView) int {
		return strings.Compare(a.ItemKey, b.ItemKey)
	})
	return views
}
