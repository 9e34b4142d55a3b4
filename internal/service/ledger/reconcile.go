package ledger

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// ReconcileInput is an operator-supplied physical count.
type ReconcileInput struct {
	ItemKey     string
	ActualStock decimal.Decimal
	Date        string
	Notes       string
}

// adjustmentAudit is stored in the notes of every reconciliation adjustment.
type adjustmentAudit struct {
	SystemStock json.Number `json:"systemStock"`
	ActualStock json.Number `json:"actualStock"`
	Diff        json.Number `json:"diff"`
	Note        string      `json:"note,omitempty"`
}

// ledgerPort is the slice of the gateway the reconciler depends on.
type ledgerPort interface {
	Stock(ctx context.Context) (Projection, error)
	Add(ctx context.Context, tx models.Transaction) (AddResult, error)
}

// Reconciler turns a physical count into one corrective ADJUST transaction.
// It only ever adds; existing transactions for the item are left as they are.
type Reconciler struct {
	ledger ledgerPort
}

// NewReconciler wires a reconciler on top of a ledger gateway.
func NewReconciler(ledger ledgerPort) *Reconciler {
	return &Reconciler{ledger: ledger}
}

// Reconcile projects the live stock of the item, and when the count differs
// records the difference through the gateway. A matching count is rejected
// with models.ErrNothingToAdjust and writes nothing.
func (r *Reconciler) Reconcile(ctx context.Context, input ReconcileInput) (models.Transaction, error) {
	const op = "ledger.reconcile"

	key := strings.TrimSpace(input.ItemKey)
	if key == "" {
		return models.Transaction{}, models.NewValidationError(op, "item key is required")
	}

	projection, err := r.ledger.Stock(ctx)
	if err != nil {
		return models.Transaction{}, err
	}

	view, ok := projection[key]
	if !ok {
		view = models.ItemStockView{ItemKey: key, DisplayName: key}
	}

	adjustment, err := BuildAdjustment(view, input)
	if err != nil {
		return models.Transaction{}, err
	}

	result, err := r.ledger.Add(ctx, adjustment)
	if err != nil {
		return models.Transaction{}, err
	}
	return result.Transaction, nil
}

// BuildAdjustment computes diff = actual - system for view and returns the
// ADJUST transaction carrying it. It is pure and performs no write.
func BuildAdjustment(view models.ItemStockView, input ReconcileInput) (models.Transaction, error) {
	diff := input.ActualStock.Sub(view.CurrentStock)
	if diff.IsZero() {
		return models.Transaction{}, &models.LedgerError{
			Op:    "ledger.reconcile",
			Phase: models.PhaseValidation,
			Kind:  models.ErrValidation,
			Err:   models.ErrNothingToAdjust,
		}
	}

	notes, err := json.Marshal(adjustmentAudit{
		SystemStock: json.Number(view.CurrentStock.String()),
		ActualStock: json.Number(input.ActualStock.String()),
		Diff:        json.Number(diff.String()),
		Note:        strings.TrimSpace(input.Notes),
	})
	if err != nil {
		return models.Transaction{}, models.NewValidationError("ledger.reconcile", "encode audit note: %v", err)
	}

	tx := models.Transaction{
		Type:      models.TransactionAdjust,
		ItemName:  view.DisplayName,
		Quantity:  diff,
		Unit:      view.Unit,
		UnitPrice: view.LastUnitPrice,
		Date:      input.Date,
		Notes:     string(notes),
	}
	if view.ItemCode != "" {
		tx.ItemCode = view.ItemCode
	} else {
		tx.ItemName = view.ItemKey
	}
	tx.Recompute()
	return tx, nil
}
