package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

const defaultUnit = "EA"

// Options tunes the gateway projections.
type Options struct {
	PricePolicy PricePolicy
	// Location is the business timezone of default dates. Nil means time.Local.
	Location    *time.Location
}

// MirrorStatus describes what happened to the financial mirror of an add.
type MirrorStatus string

const (
	MirrorNotApplicable MirrorStatus = "not_applicable"
	MirrorEmitted       MirrorStatus = "emitted"
	MirrorFailed        MirrorStatus = "failed"
	MirrorSkipped       MirrorStatus = "skipped"
)

// AddResult reports a successful primary write and the outcome of its mirror write.
type AddResult struct {
	Transaction models.Transaction
	Mirror      *models.FinancialMirrorRecord
	Status      MirrorStatus
	// MirrorErr is set when Status is MirrorFailed. It wraps models.ErrPartialSideEffect
	// and does not make the add itself fail.
	MirrorErr error
}

// Gateway orchestrates the transaction store and the financial mirror sink.
// It is the only ledger component that performs I/O; projections and
// summaries are recomputed from the live transaction set on every call.
type Gateway struct {
	store   TransactionStore
	mirror  MirrorSink
	catalog CatalogLookup
	opts    Options
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string
}

// NewGateway builds a gateway. mirror and catalog may be nil.
func NewGateway(store TransactionStore, mirror MirrorSink, catalog CatalogLookup, opts Options, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.PricePolicy == "" {
		opts.PricePolicy = PriceByStoreOrder
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Gateway{
		store:   store,
		mirror:  mirror,
		catalog: catalog,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Today returns the current date in the business timezone, in YYYY-MM-DD form.
func (g *Gateway) Today() string {
	return g.now().In(g.opts.Location).Format(models.DateLayout)
}

// Add persists tx and, for IN and OUT, emits one financial mirror record.
// A failed mirror write is reported on the result, never as an error.
func (g *Gateway) Add(ctx context.Context, tx models.Transaction) (AddResult, error) {
	const op = "ledger.add"

	if tx.Date == "" {
		tx.Date = g.Today()
	}
	if strings.TrimSpace(tx.Unit) == "" {
		tx.Unit = defaultUnit
	}
	tx.Recompute()

	saved, err := g.store.Add(ctx, tx)
	if err != nil {
		return AddResult{}, classify(op, err)
	}

	g.logger.Info("transaction recorded",
		zap.String("id", saved.ID),
		zap.String("type", string(saved.Type)),
		zap.String("item_key", saved.ItemKey()),
		zap.String("quantity", saved.Quantity.String()))

	result := AddResult{Transaction: saved, Status: MirrorNotApplicable}

	direction, ok := models.DirectionFor(saved.Type)
	if !ok {
		return result, nil
	}

	record := g.mirrorRecord(saved, direction)
	result.Mirror = &record

	if g.mirror == nil {
		result.Status = MirrorSkipped
		return result, nil
	}

	if err := g.mirror.Emit(ctx, record); err != nil {
		result.Status = MirrorFailed
		result.MirrorErr = models.NewPartialSideEffectError(op, err)
		g.logger.Warn("financial mirror write failed",
			zap.String("transaction_id", saved.ID),
			zap.String("direction", string(direction)),
			zap.Error(err))
		return result, nil
	}

	result.Status = MirrorEmitted
	return result, nil
}

// Update replaces the mutable fields of a transaction. Mirror records already
// emitted for it are left untouched.
func (g *Gateway) Update(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error) {
	updated, err := g.store.Update(ctx, id, patch)
	if err != nil {
		return models.Transaction{}, classify("ledger.update", err)
	}
	g.logger.Info("transaction updated", zap.String("id", id))
	return updated, nil
}

// Delete removes a transaction. It does not cascade to mirror records.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	if err := g.store.Delete(ctx, id); err != nil {
		return classify("ledger.delete", err)
	}
	g.logger.Info("transaction deleted", zap.String("id", id))
	return nil
}

// Query lists transactions by date range and type bucket.
func (g *Gateway) Query(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		return nil, models.NewValidationError("ledger.query", "from %s is after to %s", filter.From, filter.To)
	}
	transactions, err := g.store.List(ctx, filter)
	if err != nil {
		return nil, classify("ledger.query", err)
	}
	return transactions, nil
}

// Stock projects the full live transaction set.
func (g *Gateway) Stock(ctx context.Context) (Projection, error) {
	transactions, err := g.store.List(ctx, models.TransactionFilter{Bucket: models.BucketAll})
	if err != nil {
		return nil, classify("ledger.stock", err)
	}
	return ProjectWith(transactions, g.opts.PricePolicy), nil
}

// CurrentStock returns the projected stock of every item, sorted by item key.
func (g *Gateway) CurrentStock(ctx context.Context) ([]models.ItemStockView, error) {
	projection, err := g.Stock(ctx)
	if err != nil {
		return nil, err
	}
	return projection.Sorted(), nil
}

// Summaries computes the daily and monthly summaries for date (today when empty).
func (g *Gateway) Summaries(ctx context.Context, date string) (models.Summaries, error) {
	if date == "" {
		date = g.Today()
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return models.Summaries{}, models.NewValidationError("ledger.summaries", "date %q must use YYYY-MM-DD", date)
	}

	transactions, err := g.store.List(ctx, models.TransactionFilter{Bucket: models.BucketAll})
	if err != nil {
		return models.Summaries{}, classify("ledger.summaries", err)
	}

	return models.Summaries{
		Daily:   DailySummary(transactions, date),
		Monthly: MonthlySummary(transactions, date),
	}, nil
}

// Prefill fills the empty fields of tx from the catalog product productID.
// priceSet keeps tx.UnitPrice even when it is zero.
func (g *Gateway) Prefill(ctx context.Context, productID string, tx models.Transaction, priceSet bool) (models.Transaction, error) {
	const op = "ledger.prefill"

	if productID == "" {
		return tx, nil
	}
	if g.catalog == nil {
		return tx, &models.LedgerError{Op: op, Phase: models.PhaseCatalog, Kind: models.ErrValidation, Err: errors.New("product catalog is not configured")}
	}

	product, err := g.catalog.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return tx, &models.LedgerError{Op: op, Phase: models.PhaseCatalog, Kind: models.ErrValidation, Err: fmt.Errorf("product %s: %w", productID, err)}
		}
		return tx, &models.LedgerError{Op: op, Phase: models.PhaseCatalog, Kind: models.ErrPersistence, Err: err}
	}

	return ApplyProduct(tx, *product, priceSet), nil
}

// ApplyProduct copies catalog values into the fields tx leaves empty. The unit
// price is copied only when priceSet is false.
func ApplyProduct(tx models.Transaction, product models.Product, priceSet bool) models.Transaction {
	if strings.TrimSpace(tx.ItemName) == "" {
		tx.ItemName = product.Name
	}
	if strings.TrimSpace(tx.ItemCode) == "" {
		tx.ItemCode = product.Code
	}
	if strings.TrimSpace(tx.Unit) == "" {
		tx.Unit = product.Unit
	}
	if !priceSet {
		tx.UnitPrice = product.UnitPrice
	}
	if tx.Counterparty == nil && product.CounterpartyName != "" {
		name := product.CounterpartyName
		tx.Counterparty = &name
	}
	if tx.Type == "" {
		if t, ok := models.ParseTransactionType(product.DirectionHint); ok {
			tx.Type = t
		}
	}
	return tx
}

func (g *Gateway) mirrorRecord(tx models.Transaction, direction models.MirrorDirection) models.FinancialMirrorRecord {
	name := strings.TrimSpace(tx.ItemName)
	if name == "" {
		name = tx.ItemKey()
	}

	movement := "in"
	if direction == models.DirectionSale {
		movement = "out"
	}

	return models.FinancialMirrorRecord{
		ID:                  g.newID(),
		SourceTransactionID: tx.ID,
		Date:                tx.Date,
		Counterparty:        tx.CounterpartyName(),
		ItemName:            name,
		Amount:              tx.Quantity.Mul(tx.UnitPrice),
		Direction:           direction,
		Notes:               fmt.Sprintf("[auto] %s %s %s %s", name, tx.Quantity.String(), tx.Unit, movement),
		CreatedAt:           g.now().UTC(),
	}
}

// classify keeps annotated ledger errors and treats anything else as a store failure.
func classify(op string, err error) error {
	var le *models.LedgerError
	if errors.As(err, &le) {
		return err
	}
	return models.NewPersistenceError(op, err)
}
