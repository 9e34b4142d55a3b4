package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
)

type recordingSink struct {
	records []models.FinancialMirrorRecord
	err     error
}

func (s *recordingSink) Emit(_ context.Context, record models.FinancialMirrorRecord) error {
	if s.err != nil {
		return s.err
	}
	s.records = append(s.records, record)
	return nil
}

type failingStore struct {
	memory.TransactionStore
	err error
}

func (s *failingStore) List(context.Context, models.TransactionFilter) ([]models.Transaction, error) {
	return nil, s.err
}

func (s *failingStore) Add(context.Context, models.Transaction) (models.Transaction, error) {
	return models.Transaction{}, s.err
}

type stubCatalog struct {
	products map[string]models.Product
	err      error
}

func (c stubCatalog) GetProduct(_ context.Context, id string) (*models.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	product, ok := c.products[id]
	if !ok {
		return nil, models.ErrProductNotFound
	}
	return &product, nil
}

func newTestGateway(sink MirrorSink, catalog CatalogLookup) *Gateway {
	g := NewGateway(memory.NewTransactionStore(models.ValidationRules{}), sink, catalog, Options{}, nil)
	g.now = func() time.Time { return time.Date(2026, 2, 15, 9, 30, 0, 0, time.UTC) }
	return g
}

func TestGatewayAddEmitsOneMirrorForInAndOut(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	g := newTestGateway(sink, nil)

	inResult, err := g.Add(ctx, entry(models.TransactionIn, "X", "10", "100", ""))
	require.NoError(t, err)
	assert.Equal(t, MirrorEmitted, inResult.Status)
	assert.Equal(t, "2026-02-15", inResult.Transaction.Date)

	outTx := entry(models.TransactionOut, "X", "3", "120", "2026-02-15")
	customer := "ACME"
	outTx.Counterparty = &customer
	outResult, err := g.Add(ctx, outTx)
	require.NoError(t, err)

	adjustResult, err := g.Add(ctx, entry(models.TransactionAdjust, "X", "-2", "100", "2026-02-15"))
	require.NoError(t, err)
	assert.Equal(t, MirrorNotApplicable, adjustResult.Status)
	assert.Nil(t, adjustResult.Mirror)

	require.Len(t, sink.records, 2)

	purchase := sink.records[0]
	assert.Equal(t, models.DirectionPurchase, purchase.Direction)
	assert.True(t, purchase.Amount.Equal(dec("1000")))
	assert.Equal(t, inResult.Transaction.ID, purchase.SourceTransactionID)
	assert.Equal(t, "[auto] item X 10 EA in", purchase.Notes)

	sale := sink.records[1]
	assert.Equal(t, models.DirectionSale, sale.Direction)
	assert.True(t, sale.Amount.Equal(dec("360")))
	assert.Equal(t, "ACME", sale.Counterparty)
	assert.Equal(t, outResult.Transaction.ID, sale.SourceTransactionID)
	assert.Equal(t, "[auto] item X 3 EA out", sale.Notes)
}

func TestGatewayAddSurvivesMirrorFailure(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{err: errors.New("sheet quota exceeded")}
	g := newTestGateway(sink, nil)

	result, err := g.Add(ctx, entry(models.TransactionOut, "X", "1", "5", "2026-02-15"))
	require.NoError(t, err)
	assert.Equal(t, MirrorFailed, result.Status)
	require.Error(t, result.MirrorErr)
	assert.True(t, errors.Is(result.MirrorErr, models.ErrPartialSideEffect))
	assert.Equal(t, models.PhaseMirrorWrite, models.PhaseOf(result.MirrorErr))

	transactions, err := g.Query(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, result.Transaction.ID, transactions[0].ID)
}

func TestGatewayAddWithoutSinkSkipsMirror(t *testing.T) {
	g := newTestGateway(nil, nil)

	result, err := g.Add(context.Background(), entry(models.TransactionIn, "X", "1", "5", ""))
	require.NoError(t, err)
	assert.Equal(t, MirrorSkipped, result.Status)
	require.NotNil(t, result.Mirror)
}

func TestGatewayAddDefaultsUnit(t *testing.T) {
	g := newTestGateway(nil, nil)
	tx := entry(models.TransactionIn, "X", "1", "5", "")
	tx.Unit = ""

	result, err := g.Add(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, "EA", result.Transaction.Unit)
}

func TestGatewayAddRejectsInvalidBeforeWrite(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	g := newTestGateway(sink, nil)

	_, err := g.Add(ctx, entry(models.TransactionIn, "X", "0", "5", ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, models.PhaseValidation, models.PhaseOf(err))

	stock, err := g.CurrentStock(ctx)
	require.NoError(t, err)
	assert.Empty(t, stock)
	assert.Empty(t, sink.records)
}

func TestGatewayDeleteKeepsMirrorRecords(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	g := newTestGateway(sink, nil)

	result, err := g.Add(ctx, entry(models.TransactionIn, "X", "10", "100", "2026-02-15"))
	require.NoError(t, err)

	require.NoError(t, g.Delete(ctx, result.Transaction.ID))

	stock, err := g.Stock(ctx)
	require.NoError(t, err)
	assert.NotContains(t, stock, "X")

	summaries, err := g.Summaries(ctx, "2026-02-15")
	require.NoError(t, err)
	assert.True(t, summaries.Monthly.PurchaseTotal.IsZero())

	require.Len(t, sink.records, 1)
}

func TestGatewayUpdateRecomputesAndLeavesMirror(t *testing.T) {
	ctx := context.Background()
	sink := &recordingSink{}
	g := newTestGateway(sink, nil)

	result, err := g.Add(ctx, entry(models.TransactionIn, "X", "10", "100", "2026-02-15"))
	require.NoError(t, err)

	qty := dec("4")
	updated, err := g.Update(ctx, result.Transaction.ID, models.TransactionPatch{Quantity: &qty})
	require.NoError(t, err)
	assert.True(t, updated.TotalAmount.Equal(dec("400")))

	require.Len(t, sink.records, 1)
	assert.True(t, sink.records[0].Amount.Equal(dec("1000")))

	current, err := g.Stock(ctx)
	require.NoError(t, err)
	assert.True(t, current["X"].CurrentStock.Equal(dec("4")))
}

func TestGatewayUpdateAndDeleteUnknownID(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(nil, nil)

	qty := dec("1")
	_, err := g.Update(ctx, "missing", models.TransactionPatch{Quantity: &qty})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = g.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))
	assert.False(t, errors.Is(err, models.ErrPersistence))
}

func TestGatewayQueryRejectsInvertedRange(t *testing.T) {
	_, err := newTestGateway(nil, nil).Query(context.Background(), models.TransactionFilter{From: "2026-02-10", To: "2026-02-01"})
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestGatewayStoreFailureIsPersistence(t *testing.T) {
	store := &failingStore{err: errors.New("connection refused")}
	g := NewGateway(store, nil, nil, Options{}, nil)

	_, err := g.CurrentStock(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrPersistence))
	assert.Equal(t, models.PhasePrimaryWrite, models.PhaseOf(err))

	_, err = g.Add(context.Background(), entry(models.TransactionIn, "X", "1", "1", ""))
	assert.True(t, errors.Is(err, models.ErrPersistence))
}

func TestGatewaySummariesDefaultToToday(t *testing.T) {
	ctx := context.Background()
	g := newTestGateway(nil, nil)

	_, err := g.Add(ctx, entry(models.TransactionIn, "X", "2", "50", ""))
	require.NoError(t, err)

	summaries, err := g.Summaries(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", summaries.Daily.Date)
	assert.True(t, summaries.Daily.InboundAmount.Equal(dec("100")))
	assert.Equal(t, "2026-02", summaries.Monthly.Month)

	_, err = g.Summaries(ctx, "15-02-2026")
	assert.True(t, errors.Is(err, models.ErrValidation))
}

func TestGatewayPrefill(t *testing.T) {
	ctx := context.Background()
	catalog := stubCatalog{products: map[string]models.Product{
		"p-1": {ID: "p-1", Name: "Bolt M8", Code: "B-M8", UnitPrice: dec("12"), Unit: "BOX", CounterpartyName: "Fasteners Ltd", DirectionHint: "in"},
	}}
	g := newTestGateway(nil, catalog)

	tx, err := g.Prefill(ctx, "p-1", models.Transaction{Quantity: dec("3"), Unit: "EA"}, false)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionIn, tx.Type)
	assert.Equal(t, "B-M8", tx.ItemCode)
	assert.Equal(t, "Bolt M8", tx.ItemName)
	assert.Equal(t, "EA", tx.Unit, "caller values win")
	assert.True(t, tx.UnitPrice.Equal(dec("12")))
	assert.Equal(t, "Fasteners Ltd", tx.CounterpartyName())

	_, err = g.Prefill(ctx, "p-404", models.Transaction{}, false)
	assert.True(t, errors.Is(err, models.ErrValidation))
	assert.Equal(t, models.PhaseCatalog, models.PhaseOf(err))
}

func TestGatewayPrefillKeepsExplicitZeroPrice(t *testing.T) {
	catalog := stubCatalog{products: map[string]models.Product{
		"p-1": {ID: "p-1", Code: "B-M8", UnitPrice: dec("12")},
	}}
	g := newTestGateway(nil, catalog)

	tx, err := g.Prefill(context.Background(), "p-1", models.Transaction{Quantity: dec("1")}, true)
	require.NoError(t, err)
	assert.True(t, tx.UnitPrice.IsZero())
	assert.Equal(t, "B-M8", tx.ItemCode)
}

func TestGatewayTodayUsesBusinessTimezone(t *testing.T) {
	seoul, err := time.LoadLocation("Asia/Seoul")
	require.NoError(t, err)

	store := memory.NewTransactionStore(models.ValidationRules{})
	g := NewGateway(store, nil, nil, Options{Location: seoul}, nil)
	g.now = func() time.Time { return time.Date(2026, 2, 14, 23, 30, 0, 0, time.UTC) }

	assert.Equal(t, "2026-02-15", g.Today())

	result, err := g.Add(context.Background(), entry(models.TransactionIn, "X", "1", "10", ""))
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", result.Transaction.Date)

	summaries, err := g.Summaries(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", summaries.Daily.Date)

	utc := NewGateway(store, nil, nil, Options{Location: time.UTC}, nil)
	utc.now = g.now
	assert.Equal(t, "2026-02-14", utc.Today())
}

func TestGatewayPrefillCatalogOutage(t *testing.T) {
	g := newTestGateway(nil, stubCatalog{err: errors.New("timeout")})

	_, err := g.Prefill(context.Background(), "p-1", models.Transaction{}, false)
	assert.True(t, errors.Is(err, models.ErrPersistence))
	assert.Equal(t, models.PhaseCatalog, models.PhaseOf(err))

	_, err = newTestGateway(nil, nil).Prefill(context.Background(), "p-1", models.Transaction{}, false)
	assert.True(t, errors.Is(err, models.ErrValidation))
}
