package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/ledger"
)

// LedgerService is the gateway surface served over HTTP.
type LedgerService interface {
	Add(ctx context.Context, tx models.Transaction) (ledger.AddResult, error)
	Update(ctx context.Context, id string, patch models.TransactionPatch) (models.Transaction, error)
	Delete(ctx context.Context, id string) error
	Query(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	CurrentStock(ctx context.Context) ([]models.ItemStockView, error)
	Summaries(ctx context.Context, date string) (models.Summaries, error)
	Prefill(ctx context.Context, productID string, tx models.Transaction, priceSet bool) (models.Transaction, error)
}

// StockReconciler records physical counts.
type StockReconciler interface {
	Reconcile(ctx context.Context, input ledger.ReconcileInput) (models.Transaction, error)
}

// LedgerHandler exposes the transaction ledger as a JSON API.
type LedgerHandler struct {
	svc        LedgerService
	reconciler StockReconciler
	logger     *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc LedgerService, reconciler StockReconciler, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, reconciler: reconciler, logger: logger}
}

type createTransactionRequest struct {
	ProductID    string           `json:"product_id"`
	Type         string           `json:"type" validate:"omitempty,oneof=IN OUT ADJUST in out adjust"`
	ItemName     string           `json:"item_name"`
	ItemCode     string           `json:"item_code"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Unit         string           `json:"unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
	Date         string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Counterparty *string          `json:"counterparty"`
	Notes        string           `json:"notes"`
}

type updateTransactionRequest struct {
	Type         *string          `json:"type" validate:"omitempty,oneof=IN OUT ADJUST in out adjust"`
	ItemName     *string          `json:"item_name"`
	ItemCode     *string          `json:"item_code"`
	Quantity     *decimal.Decimal `json:"quantity"`
	Unit         *string          `json:"unit"`
	UnitPrice    *decimal.Decimal `json:"unit_price" validate:"omitempty,gte=0"`
	Date         *string          `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Counterparty *string          `json:"counterparty"`
	Notes        *string          `json:"notes"`
}

type listTransactionsQuery struct {
	From string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" validate:"omitempty,datetime=2006-01-02"`
	Type string `form:"type" validate:"omitempty,oneof=all in out adjust ALL IN OUT ADJUST"`
}

type reconcileRequest struct {
	ItemKey     string           `json:"item_key" validate:"required"`
	ActualStock *decimal.Decimal `json:"actual_stock" validate:"required"`
	Date        string           `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string           `json:"notes"`
}

type summariesQuery struct {
	Date string `form:"date" validate:"omitempty,datetime=2006-01-02"`
}

type mirrorResponse struct {
	Status ledger.MirrorStatus           `json:"status"`
	Record *models.FinancialMirrorRecord `json:"record,omitempty"`
	Error  string                        `json:"error,omitempty"`
}

type addTransactionResponse struct {
	Transaction models.Transaction `json:"transaction"`
	Mirror      mirrorResponse     `json:"mirror"`
}

// CreateTransaction adds one transaction, pre-filled from the catalog when product_id is set.
func (h *LedgerHandler) CreateTransaction(c *gin.Context) {
	var req createTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tx := models.Transaction{
		ItemName:     strings.TrimSpace(req.ItemName),
		ItemCode:     strings.TrimSpace(req.ItemCode),
		Quantity:     req.Quantity,
		Unit:         strings.TrimSpace(req.Unit),
		Date:         req.Date,
		Counterparty: normalizeCounterparty(req.Counterparty),
		Notes:        req.Notes,
	}
	if req.UnitPrice != nil {
		tx.UnitPrice = *req.UnitPrice
	}
	if t, ok := models.ParseTransactionType(req.Type); ok {
		tx.Type = t
	}

	ctx := c.Request.Context()

	if req.ProductID != "" {
		prefilled, err := h.svc.Prefill(ctx, req.ProductID, tx, req.UnitPrice != nil)
		if err != nil {
			writeError(c, h.logger, err)
			return
		}
		tx = prefilled
	}

	result, err := h.svc.Add(ctx, tx)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toAddResponse(result))
}

// UpdateTransaction applies a partial update to one transaction.
func (h *LedgerHandler) UpdateTransaction(c *gin.Context) {
	var req updateTransactionRequest
	if !bindAndValidate(c, &req) {
		return
	}

	patch := models.TransactionPatch{
		ItemName:     req.ItemName,
		ItemCode:     req.ItemCode,
		Quantity:     req.Quantity,
		Unit:         req.Unit,
		UnitPrice:    req.UnitPrice,
		Date:         req.Date,
		Counterparty: req.Counterparty,
		Notes:        req.Notes,
	}
	if req.Type != nil {
		t, _ := models.ParseTransactionType(*req.Type)
		patch.Type = &t
	}

	updated, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteTransaction removes one transaction.
func (h *LedgerHandler) DeleteTransaction(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListTransactions lists transactions by date range and type bucket.
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	var query listTransactionsQuery
	if !bindQueryAndValidate(c, &query) {
		return
	}

	bucket, _ := models.ParseTypeBucket(query.Type)
	transactions, err := h.svc.Query(c.Request.Context(), models.TransactionFilter{
		From:   query.From,
		To:     query.To,
		Bucket: bucket,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions, "count": len(transactions)})
}

// Stock returns the projected stock of every item.
func (h *LedgerHandler) Stock(c *gin.Context) {
	items, err := h.svc.CurrentStock(c.Request.Context())
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Reconcile records the physical count of one item as an ADJUST transaction.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	var req reconcileRequest
	if !bindAndValidate(c, &req) {
		return
	}

	adjustment, err := h.reconciler.Reconcile(c.Request.Context(), ledger.ReconcileInput{
		ItemKey:     req.ItemKey,
		ActualStock: *req.ActualStock,
		Date:        req.Date,
		Notes:       req.Notes,
	})
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, adjustment)
}

// Summaries returns the daily and monthly summaries of a date.
func (h *LedgerHandler) Summaries(c *gin.Context) {
	var query summariesQuery
	if !bindQueryAndValidate(c, &query) {
		return
	}

	summaries, err := h.svc.Summaries(c.Request.Context(), query.Date)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

func toAddResponse(result ledger.AddResult) addTransactionResponse {
	resp := addTransactionResponse{
		Transaction: result.Transaction,
		Mirror:      mirrorResponse{Status: result.Status, Record: result.Mirror},
	}
	if result.MirrorErr != nil {
		resp.Mirror.Error = result.MirrorErr.Error()
	}
	return resp
}

func normalizeCounterparty(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
