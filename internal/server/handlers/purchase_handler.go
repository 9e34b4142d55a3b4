package handlers

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/service/ledger"
)

// WebhookTokenHeader carries the shared secret of inbound webhooks.
const WebhookTokenHeader = "X-Webhook-Token"

// TransactionAdder records a new ledger entry.
type TransactionAdder interface {
	Add(ctx context.Context, tx models.Transaction) (ledger.AddResult, error)
}

// PurchaseHandler turns received purchase requests into IN transactions.
type PurchaseHandler struct {
	ledger TransactionAdder
	token  string
	logger *zap.Logger
}

// NewPurchaseHandler constructs the purchase webhook adapter.
func NewPurchaseHandler(adder TransactionAdder, token string, logger *zap.Logger) *PurchaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseHandler{ledger: adder, token: token, logger: logger}
}

// Received ingests purchase workflow status callbacks. Only the received
// status produces a transaction; other statuses are acknowledged.
func (h *PurchaseHandler) Received(c *gin.Context) {
	if !h.authorized(c.GetHeader(WebhookTokenHeader)) {
		h.logger.Warn("purchase webhook rejected: bad token", zap.String("client_ip", c.ClientIP()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid webhook token"})
		return
	}

	var event models.PurchaseEvent
	if !bindAndValidate(c, &event) {
		return
	}

	if !strings.EqualFold(event.Status, models.PurchaseStatusReceived) {
		h.logger.Debug("purchase event ignored", zap.String("request_id", event.RequestID), zap.String("status", event.Status))
		c.JSON(http.StatusAccepted, gin.H{"status": "ignored"})
		return
	}

	tx := models.Transaction{
		Type:      models.TransactionIn,
		ItemName:  strings.TrimSpace(event.ItemName),
		ItemCode:  strings.TrimSpace(event.ItemCode),
		Quantity:  event.Quantity,
		Unit:      strings.TrimSpace(event.Unit),
		UnitPrice: event.UnitPrice,
		Date:      event.ReceivedDate,
		Notes:     fmt.Sprintf("purchase request %s received", event.RequestID),
	}
	if supplier := strings.TrimSpace(event.Supplier); supplier != "" {
		tx.Counterparty = &supplier
	}

	result, err := h.ledger.Add(c.Request.Context(), tx)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	h.logger.Info("purchase received recorded",
		zap.String("request_id", event.RequestID),
		zap.String("transaction_id", result.Transaction.ID))

	c.JSON(http.StatusCreated, toAddResponse(result))
}

func (h *PurchaseHandler) authorized(given string) bool {
	if h.token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(given), []byte(h.token)) == 1
}
