package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/service/ledger"
)

func newTestEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)

	gateway := ledger.NewGateway(memory.NewTransactionStore(models.ValidationRules{}), nil, nil, ledger.Options{}, nil)
	return New(
		handlers.NewLedgerHandler(gateway, ledger.NewReconciler(gateway), nil),
		handlers.NewPurchaseHandler(gateway, "token", nil),
		nil,
	)
}

func TestRoutes(t *testing.T) {
	engine := newTestEngine()

	cases := []struct {
		method string
		path   string
		status int
	}{
		{method: http.MethodGet, path: "/healthz", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/transactions", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/stock", status: http.StatusOK},
		{method: http.MethodGet, path: "/api/v1/summaries?date=2026-02-15", status: http.StatusOK},
		{method: http.MethodDelete, path: "/api/v1/transactions/unknown", status: http.StatusNotFound},
		{method: http.MethodPost, path: "/webhooks/purchase-received", status: http.StatusUnauthorized},
		{method: http.MethodGet, path: "/webhook", status: http.StatusNotFound},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
	}
}
