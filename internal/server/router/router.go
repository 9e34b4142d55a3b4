package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(ledgerHandler *handlers.LedgerHandler, purchaseHandler *handlers.PurchaseHandler, logger *zap.Logger) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/transactions", ledgerHandler.CreateTransaction)
		api.GET("/transactions", ledgerHandler.ListTransactions)
		api.PUT("/transactions/:id", ledgerHandler.UpdateTransaction)
		api.DELETE("/transactions/:id", ledgerHandler.DeleteTransaction)
		api.GET("/stock", ledgerHandler.Stock)
		api.POST("/stock/reconcile", ledgerHandler.Reconcile)
		api.GET("/summaries", ledgerHandler.Summaries)
	}

	r.POST("/webhooks/purchase-received", purchaseHandler.Received)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
