package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
	"github.com/mamadbah2/stockledger/internal/repository/memory"
	"github.com/mamadbah2/stockledger/internal/repository/mongodb"
	"github.com/mamadbah2/stockledger/internal/repository/sheets"
	"github.com/mamadbah2/stockledger/internal/scheduler"
	"github.com/mamadbah2/stockledger/internal/server/handlers"
	"github.com/mamadbah2/stockledger/internal/server/router"
	"github.com/mamadbah2/stockledger/internal/service/ledger"
	reportingsvc "github.com/mamadbah2/stockledger/internal/service/reporting"
	"github.com/mamadbah2/stockledger/pkg/clients/catalog"
	"github.com/mamadbah2/stockledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	rules := models.ValidationRules{RequireItemCode: cfg.Ledger.RequireItemCode}
	policy, _ := ledger.ParsePricePolicy(cfg.Ledger.PricePolicy)
	location, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}

	var mongoRepo *mongodb.MongoDBRepository
	if cfg.NeedsMongoDB() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		mongoRepo, err = mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
	}

	var store ledger.TransactionStore
	switch cfg.Store.Driver {
	case config.StoreMemory:
		store = memory.NewTransactionStore(rules)
		baseLogger.Warn("using in-memory transaction store, data is lost on restart")
	default:
		transactions := mongoRepo.Transactions(rules)
		if err := transactions.EnsureIndexes(context.Background()); err != nil {
			baseLogger.Warn("failed to ensure transaction indexes", zap.Error(err))
		}
		store = transactions
	}

	var (
		mirror    ledger.MirrorSink
		sheetRepo sheets.Repository
	)
	switch cfg.Mirror.Sink {
	case config.MirrorSheets:
		googleSheets, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetRepo = googleSheets
		mirror = sheets.NewSalesSink(googleSheets)
	case config.MirrorMongoDB:
		mirror = mongoRepo.SalesRecords()
	default:
		baseLogger.Warn("financial mirror disabled")
	}

	var catalogLookup ledger.CatalogLookup
	if cfg.Catalog.BaseURL != "" {
		catalogLookup = catalog.NewClient(cfg.Catalog)
		baseLogger.Info("product catalog prefill enabled", zap.String("base_url", cfg.Catalog.BaseURL))
	}

	gateway := ledger.NewGateway(store, mirror, catalogLookup, ledger.Options{PricePolicy: policy, Location: location}, logger.Named(baseLogger, "svc.ledger"))
	reconciler := ledger.NewReconciler(gateway)

	var reports mongodb.ReportRepository
	if mongoRepo != nil {
		reports = mongoRepo
	}
	reportingSvc := reportingsvc.NewService(gateway, reports, sheetRepo, logger.Named(baseLogger, "svc.reporting"))

	ledgerHandler := handlers.NewLedgerHandler(gateway, reconciler, logger.Named(baseLogger, "handlers.ledger"))
	purchaseHandler := handlers.NewPurchaseHandler(gateway, cfg.Webhook.PurchaseToken, logger.Named(baseLogger, "handlers.purchase"))
	engine := router.New(ledgerHandler, purchaseHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver), zap.String("mirror", cfg.Mirror.Sink))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
